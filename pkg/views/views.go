// Package views holds the pure projections the UI renders from the mirrored
// collections. Nothing here mutates state; every function recomputes from its
// inputs.
package views

import (
	"sort"
	"strings"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
)

// AllFolders is the sentinel folder meaning "no folder filter".
const AllFolders = "all"

// Folders returns the distinct non-empty trimmed class names across all
// notes, alphabetically ordered and prefixed with the "all" sentinel.
func Folders(notes []models.Note) []string {
	seen := make(map[string]bool)
	for _, n := range notes {
		if folder := n.Folder(); folder != "" {
			seen[folder] = true
		}
	}
	out := make([]string, 0, len(seen)+1)
	for folder := range seen {
		out = append(out, folder)
	}
	sort.Strings(out)
	return append([]string{AllFolders}, out...)
}

// FilterNotes keeps notes in the selected folder (or all) that match the
// search string, then sorts pinned-first and most-recently-updated within
// equal pinned status. Notes never updated sort as oldest.
func FilterNotes(notes []models.Note, folder, search string) []models.Note {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if folder != "" && folder != AllFolders && n.Folder() != folder {
			continue
		}
		if needle != "" {
			haystack := strings.ToLower(n.Title + n.ClassName + n.Body)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// TasksByDate maps each due-date string to the tasks sharing it, preserving
// input order, in a single pass. Tasks without a valid due date are excluded.
func TasksByDate(tasks []models.Task) map[string][]models.Task {
	out := make(map[string][]models.Task)
	for _, t := range tasks {
		if !t.HasDue() {
			continue
		}
		out[t.Due] = append(out[t.Due], t)
	}
	return out
}

// AllDone reports whether every task in the slice is done. The calendar dot
// renders green when true, amber when any task is still open.
func AllDone(tasks []models.Task) bool {
	for _, t := range tasks {
		if !t.Done {
			return false
		}
	}
	return true
}

// StudyDeck returns the flashcards to study: the whole list, or only the
// cards referencing the active note when the toggle is set.
func StudyDeck(cards []models.Flashcard, onlyActive bool, activeNoteID string) []models.Flashcard {
	if !onlyActive {
		return cards
	}
	out := make([]models.Flashcard, 0, len(cards))
	for _, card := range cards {
		if card.NoteID == activeNoteID {
			out = append(out, card)
		}
	}
	return out
}
