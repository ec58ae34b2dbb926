package views

import (
	"testing"
	"time"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
)

func TestFoldersDistinctSortedWithSentinel(t *testing.T) {
	notes := []models.Note{
		{ClassName: "Physics"},
		{ClassName: " Biology "},
		{ClassName: "Physics"},
		{ClassName: ""},
		{ClassName: "   "},
	}

	got := Folders(notes)
	want := []string{"all", "Biology", "Physics"}
	if len(got) != len(want) {
		t.Fatalf("Folders() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Folders()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFilterNotesByFolder(t *testing.T) {
	notes := []models.Note{
		{ID: "a", ClassName: "Physics"},
		{ID: "b", ClassName: " Physics "},
		{ID: "c", ClassName: "Biology"},
		{ID: "d", ClassName: ""},
	}

	got := FilterNotes(notes, "Physics", "")
	if len(got) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(got))
	}
	for _, n := range got {
		if n.Folder() != "Physics" {
			t.Errorf("note %s has folder %q, want Physics", n.ID, n.Folder())
		}
	}

	if got := FilterNotes(notes, AllFolders, ""); len(got) != 4 {
		t.Errorf("all sentinel returned %d notes, want 4", len(got))
	}
}

func TestFilterNotesBySearch(t *testing.T) {
	notes := []models.Note{
		{ID: "a", Title: "Thermodynamics", ClassName: "Physics", Body: "entropy always wins"},
		{ID: "b", Title: "Cells", ClassName: "Biology", Body: "mitochondria"},
	}

	got := FilterNotes(notes, AllFolders, "ENTROPY")
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("search by body failed: %v", got)
	}

	got = FilterNotes(notes, AllFolders, "biology")
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("search by folder label failed: %v", got)
	}

	if got := FilterNotes(notes, AllFolders, "quantum"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}

	// The haystack is title+className+body concatenated directly, so a
	// needle spanning a field boundary matches.
	got = FilterNotes(notes, AllFolders, "cellsbiology")
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("boundary-spanning search failed: %v", got)
	}
}

func TestFilterNotesSortPinnedFirstThenUpdated(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	notes := []models.Note{
		{ID: "old", UpdatedAt: base.Add(-time.Hour)},
		{ID: "never"}, // zero UpdatedAt sorts as oldest
		{ID: "pinned-old", Pinned: true, UpdatedAt: base.Add(-2 * time.Hour)},
		{ID: "new", UpdatedAt: base},
		{ID: "pinned-new", Pinned: true, UpdatedAt: base},
	}

	got := FilterNotes(notes, AllFolders, "")
	want := []string{"pinned-new", "pinned-old", "new", "old", "never"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s (order: %v)", i, got[i].ID, id, ids(got))
		}
	}
}

func ids(notes []models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestTasksByDate(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Due: "2026-03-10"},
		{ID: "2", Due: "2026-03-10"},
		{ID: "3", Due: "2026-03-11"},
		{ID: "4", Due: ""},
		{ID: "5", Due: "not-a-date"},
	}

	byDate := TasksByDate(tasks)
	if len(byDate) != 2 {
		t.Fatalf("expected 2 dates, got %d: %v", len(byDate), byDate)
	}
	if got := byDate["2026-03-10"]; len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("2026-03-10 = %v", got)
	}
	if got := byDate["2026-03-11"]; len(got) != 1 || got[0].ID != "3" {
		t.Errorf("2026-03-11 = %v", got)
	}
}

func TestAllDone(t *testing.T) {
	if !AllDone([]models.Task{{Done: true}, {Done: true}}) {
		t.Error("expected all done")
	}
	if AllDone([]models.Task{{Done: true}, {Done: false}}) {
		t.Error("expected not all done")
	}
	if !AllDone(nil) {
		t.Error("empty day counts as done")
	}
}

func TestStudyDeck(t *testing.T) {
	cards := []models.Flashcard{
		{ID: "1", NoteID: "note-a"},
		{ID: "2", NoteID: "note-b"},
		{ID: "3", NoteID: "note-a"},
	}

	if got := StudyDeck(cards, false, "note-a"); len(got) != 3 {
		t.Errorf("full deck = %d cards, want 3", len(got))
	}
	got := StudyDeck(cards, true, "note-a")
	if len(got) != 2 {
		t.Fatalf("filtered deck = %d cards, want 2", len(got))
	}
	for _, card := range got {
		if card.NoteID != "note-a" {
			t.Errorf("card %s references %s", card.ID, card.NoteID)
		}
	}
}
