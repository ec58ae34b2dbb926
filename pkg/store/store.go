// Package store abstracts the per-user document collections backing the
// study organizer: notes, tasks and flashcards. Two remote backends are
// provided (Firestore and MongoDB) plus an in-memory one for tests and
// single-process development. Consistency is the backend's own: every write
// is a whole-document or merge write, last write wins.
package store

import (
	"context"
	"log"
	"time"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
)

// Canonical field names shared by all backends. They match the wire names of
// the document collections, so merge-writes look identical everywhere.
const (
	FieldTitle     = "title"
	FieldClassName = "className"
	FieldBody      = "body"
	FieldPinned    = "pinned"
	FieldDue       = "due"
	FieldDone      = "done"
	FieldUpdatedAt = "updatedAt"
)

// Fields is the payload of a merge-write: only the named fields are touched.
type Fields map[string]interface{}

type serverTimestamp struct{}

// ServerTimestamp marks a merge-write field to be filled with the backend's
// server-assigned time, so clients never stamp documents with local clocks.
var ServerTimestamp = serverTimestamp{}

// Store is the document store a user session works against.
//
// Watch methods deliver the entire ordered collection on every remote change
// (snapshot replacement, not patches). The channel closes when ctx is
// canceled; remote backends retry failed subscriptions internally with
// exponential backoff rather than surfacing errors to the consumer.
// Ordering: notes by most-recently-updated descending, tasks by due date
// ascending, flashcards by creation time descending.
type Store interface {
	CreateNote(ctx context.Context, uid string, n models.Note) (string, error)
	SaveNoteFields(ctx context.Context, uid, id string, f Fields) error
	DeleteNote(ctx context.Context, uid, id string) error
	ListNotes(ctx context.Context, uid string) ([]models.Note, error)
	WatchNotes(ctx context.Context, uid string) (<-chan []models.Note, error)

	CreateTask(ctx context.Context, uid string, t models.Task) (string, error)
	SaveTaskFields(ctx context.Context, uid, id string, f Fields) error
	DeleteTask(ctx context.Context, uid, id string) error
	ListTasks(ctx context.Context, uid string) ([]models.Task, error)
	WatchTasks(ctx context.Context, uid string) (<-chan []models.Task, error)

	AddFlashcards(ctx context.Context, uid string, cards []models.Flashcard) (int, error)
	ListFlashcards(ctx context.Context, uid string) ([]models.Flashcard, error)
	WatchFlashcards(ctx context.Context, uid string) (<-chan []models.Flashcard, error)
}

const (
	watchBackoffMin = time.Second
	watchBackoffMax = 30 * time.Second
)

// watchWithBackoff reruns a failed subscription until ctx is canceled,
// doubling the delay between attempts up to a cap. run calls healthy() after
// each delivered snapshot, which resets the delay.
func watchWithBackoff(ctx context.Context, name string, run func(ctx context.Context, healthy func()) error) {
	delay := watchBackoffMin
	healthy := func() { delay = watchBackoffMin }
	for {
		err := run(ctx, healthy)
		if ctx.Err() != nil {
			return
		}
		log.Printf("[Store] %s watch failed: %v (retrying in %s)", name, err, delay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > watchBackoffMax {
			delay = watchBackoffMax
		}
	}
}
