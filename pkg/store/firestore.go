package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
)

// FirestoreStore keeps each user's documents under
// users/{uid}/notes|tasks|flashcards subcollections. Live subscriptions use
// Firestore snapshot listeners, so every remote change delivers the whole
// re-ordered collection.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) notes(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("notes")
}

func (s *FirestoreStore) tasks(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("tasks")
}

func (s *FirestoreStore) cards(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("flashcards")
}

// resolveFields swaps the backend-neutral ServerTimestamp sentinel for
// Firestore's own.
func resolveFields(f Fields) map[string]interface{} {
	out := make(map[string]interface{}, len(f))
	for k, v := range f {
		if _, server := v.(serverTimestamp); server {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

func (s *FirestoreStore) CreateNote(ctx context.Context, uid string, n models.Note) (string, error) {
	ref := s.notes(uid).NewDoc()
	_, err := ref.Set(ctx, map[string]interface{}{
		FieldTitle:     n.Title,
		FieldClassName: n.ClassName,
		FieldBody:      n.Body,
		FieldPinned:    n.Pinned,
		"createdAt":    firestore.ServerTimestamp,
		FieldUpdatedAt: firestore.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) SaveNoteFields(ctx context.Context, uid, id string, f Fields) error {
	_, err := s.notes(uid).Doc(id).Set(ctx, resolveFields(f), firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("save note %s: %w", id, err)
	}
	return nil
}

func (s *FirestoreStore) DeleteNote(ctx context.Context, uid, id string) error {
	if _, err := s.notes(uid).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}

func (s *FirestoreStore) ListNotes(ctx context.Context, uid string) ([]models.Note, error) {
	it := s.notes(uid).OrderBy(FieldUpdatedAt, firestore.Desc).Documents(ctx)
	defer it.Stop()
	var out []models.Note
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list notes: %w", err)
		}
		var n models.Note
		if err := doc.DataTo(&n); err != nil {
			return nil, fmt.Errorf("decode note %s: %w", doc.Ref.ID, err)
		}
		n.ID = doc.Ref.ID
		n.OwnerID = uid
		out = append(out, n)
	}
	return out, nil
}

func (s *FirestoreStore) WatchNotes(ctx context.Context, uid string) (<-chan []models.Note, error) {
	out := make(chan []models.Note, 1)
	query := s.notes(uid).OrderBy(FieldUpdatedAt, firestore.Desc)
	go func() {
		defer close(out)
		watchWithBackoff(ctx, "notes", func(ctx context.Context, healthy func()) error {
			it := query.Snapshots(ctx)
			defer it.Stop()
			for {
				snap, err := it.Next()
				if err != nil {
					return err
				}
				var notes []models.Note
				docs := snap.Documents
				for {
					doc, err := docs.Next()
					if err == iterator.Done {
						break
					}
					if err != nil {
						return err
					}
					var n models.Note
					if err := doc.DataTo(&n); err != nil {
						return err
					}
					n.ID = doc.Ref.ID
					n.OwnerID = uid
					notes = append(notes, n)
				}
				healthy()
				select {
				case out <- notes:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}()
	return out, nil
}

func (s *FirestoreStore) CreateTask(ctx context.Context, uid string, t models.Task) (string, error) {
	ref := s.tasks(uid).NewDoc()
	_, err := ref.Set(ctx, map[string]interface{}{
		FieldTitle:     t.Title,
		FieldClassName: t.ClassName,
		FieldDue:       t.Due,
		FieldDone:      t.Done,
		"createdAt":    firestore.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) SaveTaskFields(ctx context.Context, uid, id string, f Fields) error {
	_, err := s.tasks(uid).Doc(id).Set(ctx, resolveFields(f), firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("save task %s: %w", id, err)
	}
	return nil
}

func (s *FirestoreStore) DeleteTask(ctx context.Context, uid, id string) error {
	if _, err := s.tasks(uid).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func (s *FirestoreStore) ListTasks(ctx context.Context, uid string) ([]models.Task, error) {
	it := s.tasks(uid).OrderBy(FieldDue, firestore.Asc).Documents(ctx)
	defer it.Stop()
	var out []models.Task
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		var t models.Task
		if err := doc.DataTo(&t); err != nil {
			return nil, fmt.Errorf("decode task %s: %w", doc.Ref.ID, err)
		}
		t.ID = doc.Ref.ID
		t.OwnerID = uid
		out = append(out, t)
	}
	return out, nil
}

func (s *FirestoreStore) WatchTasks(ctx context.Context, uid string) (<-chan []models.Task, error) {
	out := make(chan []models.Task, 1)
	query := s.tasks(uid).OrderBy(FieldDue, firestore.Asc)
	go func() {
		defer close(out)
		watchWithBackoff(ctx, "tasks", func(ctx context.Context, healthy func()) error {
			it := query.Snapshots(ctx)
			defer it.Stop()
			for {
				snap, err := it.Next()
				if err != nil {
					return err
				}
				var tasks []models.Task
				docs := snap.Documents
				for {
					doc, err := docs.Next()
					if err == iterator.Done {
						break
					}
					if err != nil {
						return err
					}
					var t models.Task
					if err := doc.DataTo(&t); err != nil {
						return err
					}
					t.ID = doc.Ref.ID
					t.OwnerID = uid
					tasks = append(tasks, t)
				}
				healthy()
				select {
				case out <- tasks:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}()
	return out, nil
}

func (s *FirestoreStore) AddFlashcards(ctx context.Context, uid string, cards []models.Flashcard) (int, error) {
	saved := 0
	for _, card := range cards {
		ref := s.cards(uid).NewDoc()
		_, err := ref.Set(ctx, map[string]interface{}{
			"noteId":    card.NoteID,
			"noteTitle": card.NoteTitle,
			"question":  card.Question,
			"answer":    card.Answer,
			"createdAt": firestore.ServerTimestamp,
		})
		if err != nil {
			return saved, fmt.Errorf("add flashcard: %w", err)
		}
		saved++
	}
	return saved, nil
}

func (s *FirestoreStore) ListFlashcards(ctx context.Context, uid string) ([]models.Flashcard, error) {
	it := s.cards(uid).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer it.Stop()
	var out []models.Flashcard
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list flashcards: %w", err)
		}
		var card models.Flashcard
		if err := doc.DataTo(&card); err != nil {
			return nil, fmt.Errorf("decode flashcard %s: %w", doc.Ref.ID, err)
		}
		card.ID = doc.Ref.ID
		card.OwnerID = uid
		out = append(out, card)
	}
	return out, nil
}

func (s *FirestoreStore) WatchFlashcards(ctx context.Context, uid string) (<-chan []models.Flashcard, error) {
	out := make(chan []models.Flashcard, 1)
	query := s.cards(uid).OrderBy("createdAt", firestore.Desc)
	go func() {
		defer close(out)
		watchWithBackoff(ctx, "flashcards", func(ctx context.Context, healthy func()) error {
			it := query.Snapshots(ctx)
			defer it.Stop()
			for {
				snap, err := it.Next()
				if err != nil {
					return err
				}
				var cards []models.Flashcard
				docs := snap.Documents
				for {
					doc, err := docs.Next()
					if err == iterator.Done {
						break
					}
					if err != nil {
						return err
					}
					var card models.Flashcard
					if err := doc.DataTo(&card); err != nil {
						return err
					}
					card.ID = doc.Ref.ID
					card.OwnerID = uid
					cards = append(cards, card)
				}
				healthy()
				select {
				case out <- cards:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}()
	return out, nil
}

var _ Store = (*FirestoreStore)(nil)
