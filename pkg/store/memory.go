package store

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
)

// MemoryStore is the in-process Store variant. It backs tests and a
// single-user dev mode; snapshots are delivered with the same whole-list
// replacement semantics as the remote backends.
type MemoryStore struct {
	mu        sync.Mutex
	failWrite error

	notes map[string]map[string]models.Note
	tasks map[string]map[string]models.Task
	cards map[string]map[string]models.Flashcard

	noteSubs []*memSub[models.Note]
	taskSubs []*memSub[models.Task]
	cardSubs []*memSub[models.Flashcard]
}

type memSub[T any] struct {
	uid string
	ch  chan []T
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notes: make(map[string]map[string]models.Note),
		tasks: make(map[string]map[string]models.Task),
		cards: make(map[string]map[string]models.Flashcard),
	}
}

// FailWrites makes every subsequent mutation return err. Pass nil to heal.
// Reads and watches are unaffected.
func (s *MemoryStore) FailWrites(err error) {
	s.mu.Lock()
	s.failWrite = err
	s.mu.Unlock()
}

func (s *MemoryStore) CreateNote(ctx context.Context, uid string, n models.Note) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return "", s.failWrite
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.OwnerID = uid
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	if s.notes[uid] == nil {
		s.notes[uid] = make(map[string]models.Note)
	}
	s.notes[uid][n.ID] = n
	s.emitNotes(uid)
	return n.ID, nil
}

func (s *MemoryStore) SaveNoteFields(ctx context.Context, uid, id string, f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	n, ok := s.notes[uid][id]
	if !ok {
		// Merge-write semantics: an upsert against an unknown document
		// creates it, matching the remote backends.
		n = models.Note{ID: id, OwnerID: uid, CreatedAt: time.Now()}
	}
	now := time.Now()
	for k, v := range f {
		switch k {
		case FieldTitle:
			n.Title, _ = v.(string)
		case FieldClassName:
			n.ClassName, _ = v.(string)
		case FieldBody:
			n.Body, _ = v.(string)
		case FieldPinned:
			n.Pinned, _ = v.(bool)
		case FieldUpdatedAt:
			if _, server := v.(serverTimestamp); server {
				n.UpdatedAt = now
			} else if t, ok := v.(time.Time); ok {
				n.UpdatedAt = t
			}
		}
	}
	if s.notes[uid] == nil {
		s.notes[uid] = make(map[string]models.Note)
	}
	s.notes[uid][id] = n
	s.emitNotes(uid)
	return nil
}

func (s *MemoryStore) DeleteNote(ctx context.Context, uid, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	delete(s.notes[uid], id)
	s.emitNotes(uid)
	return nil
}

func (s *MemoryStore) ListNotes(ctx context.Context, uid string) ([]models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotNotes(uid), nil
}

func (s *MemoryStore) WatchNotes(ctx context.Context, uid string) (<-chan []models.Note, error) {
	s.mu.Lock()
	sub := &memSub[models.Note]{uid: uid, ch: make(chan []models.Note, 64)}
	s.noteSubs = append(s.noteSubs, sub)
	sub.ch <- s.snapshotNotes(uid)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		for i, candidate := range s.noteSubs {
			if candidate == sub {
				s.noteSubs = append(s.noteSubs[:i], s.noteSubs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		close(sub.ch)
	}()
	return sub.ch, nil
}

func (s *MemoryStore) CreateTask(ctx context.Context, uid string, t models.Task) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return "", s.failWrite
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.OwnerID = uid
	t.CreatedAt = time.Now()
	if s.tasks[uid] == nil {
		s.tasks[uid] = make(map[string]models.Task)
	}
	s.tasks[uid][t.ID] = t
	s.emitTasks(uid)
	return t.ID, nil
}

func (s *MemoryStore) SaveTaskFields(ctx context.Context, uid, id string, f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	t, ok := s.tasks[uid][id]
	if !ok {
		t = models.Task{ID: id, OwnerID: uid, CreatedAt: time.Now()}
	}
	for k, v := range f {
		switch k {
		case FieldTitle:
			t.Title, _ = v.(string)
		case FieldClassName:
			t.ClassName, _ = v.(string)
		case FieldDue:
			t.Due, _ = v.(string)
		case FieldDone:
			t.Done, _ = v.(bool)
		}
	}
	if s.tasks[uid] == nil {
		s.tasks[uid] = make(map[string]models.Task)
	}
	s.tasks[uid][id] = t
	s.emitTasks(uid)
	return nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, uid, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	delete(s.tasks[uid], id)
	s.emitTasks(uid)
	return nil
}

func (s *MemoryStore) ListTasks(ctx context.Context, uid string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotTasks(uid), nil
}

func (s *MemoryStore) WatchTasks(ctx context.Context, uid string) (<-chan []models.Task, error) {
	s.mu.Lock()
	sub := &memSub[models.Task]{uid: uid, ch: make(chan []models.Task, 64)}
	s.taskSubs = append(s.taskSubs, sub)
	sub.ch <- s.snapshotTasks(uid)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		for i, candidate := range s.taskSubs {
			if candidate == sub {
				s.taskSubs = append(s.taskSubs[:i], s.taskSubs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		close(sub.ch)
	}()
	return sub.ch, nil
}

func (s *MemoryStore) AddFlashcards(ctx context.Context, uid string, cards []models.Flashcard) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return 0, s.failWrite
	}
	if s.cards[uid] == nil {
		s.cards[uid] = make(map[string]models.Flashcard)
	}
	now := time.Now()
	for i, card := range cards {
		if card.ID == "" {
			card.ID = uuid.NewString()
		}
		card.OwnerID = uid
		// Offset keeps creation order stable under the createdAt sort.
		card.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		s.cards[uid][card.ID] = card
	}
	s.emitCards(uid)
	return len(cards), nil
}

func (s *MemoryStore) ListFlashcards(ctx context.Context, uid string) ([]models.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotCards(uid), nil
}

func (s *MemoryStore) WatchFlashcards(ctx context.Context, uid string) (<-chan []models.Flashcard, error) {
	s.mu.Lock()
	sub := &memSub[models.Flashcard]{uid: uid, ch: make(chan []models.Flashcard, 64)}
	s.cardSubs = append(s.cardSubs, sub)
	sub.ch <- s.snapshotCards(uid)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		for i, candidate := range s.cardSubs {
			if candidate == sub {
				s.cardSubs = append(s.cardSubs[:i], s.cardSubs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		close(sub.ch)
	}()
	return sub.ch, nil
}

// snapshot/emit helpers. Callers hold s.mu.

func (s *MemoryStore) snapshotNotes(uid string) []models.Note {
	out := make([]models.Note, 0, len(s.notes[uid]))
	for _, n := range s.notes[uid] {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) snapshotTasks(uid string) []models.Task {
	out := make([]models.Task, 0, len(s.tasks[uid]))
	for _, t := range s.tasks[uid] {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Due != out[j].Due {
			return out[i].Due < out[j].Due
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) snapshotCards(uid string) []models.Flashcard {
	out := make([]models.Flashcard, 0, len(s.cards[uid]))
	for _, c := range s.cards[uid] {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) emitNotes(uid string) {
	snap := s.snapshotNotes(uid)
	for _, sub := range s.noteSubs {
		if sub.uid != uid {
			continue
		}
		select {
		case sub.ch <- snap:
		default:
			log.Printf("[Store] memory notes subscriber lagging, snapshot dropped")
		}
	}
}

func (s *MemoryStore) emitTasks(uid string) {
	snap := s.snapshotTasks(uid)
	for _, sub := range s.taskSubs {
		if sub.uid != uid {
			continue
		}
		select {
		case sub.ch <- snap:
		default:
			log.Printf("[Store] memory tasks subscriber lagging, snapshot dropped")
		}
	}
}

func (s *MemoryStore) emitCards(uid string) {
	snap := s.snapshotCards(uid)
	for _, sub := range s.cardSubs {
		if sub.uid != uid {
			continue
		}
		select {
		case sub.ch <- snap:
		default:
			log.Printf("[Store] memory flashcards subscriber lagging, snapshot dropped")
		}
	}
}

var _ Store = (*MemoryStore)(nil)
