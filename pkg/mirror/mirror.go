// Package mirror maintains local replicas of the three per-user collections,
// kept live by store subscriptions. Every emission replaces the whole list —
// simplicity over patch granularity, fine at tens to low hundreds of records.
package mirror

import (
	"context"
	"fmt"
	"sync"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
)

// Watcher is the subscription capability the mirror consumes.
type Watcher interface {
	WatchNotes(ctx context.Context, uid string) (<-chan []models.Note, error)
	WatchTasks(ctx context.Context, uid string) (<-chan []models.Task, error)
	WatchFlashcards(ctx context.Context, uid string) (<-chan []models.Flashcard, error)
}

type Mirror struct {
	watcher Watcher

	mu           sync.RWMutex
	notes        []models.Note
	tasks        []models.Task
	cards        []models.Flashcard
	activeNoteID string
	firstNotes   bool
	cancel       context.CancelFunc

	onChange func()
	done     sync.WaitGroup
}

func New(w Watcher) *Mirror {
	return &Mirror{watcher: w}
}

// OnChange registers a callback fired after every applied snapshot. Set it
// before Start.
func (m *Mirror) OnChange(fn func()) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Start opens the three live subscriptions for uid. The first notes snapshot
// seeds the active-note selection if none is set.
func (m *Mirror) Start(ctx context.Context, uid string) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return fmt.Errorf("mirror already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.firstNotes = true
	m.mu.Unlock()

	notes, err := m.watcher.WatchNotes(ctx, uid)
	if err != nil {
		m.Stop()
		return fmt.Errorf("watch notes: %w", err)
	}
	tasks, err := m.watcher.WatchTasks(ctx, uid)
	if err != nil {
		m.Stop()
		return fmt.Errorf("watch tasks: %w", err)
	}
	cards, err := m.watcher.WatchFlashcards(ctx, uid)
	if err != nil {
		m.Stop()
		return fmt.Errorf("watch flashcards: %w", err)
	}

	m.done.Add(3)
	go func() {
		defer m.done.Done()
		for snap := range notes {
			m.applyNotes(snap)
		}
	}()
	go func() {
		defer m.done.Done()
		for snap := range tasks {
			m.mu.Lock()
			m.tasks = snap
			m.mu.Unlock()
			m.notify()
		}
	}()
	go func() {
		defer m.done.Done()
		for snap := range cards {
			m.mu.Lock()
			m.cards = snap
			m.mu.Unlock()
			m.notify()
		}
	}()
	return nil
}

// Stop tears down the subscriptions and discards the local replicas. The
// copies are disposable; the store remains authoritative.
func (m *Mirror) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	m.done.Wait()
	m.mu.Lock()
	m.notes, m.tasks, m.cards = nil, nil, nil
	m.activeNoteID = ""
	m.mu.Unlock()
}

func (m *Mirror) applyNotes(snap []models.Note) {
	m.mu.Lock()
	m.notes = snap
	// Seed the selection on the first snapshot after (re)subscribing; an
	// already-active selection is preserved even if its position changed.
	if m.firstNotes {
		m.firstNotes = false
		if m.activeNoteID == "" && len(snap) > 0 {
			m.activeNoteID = snap[0].ID
		}
	}
	m.mu.Unlock()
	m.notify()
}

func (m *Mirror) notify() {
	m.mu.RLock()
	fn := m.onChange
	m.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (m *Mirror) Notes() []models.Note {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Note, len(m.notes))
	copy(out, m.notes)
	return out
}

func (m *Mirror) Tasks() []models.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

func (m *Mirror) Flashcards() []models.Flashcard {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Flashcard, len(m.cards))
	copy(out, m.cards)
	return out
}

func (m *Mirror) ActiveNoteID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeNoteID
}

func (m *Mirror) SetActiveNote(id string) {
	m.mu.Lock()
	m.activeNoteID = id
	m.mu.Unlock()
}

// ClearActiveNote drops the selection (the active note was deleted).
func (m *Mirror) ClearActiveNote() {
	m.SetActiveNote("")
}

// ActiveNote returns the mirrored copy of the active note, if it is present
// in the current snapshot.
func (m *Mirror) ActiveNote() (models.Note, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, n := range m.notes {
		if n.ID == m.activeNoteID {
			return n, true
		}
	}
	return models.Note{}, false
}
