// Package editor holds the working copy of one note's editable fields and the
// autosave coordinator that reconciles it back to the store after a quiet
// period. Only one draft is live at a time; the mirrored note list never
// feeds the draft except through an explicit Load.
package editor

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/store"
)

// State is the autosave lifecycle of the current draft.
type State int

const (
	StateIdle State = iota
	StateDirty
	StateSaving
	StateSaved
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// NoteWriter is the single store capability the editor needs.
type NoteWriter interface {
	SaveNoteFields(ctx context.Context, uid, id string, f store.Fields) error
}

// Options tune the coordinator's timing. Zero values take the defaults; tests
// shrink them.
type Options struct {
	// Debounce is the quiet period after the last edit before a save fires.
	Debounce time.Duration
	// SavedHold is how long the saved state is displayed before settling
	// back to idle.
	SavedHold time.Duration
	// LoadGuard is the window after Load during which field sets are treated
	// as the load itself and never arm a save.
	LoadGuard time.Duration
	// SaveTimeout bounds each write issued by the coordinator.
	SaveTimeout time.Duration
}

const (
	defaultDebounce    = time.Second
	defaultSavedHold   = 1200 * time.Millisecond
	defaultLoadGuard   = 250 * time.Millisecond
	defaultSaveTimeout = 10 * time.Second
)

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = defaultDebounce
	}
	if o.SavedHold <= 0 {
		o.SavedHold = defaultSavedHold
	}
	if o.LoadGuard <= 0 {
		o.LoadGuard = defaultLoadGuard
	}
	if o.SaveTimeout <= 0 {
		o.SaveTimeout = defaultSaveTimeout
	}
	return o
}

// Editor is the draft state plus autosave coordinator for one user session.
type Editor struct {
	writer NoteWriter
	uid    string
	opts   Options

	mu         sync.Mutex
	noteID     string
	title      string
	className  string
	body       string
	state      State
	lastErr    error
	guardUntil time.Time
	timer      *time.Timer
	timerNote  string

	onState func(State)

	// pending tracks in-flight debounce saves so tests and teardown can
	// wait for them instead of silently abandoning a write.
	pending sync.WaitGroup
}

func New(writer NoteWriter, uid string, opts Options) *Editor {
	return &Editor{writer: writer, uid: uid, opts: opts.withDefaults()}
}

// OnState registers a listener invoked after every state transition.
func (e *Editor) OnState(fn func(State)) {
	e.mu.Lock()
	e.onState = fn
	e.mu.Unlock()
}

// Load seeds the draft from a note and arms the load guard so that loading
// never issues a network write by itself. A debounce timer armed for the
// previously loaded note is deliberately left running: its write still
// completes with the values captured when it was armed.
func (e *Editor) Load(n models.Note) {
	e.mu.Lock()
	e.noteID = n.ID
	e.title = n.Title
	e.className = n.ClassName
	e.body = n.Body
	e.lastErr = nil
	e.guardUntil = time.Now().Add(e.opts.LoadGuard)
	e.setStateLocked(StateIdle)
	e.mu.Unlock()
}

// Clear drops the draft entirely (active note deleted or signed out). A timer
// still pending for a previously loaded note is left to fire: only the cleared
// note's own pending save is abandoned with its draft.
func (e *Editor) Clear() {
	e.mu.Lock()
	if e.timer != nil && e.timerNote == e.noteID {
		e.stopTimerLocked()
	}
	e.noteID = ""
	e.title = ""
	e.className = ""
	e.body = ""
	e.lastErr = nil
	e.setStateLocked(StateIdle)
	e.mu.Unlock()
}

// stopTimerLocked cancels a pending debounce save. If the timer had not fired
// yet its waitgroup slot is released here.
func (e *Editor) stopTimerLocked() {
	if e.timer == nil {
		return
	}
	if e.timer.Stop() {
		e.pending.Done()
	}
	e.timer = nil
}

func (e *Editor) SetTitle(v string)     { e.edit(func() { e.title = v }) }
func (e *Editor) SetClassName(v string) { e.edit(func() { e.className = v }) }
func (e *Editor) SetBody(v string)      { e.edit(func() { e.body = v }) }

// AppendBody appends to the draft body through the normal edit path, so the
// autosave coordinator picks it up.
func (e *Editor) AppendBody(v string) {
	e.edit(func() { e.body += v })
}

func (e *Editor) NoteID() string    { e.mu.Lock(); defer e.mu.Unlock(); return e.noteID }
func (e *Editor) Title() string     { e.mu.Lock(); defer e.mu.Unlock(); return e.title }
func (e *Editor) ClassName() string { e.mu.Lock(); defer e.mu.Unlock(); return e.className }
func (e *Editor) Body() string      { e.mu.Lock(); defer e.mu.Unlock(); return e.body }
func (e *Editor) State() State      { e.mu.Lock(); defer e.mu.Unlock(); return e.state }
func (e *Editor) Err() error        { e.mu.Lock(); defer e.mu.Unlock(); return e.lastErr }

func (e *Editor) edit(apply func()) {
	e.mu.Lock()
	apply()
	if e.noteID == "" || time.Now().Before(e.guardUntil) {
		e.mu.Unlock()
		return
	}
	e.setStateLocked(StateDirty)
	e.armLocked()
	e.mu.Unlock()
}

// armLocked (re)starts the quiet-period timer. The target note identity and
// the field values are captured now, so a later note switch cannot redirect
// or lose this write.
func (e *Editor) armLocked() {
	noteID := e.noteID
	if e.timer != nil && e.timerNote == noteID {
		// Debounce: the same note's quiet period restarts.
		e.stopTimerLocked()
	}
	// A timer still pending for a different note is left to fire: its write
	// completes with the values captured when it was armed.
	fields := e.fieldsLocked()
	e.pending.Add(1)
	e.timer = time.AfterFunc(e.opts.Debounce, func() {
		defer e.pending.Done()
		e.runSave(noteID, fields)
	})
	e.timerNote = noteID
}

func (e *Editor) fieldsLocked() store.Fields {
	title := strings.TrimSpace(e.title)
	if title == "" {
		title = "Untitled"
	}
	return store.Fields{
		store.FieldTitle:     title,
		store.FieldClassName: strings.TrimSpace(e.className),
		store.FieldBody:      e.body,
		store.FieldUpdatedAt: store.ServerTimestamp,
	}
}

// Save is the manual path: it cancels any pending timer and runs the write
// for the currently loaded note synchronously.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.noteID == "" {
		e.mu.Unlock()
		return nil
	}
	noteID := e.noteID
	if e.timer != nil && e.timerNote == noteID {
		e.stopTimerLocked()
	}
	fields := e.fieldsLocked()
	e.setStateLocked(StateSaving)
	e.mu.Unlock()

	err := e.writer.SaveNoteFields(ctx, e.uid, noteID, fields)
	e.finishSave(noteID, err)
	return err
}

// Flush blocks until every armed debounce save has completed. Used on
// teardown so no quiet-period write is abandoned.
func (e *Editor) Flush() {
	e.pending.Wait()
}

func (e *Editor) runSave(noteID string, fields store.Fields) {
	e.mu.Lock()
	e.setStateLocked(StateSaving)
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), e.opts.SaveTimeout)
	defer cancel()
	err := e.writer.SaveNoteFields(ctx, e.uid, noteID, fields)
	e.finishSave(noteID, err)
}

func (e *Editor) finishSave(noteID string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		log.Printf("[Editor] save of note %s failed: %v", noteID, err)
		e.lastErr = err
		// The draft fields stay exactly as typed; the user retries via
		// the manual save path.
		if e.state == StateSaving {
			e.setStateLocked(StateError)
		}
		return
	}
	e.lastErr = nil
	if e.state != StateSaving {
		// A newer edit already re-dirtied the draft.
		return
	}
	e.setStateLocked(StateSaved)
	time.AfterFunc(e.opts.SavedHold, func() {
		e.mu.Lock()
		if e.state == StateSaved {
			e.setStateLocked(StateIdle)
		}
		e.mu.Unlock()
	})
}

func (e *Editor) setStateLocked(s State) {
	if e.state == s {
		return
	}
	e.state = s
	if e.onState != nil {
		fn := e.onState
		go fn(s)
	}
}
