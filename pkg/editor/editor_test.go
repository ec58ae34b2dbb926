package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/store"
)

type write struct {
	noteID string
	fields store.Fields
}

type fakeWriter struct {
	mu     sync.Mutex
	writes []write
	err    error
}

func (w *fakeWriter) SaveNoteFields(ctx context.Context, uid, id string, f store.Fields) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.writes = append(w.writes, write{noteID: id, fields: f})
	return nil
}

func (w *fakeWriter) all() []write {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]write, len(w.writes))
	copy(out, w.writes)
	return out
}

func (w *fakeWriter) fail(err error) {
	w.mu.Lock()
	w.err = err
	w.mu.Unlock()
}

func testOptions() Options {
	return Options{
		Debounce:  40 * time.Millisecond,
		SavedHold: 30 * time.Millisecond,
		LoadGuard: 10 * time.Millisecond,
	}
}

func pastGuard() { time.Sleep(15 * time.Millisecond) }

func TestLoadAloneNeverWrites(t *testing.T) {
	w := &fakeWriter{}
	e := New(w, "user-1", testOptions())

	e.Load(models.Note{ID: "n1", Title: "Algebra", Body: "quadratics"})
	time.Sleep(100 * time.Millisecond)

	if got := w.all(); len(got) != 0 {
		t.Fatalf("loading issued %d writes, want 0", len(got))
	}
	if e.State() != StateIdle {
		t.Errorf("state = %v, want idle", e.State())
	}
}

func TestEditWithinGuardIsIgnored(t *testing.T) {
	w := &fakeWriter{}
	e := New(w, "user-1", testOptions())

	e.Load(models.Note{ID: "n1", Title: "Algebra"})
	e.SetBody("set during load") // still inside the guard window
	time.Sleep(100 * time.Millisecond)

	if got := w.all(); len(got) != 0 {
		t.Fatalf("guarded edit issued %d writes, want 0", len(got))
	}
}

func TestDebouncedSave(t *testing.T) {
	w := &fakeWriter{}
	e := New(w, "user-1", testOptions())

	e.Load(models.Note{ID: "n1", Title: "Algebra"})
	pastGuard()
	e.SetBody("first")
	e.SetBody("first second")
	e.Flush()

	got := w.all()
	if len(got) != 1 {
		t.Fatalf("expected 1 debounced write, got %d", len(got))
	}
	if got[0].noteID != "n1" {
		t.Errorf("wrote note %s, want n1", got[0].noteID)
	}
	if got[0].fields[store.FieldBody] != "first second" {
		t.Errorf("body = %q, want final edit", got[0].fields[store.FieldBody])
	}
	if got[0].fields[store.FieldTitle] != "Algebra" {
		t.Errorf("title = %q", got[0].fields[store.FieldTitle])
	}
	if _, ok := got[0].fields[store.FieldUpdatedAt]; !ok {
		t.Error("updatedAt not set in merge write")
	}
}

func TestEmptyTitleSavesAsUntitled(t *testing.T) {
	w := &fakeWriter{}
	e := New(w, "user-1", testOptions())

	e.Load(models.Note{ID: "n1", Title: "Algebra"})
	pastGuard()
	e.SetTitle("   ")
	e.Flush()

	got := w.all()
	if len(got) != 1 {
		t.Fatalf("expected 1 write, got %d", len(got))
	}
	if got[0].fields[store.FieldTitle] != "Untitled" {
		t.Errorf("title = %q, want Untitled", got[0].fields[store.FieldTitle])
	}
}

func TestPendingSaveSurvivesNoteSwitch(t *testing.T) {
	w := &fakeWriter{}
	e := New(w, "user-1", testOptions())

	e.Load(models.Note{ID: "note-a", Title: "A"})
	pastGuard()
	e.SetBody("edited before switching")

	// Switch to B before the quiet period elapses.
	e.Load(models.Note{ID: "note-b", Title: "B", Body: "b body"})
	e.Flush()

	got := w.all()
	if len(got) != 1 {
		t.Fatalf("expected the pending write for note-a, got %d writes", len(got))
	}
	if got[0].noteID != "note-a" {
		t.Fatalf("pending write targeted %s, want note-a", got[0].noteID)
	}
	if got[0].fields[store.FieldBody] != "edited before switching" {
		t.Errorf("body = %q", got[0].fields[store.FieldBody])
	}
	if e.Body() != "b body" {
		t.Errorf("draft body = %q, want note-b's", e.Body())
	}
}

func TestEditOnNewNoteDoesNotCancelOldPendingSave(t *testing.T) {
	w := &fakeWriter{}
	e := New(w, "user-1", testOptions())

	e.Load(models.Note{ID: "note-a", Title: "A"})
	pastGuard()
	e.SetBody("a's edit")

	e.Load(models.Note{ID: "note-b", Title: "B"})
	pastGuard()
	e.SetBody("b's edit")
	e.Flush()

	got := w.all()
	if len(got) != 2 {
		t.Fatalf("expected writes for both notes, got %d", len(got))
	}
	byNote := map[string]string{}
	for _, wr := range got {
		byNote[wr.noteID], _ = wr.fields[store.FieldBody].(string)
	}
	if byNote["note-a"] != "a's edit" {
		t.Errorf("note-a body = %q", byNote["note-a"])
	}
	if byNote["note-b"] != "b's edit" {
		t.Errorf("note-b body = %q", byNote["note-b"])
	}
}

func TestClearKeepsOtherNotesPendingSave(t *testing.T) {
	w := &fakeWriter{}
	e := New(w, "user-1", testOptions())

	e.Load(models.Note{ID: "note-a", Title: "A"})
	pastGuard()
	e.SetBody("a's edit")

	// Switch to B, then drop B's draft (B deleted) before A's quiet period
	// elapses. A's pending write must still land.
	e.Load(models.Note{ID: "note-b", Title: "B"})
	e.Clear()
	e.Flush()

	got := w.all()
	if len(got) != 1 {
		t.Fatalf("expected the pending write for note-a, got %d writes", len(got))
	}
	if got[0].noteID != "note-a" {
		t.Fatalf("pending write targeted %s, want note-a", got[0].noteID)
	}
	if got[0].fields[store.FieldBody] != "a's edit" {
		t.Errorf("body = %q", got[0].fields[store.FieldBody])
	}
	if e.NoteID() != "" {
		t.Errorf("draft not cleared: %q", e.NoteID())
	}
}

func TestClearAbandonsOwnPendingSave(t *testing.T) {
	w := &fakeWriter{}
	e := New(w, "user-1", testOptions())

	e.Load(models.Note{ID: "note-a", Title: "A"})
	pastGuard()
	e.SetBody("about to be deleted")
	e.Clear()
	e.Flush()

	if got := w.all(); len(got) != 0 {
		t.Fatalf("cleared note still wrote: %v", got)
	}
}

func TestManualSaveBypassesDebounce(t *testing.T) {
	w := &fakeWriter{}
	e := New(w, "user-1", testOptions())

	e.Load(models.Note{ID: "n1", Title: "Algebra"})
	pastGuard()
	e.SetBody("manual")
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if got := w.all(); len(got) != 1 || got[0].fields[store.FieldBody] != "manual" {
		t.Fatalf("unexpected writes: %v", got)
	}
	if e.State() != StateSaved {
		t.Errorf("state after manual save = %v, want saved", e.State())
	}

	// No duplicate write from the canceled timer.
	e.Flush()
	if got := w.all(); len(got) != 1 {
		t.Fatalf("timer fired after manual save: %d writes", len(got))
	}
}

func TestSavedSettlesToIdle(t *testing.T) {
	w := &fakeWriter{}
	e := New(w, "user-1", testOptions())

	e.Load(models.Note{ID: "n1", Title: "Algebra"})
	pastGuard()
	e.SetBody("x")
	e.Flush()
	time.Sleep(60 * time.Millisecond)

	if e.State() != StateIdle {
		t.Errorf("state = %v, want idle after saved hold", e.State())
	}
}

func TestSaveFailureKeepsDraftAndAllowsRetry(t *testing.T) {
	w := &fakeWriter{}
	w.fail(errors.New("offline"))
	e := New(w, "user-1", testOptions())

	e.Load(models.Note{ID: "n1", Title: "Algebra"})
	pastGuard()
	e.SetBody("do not lose me")
	e.Flush()

	if e.State() != StateError {
		t.Fatalf("state = %v, want error", e.State())
	}
	if e.Body() != "do not lose me" {
		t.Fatalf("draft body lost: %q", e.Body())
	}

	// Manual retry succeeds once the store heals.
	w.fail(nil)
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	got := w.all()
	if len(got) != 1 || got[0].fields[store.FieldBody] != "do not lose me" {
		t.Fatalf("retry writes: %v", got)
	}
}
