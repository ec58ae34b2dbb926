package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/aiclient"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/editor"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/identity"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/prefs"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/store"
)

type authStub struct{ user *identity.User }

func (p *authStub) SignIn(ctx context.Context, email, password string) (*identity.User, error) {
	return p.user, nil
}

func (p *authStub) Resume(ctx context.Context, token string) (*identity.User, error) {
	return p.user, nil
}

type fakeAssistant struct {
	summary string
	cards   []aiclient.Card
	extract string
	err     error
}

func (f *fakeAssistant) Summarize(ctx context.Context, text string) (string, error) {
	return f.summary, f.err
}

func (f *fakeAssistant) GenerateCards(ctx context.Context, text string) ([]aiclient.Card, error) {
	return f.cards, f.err
}

func (f *fakeAssistant) ExtractPDF(ctx context.Context, filename string, pdf io.Reader) (string, error) {
	return f.extract, f.err
}

func newTestApp(t *testing.T, ai Assistant) (*App, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	session := identity.NewSession(
		&authStub{user: &identity.User{UID: "u1", RefreshToken: "rt"}},
		identity.NewFileStash(filepath.Join(t.TempDir(), "token")),
	)
	a := New(Options{
		Store:   st,
		Session: session,
		AI:      ai,
		Prefs:   prefs.NewFileStore(filepath.Join(t.TempDir(), "prefs.json")),
		Editor:  editor.Options{Debounce: 20 * time.Millisecond, SavedHold: 20 * time.Millisecond, LoadGuard: 5 * time.Millisecond},
	})
	if err := session.SignIn(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(session.SignOut)
	return a, st
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestNewNoteDefaultsAndSelection(t *testing.T) {
	a, st := newTestApp(t, &fakeAssistant{})

	id, err := a.NewNote(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if a.Mirror().ActiveNoteID() != id {
		t.Fatalf("active = %q, want %q", a.Mirror().ActiveNoteID(), id)
	}
	if a.Editor().NoteID() != id || a.Editor().Title() != "New Note" {
		t.Fatalf("draft = %q %q", a.Editor().NoteID(), a.Editor().Title())
	}

	notes, _ := st.ListNotes(context.Background(), "u1")
	if len(notes) != 1 || notes[0].Title != "New Note" || notes[0].ClassName != "" || notes[0].Pinned {
		t.Fatalf("stored note = %+v", notes)
	}
}

func TestDeleteActiveNoteClearsSelection(t *testing.T) {
	a, _ := newTestApp(t, &fakeAssistant{})

	id, err := a.NewNote(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.DeleteNote(context.Background(), id); err != nil {
		t.Fatal(err)
	}
	if a.Mirror().ActiveNoteID() != "" {
		t.Fatal("selection survived deletion")
	}
	if a.Editor().NoteID() != "" {
		t.Fatal("draft survived deletion")
	}
}

func TestDeleteNoteKeepsPendingSaveForPreviousNote(t *testing.T) {
	a, st := newTestApp(t, &fakeAssistant{})
	ctx := context.Background()

	idA, err := a.NewNote(ctx)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond) // past the load guard
	a.Editor().SetBody("keep me")

	// Create and immediately delete a second note before the first note's
	// quiet period elapses.
	idB, err := a.NewNote(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.DeleteNote(ctx, idB); err != nil {
		t.Fatal(err)
	}
	a.Editor().Flush()

	notes, _ := st.ListNotes(ctx, "u1")
	if len(notes) != 1 || notes[0].ID != idA {
		t.Fatalf("notes = %+v", notes)
	}
	if notes[0].Body != "keep me" {
		t.Fatalf("pending save for the first note dropped; body = %q", notes[0].Body)
	}
}

func TestTogglePinTwiceRestoresFlagAndBumpsUpdatedAt(t *testing.T) {
	a, st := newTestApp(t, &fakeAssistant{})
	ctx := context.Background()

	id, err := a.NewNote(ctx)
	if err != nil {
		t.Fatal(err)
	}
	notes, _ := st.ListNotes(ctx, "u1")
	before := notes[0].UpdatedAt

	waitFor(t, "mirror to see the note", func() bool { return len(a.Mirror().Notes()) == 1 })
	if err := a.TogglePin(ctx, id); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "pin to mirror", func() bool {
		ns := a.Mirror().Notes()
		return len(ns) == 1 && ns[0].Pinned
	})
	if err := a.TogglePin(ctx, id); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "unpin to mirror", func() bool {
		ns := a.Mirror().Notes()
		return len(ns) == 1 && !ns[0].Pinned
	})
	notes, _ = st.ListNotes(ctx, "u1")
	if notes[0].Pinned {
		t.Fatal("double toggle did not restore pinned flag")
	}
	if !notes[0].UpdatedAt.After(before) {
		t.Fatal("toggling pin did not bump updatedAt")
	}
}

func TestAddTaskValidatesDueDate(t *testing.T) {
	a, st := newTestApp(t, &fakeAssistant{})
	ctx := context.Background()

	if _, err := a.AddTask(ctx, "essay", "English", "tomorrow"); err == nil {
		t.Fatal("bad due date accepted")
	}
	if _, err := a.AddTask(ctx, "  ", "English", ""); err == nil {
		t.Fatal("blank title accepted")
	}
	if _, err := a.AddTask(ctx, "essay", "English", "2026-09-04"); err != nil {
		t.Fatal(err)
	}
	tasks, _ := st.ListTasks(ctx, "u1")
	if len(tasks) != 1 || tasks[0].Due != "2026-09-04" {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestToggleTaskDone(t *testing.T) {
	a, st := newTestApp(t, &fakeAssistant{})
	ctx := context.Background()

	id, err := a.AddTask(ctx, "read ch. 5", "History", "")
	if err != nil {
		t.Fatal(err)
	}
	waitFor(t, "task to mirror", func() bool { return len(a.Mirror().Tasks()) == 1 })
	if err := a.ToggleTaskDone(ctx, id); err != nil {
		t.Fatal(err)
	}
	tasks, _ := st.ListTasks(ctx, "u1")
	if !tasks[0].Done {
		t.Fatal("task not marked done")
	}
}

func TestSummarizeDraftAppendsBetweenMarkers(t *testing.T) {
	a, _ := newTestApp(t, &fakeAssistant{summary: "the gist"})
	ctx := context.Background()

	if _, err := a.NewNote(ctx); err != nil {
		t.Fatal(err)
	}
	a.Editor().SetBody("long lecture body")
	if err := a.SummarizeDraft(ctx); err != nil {
		t.Fatal(err)
	}
	body := a.Editor().Body()
	want := "=== AI SUMMARY ===\nthe gist\n=== /SUMMARY ==="
	if !strings.Contains(body, want) {
		t.Fatalf("body = %q", body)
	}
	if !strings.HasPrefix(body, "long lecture body") {
		t.Fatalf("original body lost: %q", body)
	}
}

func TestSummarizeFailureLeavesDraftUnchanged(t *testing.T) {
	a, _ := newTestApp(t, &fakeAssistant{err: errors.New("model down")})
	ctx := context.Background()

	if _, err := a.NewNote(ctx); err != nil {
		t.Fatal(err)
	}
	a.Editor().SetBody("body text")
	if err := a.SummarizeDraft(ctx); err == nil {
		t.Fatal("expected failure")
	}
	if a.Editor().Body() != "body text" {
		t.Fatalf("draft changed on failure: %q", a.Editor().Body())
	}
}

func TestGenerateFlashcardsBoundsBatch(t *testing.T) {
	ai := &fakeAssistant{}
	for i := 0; i < 30; i++ {
		ai.cards = append(ai.cards, aiclient.Card{
			Question: fmt.Sprintf("q%d %s", i, strings.Repeat("x", models.MaxQuestionLen)),
			Answer:   fmt.Sprintf("a%d", i),
		})
	}
	a, st := newTestApp(t, ai)
	ctx := context.Background()

	id, err := a.NewNote(ctx)
	if err != nil {
		t.Fatal(err)
	}
	a.Editor().SetTitle("Chem Lecture 4")
	a.Editor().SetBody("entropy entropy entropy")

	n, err := a.GenerateFlashcards(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != models.MaxCardsPerBatch {
		t.Fatalf("persisted %d cards, want %d", n, models.MaxCardsPerBatch)
	}
	cards, _ := st.ListFlashcards(ctx, "u1")
	if len(cards) != models.MaxCardsPerBatch {
		t.Fatalf("store has %d cards", len(cards))
	}
	for _, c := range cards {
		if c.NoteID != id || c.NoteTitle != "Chem Lecture 4" {
			t.Fatalf("card link = %q %q", c.NoteID, c.NoteTitle)
		}
		if len([]rune(c.Question)) > models.MaxQuestionLen {
			t.Fatalf("question over bound: %d runes", len([]rune(c.Question)))
		}
	}
}

func TestGenerateFlashcardsFailureHasNoSideEffects(t *testing.T) {
	a, st := newTestApp(t, &fakeAssistant{err: errors.New("bad json")})
	ctx := context.Background()

	if _, err := a.NewNote(ctx); err != nil {
		t.Fatal(err)
	}
	a.Editor().SetBody("body")
	if _, err := a.GenerateFlashcards(ctx); err == nil {
		t.Fatal("expected failure")
	}
	if cards, _ := st.ListFlashcards(ctx, "u1"); len(cards) != 0 {
		t.Fatalf("failure persisted %d cards", len(cards))
	}
}

func TestGenerateFlashcardsEmptyResponse(t *testing.T) {
	a, st := newTestApp(t, &fakeAssistant{cards: []aiclient.Card{{Question: " ", Answer: ""}}})
	ctx := context.Background()

	if _, err := a.NewNote(ctx); err != nil {
		t.Fatal(err)
	}
	a.Editor().SetBody("body")
	if _, err := a.GenerateFlashcards(ctx); err == nil {
		t.Fatal("empty generation should error")
	}
	if cards, _ := st.ListFlashcards(ctx, "u1"); len(cards) != 0 {
		t.Fatal("empty generation persisted cards")
	}
}

func TestAttachPDFTextAppendsToDraft(t *testing.T) {
	a, _ := newTestApp(t, &fakeAssistant{extract: "[Page 1] Week one\n\n[Page 2] Week two"})
	ctx := context.Background()

	if _, err := a.NewNote(ctx); err != nil {
		t.Fatal(err)
	}
	a.Editor().SetBody("syllabus:")
	if err := a.AttachPDFText(ctx, "syllabus.pdf", strings.NewReader("%PDF")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(a.Editor().Body(), "[Page 2] Week two") {
		t.Fatalf("body = %q", a.Editor().Body())
	}
}

func TestToggleThemePersists(t *testing.T) {
	a, _ := newTestApp(t, &fakeAssistant{})
	if a.Theme() != prefs.ThemeLight {
		t.Fatalf("initial theme = %q", a.Theme())
	}
	if got := a.ToggleTheme(); got != prefs.ThemeDark {
		t.Fatalf("toggled theme = %q", got)
	}
	if got := a.ToggleTheme(); got != prefs.ThemeLight {
		t.Fatalf("second toggle = %q", got)
	}
}

func TestSignOutTearsDownState(t *testing.T) {
	a, _ := newTestApp(t, &fakeAssistant{})
	ctx := context.Background()

	if _, err := a.NewNote(ctx); err != nil {
		t.Fatal(err)
	}
	a.Session().SignOut()

	if a.Editor() != nil {
		t.Fatal("editor survived sign-out")
	}
	if got := a.Mirror().Notes(); len(got) != 0 {
		t.Fatalf("mirror kept %d notes", len(got))
	}
	if _, err := a.NewNote(ctx); !errors.Is(err, ErrSignedOut) {
		t.Fatalf("err = %v, want ErrSignedOut", err)
	}
}
