// Package app ties the session, mirrored collections, draft editor, AI
// delegates, transcription and theme preference into one explicit application
// state. There are no globals; everything hangs off the App.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/aiclient"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/editor"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/identity"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/mirror"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/prefs"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/store"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/transcribe"
)

var (
	ErrSignedOut    = errors.New("not signed in")
	ErrNoActiveNote = errors.New("no active note")
)

const (
	summaryOpen  = "=== AI SUMMARY ==="
	summaryClose = "=== /SUMMARY ==="
)

// Assistant is the slice of the AI delegate client the app uses.
type Assistant interface {
	Summarize(ctx context.Context, text string) (string, error)
	GenerateCards(ctx context.Context, text string) ([]aiclient.Card, error)
	ExtractPDF(ctx context.Context, filename string, pdf io.Reader) (string, error)
}

// ThemeStore persists the light/dark preference across launches.
type ThemeStore interface {
	Theme() string
	SetTheme(theme string) error
}

// Options wires an App. Store, Session and AI are required; the rest have
// working defaults.
type Options struct {
	Store   store.Store
	Session *identity.Session
	AI      Assistant
	Prefs   ThemeStore
	// Recognizer supplies speech recognition; nil disables transcription.
	Recognizer func() transcribe.Recognizer
	Editor     editor.Options
}

type App struct {
	store       store.Store
	session     *identity.Session
	ai          Assistant
	prefs       ThemeStore
	mirror      *mirror.Mirror
	transcriber *transcribe.Session
	editorOpts  editor.Options

	theme string // guarded by the session callbacks being serial; reads race-free via Theme()

	// editor is rebuilt per signed-in user; nil while signed out.
	editor *editor.Editor
	uid    string
}

func New(opts Options) *App {
	a := &App{
		store:       opts.Store,
		session:     opts.Session,
		ai:          opts.AI,
		prefs:       opts.Prefs,
		mirror:      mirror.New(opts.Store),
		transcriber: transcribe.NewSession(opts.Recognizer),
		editorOpts:  opts.Editor,
		theme:       prefs.ThemeLight,
	}
	if a.prefs != nil {
		a.theme = a.prefs.Theme()
	}
	a.mirror.OnChange(a.syncDraft)
	a.session.OnChange(a.onAuth)
	return a
}

// onAuth reacts to sign-in/sign-out transitions broadcast by the session.
func (a *App) onAuth(u *identity.User) {
	if u == nil {
		if a.editor != nil {
			// Let any armed quiet-period save finish before tearing down.
			a.editor.Flush()
			a.editor.Clear()
		}
		a.mirror.Stop()
		a.editor = nil
		a.uid = ""
		return
	}
	a.uid = u.UID
	a.editor = editor.New(a.store, u.UID, a.editorOpts)
	if err := a.mirror.Start(context.Background(), u.UID); err != nil {
		log.Printf("[App] starting mirror for %s: %v", u.UID, err)
	}
}

// syncDraft loads the mirrored active note into the editor when no draft is
// live yet (first snapshot after sign-in seeds the selection).
func (a *App) syncDraft() {
	ed := a.editor
	if ed == nil || ed.NoteID() != "" {
		return
	}
	if n, ok := a.mirror.ActiveNote(); ok {
		ed.Load(n)
	}
}

func (a *App) Mirror() *mirror.Mirror           { return a.mirror }
func (a *App) Editor() *editor.Editor           { return a.editor }
func (a *App) Session() *identity.Session       { return a.session }
func (a *App) Transcriber() *transcribe.Session { return a.transcriber }

// NewNote creates a note with the standard defaults, makes it active and
// loads it into the editor.
func (a *App) NewNote(ctx context.Context) (string, error) {
	ed := a.editor
	if ed == nil {
		return "", ErrSignedOut
	}
	n := models.Note{Title: "New Note"}
	id, err := a.store.CreateNote(ctx, a.uid, n)
	if err != nil {
		return "", fmt.Errorf("creating note: %w", err)
	}
	n.ID = id
	a.mirror.SetActiveNote(id)
	ed.Load(n)
	return id, nil
}

// SelectNote makes id the active note and loads its mirrored copy into the
// editor. A quiet-period save pending for the previous note still completes.
func (a *App) SelectNote(id string) error {
	ed := a.editor
	if ed == nil {
		return ErrSignedOut
	}
	a.mirror.SetActiveNote(id)
	n, ok := a.mirror.ActiveNote()
	if !ok {
		return fmt.Errorf("note %s is not in the current snapshot", id)
	}
	ed.Load(n)
	return nil
}

// DeleteNote removes the note; if it was active, the selection and draft are
// cleared.
func (a *App) DeleteNote(ctx context.Context, id string) error {
	ed := a.editor
	if ed == nil {
		return ErrSignedOut
	}
	if err := a.store.DeleteNote(ctx, a.uid, id); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	if a.mirror.ActiveNoteID() == id {
		a.mirror.ClearActiveNote()
		ed.Clear()
	}
	return nil
}

// TogglePin flips the pinned flag with a merge-write; updatedAt bumps so the
// note resorts.
func (a *App) TogglePin(ctx context.Context, id string) error {
	if a.editor == nil {
		return ErrSignedOut
	}
	var current *models.Note
	for _, n := range a.mirror.Notes() {
		if n.ID == id {
			current = &n
			break
		}
	}
	if current == nil {
		return fmt.Errorf("note %s is not in the current snapshot", id)
	}
	return a.store.SaveNoteFields(ctx, a.uid, id, store.Fields{
		store.FieldPinned:    !current.Pinned,
		store.FieldUpdatedAt: store.ServerTimestamp,
	})
}

// AddTask creates a task. due is either empty (undated) or a calendar date in
// YYYY-MM-DD form.
func (a *App) AddTask(ctx context.Context, title, className, due string) (string, error) {
	if a.editor == nil {
		return "", ErrSignedOut
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.New("task title is empty")
	}
	t := models.Task{Title: title, ClassName: strings.TrimSpace(className), Due: due}
	if due != "" && !t.HasDue() {
		return "", fmt.Errorf("due date %q is not a %s date", due, models.DueDateLayout)
	}
	id, err := a.store.CreateTask(ctx, a.uid, t)
	if err != nil {
		return "", fmt.Errorf("creating task: %w", err)
	}
	return id, nil
}

func (a *App) ToggleTaskDone(ctx context.Context, id string) error {
	if a.editor == nil {
		return ErrSignedOut
	}
	for _, t := range a.mirror.Tasks() {
		if t.ID == id {
			return a.store.SaveTaskFields(ctx, a.uid, id, store.Fields{
				store.FieldDone: !t.Done,
			})
		}
	}
	return fmt.Errorf("task %s is not in the current snapshot", id)
}

func (a *App) DeleteTask(ctx context.Context, id string) error {
	if a.editor == nil {
		return ErrSignedOut
	}
	if err := a.store.DeleteTask(ctx, a.uid, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// SummarizeDraft sends the draft body to the summarize delegate and appends
// the result between summary markers. On failure the draft is unchanged.
func (a *App) SummarizeDraft(ctx context.Context) error {
	ed := a.editor
	if ed == nil {
		return ErrSignedOut
	}
	if ed.NoteID() == "" {
		return ErrNoActiveNote
	}
	body := strings.TrimSpace(ed.Body())
	if body == "" {
		return errors.New("nothing to summarize")
	}
	summary, err := a.ai.Summarize(ctx, body)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	ed.AppendBody("\n\n" + summaryOpen + "\n" + strings.TrimSpace(summary) + "\n" + summaryClose + "\n")
	return nil
}

// GenerateFlashcards asks the delegate for cards covering the draft body and
// persists the bounded batch against the active note. The note title is
// snapshotted onto each card. A failed or empty generation has no side
// effects; the returned count is what was persisted.
func (a *App) GenerateFlashcards(ctx context.Context) (int, error) {
	ed := a.editor
	if ed == nil {
		return 0, ErrSignedOut
	}
	noteID := ed.NoteID()
	if noteID == "" {
		return 0, ErrNoActiveNote
	}
	body := strings.TrimSpace(ed.Body())
	if body == "" {
		return 0, errors.New("nothing to generate flashcards from")
	}
	raw, err := a.ai.GenerateCards(ctx, body)
	if err != nil {
		return 0, fmt.Errorf("generate flashcards: %w", err)
	}

	noteTitle := strings.TrimSpace(ed.Title())
	if noteTitle == "" {
		noteTitle = "Untitled"
	}
	batch := make([]models.Flashcard, 0, models.MaxCardsPerBatch)
	for _, c := range raw {
		q := models.ClipRunes(strings.TrimSpace(c.Question), models.MaxQuestionLen)
		ans := models.ClipRunes(strings.TrimSpace(c.Answer), models.MaxAnswerLen)
		if q == "" || ans == "" {
			continue
		}
		batch = append(batch, models.Flashcard{
			NoteID:    noteID,
			NoteTitle: noteTitle,
			Question:  q,
			Answer:    ans,
		})
		if len(batch) == models.MaxCardsPerBatch {
			break
		}
	}
	if len(batch) == 0 {
		return 0, errors.New("generation returned no usable cards")
	}
	n, err := a.store.AddFlashcards(ctx, a.uid, batch)
	if err != nil {
		return 0, fmt.Errorf("saving flashcards: %w", err)
	}
	return n, nil
}

// AttachPDFText extracts text from an uploaded PDF via the delegate and
// appends it to the draft body.
func (a *App) AttachPDFText(ctx context.Context, filename string, pdf io.Reader) error {
	ed := a.editor
	if ed == nil {
		return ErrSignedOut
	}
	if ed.NoteID() == "" {
		return ErrNoActiveNote
	}
	text, err := a.ai.ExtractPDF(ctx, filename, pdf)
	if err != nil {
		return fmt.Errorf("extract pdf: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	ed.AppendBody("\n\n" + text + "\n")
	return nil
}

// InsertTranscript appends the accumulated transcript into the draft body.
func (a *App) InsertTranscript() error {
	ed := a.editor
	if ed == nil {
		return ErrSignedOut
	}
	if ed.NoteID() == "" {
		return ErrNoActiveNote
	}
	a.transcriber.InsertIntoDraft(ed)
	return nil
}

func (a *App) Theme() string { return a.theme }

// ToggleTheme flips light/dark and persists the choice. The in-memory theme
// flips even if persisting fails.
func (a *App) ToggleTheme() string {
	if a.theme == prefs.ThemeDark {
		a.theme = prefs.ThemeLight
	} else {
		a.theme = prefs.ThemeDark
	}
	if a.prefs != nil {
		if err := a.prefs.SetTheme(a.theme); err != nil {
			log.Printf("[App] persisting theme: %v", err)
		}
	}
	return a.theme
}
