package models

import (
	"strings"
	"time"
)

// DueDateLayout is the wire format for task due dates. Tasks carry a plain
// calendar date, never a time component.
const DueDateLayout = "2006-01-02"

// Bounds enforced on flashcards produced by the generation endpoint.
const (
	MaxCardsPerBatch = 25
	MaxQuestionLen   = 500
	MaxAnswerLen     = 1500
)

type Note struct {
	ID        string    `bson:"_id,omitempty" firestore:"-" json:"id"`
	OwnerID   string    `bson:"ownerId" firestore:"-" json:"-"`
	Title     string    `bson:"title" firestore:"title" json:"title"`
	ClassName string    `bson:"className" firestore:"className" json:"className"`
	Body      string    `bson:"body" firestore:"body" json:"body"`
	Pinned    bool      `bson:"pinned" firestore:"pinned" json:"pinned"`
	CreatedAt time.Time `bson:"createdAt" firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" firestore:"updatedAt" json:"updatedAt"`
}

type Task struct {
	ID        string    `bson:"_id,omitempty" firestore:"-" json:"id"`
	OwnerID   string    `bson:"ownerId" firestore:"-" json:"-"`
	Title     string    `bson:"title" firestore:"title" json:"title"`
	ClassName string    `bson:"className" firestore:"className" json:"className"`
	Due       string    `bson:"due" firestore:"due" json:"due"`
	Done      bool      `bson:"done" firestore:"done" json:"done"`
	CreatedAt time.Time `bson:"createdAt" firestore:"createdAt" json:"createdAt"`
}

// Flashcard references its source note by ID. NoteTitle is a snapshot taken
// at creation time: renaming a note does not retroactively update the title
// stored on its flashcards.
type Flashcard struct {
	ID        string    `bson:"_id,omitempty" firestore:"-" json:"id"`
	OwnerID   string    `bson:"ownerId" firestore:"-" json:"-"`
	NoteID    string    `bson:"noteId" firestore:"noteId" json:"noteId"`
	NoteTitle string    `bson:"noteTitle" firestore:"noteTitle" json:"noteTitle"`
	Question  string    `bson:"question" firestore:"question" json:"question"`
	Answer    string    `bson:"answer" firestore:"answer" json:"answer"`
	CreatedAt time.Time `bson:"createdAt" firestore:"createdAt" json:"createdAt"`
}

// HasDue reports whether the task carries a parseable calendar date. Tasks
// without one are excluded from the calendar projection.
func (t Task) HasDue() bool {
	if t.Due == "" {
		return false
	}
	_, err := time.Parse(DueDateLayout, t.Due)
	return err == nil
}

// Folder returns the note's trimmed class name, empty meaning unfiled.
func (n Note) Folder() string {
	return strings.TrimSpace(n.ClassName)
}

// ClipRunes bounds s to at most max runes; used to enforce the flashcard
// question and answer limits.
func ClipRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
