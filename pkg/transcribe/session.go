// Package transcribe wraps a host-supplied continuous speech-recognition
// capability into a start/stop/accumulate transcript buffer. Interim results
// are never surfaced; only finalized segments reach the buffer.
package transcribe

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrUnavailable is returned when the host provides no recognition backend.
// The feature is simply disabled then; no fallback transcription is attempted.
var ErrUnavailable = errors.New("speech recognition is not available")

// Result is one recognition emission. Final marks a finalized segment;
// non-final (interim) results are discarded.
type Result struct {
	Text  string
	Final bool
}

// Recognizer is the continuous recognition capability. Its Results channel
// closes on error or natural end-of-stream.
type Recognizer interface {
	Start(ctx context.Context) error
	Stop()
	Results() <-chan Result
}

const (
	transcriptOpen  = "=== TRANSCRIPT ==="
	transcriptClose = "=== /TRANSCRIPT ==="
)

// BodyAppender is the slice of the draft editor the session writes into.
type BodyAppender interface {
	AppendBody(v string)
}

// Session accumulates finalized segments across recordings. The buffer
// survives recognizer errors and end-of-stream.
type Session struct {
	factory func() Recognizer

	mu           sync.Mutex
	segments     []string
	transcribing bool
	current      Recognizer
}

// NewSession creates a session over a recognizer factory. A nil factory
// means the host environment has no recognition capability.
func NewSession(factory func() Recognizer) *Session {
	return &Session{factory: factory}
}

// Available reports whether the host supplies a recognition backend.
func (s *Session) Available() bool {
	return s.factory != nil
}

// Start begins a recording. Finalized segments are appended, space-joined,
// to the transcript buffer until the recognizer stops.
func (s *Session) Start(ctx context.Context) error {
	if s.factory == nil {
		return ErrUnavailable
	}
	s.mu.Lock()
	if s.transcribing {
		s.mu.Unlock()
		return nil
	}
	rec := s.factory()
	if rec == nil {
		s.mu.Unlock()
		return ErrUnavailable
	}
	if err := rec.Start(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = rec
	s.transcribing = true
	s.mu.Unlock()

	go func() {
		for r := range rec.Results() {
			if !r.Final {
				continue
			}
			text := strings.TrimSpace(r.Text)
			if text == "" {
				continue
			}
			s.mu.Lock()
			s.segments = append(s.segments, text)
			s.mu.Unlock()
		}
		// Error and natural end-of-stream look the same here: the session
		// goes quiet but keeps everything transcribed so far.
		s.mu.Lock()
		s.transcribing = false
		s.current = nil
		s.mu.Unlock()
	}()
	return nil
}

// Stop ends the current recording, if any. The buffer is kept.
func (s *Session) Stop() {
	s.mu.Lock()
	rec := s.current
	s.mu.Unlock()
	if rec != nil {
		rec.Stop()
	}
}

func (s *Session) Transcribing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcribing
}

// Transcript returns the space-joined buffer of finalized segments.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.segments, " ")
}

// Reset clears the buffer for a fresh transcript.
func (s *Session) Reset() {
	s.mu.Lock()
	s.segments = nil
	s.mu.Unlock()
}

// InsertIntoDraft appends the trimmed transcript into the draft body between
// delimiter markers. The buffer is not cleared.
func (s *Session) InsertIntoDraft(draft BodyAppender) {
	text := strings.TrimSpace(s.Transcript())
	if text == "" {
		return
	}
	draft.AppendBody("\n\n" + transcriptOpen + "\n" + text + "\n" + transcriptClose + "\n")
}
