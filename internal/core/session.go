package core

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/lumipallolabs/diskscope/internal/scanner"
)

// ErrSuperseded resolves a scan whose session was retired by a newer
// request. It is not an error to the new caller; the superseded caller
// simply gets no tree.
var ErrSuperseded = errors.New("scan superseded by a newer request")

// Session binds one scan request to its cancellation and progress sink.
type Session struct {
	id       uuid.UUID
	cancel   context.CancelFunc
	reporter *scanner.Reporter
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Reporter returns the progress sink bound to this session.
func (s *Session) Reporter() *scanner.Reporter { return s.reporter }

// Coordinator enforces the single-flight scan policy: at most one session
// is authoritative at a time. Beginning a new session cancels the previous
// one; its workers detect retirement by comparing identifiers before
// publishing anything.
type Coordinator struct {
	mu      sync.Mutex
	current *Session
}

// Begin retires any in-flight session and starts a new one. The returned
// context is cancelled when the session is superseded or the parent
// context ends.
func (c *Coordinator) Begin(parent context.Context, totalEstimate int64) (*Session, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.New()

	s := &Session{
		id:       id,
		cancel:   cancel,
		reporter: scanner.NewReporter(id, totalEstimate),
	}

	c.mu.Lock()
	prev := c.current
	c.current = s
	c.mu.Unlock()

	if prev != nil {
		// Detach: cancel and move on, the old session's result is
		// discarded by its own caller.
		prev.cancel()
	}

	return s, ctx
}

// IsCurrent reports whether the session is still the authoritative one.
func (c *Coordinator) IsCurrent(s *Session) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && s != nil && c.current.id == s.id
}

// IsCurrentID reports whether the identifier matches the active session.
func (c *Coordinator) IsCurrentID(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && c.current.id == id
}

// Finish releases the session if it is still current.
func (c *Coordinator) Finish(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && s != nil && c.current.id == s.id {
		c.current = nil
	}
	if s != nil {
		s.cancel()
	}
}
