// Package session tracks authenticated sessions and their idle timeout.
// Expiry is lazy: nothing runs in the background, a session is only found to
// be dead when the next sensitive operation touches it.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkhalaf/bankcore/pkg/domain"
)

// DefaultIdleTimeout matches the console system's five-minute window.
const DefaultIdleTimeout = 5 * time.Minute

// Session is one authenticated actor. All methods are safe for concurrent
// use.
type Session struct {
	ID     uuid.UUID
	Person domain.PersonKey

	mu           sync.Mutex
	lastActivity time.Time
	timeout      time.Duration
	closed       bool
	now          func() time.Time
}

// Touch is called at the start of every sensitive operation. If the idle
// window has elapsed the session is closed and ErrSessionExpired is returned;
// the caller must force re-authentication. Otherwise the activity clock
// resets.
func (s *Session) Touch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if s.closed || now.Sub(s.lastActivity) > s.timeout {
		s.closed = true
		return domain.ErrSessionExpired
	}
	s.lastActivity = now
	return nil
}

// Close terminates the session immediately. Used after a failed secret
// check so the actor cannot retry within the same session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether the session has been terminated.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Registry issues sessions with a fixed idle timeout.
type Registry struct {
	timeout time.Duration
	now     func() time.Time

	mu   sync.Mutex
	live map[uuid.UUID]*Session
}

// NewRegistry builds a registry; a non-positive timeout falls back to
// DefaultIdleTimeout.
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = DefaultIdleTimeout
	}
	return &Registry{
		timeout: timeout,
		now:     time.Now,
		live:    make(map[uuid.UUID]*Session),
	}
}

// Open creates a fresh session for the authenticated person.
func (r *Registry) Open(person domain.PersonKey) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &Session{
		ID:           uuid.New(),
		Person:       person,
		lastActivity: r.now(),
		timeout:      r.timeout,
		now:          r.now,
	}
	r.live[s.ID] = s
	return s
}

// Close terminates the session and drops it from the registry.
func (r *Registry) Close(s *Session) {
	s.Close()
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.live, s.ID)
}
