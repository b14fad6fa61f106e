package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkhalaf/bankcore/pkg/domain"
)

func newClock(start time.Time) (*time.Time, func() time.Time) {
	current := start
	return &current, func() time.Time { return current }
}

func TestTouchWithinWindowResetsActivity(t *testing.T) {
	current, clock := newClock(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	r := NewRegistry(300 * time.Second)
	r.now = clock

	s := r.Open(domain.PersonKey{Nationality: "NL", NationalID: "100"})

	*current = current.Add(290 * time.Second)
	require.NoError(t, s.Touch())

	// The earlier touch reset the clock, so another near-limit wait is fine.
	*current = current.Add(290 * time.Second)
	require.NoError(t, s.Touch())
}

func TestTouchAfterIdleTimeoutExpires(t *testing.T) {
	current, clock := newClock(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	r := NewRegistry(300 * time.Second)
	r.now = clock

	s := r.Open(domain.PersonKey{Nationality: "NL", NationalID: "100"})

	*current = current.Add(301 * time.Second)
	err := s.Touch()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.ErrorIs(t, err, domain.ErrSecurity)

	// Expiry is terminal: even an immediate retry fails.
	assert.ErrorIs(t, s.Touch(), domain.ErrSessionExpired)
	assert.True(t, s.Closed())
}

func TestBoundaryIsExclusive(t *testing.T) {
	current, clock := newClock(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	r := NewRegistry(300 * time.Second)
	r.now = clock

	s := r.Open(domain.PersonKey{Nationality: "NL", NationalID: "100"})

	// Exactly the timeout is still inside the window.
	*current = current.Add(300 * time.Second)
	assert.NoError(t, s.Touch())
}

func TestCloseTerminatesSession(t *testing.T) {
	r := NewRegistry(0)
	s := r.Open(domain.PersonKey{Nationality: "NL", NationalID: "100"})
	r.Close(s)
	assert.ErrorIs(t, s.Touch(), domain.ErrSessionExpired)
}
