package viewer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrStale is returned for a fetch that was overtaken by a newer one on the same
// session; its result has been discarded
var ErrStale = errors.New("result superseded by a newer request")

// Session is one screen: it shows the result of the latest fetch action only.
// Every action gets a monotonically increasing token and a result whose token
// is no longer the newest is dropped.
type Session struct {
	viewer *Viewer
	token  atomic.Uint64

	mu      sync.RWMutex
	current Result
}

// NewSession creates a session with an empty screen
func NewSession(v *Viewer) *Session {
	return &Session{viewer: v}
}

// Show runs one fetch action. The previous board is cleared before the request
// is issued. Concurrent calls may overlap; only the newest one updates the screen.
func (s *Session) Show(ctx context.Context, stationCode string) (Result, error) {
	if stationCode == "" {
		// Rejected before any request; the screen keeps what it had
		return s.viewer.Fetch(ctx, stationCode)
	}

	token := s.token.Add(1)
	s.set(token, Result{State: StateStatus, Status: s.viewer.labels.StatusLoading})

	result, err := s.viewer.Fetch(ctx, stationCode)
	if !s.set(token, result) {
		s.viewer.log.Debug("Discarding stale result", "station", stationCode, "token", token)
		return Result{}, ErrStale
	}
	return result, err
}

// Current returns what the screen shows now
func (s *Session) Current() Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// set replaces the screen when token is still the newest
func (s *Session) set(token uint64, r Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token.Load() != token {
		return false
	}
	s.current = r
	return true
}
