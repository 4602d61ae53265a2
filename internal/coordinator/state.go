package coordinator

import (
	"sync"

	"github.com/roach88/homelist/internal/service"
)

// ErrLoginRequired is returned by operations that need a session user.
var ErrLoginRequired = &service.Error{
	Kind:    service.KindUnauthorized,
	Message: "you need to log in first",
}

// status tracks in-flight calls and the last failure of a coordinator.
type status struct {
	mu      sync.RWMutex
	pending int
	err     string
}

// begin marks a call in flight and clears the previous error.
// The returned func settles the call, recording err if non-nil.
func (s *status) begin() func(err error) {
	s.mu.Lock()
	s.pending++
	s.err = ""
	s.mu.Unlock()

	return func(err error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending--
		if err != nil {
			s.err = service.MessageOf(err)
		}
	}
}

// Loading reports whether any call is in flight.
func (s *status) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending > 0
}

// Err returns the message of the last failed call, or "" if it succeeded.
func (s *status) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
