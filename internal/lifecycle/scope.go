// Package lifecycle ties subscriptions to a mount/unmount boundary.
package lifecycle

import (
	"fmt"
	"sync"
)

// Teardown releases whatever a Setup acquired.
type Teardown func()

// Setup acquires a listener, timer or observer and returns its release.
type Setup func() Teardown

// Scope collects teardowns and runs each exactly once on Close, most recent
// first.
type Scope struct {
	mu        sync.Mutex
	teardowns []Teardown
	closed    bool

	// OnPanic, when set, receives an error wrapping the value of a teardown
	// that panicked.
	OnPanic func(v any)
}

// Mount runs setup and records its teardown. Mounting into a closed scope
// releases immediately.
func (s *Scope) Mount(setup Setup) {
	td := setup()
	if td == nil {
		return
	}
	s.Defer(td)
}

// Defer records a teardown without a setup step.
func (s *Scope) Defer(td Teardown) {
	if td == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.run(td)
		return
	}
	s.teardowns = append(s.teardowns, td)
	s.mu.Unlock()
}

// Close runs every recorded teardown. Further calls do nothing.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	tds := s.teardowns
	s.teardowns = nil
	s.mu.Unlock()

	for i := len(tds) - 1; i >= 0; i-- {
		s.run(tds[i])
	}
}

// Closed reports whether Close has run.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Scope) run(td Teardown) {
	defer func() {
		if v := recover(); v != nil && s.OnPanic != nil {
			s.OnPanic(fmt.Errorf("teardown panic: %v", v))
		}
	}()
	td()
}
