// Package typewriter cycles a fixed list of phrases, typing and deleting one
// character at a time.
package typewriter

import (
	"context"
	"time"
)

// Mode is the current phase of the machine.
type Mode int

const (
	Typing Mode = iota
	PausingFull
	Deleting
)

func (m Mode) String() string {
	switch m {
	case Typing:
		return "typing"
	case PausingFull:
		return "pausing"
	case Deleting:
		return "deleting"
	}
	return "unknown"
}

// Timing holds the tick intervals for each mode.
type Timing struct {
	Type   time.Duration
	Delete time.Duration
	Pause  time.Duration
}

// DefaultTiming matches the hero banner: 100ms per typed character, 50ms per
// deleted one and a one second hold on the full phrase.
func DefaultTiming() Timing {
	return Timing{
		Type:   100 * time.Millisecond,
		Delete: 50 * time.Millisecond,
		Pause:  time.Second,
	}
}

// Machine is the typewriter state. The displayed text is always the first
// CharCount runes of the current phrase. It is not safe for concurrent use.
type Machine struct {
	phrases     [][]rune
	timing      Timing
	phraseIndex int
	charCount   int
	mode        Mode
}

// New creates a machine positioned at the start of the first phrase.
func New(phrases []string, timing Timing) *Machine {
	m := &Machine{timing: timing}
	for _, p := range phrases {
		m.phrases = append(m.phrases, []rune(p))
	}
	return m
}

func (m *Machine) Mode() Mode { return m.mode }
func (m *Machine) PhraseIndex() int { return m.phraseIndex }
func (m *Machine) CharCount() int { return m.charCount }
func (m *Machine) Idle() bool { return len(m.phrases) == 0 }

// Text returns the currently displayed substring.
func (m *Machine) Text() string {
	if m.Idle() {
		return ""
	}
	return string(m.phrases[m.phraseIndex][:m.charCount])
}

// Delay returns how long to wait before the next Step in the current mode.
func (m *Machine) Delay() time.Duration {
	switch m.mode {
	case PausingFull:
		return m.timing.Pause
	case Deleting:
		return m.timing.Delete
	}
	return m.timing.Type
}

// Step advances the machine by one tick and returns the delay before the
// next one. An idle machine does nothing and returns zero.
func (m *Machine) Step() time.Duration {
	if m.Idle() {
		return 0
	}

	full := len(m.phrases[m.phraseIndex])
	switch m.mode {
	case Typing:
		if m.charCount < full {
			m.charCount++
		}
		if m.charCount >= full {
			m.mode = PausingFull
		}
	case PausingFull:
		m.mode = Deleting
	case Deleting:
		if m.charCount > 0 {
			m.charCount--
		}
		if m.charCount == 0 {
			m.phraseIndex = (m.phraseIndex + 1) % len(m.phrases)
			m.mode = Typing
		}
	}
	return m.Delay()
}

// Run drives the machine until ctx is done, calling emit with the initial
// text and then whenever the text changes. emit is never called after Run
// returns. An idle machine returns immediately.
func (m *Machine) Run(ctx context.Context, emit func(string)) error {
	if m.Idle() {
		return nil
	}

	last := m.Text()
	emit(last)

	timer := time.NewTimer(m.Delay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		next := m.Step()
		if text := m.Text(); text != last {
			last = text
			// A cancel that raced the timer wins.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			emit(text)
		}
		timer.Reset(next)
	}
}
