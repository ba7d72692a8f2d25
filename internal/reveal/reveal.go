// Package reveal tracks one-shot visibility reveals for page elements.
//
// An element is revealed the first time the visible fraction reported for it
// reaches its threshold. Once revealed it stays revealed; leaving and
// re-entering the viewport changes nothing.
package reveal

import "sync"

// DefaultThreshold is the visible fraction that triggers a reveal.
const DefaultThreshold = 0.15

type entry struct {
	threshold float64
	revealed  bool
	waiters   []chan bool
}

// Revealer holds reveal state for any number of elements, keyed by id.
// It is safe for concurrent use.
type Revealer struct {
	mu               sync.Mutex
	defaultThreshold float64
	entries          map[string]*entry
}

// New creates a Revealer. Thresholds outside (0, 1] fall back to
// DefaultThreshold.
func New(defaultThreshold float64) *Revealer {
	return &Revealer{
		defaultThreshold: normalize(defaultThreshold, DefaultThreshold),
		entries:          make(map[string]*entry),
	}
}

func normalize(threshold, fallback float64) float64 {
	if threshold <= 0 || threshold > 1 {
		return fallback
	}
	return threshold
}

func (r *Revealer) entryLocked(id string) *entry {
	e, ok := r.entries[id]
	if !ok {
		e = &entry{threshold: r.defaultThreshold}
		r.entries[id] = e
	}
	return e
}

// Observe subscribes to the reveal of id. The returned channel receives true
// once when the element is revealed and is then closed. If the element is
// already revealed the value is delivered immediately. cancel releases the
// subscription and closes the channel if it has not fired; it may be called
// more than once.
//
// A threshold in (0, 1] replaces the element's current threshold; anything
// else keeps it.
func (r *Revealer) Observe(id string, threshold float64) (<-chan bool, func()) {
	ch := make(chan bool, 1)

	r.mu.Lock()
	e := r.entryLocked(id)
	e.threshold = normalize(threshold, e.threshold)
	if e.revealed {
		ch <- true
		close(ch)
		r.mu.Unlock()
		return ch, func() {}
	}
	e.waiters = append(e.waiters, ch)
	r.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i, w := range e.waiters {
				if w == ch {
					e.waiters = append(e.waiters[:i], e.waiters[i+1:]...)
					close(ch)
					return
				}
			}
		})
	}
	return ch, cancel
}

// Report records the visible fraction of id. It returns true only for the
// report that flips the element to revealed.
func (r *Revealer) Report(id string, ratio float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.entryLocked(id)
	if e.revealed || ratio <= 0 || ratio < e.threshold {
		return false
	}

	e.revealed = true
	for _, w := range e.waiters {
		w <- true
		close(w)
	}
	e.waiters = nil
	return true
}

// Revealed reports whether id has ever been revealed.
func (r *Revealer) Revealed(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	return ok && e.revealed
}

// snapshot returns the ids revealed so far.
func (r *Revealer) snapshot() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool, len(r.entries))
	for id, e := range r.entries {
		if e.revealed {
			out[id] = true
		}
	}
	return out
}

// Fill returns the width, in percent, of a skill bar whose final level is
// target. Bars stay empty until revealed.
func Fill(target int, revealed bool) int {
	if !revealed {
		return 0
	}
	switch {
	case target < 0:
		return 0
	case target > 100:
		return 100
	}
	return target
}
