// Package pointer tracks the cursor for the decorative follower.
package pointer

// Offscreen is the coordinate reported until the first move.
const Offscreen = -1

// State is the last known cursor position and hover flag.
type State struct {
	X                   int  `json:"x"`
	Y                   int  `json:"y"`
	HoveringInteractive bool `json:"hover"`
}

// Moved reports whether any position has been recorded yet.
func (s State) Moved() bool {
	return s.X != Offscreen || s.Y != Offscreen
}

// Tracker records pointer events. It is owned by a single event loop.
type Tracker struct {
	state State
}

func New() *Tracker {
	return &Tracker{state: State{X: Offscreen, Y: Offscreen}}
}

// Move records the latest position.
func (t *Tracker) Move(x, y int) State {
	t.state.X, t.state.Y = x, y
	return t.state
}

// Enter marks the pointer as over an interactive element.
func (t *Tracker) Enter() State {
	t.state.HoveringInteractive = true
	return t.state
}

// Leave clears the hover flag.
func (t *Tracker) Leave() State {
	t.state.HoveringInteractive = false
	return t.state
}

func (t *Tracker) State() State {
	return t.state
}
