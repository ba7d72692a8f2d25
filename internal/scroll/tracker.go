// Package scroll derives navbar visibility and the active navigation section
// from a stream of vertical scroll offsets.
package scroll

const (
	// DefaultHideThreshold keeps the navbar pinned near the top of the page.
	DefaultHideThreshold = 80
	// DefaultMargin is how far below the viewport top a section heading may
	// sit and still count as passed.
	DefaultMargin = 120
)

// Section is one navigable anchor on the page.
type Section struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Config holds the tracker constants. Units are whatever the host measures
// offsets in: pixels in the browser, lines in the terminal.
type Config struct {
	HideThreshold float64
	Margin        float64
}

// DefaultConfig returns the pixel defaults used by the web host.
func DefaultConfig() Config {
	return Config{HideThreshold: DefaultHideThreshold, Margin: DefaultMargin}
}

// State is the derived scroll state read by the navbar renderer.
type State struct {
	LastOffset      float64 `json:"-"`
	Hidden          bool    `json:"hidden"`
	ActiveSectionID string  `json:"active"`
}

// Geometry answers where a section starts. ok is false when the section is
// not present in the rendered document.
type Geometry interface {
	SectionTop(id string) (top float64, ok bool)
}

// Tops is a Geometry backed by a map of section id to top offset.
type Tops map[string]float64

func (t Tops) SectionTop(id string) (float64, bool) {
	top, ok := t[id]
	return top, ok
}

// Tracker folds scroll samples into State. It is not safe for concurrent
// use; each host owns one tracker on its event loop.
type Tracker struct {
	sections []Section
	cfg      Config
	state    State
}

// NewTracker creates a tracker over sections given in document order.
func NewTracker(sections []Section, cfg Config) *Tracker {
	t := &Tracker{
		sections: append([]Section(nil), sections...),
		cfg:      cfg,
	}
	if len(t.sections) > 0 {
		t.state.ActiveSectionID = t.sections[0].ID
	}
	return t
}

// Sections returns the configured sections in document order.
func (t *Tracker) Sections() []Section {
	return append([]Section(nil), t.sections...)
}

// State returns the current state without sampling.
func (t *Tracker) State() State {
	return t.state
}

// Sample records the current offset and returns the state derived from it.
// Both fields of the result come from the same offset.
func (t *Tracker) Sample(offset float64, geo Geometry) State {
	t.state.Hidden = offset > t.state.LastOffset && offset > t.cfg.HideThreshold
	t.state.LastOffset = offset

	if id, ok := t.activeAt(offset, geo); ok {
		t.state.ActiveSectionID = id
	}
	return t.state
}

// activeAt scans bottom-most first and returns the first section whose top,
// less the margin, has been scrolled past.
func (t *Tracker) activeAt(offset float64, geo Geometry) (string, bool) {
	if geo == nil {
		return "", false
	}
	for i := len(t.sections) - 1; i >= 0; i-- {
		top, ok := geo.SectionTop(t.sections[i].ID)
		if !ok {
			continue
		}
		if top-t.cfg.Margin <= offset {
			return t.sections[i].ID, true
		}
	}
	return "", false
}
