// Package tui renders the portfolio in a terminal. Line offsets stand in for
// pixels: the same scroll, reveal, pointer, typewriter and theme controllers
// the web page uses drive the nav bar, the faint-until-seen blocks and the
// hero line.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/lifecycle"
	"github.com/Zachkp/folio/internal/pointer"
	"github.com/Zachkp/folio/internal/reveal"
	"github.com/Zachkp/folio/internal/scroll"
	"github.com/Zachkp/folio/internal/theme"
	"github.com/Zachkp/folio/internal/typewriter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configures a Model. Theme is required.
type Options struct {
	Scroll          scroll.Config
	RevealThreshold float64
	Timing          typewriter.Timing
	Theme           *theme.Store
	Log             *slog.Logger
}

// typeTickMsg advances the hero typewriter.
type typeTickMsg time.Time

type navSpan struct {
	id     string
	x0, x1 int
}

// Model is the bubbletea model for `folio tui`.
type Model struct {
	keys     KeyMap
	log      *slog.Logger
	theme    *theme.Store
	styles   styles
	tracker  *scroll.Tracker
	revealer *reveal.Revealer
	pointer  *pointer.Tracker
	typer    *typewriter.Machine
	scope    lifecycle.Scope

	viewport viewport.Model
	layout   layout
	spans    []navSpan
	scroll   scroll.State
	width    int
	height   int
	ready    bool
	status   string
}

func New(opts Options) *Model {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tracker := scroll.NewTracker(content.NavSections, opts.Scroll)
	m := &Model{
		keys:     DefaultKeyMap(),
		log:      log,
		theme:    opts.Theme,
		styles:   newStyles(opts.Theme.Tokens()),
		tracker:  tracker,
		revealer: reveal.New(opts.RevealThreshold),
		pointer:  pointer.New(),
		typer:    typewriter.New(content.Phrases, opts.Timing),
		viewport: viewport.New(0, 0),
		scroll:   tracker.State(),
	}
	m.viewport.Style = m.styles.base
	m.scope.OnPanic = func(v any) { m.log.Error("teardown panicked", "value", v) }
	m.scope.Mount(func() lifecycle.Teardown {
		return m.theme.Subscribe(m.applyTheme)
	})
	m.spans = navSpans(tracker.Sections())
	return m
}

// Close releases the theme subscription. It is safe to call more than once.
func (m *Model) Close() {
	m.scope.Close()
}

func (m *Model) Init() tea.Cmd {
	return m.typeTick(m.typer.Delay())
}

func (m *Model) typeTick(d time.Duration) tea.Cmd {
	if m.typer.Idle() || d <= 0 {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg { return typeTickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-2)
		m.ready = true
		m.render()
		m.sample()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.BlurMsg:
		m.pointer.Move(pointer.Offscreen, pointer.Offscreen)
		m.pointer.Leave()
		return m, nil

	case typeTickMsg:
		before := m.typer.Text()
		next := m.typer.Step()
		if m.typer.Text() != before {
			m.render()
		}
		return m, m.typeTick(next)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.ToggleTheme):
		if _, err := m.theme.Toggle(context.Background()); err != nil {
			m.log.Warn("theme preference not saved", "error", err)
			m.status = "theme not saved"
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.PageUp()
	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
	case key.Matches(msg, m.keys.NextSection):
		m.jump(1)
	case key.Matches(msg, m.keys.PrevSection):
		m.jump(-1)
	default:
		return m, nil
	}
	m.sample()
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.viewport.ScrollUp(3)
		m.sample()
		return
	case tea.MouseButtonWheelDown:
		m.viewport.ScrollDown(3)
		m.sample()
		return
	}

	m.pointer.Move(msg.X, msg.Y)
	id, onNav := m.navAt(msg.X, msg.Y)
	if !onNav {
		m.pointer.Leave()
		return
	}
	m.pointer.Enter()
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.jumpTo(id)
		m.sample()
	}
}

// navAt reports which nav link, if any, sits under the cell. A hidden nav
// has no links.
func (m *Model) navAt(x, y int) (string, bool) {
	if y != 0 || m.scroll.Hidden {
		return "", false
	}
	for _, s := range m.spans {
		if x >= s.x0 && x < s.x1 {
			return s.id, true
		}
	}
	return "", false
}

func (m *Model) jump(dir int) {
	sections := m.tracker.Sections()
	i := 0
	for j, s := range sections {
		if s.ID == m.scroll.ActiveSectionID {
			i = j
			break
		}
	}
	i = min(max(i+dir, 0), len(sections)-1)
	m.jumpTo(sections[i].ID)
}

func (m *Model) jumpTo(id string) {
	if top, ok := m.layout.tops[id]; ok {
		m.viewport.SetYOffset(int(top))
	}
}

func (m *Model) applyTheme(isDark bool) {
	m.styles = newStyles(theme.StyleFor(isDark))
	m.viewport.Style = m.styles.base
	m.render()
}

func (m *Model) render() {
	if !m.ready {
		return
	}
	page, lay := renderPage(m.width, m.styles, m.typer.Text(), m.revealer.Revealed)
	m.layout = lay
	m.viewport.SetContent(page)
}

// sample feeds the current offset to the scroll tracker and reports how much
// of each block is on screen.
func (m *Model) sample() {
	off := m.viewport.YOffset
	m.scroll = m.tracker.Sample(float64(off), m.layout.tops)

	top, bottom := off, off+m.viewport.Height
	changed := false
	for _, b := range m.layout.blocks {
		if m.revealer.Report(b.id, visibleRatio(b, top, bottom)) {
			changed = true
		}
	}
	if changed {
		m.render()
	}
}

func visibleRatio(b block, top, bottom int) float64 {
	height := b.end - b.start
	if height <= 0 {
		return 0
	}
	overlap := min(b.end, bottom) - max(b.start, top)
	if overlap <= 0 {
		return 0
	}
	return float64(overlap) / float64(height)
}

func navSpans(sections []scroll.Section) []navSpan {
	x := lipgloss.Width(content.Me.Initials) + 2
	spans := make([]navSpan, 0, len(sections))
	for _, s := range sections {
		w := lipgloss.Width(s.Label) + 2
		spans = append(spans, navSpan{id: s.ID, x0: x, x1: x + w})
		x += w
	}
	return spans
}

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.navBar(), m.viewport.View(), m.footer())
}

func (m *Model) navBar() string {
	if m.scroll.Hidden {
		return m.styles.base.Width(m.width).Render("")
	}

	hover := m.pointer.State()
	hovered, _ := m.navAt(hover.X, hover.Y)

	var b strings.Builder
	b.WriteString(m.styles.logo.Render(content.Me.Initials))
	for _, s := range m.tracker.Sections() {
		st := m.styles.nav
		switch {
		case s.ID == m.scroll.ActiveSectionID:
			st = m.styles.navActive
		case hover.HoveringInteractive && s.ID == hovered:
			st = m.styles.navHover
		}
		b.WriteString(st.Render(s.Label))
	}

	mode := "☀"
	if m.theme.IsDark() {
		mode = "☾"
	}
	bar := b.String()
	gap := max(0, m.width-lipgloss.Width(bar)-3)
	return bar + m.styles.nav.Render(strings.Repeat(" ", gap)+mode)
}

func (m *Model) footer() string {
	var parts []string
	for _, k := range m.keys.help() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	line := strings.Join(parts, " • ")
	if p := m.pointer.State(); p.Moved() {
		line += fmt.Sprintf("  ◎ %d,%d", p.X, p.Y)
	}
	if m.status != "" {
		line += "  " + m.status
	}
	return m.styles.footer.Render(line)
}
