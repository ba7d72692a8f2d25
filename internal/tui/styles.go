package tui

import (
	"github.com/Zachkp/folio/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	base      lipgloss.Style
	nav       lipgloss.Style
	navActive lipgloss.Style
	navHover  lipgloss.Style
	logo      lipgloss.Style
	name      lipgloss.Style
	heading   lipgloss.Style
	title     lipgloss.Style
	text      lipgloss.Style
	muted     lipgloss.Style
	accent    lipgloss.Style
	caret     lipgloss.Style
	hidden    lipgloss.Style
	barFill   lipgloss.Style
	barTrack  lipgloss.Style
	card      lipgloss.Style
	footer    lipgloss.Style
}

func newStyles(t theme.Tokens) styles {
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }

	return styles{
		base:      lipgloss.NewStyle().Foreground(c(t.Text)).Background(c(t.Background)),
		nav:       lipgloss.NewStyle().Foreground(c(t.NavText)).Background(c(t.Nav)).Padding(0, 1),
		navActive: lipgloss.NewStyle().Foreground(c(t.Accent)).Background(c(t.Nav)).Bold(true).Underline(true).Padding(0, 1),
		navHover:  lipgloss.NewStyle().Foreground(c(t.Highlight)).Background(c(t.Nav)).Padding(0, 1),
		logo:      lipgloss.NewStyle().Foreground(c(t.NavText)).Background(c(t.Nav)).Bold(true).Padding(0, 1),
		name:      lipgloss.NewStyle().Foreground(c(t.Highlight)).Bold(true),
		heading:   lipgloss.NewStyle().Foreground(c(t.Accent)).Bold(true).MarginTop(1),
		title:     lipgloss.NewStyle().Foreground(c(t.Text)).Bold(true),
		text:      lipgloss.NewStyle().Foreground(c(t.Text)),
		muted:     lipgloss.NewStyle().Foreground(c(t.Muted)),
		accent:    lipgloss.NewStyle().Foreground(c(t.Accent)),
		caret:     lipgloss.NewStyle().Foreground(c(t.Highlight)),
		hidden:    lipgloss.NewStyle().Foreground(c(t.Border)).Faint(true),
		barFill:   lipgloss.NewStyle().Foreground(c(t.Accent)),
		barTrack:  lipgloss.NewStyle().Foreground(c(t.BarTrack)),
		card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c(t.Border)).Padding(0, 1),
		footer:    lipgloss.NewStyle().Foreground(c(t.Muted)),
	}
}
