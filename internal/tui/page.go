package tui

import (
	"fmt"
	"strings"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/reveal"
	"github.com/Zachkp/folio/internal/scroll"
	"github.com/charmbracelet/lipgloss"
)

// block is a revealable range of rendered lines, [start, end).
type block struct {
	id    string
	start int
	end   int
}

// layout is where things landed in the last render.
type layout struct {
	tops   scroll.Tops
	blocks []block
	lines  int
}

type pageRenderer struct {
	width    int
	st       styles
	typed    string
	revealed func(id string) bool

	lines  []string
	layout layout
}

func renderPage(width int, st styles, typed string, revealed func(string) bool) (string, layout) {
	if width < 20 {
		width = 20
	}
	r := &pageRenderer{
		width:    width,
		st:       st,
		typed:    typed,
		revealed: revealed,
		layout:   layout{tops: scroll.Tops{}},
	}

	r.hero()
	r.about()
	r.projects()
	r.blog()
	r.testimonials()
	r.experience()
	r.contact()

	r.layout.lines = len(r.lines)
	return strings.Join(r.lines, "\n"), r.layout
}

func (r *pageRenderer) add(s string) {
	r.lines = append(r.lines, strings.Split(s, "\n")...)
}

func (r *pageRenderer) section(id, heading string) {
	r.add("")
	r.layout.tops[id] = float64(len(r.lines))
	r.add(r.st.heading.Render(heading))
}

// reveal renders a block faint until it has been revealed, and records its
// line range so visibility can be measured.
func (r *pageRenderer) reveal(id string, render func(shown bool) string) {
	shown := r.revealed(id)
	start := len(r.lines)
	out := render(shown)
	if !shown {
		out = r.st.hidden.Render(lipgloss.NewStyle().Width(r.width).Render(stripStyles(out)))
	}
	r.add(out)
	r.layout.blocks = append(r.layout.blocks, block{id: id, start: start, end: len(r.lines)})
}

func (r *pageRenderer) wrap(s string) string {
	return lipgloss.NewStyle().Width(r.width - 2).Render(s)
}

func (r *pageRenderer) hero() {
	p := content.Me
	r.layout.tops["hero"] = 0
	r.add("")
	r.add("Hi, I'm " + r.st.name.Render(p.Name))
	r.add("I'm " + r.st.text.Render(r.typed) + r.st.caret.Render("|"))
	r.add("")
	r.add(r.st.muted.Render(r.wrap(p.Tagline)))
	r.add("")

	var links []string
	for _, s := range p.Socials {
		links = append(links, r.st.accent.Render(s.Name))
	}
	r.add(strings.Join(links, "  ") + "   " + r.st.muted.Render("resume: "+p.ResumePath))
}

func (r *pageRenderer) about() {
	r.section("about", "About Me")
	r.reveal("about-text", func(bool) string {
		return r.st.text.Render(r.wrap(strings.Join(strings.Fields(content.Me.About), " ")))
	})
	r.add("")
	r.reveal("skills", func(shown bool) string {
		barWidth := min(30, r.width-24)
		if barWidth < 5 {
			barWidth = 5
		}
		var rows []string
		for _, s := range content.Skills {
			filled := barWidth * reveal.Fill(s.Level, shown) / 100
			bar := r.st.barFill.Render(strings.Repeat("█", filled)) +
				r.st.barTrack.Render(strings.Repeat("░", barWidth-filled))
			rows = append(rows, fmt.Sprintf("%-18s %s %3d%%", s.Name, bar, s.Level))
		}
		return strings.Join(rows, "\n")
	})
}

func (r *pageRenderer) card(title, body, footer string) string {
	parts := []string{r.st.title.Render(title)}
	if body != "" {
		parts = append(parts, r.st.text.Render(body))
	}
	if footer != "" {
		parts = append(parts, r.st.muted.Render(footer))
	}
	return r.st.card.Width(r.width - 4).Render(strings.Join(parts, "\n"))
}

func (r *pageRenderer) projects() {
	r.section("projects", "Projects")
	for i, p := range content.Projects {
		desc := strings.Join(strings.Fields(p.Description), " ")
		footer := strings.Join(p.Tags, " · ")
		if p.URL != "" {
			footer += "  " + p.URL
		}
		r.reveal(fmt.Sprintf("project-%d", i), func(bool) string {
			return r.card(p.Title, desc, footer)
		})
	}
}

func (r *pageRenderer) blog() {
	r.section("blog", "Blog")
	for _, p := range content.BlogPosts {
		r.reveal("post-"+p.Slug, func(bool) string {
			return r.card(p.Title, content.ExcerptText(p.Excerpt), p.Date)
		})
	}
}

func (r *pageRenderer) testimonials() {
	r.add("")
	r.add(r.st.heading.Render("What People Say"))
	for i, t := range content.Testimonials {
		r.reveal(fmt.Sprintf("testimonial-%d", i), func(bool) string {
			return r.card("“"+t.Quote+"”", "", t.Author+", "+t.Role)
		})
	}
}

func (r *pageRenderer) experience() {
	r.section("experience", "Experience")
	entry := func(id string, e content.Experience) {
		r.reveal(id, func(bool) string {
			lines := []string{
				r.st.title.Render(e.Title) + r.st.muted.Render(" @ "+e.Company),
				r.st.muted.Render(e.StartDate + " – " + e.EndDate),
			}
			for _, b := range e.Bullets {
				lines = append(lines, r.wrap("  • "+b))
			}
			return strings.Join(lines, "\n")
		})
		r.add("")
	}
	for i, e := range content.Work {
		entry(fmt.Sprintf("work-%d", i), e)
	}
	for i, e := range content.Education {
		entry(fmt.Sprintf("education-%d", i), e)
	}
}

func (r *pageRenderer) contact() {
	r.section("contact", "Contact Me")
	field := func(label string, height int) string {
		box := r.st.card.Width(r.width - 4).Height(height)
		return box.Render(r.st.muted.Render(label))
	}
	r.add(field("Your Name", 1))
	r.add(field("Your Email", 1))
	r.add(field("Your Message", 3))
	r.add(r.st.muted.Render("Write to " + content.Me.Email))
	r.add("")
}

// stripStyles drops ANSI sequences so hidden blocks take a single style.
func stripStyles(s string) string {
	var b strings.Builder
	inEscape := false
	for _, c := range s {
		switch {
		case c == '\x1b':
			inEscape = true
		case inEscape:
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
