package theme

// Tokens are the theme colours, as hex strings, shared by the CSS and
// terminal renderers.
type Tokens struct {
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
	Muted      string `json:"muted"`
	Accent     string `json:"accent"`
	Border     string `json:"border"`
	Nav        string `json:"nav"`
	NavText    string `json:"navText"`
	HeroFrom   string `json:"heroFrom"`
	HeroTo     string `json:"heroTo"`
	Highlight  string `json:"highlight"`
	BarTrack   string `json:"barTrack"`
}

var (
	lightTokens = Tokens{
		Background: "#ffffff",
		Surface:    "#f3f4f6",
		Text:       "#1f2937",
		Muted:      "#4b5563",
		Accent:     "#2563eb",
		Border:     "#d1d5db",
		Nav:        "#ffffff",
		NavText:    "#111827",
		HeroFrom:   "#2563eb",
		HeroTo:     "#4338ca",
		Highlight:  "#facc15",
		BarTrack:   "#e5e7eb",
	}
	darkTokens = Tokens{
		Background: "#111827",
		Surface:    "#1f2937",
		Text:       "#f9fafb",
		Muted:      "#9ca3af",
		Accent:     "#60a5fa",
		Border:     "#374151",
		Nav:        "#111827",
		NavText:    "#ffffff",
		HeroFrom:   "#1e3a8a",
		HeroTo:     "#312e81",
		Highlight:  "#fde047",
		BarTrack:   "#374151",
	}
)

// StyleFor returns the tokens for a preference.
func StyleFor(isDark bool) Tokens {
	if isDark {
		return darkTokens
	}
	return lightTokens
}
