package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/tattva/internal/astro"
)

// palette holds the semantic colors for one theme.
type palette struct {
	primary lipgloss.Color // headings
	accent  lipgloss.Color // countdowns
	muted   lipgloss.Color // secondary text
	text    lipgloss.Color // primary text
	surface lipgloss.Color // status bar background
	danger  lipgloss.Color // errors
}

var (
	darkPalette = palette{
		primary: lipgloss.Color("#00BFFF"),
		accent:  lipgloss.Color("#FFD700"),
		muted:   lipgloss.Color("#636363"),
		text:    lipgloss.Color("#EEEEEE"),
		surface: lipgloss.Color("#1E1E2E"),
		danger:  lipgloss.Color("#FF5252"),
	}
	lightPalette = palette{
		primary: lipgloss.Color("#0066CC"),
		accent:  lipgloss.Color("#B8860B"),
		muted:   lipgloss.Color("#8C8C8C"),
		text:    lipgloss.Color("#1E1E2E"),
		surface: lipgloss.Color("#E6E6F0"),
		danger:  lipgloss.Color("#C62828"),
	}
)

// tattvaColors tints each element.
var tattvaColors = map[astro.Tattva]lipgloss.Color{
	astro.Akasha:   lipgloss.Color("#B388FF"),
	astro.Vayu:     lipgloss.Color("#5B8DEF"),
	astro.Tejas:    lipgloss.Color("#FF5252"),
	astro.Apas:     lipgloss.Color("#B0BEC5"),
	astro.Prithivi: lipgloss.Color("#FFD54F"),
}

// Styles is the resolved style set for a theme.
type Styles struct {
	StatusBar lipgloss.Style
	Heading   lipgloss.Style
	Value     lipgloss.Style
	Countdown lipgloss.Style
	Muted     lipgloss.Style
	Current   lipgloss.Style
	Error     lipgloss.Style
	Card      lipgloss.Style
}

// NewStyles builds the style set for "dark" or "light"; anything else is dark.
func NewStyles(theme string) Styles {
	p := darkPalette
	if strings.EqualFold(theme, "light") {
		p = lightPalette
	}
	return Styles{
		StatusBar: lipgloss.NewStyle().Background(p.surface).Foreground(p.text).Bold(true).Padding(0, 1),
		Heading:   lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		Value:     lipgloss.NewStyle().Foreground(p.text),
		Countdown: lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(p.muted),
		Current:   lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(p.danger).Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.muted).
			Padding(0, 1),
	}
}

// tattvaStyle colors a Tattva name.
func tattvaStyle(t astro.Tattva) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(tattvaColors[t]).Bold(true)
}
