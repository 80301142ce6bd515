package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todo-go/internal/config"
)

// Palette colours CLI and TUI output. The zero Palette renders plain text.
type Palette struct {
	Name   string
	accent *lipgloss.Style
	muted  *lipgloss.Style
}

// PaletteFor returns the palette for a theme name, rendered for stdout.
// Unknown themes fall back to the uncoloured default.
func PaletteFor(theme string) Palette {
	return NewPalette(theme, nil)
}

// NewPalette returns the palette for theme with colours chosen for w. Output
// that is not a terminal stays uncoloured. A nil w means stdout.
func NewPalette(theme string, w io.Writer) Palette {
	r := lipgloss.DefaultRenderer()
	if w != nil {
		r = lipgloss.NewRenderer(w)
	}

	name := config.CanonicalTheme(theme)
	switch name {
	case "noir":
		return newPalette(r, name, "208", "250")
	case "solarized":
		return newPalette(r, name, "108", "250")
	default:
		return Palette{Name: config.DefaultTheme}
	}
}

// Themes lists the themes with a palette.
func Themes() []string {
	return []string{config.DefaultTheme, "noir", "solarized"}
}

func newPalette(r *lipgloss.Renderer, name, accent, muted string) Palette {
	a := r.NewStyle().Foreground(lipgloss.Color(accent))
	m := r.NewStyle().Foreground(lipgloss.Color(muted))
	return Palette{Name: name, accent: &a, muted: &m}
}

// Accent renders text in the accent colour.
func (p Palette) Accent(text string) string {
	if p.accent == nil {
		return text
	}
	return p.accent.Render(text)
}

// Muted renders text in the muted colour.
func (p Palette) Muted(text string) string {
	if p.muted == nil {
		return text
	}
	return p.muted.Render(text)
}

// Colored reports whether the palette applies any styling.
func (p Palette) Colored() bool {
	return p.accent != nil
}
