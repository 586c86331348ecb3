package cmd

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/statekit/cmd/statekit/internal/config"
	"github.com/go-drift/statekit/pkg/animation"
	"github.com/go-drift/statekit/pkg/theme"
)

// Palette is one brightness variant of a named theme.
type Palette struct {
	Name       string
	Background color.RGBA
	Foreground color.RGBA
	Accent     color.RGBA
}

var (
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black = color.RGBA{A: 0xff}
)

// paletteEntries derives a light and a dark palette from each base color.
func paletteEntries(colors []config.NamedColor) []theme.Entry[Palette] {
	entries := make([]theme.Entry[Palette], len(colors))
	for i, c := range colors {
		entries[i] = theme.Entry[Palette]{
			Key: c.Name,
			Light: Palette{
				Name:       c.Name,
				Background: animation.LerpColor(c.Color, white, 0.85),
				Foreground: animation.LerpColor(c.Color, black, 0.7),
				Accent:     c.Color,
			},
			Dark: Palette{
				Name:       c.Name,
				Background: animation.LerpColor(c.Color, black, 0.85),
				Foreground: animation.LerpColor(c.Color, white, 0.7),
				Accent:     c.Color,
			},
		}
	}
	return entries
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (p Palette) style() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex(p.Background))).
		Foreground(lipgloss.Color(hex(p.Foreground)))
}

func (p Palette) accent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex(p.Accent)))
}
