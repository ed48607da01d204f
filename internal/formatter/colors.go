package formatter

import (
	"github.com/charmbracelet/lipgloss"
)

// DefaultPalette is the palette used for terminal output.
var DefaultPalette = NewPalette("#7D56F4", "#04B575", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
//
// A nil *Palette renders text unchanged.
type Palette struct {
	title lipgloss.Style
	score lipgloss.Style
	field lipgloss.Style
	rule  lipgloss.Style
}

func NewPalette(t, s, f, r string) *Palette {
	return &Palette{
		title: NewBold(t),
		score: NewBold(s),
		field: NewStyle(f),
		rule:  NewEm(r),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func (p *Palette) paint(style func(*Palette) lipgloss.Style, s string) string {
	if p == nil {
		return s
	}
	return style(p).Render(s)
}

func (p *Palette) Title(s string) string {
	return p.paint(func(p *Palette) lipgloss.Style { return p.title }, s)
}

func (p *Palette) Score(s string) string {
	return p.paint(func(p *Palette) lipgloss.Style { return p.score }, s)
}

func (p *Palette) Field(s string) string {
	return p.paint(func(p *Palette) lipgloss.Style { return p.field }, s)
}

func (p *Palette) Rule(s string) string {
	return p.paint(func(p *Palette) lipgloss.Style { return p.rule }, s)
}
