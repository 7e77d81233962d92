package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Self        lipgloss.Color
	Consensus   lipgloss.Color
	Warning     lipgloss.Color
	Absent      lipgloss.Color

	TextOnSelf      lipgloss.Color
	TextOnConsensus lipgloss.Color

	bg   colorful.Color
	ring []colorful.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}

	bg := mustParse(t.Bg)
	ring := make([]colorful.Color, 0, len(t.Others))
	for _, hex := range t.Others {
		ring = append(ring, mustParse(hex))
	}

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Self:        lipgloss.Color(t.Self),
		Consensus:   lipgloss.Color(t.Consensus),
		Warning:     lipgloss.Color(t.Warning),
		Absent:      lipgloss.Color(t.Absent),

		TextOnSelf:      textOn(mustParse(t.Self)),
		TextOnConsensus: textOn(mustParse(t.Consensus)),

		bg:   bg,
		ring: ring,
	}
}

// OtherColor returns the color for the other participant at index i out
// of total others. While the count fits the ring every participant gets a
// ring color; past that the hue wheel is divided evenly, spinning from
// the ring's first color, so colors stay deterministic as people join.
func (p *Palette) OtherColor(i, total int) lipgloss.Color {
	if len(p.ring) == 0 {
		return p.Accent
	}
	if total <= len(p.ring) {
		return lipgloss.Color(p.ring[i%len(p.ring)].Hex())
	}

	h, s, l := p.ring[0].Hsl()
	h = math.Mod(h+float64(i)/float64(total)*360, 360)
	return lipgloss.Color(colorful.Hsl(h, s, l).Clamped().Hex())
}

// Dim blends c toward the theme background, keeping alpha of the
// original. Dim(c, 1) is c; Dim(c, 0) is the background.
func (p *Palette) Dim(c lipgloss.Color, alpha float64) lipgloss.Color {
	if alpha >= 1 {
		return c
	}
	if alpha < 0 {
		alpha = 0
	}
	parsed, err := colorful.Hex(string(c))
	if err != nil {
		return c
	}
	return lipgloss.Color(p.bg.BlendRgb(parsed, alpha).Clamped().Hex())
}

// textOn picks a readable foreground for the given fill.
func textOn(fill colorful.Color) lipgloss.Color {
	_, _, l := fill.Hsl()
	if l > 0.5 {
		return lipgloss.Color("#1a1a1a")
	}
	return lipgloss.Color("#f5f5f5")
}

func mustParse(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return c
}
