package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

func testTheme() *Theme {
	return &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#3366ff",
		Self:        "#33cc66",
		Consensus:   "#ffcc00",
		Warning:     "#ff8800",
		Absent:      "#ff3344",
		Others:      []string{"#00ccff", "#cc66ff", "#ff6688"},
	}
}

func TestOtherColorWithinRing(t *testing.T) {
	p := NewPalette(testTheme())

	if got := p.OtherColor(0, 3); got != lipgloss.Color("#00ccff") {
		t.Errorf("OtherColor(0, 3) = %q", got)
	}
	if got := p.OtherColor(2, 3); got != lipgloss.Color("#ff6688") {
		t.Errorf("OtherColor(2, 3) = %q", got)
	}
}

func TestOtherColorSpinsPastRing(t *testing.T) {
	p := NewPalette(testTheme())

	// 8 participants exceed the 3-color ring: spun colors, deterministic.
	first := p.OtherColor(5, 8)
	second := p.OtherColor(5, 8)
	if first != second {
		t.Errorf("spin is not deterministic: %q vs %q", first, second)
	}

	// Index 0 spins by zero degrees: identical to the ring's first color.
	base, _ := colorful.Hex("#00ccff")
	if got := p.OtherColor(0, 8); got != lipgloss.Color(base.Hex()) {
		t.Errorf("OtherColor(0, 8) = %q, want ring base %q", got, base.Hex())
	}

	// Distinct indices land on distinct hues.
	if p.OtherColor(2, 8) == p.OtherColor(6, 8) {
		t.Error("distinct participants share a spun color")
	}
}

func TestDim(t *testing.T) {
	p := NewPalette(testTheme())
	c := lipgloss.Color("#33cc66")

	if got := p.Dim(c, 1); got != c {
		t.Errorf("Dim(c, 1) = %q, want unchanged", got)
	}
	if got := p.Dim(c, 0); got != lipgloss.Color("#101010") {
		t.Errorf("Dim(c, 0) = %q, want background", got)
	}

	// Partial alpha lands between the two.
	mid := p.Dim(c, 0.3)
	if mid == c || mid == p.Bg {
		t.Errorf("Dim(c, 0.3) = %q, want a blend", mid)
	}
}

func TestTextOnPicksContrast(t *testing.T) {
	light, _ := colorful.Hex("#ffee88")
	dark, _ := colorful.Hex("#112233")

	if got := textOn(light); got != lipgloss.Color("#1a1a1a") {
		t.Errorf("textOn(light) = %q", got)
	}
	if got := textOn(dark); got != lipgloss.Color("#f5f5f5") {
		t.Errorf("textOn(dark) = %q", got)
	}
}

func TestNewPaletteNilLoadsDefault(t *testing.T) {
	p := NewPalette(nil)
	if p.Bg == "" || p.Self == "" {
		t.Error("nil theme should produce the default palette")
	}
}
