package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/quorum-sh/quorum/internal/schedule"
	"github.com/quorum-sh/quorum/internal/tui/theme"
)

// Hover targets. hoverSelf highlights the user's own cells; values above
// it highlight Others[hovered-1].
const (
	hoverNone = -1
	hoverSelf = 0
)

const dimAlpha = 0.3

// cellLook is the resolved appearance of one grid cell.
type cellLook struct {
	fill      lipgloss.Color
	hasFill   bool
	alpha     float64
	showCount bool // render the occupancy count on top
}

// resolveCreateCell colors a cell on the create screen, where only the
// user's own selection exists.
func resolveCreateCell(p *theme.Palette, sel *schedule.Selection, selected, covered bool) cellLook {
	look := cellLook{alpha: 1}

	if selected || (covered && sel.Additive()) {
		look.fill = p.Self
		look.hasFill = true
		if covered && !sel.Additive() {
			look.alpha = dimAlpha
		}
	}
	return look
}

// resolveRoomCell colors a cell on the room screen. Priority: a hovered
// other who occupies the cell wins; then consensus (everyone free); then
// the user's own selection. Hovering anyone dims every cell the rules
// above did not claim for them.
func resolveRoomCell(p *theme.Palette, d *schedule.Data, sel *schedule.Selection, hovered, dateIndex, timeIndex int) cellLook {
	selected := d.UserSchedule.At(dateIndex, timeIndex)
	covered := sel.Covers(dateIndex, timeIndex)
	occupants := d.Occupancy(dateIndex, timeIndex)

	look := cellLook{alpha: 1}

	selectedByAll := len(d.Others) > 0 &&
		len(occupants) == len(d.Others) &&
		((covered && sel.Additive()) || selected)

	if hovered != hoverNone {
		look.alpha = dimAlpha
	}

	hoveredOther := hovered - 1
	selectedByHovered := hovered > hoverSelf && contains(occupants, hoveredOther)

	switch {
	case selectedByHovered:
		look.fill = p.OtherColor(hoveredOther, len(d.Others))
		look.hasFill = true
	case selectedByAll:
		look.fill = p.Consensus
		look.hasFill = true
	case selected || (covered && sel.Additive()):
		look.fill = p.Self
		look.hasFill = true
	}

	if selectedByHovered || (hovered == hoverSelf && selected) {
		look.alpha = 1
	}
	if covered && !sel.Additive() {
		look.alpha = dimAlpha
	}

	look.showCount = !selectedByAll && !selectedByHovered
	return look
}

// fillColor applies the alpha by blending toward the background.
func (l cellLook) fillColor(p *theme.Palette) lipgloss.Color {
	if !l.hasFill {
		return p.BgHighlight
	}
	return p.Dim(l.fill, l.alpha)
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
