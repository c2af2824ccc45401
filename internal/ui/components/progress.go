package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/mapquiz/internal/ui/theme"
)

// RegionProgress is a segmented bar: mastered, then active, then pending.
type RegionProgress struct {
	Mastered int
	Active   int
	Pending  int
	Width    int
}

func (p RegionProgress) total() int {
	return p.Mastered + p.Active + p.Pending
}

// segments splits the bar width proportionally. Any non-zero group gets
// at least one cell when the bar is wide enough to show every group.
func (p RegionProgress) segments() (mastered, active, pending int) {
	total := p.total()
	width := max(p.Width, 3)
	if total == 0 {
		return 0, 0, width
	}
	scale := func(n int) int {
		w := n * width / total
		if n > 0 && w == 0 {
			w = 1
		}
		return w
	}
	mastered = scale(p.Mastered)
	active = scale(p.Active)
	pending = max(width-mastered-active, 0)
	if p.Pending == 0 && pending > 0 {
		// Rounding slack goes to the last non-empty group.
		if p.Active > 0 {
			active += pending
		} else {
			mastered += pending
		}
		pending = 0
	}
	return mastered, active, pending
}

// View renders the bar followed by a "mastered/total" label.
func (p RegionProgress) View() string {
	m, a, n := p.segments()
	bar := theme.ProgressMastered.Render(strings.Repeat("█", m)) +
		theme.ProgressActive.Render(strings.Repeat("▓", a)) +
		theme.ProgressPending.Render(strings.Repeat("░", n))
	return bar + theme.Hint.Render(fmt.Sprintf("  %d/%d mastered", p.Mastered, p.total()))
}
