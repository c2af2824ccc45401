package mapview

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mapquiz/internal/engine"
	"github.com/abhisek/mapquiz/internal/ui/theme"
)

const (
	fillGlyph  = "█"
	edgeGlyph  = "▓"
	emptyGlyph = " "
)

// Styles colours regions by their role in the current round.
type Styles struct {
	Target   lipgloss.Style
	Active   lipgloss.Style
	Mastered lipgloss.Style
	Pending  lipgloss.Style
}

// DefaultStyles uses the application palette.
func DefaultStyles() Styles {
	return Styles{
		Target:   lipgloss.NewStyle().Foreground(theme.MapTarget),
		Active:   lipgloss.NewStyle().Foreground(theme.MapActive),
		Mastered: lipgloss.NewStyle().Foreground(theme.MapMastered),
		Pending:  lipgloss.NewStyle().Foreground(theme.MapPending).Faint(true),
	}
}

func (s Styles) forRegion(id, target string, status func(string) engine.Status) lipgloss.Style {
	if id == target {
		return s.Target
	}
	switch status(id) {
	case engine.StatusActive:
		return s.Active
	case engine.StatusMastered:
		return s.Mastered
	default:
		return s.Pending
	}
}

// Render draws the map at width×height with target highlighted. status
// reports each region's progression status.
func (m *Map) Render(width, height int, target string, status func(id string) engine.Status, styles Styles) string {
	g := m.Rasterize(width, height)

	var sb strings.Builder
	for row := 0; row < g.Height; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		// Style runs of identical cells in one call.
		var run strings.Builder
		runID := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runID == "" {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(styles.forRegion(runID, target, status).Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < g.Width; col++ {
			id := g.ID(col, row)
			if id != runID {
				flush()
				runID = id
			}
			switch {
			case id == "":
				run.WriteString(emptyGlyph)
			case g.edge(col, row):
				run.WriteString(edgeGlyph)
			default:
				run.WriteString(fillGlyph)
			}
		}
		flush()
	}
	return sb.String()
}
