package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mapquiz/internal/ui/theme"
)

const titleFull = ` ███╗   ███╗ █████╗ ██████╗      ██████╗ ██╗   ██╗██╗███████╗
 ████╗ ████║██╔══██╗██╔══██╗    ██╔═══██╗██║   ██║██║╚══███╔╝
 ██╔████╔██║███████║██████╔╝    ██║   ██║██║   ██║██║  ███╔╝
 ██║╚██╔╝██║██╔══██║██╔═══╝     ██║▄▄ ██║██║   ██║██║ ███╔╝
 ██║ ╚═╝ ██║██║  ██║██║         ╚██████╔╝╚██████╔╝██║███████╗
 ╚═╝     ╚═╝╚═╝  ╚═╝╚═╝          ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝`

const titleCompact = "M · A · P   Q · U · I · Z"

// titleFullWidth is the display width of titleFull.
const titleFullWidth = 62

// renderTitle returns the block-letter title, or the compact fallback when
// cw cannot hold it.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	art := titleFull
	if compact || cw < titleFullWidth {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// stats is what the bar under the title shows.
type stats struct {
	catalog   string
	regions   int
	highScore int
	games     int
}

// renderStatsBar renders the dashboard numbers in a double-bordered box.
func renderStatsBar(st stats, cw int, compact bool) string {
	best := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	regions := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var text string
	if compact {
		text = fmt.Sprintf("%s %s %s",
			best.Render(fmt.Sprintf("★%d", st.highScore)),
			regions.Render(fmt.Sprintf("◆%d", st.regions)),
			dim.Render(fmt.Sprintf("#%d", st.games)),
		)
	} else {
		text = fmt.Sprintf("%s  %s  %s",
			best.Render(fmt.Sprintf("★ BEST %d", st.highScore)),
			regions.Render(fmt.Sprintf("◆ %d REGIONS", st.regions)),
			dim.Render(fmt.Sprintf("%d PLAYED", st.games)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

// renderTagline names the loaded catalog.
func renderTagline(name string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Width(cw).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("Catalog: %s", name))
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderFrame wraps content in a double border, centred in the given area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
