package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mapquiz/internal/ui/theme"
)

// ContentWidth returns the inner width for centred menu screens.
func ContentWidth(frameWidth int) int {
	return max(min(frameWidth-6, 60), 20)
}

// Centered places content in the middle of a width×height area.
func Centered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Card wraps content in a rounded-border card of the given outer width.
func Card(title, content string, width int) string {
	if title != "" {
		content = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(title) + "\n" + content
	}
	return theme.Card.Width(width).Render(content)
}

// Overlay renders a prominent dialog box, used for game over.
func Overlay(content string) string {
	return theme.Overlay.Render(content)
}
