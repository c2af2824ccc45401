package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette: an atlas look, muted land tones with one loud highlight.
var (
	Primary   = lipgloss.Color("#2563EB") // Ocean Blue
	Secondary = lipgloss.Color("#0D9488") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#16A34A") // Green
	Error     = lipgloss.Color("#DC2626") // Red
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Map region colours.
var (
	MapTarget   = lipgloss.Color("#F43F5E") // Rose, the region being asked about
	MapActive   = lipgloss.Color("#A3B18A") // Sage
	MapMastered = lipgloss.Color("#588157") // Forest
	MapPending  = lipgloss.Color("#64748B") // Grey
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Panels
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Overlay = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Error).
		Padding(1, 4).
		Align(lipgloss.Center)
)

// Answer states
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Score = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Life = lipgloss.NewStyle().
		Foreground(Error)

	LostLife = lipgloss.NewStyle().
			Foreground(Border)
)

// Progress bar segments
var (
	ProgressMastered = lipgloss.NewStyle().
				Foreground(MapMastered)

	ProgressActive = lipgloss.NewStyle().
			Foreground(MapActive)

	ProgressPending = lipgloss.NewStyle().
			Foreground(Border)
)
