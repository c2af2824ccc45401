package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mapquiz/internal/router"
	"github.com/abhisek/mapquiz/internal/screen"
	"github.com/abhisek/mapquiz/internal/store"
	"github.com/abhisek/mapquiz/internal/ui/layout"
	"github.com/abhisek/mapquiz/internal/ui/theme"
)

// Limit is how many recent games the screen lists.
const Limit = 50

type historyLoadedMsg struct {
	Games []store.GameRecord
	Err   error
}

// HistoryScreen lists recently finished games.
type HistoryScreen struct {
	repo     store.GameHistoryRepo
	games    []store.GameRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.GameHistoryRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		games, err := repo.Recent(context.Background(), Limit)
		return historyLoadedMsg{Games: games, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.games = msg.Games
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.games)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

// totals aggregates the listed games for the summary line.
func totals(games []store.GameRecord) (best, answered, correct, mastered int) {
	for _, g := range games {
		best = max(best, g.Score)
		answered += g.Answered
		correct += g.Correct
		mastered += g.Mastered
	}
	return best, answered, correct, mastered
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(style lipgloss.Style, text string) string {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(style.Render(text))
	}

	if s.errMsg != "" {
		return "\n\n" + center(lipgloss.NewStyle().Foreground(theme.Error), "Error: "+s.errMsg)
	}
	if !s.loaded {
		return "\n\n" + center(theme.Hint, "Loading history...")
	}
	if len(s.games) == 0 {
		return "\n\n" + center(theme.Hint, "No games yet. Go find some regions!")
	}

	var b strings.Builder
	b.WriteString("\n")

	best, answered, correct, mastered := totals(s.games)
	accuracy := 0.0
	if answered > 0 {
		accuracy = float64(correct) / float64(answered) * 100
	}
	b.WriteString(center(theme.Score, fmt.Sprintf(
		"%d games   best %d   %.0f%% accuracy   %d mastered",
		len(s.games), best, accuracy, mastered)))
	b.WriteString("\n\n")

	for i, g := range s.games {
		d := g.Duration().Round(time.Second)
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}

		line := fmt.Sprintf("%s%s  %6s  %5d pts  %3d answered  %3.0f%%",
			prefix, g.EndedAt.Format("Jan 02 15:04"), d, g.Score, g.Answered, g.Accuracy()*100)
		b.WriteString(center(style, line))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    catalog %s · %d rounds · %d mastered · game %s",
				g.Catalog, g.Rounds, g.Mastered, shortID(g.ID))
			b.WriteString(center(theme.Hint, detail))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
