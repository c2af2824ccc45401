package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/engine"
	"github.com/abhisek/mapquiz/internal/ui/components"
	"github.com/abhisek/mapquiz/internal/ui/layout"
	"github.com/abhisek/mapquiz/internal/ui/theme"
)

const (
	panelWidth        = 36
	compactPanelWidth = 30
)

func (s *QuizScreen) View(width, height int) string {
	if s.err != nil {
		return renderError(width, height, s.err)
	}
	if s.gameOver != nil {
		return components.Centered(s.renderGameOver(), width, height)
	}

	pw := panelWidth
	if layout.IsCompactWidth(width) {
		pw = compactPanelWidth
	}
	mapWidth := max(width-pw-2, 10)

	target := ""
	if s.round != nil {
		target = s.round.TargetID
	}
	mapArea := lipgloss.NewStyle().
		Width(mapWidth).
		Height(height).
		Render(s.mapv.Render(mapWidth, height, target, s.statusOf, s.styles))

	return lipgloss.JoinHorizontal(lipgloss.Top, mapArea, "  ", s.renderPanel(pw))
}

func (s *QuizScreen) renderPanel(width int) string {
	inner := width - 4 // card border and padding

	var sections []string

	question := theme.Body.Bold(true).Render("Which region is highlighted?")
	sections = append(sections, components.Card("", question+"\n\n"+s.choices.View(inner), width))

	if fb := s.renderFeedback(inner); fb != "" {
		sections = append(sections, components.Card("", fb, width))
	}

	st := s.eng.State()
	stats := fmt.Sprintf("Streak %d   Round %d\nAccuracy %.0f%%",
		st.Streak, roundNumber(s.round), st.Accuracy()*100)
	progress := components.RegionProgress{
		Mastered: st.Counts.Mastered,
		Active:   st.Counts.Active,
		Pending:  st.Counts.Pending,
		Width:    max(inner-16, 3),
	}
	sections = append(sections, components.Card("Progress",
		theme.Body.Render(stats)+"\n"+progress.View(), width))

	return strings.Join(sections, "\n")
}

func roundNumber(r *engine.Round) int {
	if r == nil {
		return 0
	}
	return r.Number
}

// renderFeedback describes the last answer; empty while awaiting one.
func (s *QuizScreen) renderFeedback(width int) string {
	o := s.outcome
	if o == nil {
		return ""
	}

	var lines []string
	if o.Correct {
		msg := "Correct!"
		if o.BonusLife {
			msg += " +1 life!"
		}
		lines = append(lines, theme.Correct.Render(msg))
		if o.NewHighScore {
			lines = append(lines, theme.Score.Render("New high score!"))
		}
	} else {
		lines = append(lines,
			theme.Incorrect.Render("Incorrect!"),
			theme.Body.Render("That was "+catalog.DisplayName(o.CorrectID)+"."))
	}

	if m := o.Mastery; m != nil {
		lines = append(lines, theme.Correct.Render("Mastered "+catalog.DisplayName(m.MasteredID)))
		if m.PromotedID != "" {
			verb := "New region: "
			if m.Recycled {
				verb = "Back for review: "
			}
			lines = append(lines, theme.Hint.Render(verb+catalog.DisplayName(m.PromotedID)))
		}
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (s *QuizScreen) renderGameOver() string {
	g := s.gameOver
	body := strings.Join([]string{
		theme.Incorrect.Render("Game Over!"),
		"",
		theme.Body.Render(fmt.Sprintf("Your final score: %d", g.score)),
		theme.Score.Render(fmt.Sprintf("High score: %d", g.highScore)),
		"",
		theme.Hint.Render("Press N to play again"),
	}, "\n")
	return components.Overlay(body)
}

func renderError(width, height int, err error) string {
	return components.Centered(
		lipgloss.NewStyle().
			Foreground(theme.Error).
			Render(fmt.Sprintf("Error: %v\n\nPress Esc to go back.", err)),
		width, height)
}
