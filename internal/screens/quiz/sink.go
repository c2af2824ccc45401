package quiz

import (
	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/engine"
	"github.com/abhisek/mapquiz/internal/ui/components"
)

// The screen is the engine's display sink. The engine calls these from
// inside Update, so they only touch view state.
var _ engine.Sink = (*QuizScreen)(nil)

func (s *QuizScreen) OnRoundStart(r engine.Round) {
	s.round = &r
	s.outcome = nil
	s.choices = components.NewChoices(r.Options, catalog.DisplayName)
}

func (s *QuizScreen) OnAnswerResolved(o engine.Outcome) {
	s.outcome = &o
	s.choices.Resolve(o.CorrectID, o.SelectedID)
}

func (s *QuizScreen) OnGameOver(finalScore, highScore int) {
	s.gameOver = &gameOver{score: finalScore, highScore: highScore}
}

func (s *QuizScreen) OnReset() {
	s.round = nil
	s.outcome = nil
	s.gameOver = nil
}
