package engine

import "context"

// Sink receives engine events. Implementations render; they never reach
// back into engine internals.
type Sink interface {
	OnRoundStart(round Round)
	OnAnswerResolved(outcome Outcome)
	OnGameOver(finalScore, highScore int)
	OnReset()
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) OnRoundStart(Round)       {}
func (NopSink) OnAnswerResolved(Outcome) {}
func (NopSink) OnGameOver(int, int)      {}
func (NopSink) OnReset()                 {}

// ScoreStore persists the high score.
type ScoreStore interface {
	SaveHighScore(ctx context.Context, score int) error
}

// GameRecorder appends finished games to history.
type GameRecorder interface {
	RecordGame(ctx context.Context, summary GameSummary) error
}
