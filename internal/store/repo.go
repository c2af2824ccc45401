package store

import (
	"context"
	"time"

	"github.com/abhisek/mapquiz/internal/engine"
)

// HighScoreKey is the settings key holding the persisted high score.
const HighScoreKey = "highScore"

// GameRecord is one finished game as stored in the history table.
type GameRecord struct {
	ID        string
	Sequence  int64
	Catalog   string
	Score     int
	Answered  int
	Correct   int
	Mastered  int
	Rounds    int
	StartedAt time.Time
	EndedAt   time.Time
}

// Accuracy returns the fraction of answered rounds that were correct.
func (g GameRecord) Accuracy() float64 {
	if g.Answered == 0 {
		return 0
	}
	return float64(g.Correct) / float64(g.Answered)
}

// Duration returns how long the game lasted.
func (g GameRecord) Duration() time.Duration {
	return g.EndedAt.Sub(g.StartedAt)
}

// HighScoreRepo persists the single best score across sessions.
type HighScoreRepo interface {
	engine.ScoreStore

	// HighScore returns the stored high score. A missing or malformed
	// value reads as 0.
	HighScore(ctx context.Context) (int, error)

	// ResetHighScore removes the stored value.
	ResetHighScore(ctx context.Context) error
}

// GameHistoryRepo records finished games and lists them back.
type GameHistoryRepo interface {
	engine.GameRecorder

	// Recent returns up to limit games, newest first. limit <= 0 means all.
	Recent(ctx context.Context, limit int) ([]GameRecord, error)
}

var (
	_ HighScoreRepo   = (*ScoreRepo)(nil)
	_ GameHistoryRepo = (*GameRepo)(nil)
)
