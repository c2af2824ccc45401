package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mapquiz/internal/engine"
)

var gameColumns = []string{
	"id", "sequence", "catalog", "score", "answered", "correct",
	"mastered", "rounds", "started_at", "ended_at",
}

// GameRepo stores finished games.
type GameRepo struct {
	drv     *entsql.Driver
	seq     *sequenceCounter
	catalog string
}

// RecordGame appends a finished game to the history.
func (r *GameRepo) RecordGame(ctx context.Context, g engine.GameSummary) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(gamesTable).
		Columns(gameColumns...).
		Values(
			g.GameID, seq, r.catalog, g.Score, g.Answered, g.Correct,
			g.Mastered, g.Rounds, g.StartedAt.UnixMilli(), g.EndedAt.UnixMilli(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("record game %s: %w", g.GameID, err)
	}
	return nil
}

// Recent returns up to limit games ordered newest first.
func (r *GameRepo) Recent(ctx context.Context, limit int) ([]GameRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(gameColumns...).
		From(b.Table(gamesTable)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var (
			g              GameRecord
			started, ended int64
		)
		if err := rows.Scan(
			&g.ID, &g.Sequence, &g.Catalog, &g.Score, &g.Answered, &g.Correct,
			&g.Mastered, &g.Rounds, &started, &ended,
		); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.StartedAt = time.UnixMilli(started)
		g.EndedAt = time.UnixMilli(ended)
		games = append(games, g)
	}
	return games, rows.Err()
}

// Stats aggregates the whole history.
type Stats struct {
	Games     int
	BestScore int
	Answered  int
	Correct   int
	Mastered  int
}

// Accuracy returns the fraction of all answers that were correct.
func (s Stats) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// Stats sums every recorded game.
func (r *GameRepo) Stats(ctx context.Context) (Stats, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(
		"COUNT(*)",
		"COALESCE(MAX(score), 0)",
		"COALESCE(SUM(answered), 0)",
		"COALESCE(SUM(correct), 0)",
		"COALESCE(SUM(mastered), 0)",
	).
		From(b.Table(gamesTable)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var s Stats
	if rows.Next() {
		if err := rows.Scan(&s.Games, &s.BestScore, &s.Answered, &s.Correct, &s.Mastered); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
	}
	return s, rows.Err()
}
