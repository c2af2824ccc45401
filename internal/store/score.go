package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// ScoreRepo keeps the high score in the settings table.
type ScoreRepo struct {
	drv *entsql.Driver
}

// scoreMu serializes read-compare-write across every ScoreRepo so two
// engines sharing a database cannot lower the stored value.
var scoreMu sync.Mutex

// HighScore reads the stored high score. Absent, non-numeric and negative
// values all read as 0.
func (r *ScoreRepo) HighScore(ctx context.Context) (int, error) {
	raw, ok, err := r.get(ctx, HighScoreKey)
	if err != nil || !ok {
		return 0, err
	}
	return parseHighScore(raw), nil
}

// SaveHighScore stores score if it beats the stored value. A lower score
// is ignored, which keeps the persisted value non-decreasing.
func (r *ScoreRepo) SaveHighScore(ctx context.Context, score int) error {
	scoreMu.Lock()
	defer scoreMu.Unlock()

	current, err := r.HighScore(ctx)
	if err != nil {
		return err
	}
	if score <= current {
		return nil
	}
	return r.put(ctx, HighScoreKey, strconv.Itoa(score))
}

// ResetHighScore removes the stored high score.
func (r *ScoreRepo) ResetHighScore(ctx context.Context) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(settingsTable).
		Where(entsql.EQ("key", HighScoreKey)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("reset high score: %w", err)
	}
	return nil
}

func (r *ScoreRepo) get(ctx context.Context, key string) (string, bool, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("value").
		From(b.Table(settingsTable)).
		Where(entsql.EQ("key", key)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return "", false, fmt.Errorf("read setting %s: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return "", false, fmt.Errorf("scan setting %s: %w", key, err)
	}
	return value, true, rows.Err()
}

func (r *ScoreRepo) put(ctx context.Context, key, value string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(settingsTable).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}

func parseHighScore(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
