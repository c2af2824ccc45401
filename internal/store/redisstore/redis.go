// Package redisstore shares the high score and game history between
// mapquiz servers through Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/mapquiz/internal/config"
	"github.com/abhisek/mapquiz/internal/engine"
	"github.com/abhisek/mapquiz/internal/store"
)

const (
	defaultPrefix = "mapquiz"

	// highScoreMember is the single member of the high-score sorted set.
	// A sorted set lets ZADD GT raise the value atomically.
	highScoreMember = "best"

	// historyCap bounds the recent-games list.
	historyCap = 1000
)

type Store struct {
	client  *redis.Client
	prefix  string
	catalog string
}

// New connects to Redis and verifies the connection with PING.
func New(cfg config.RedisConfig, catalogName string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client, prefix: defaultPrefix, catalog: catalogName}, nil
}

// WithPrefix returns a copy of s that namespaces every key under prefix.
func (s *Store) WithPrefix(prefix string) *Store {
	cp := *s
	cp.prefix = prefix
	return &cp
}

func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *Store) key(parts ...string) string {
	k := s.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// HighScore returns the shared high score, 0 when none is stored.
func (s *Store) HighScore(ctx context.Context) (int, error) {
	v, err := s.client.ZScore(ctx, s.key(store.HighScoreKey), highScoreMember).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read high score: %w", err)
	}
	if v < 0 {
		return 0, nil
	}
	return int(v), nil
}

// SaveHighScore raises the shared high score to score if it is higher.
func (s *Store) SaveHighScore(ctx context.Context, score int) error {
	err := s.client.ZAddGT(ctx, s.key(store.HighScoreKey), redis.Z{
		Score:  float64(score),
		Member: highScoreMember,
	}).Err()
	if err != nil {
		return fmt.Errorf("save high score: %w", err)
	}
	return nil
}

func (s *Store) ResetHighScore(ctx context.Context) error {
	return s.client.Del(ctx, s.key(store.HighScoreKey)).Err()
}

// RecordGame stores the game as a hash, pushes it onto the recent list and
// ranks it on the leaderboard.
func (s *Store) RecordGame(ctx context.Context, g engine.GameSummary) error {
	seq, err := s.client.Incr(ctx, s.key("games", "seq")).Result()
	if err != nil {
		return fmt.Errorf("record game %s: %w", g.GameID, err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.key("game", g.GameID), map[string]any{
			"sequence":   seq,
			"catalog":    s.catalog,
			"score":      g.Score,
			"answered":   g.Answered,
			"correct":    g.Correct,
			"mastered":   g.Mastered,
			"rounds":     g.Rounds,
			"started_at": g.StartedAt.UnixMilli(),
			"ended_at":   g.EndedAt.UnixMilli(),
		})
		p.LPush(ctx, s.key("games", "recent"), g.GameID)
		p.LTrim(ctx, s.key("games", "recent"), 0, historyCap-1)
		p.ZAdd(ctx, s.key("games", "leaderboard"), redis.Z{
			Score:  float64(g.Score),
			Member: g.GameID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("record game %s: %w", g.GameID, err)
	}
	return nil
}

// Recent returns up to limit games, newest first. limit <= 0 means all
// retained games.
func (s *Store) Recent(ctx context.Context, limit int) ([]store.GameRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := s.client.LRange(ctx, s.key("games", "recent"), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return s.games(ctx, ids)
}

// Top returns the limit best-scoring games.
func (s *Store) Top(ctx context.Context, limit int) ([]store.GameRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	ids, err := s.client.ZRevRange(ctx, s.key("games", "leaderboard"), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return s.games(ctx, ids)
}

// Reset removes the high score and all history under the prefix.
func (s *Store) Reset(ctx context.Context) error {
	ids, err := s.client.LRange(ctx, s.key("games", "recent"), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	keys := []string{
		s.key(store.HighScoreKey),
		s.key("games", "seq"),
		s.key("games", "recent"),
		s.key("games", "leaderboard"),
	}
	for _, id := range ids {
		keys = append(keys, s.key("game", id))
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) games(ctx context.Context, ids []string) ([]store.GameRecord, error) {
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, s.key("game", id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}

	games := make([]store.GameRecord, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Deleted out of band.
			continue
		}
		games = append(games, decodeGame(ids[i], fields))
	}
	return games, nil
}

func decodeGame(id string, f map[string]string) store.GameRecord {
	atoi := func(k string) int {
		n, _ := strconv.Atoi(f[k])
		return n
	}
	millis := func(k string) time.Time {
		n, _ := strconv.ParseInt(f[k], 10, 64)
		return time.UnixMilli(n)
	}
	seq, _ := strconv.ParseInt(f["sequence"], 10, 64)
	return store.GameRecord{
		ID:        id,
		Sequence:  seq,
		Catalog:   f["catalog"],
		Score:     atoi("score"),
		Answered:  atoi("answered"),
		Correct:   atoi("correct"),
		Mastered:  atoi("mastered"),
		Rounds:    atoi("rounds"),
		StartedAt: millis("started_at"),
		EndedAt:   millis("ended_at"),
	}
}

var (
	_ store.HighScoreRepo   = (*Store)(nil)
	_ store.GameHistoryRepo = (*Store)(nil)
)
