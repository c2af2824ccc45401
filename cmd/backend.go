package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/mapquiz/internal/config"
	"github.com/abhisek/mapquiz/internal/store"
	"github.com/abhisek/mapquiz/internal/store/redisstore"
)

// backend is where high scores and finished games are kept: Redis when
// MAPQUIZ_REDIS_ADDR is set, otherwise the SQLite file.
type backend struct {
	scores store.HighScoreRepo
	games  store.GameHistoryRepo

	sqlite *store.Store
	redis  *redisstore.Store
}

func openBackend(cfg *config.Config, catalogName string, log *slog.Logger) (*backend, error) {
	if cfg.Redis.Addr != "" {
		rs, err := redisstore.New(cfg.Redis, catalogName)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		log.Debug("using redis store", "addr", cfg.Redis.Addr)
		return &backend{scores: rs, games: rs, redis: rs}, nil
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("using sqlite store", "path", cfg.DBPath)
	return &backend{scores: st.Scores(), games: st.Games(catalogName), sqlite: st}, nil
}

func (b *backend) Name() string {
	if b.redis != nil {
		return "redis"
	}
	return "sqlite"
}

// Reset clears the high score and game history.
func (b *backend) Reset(ctx context.Context) error {
	if b.redis != nil {
		return b.redis.Reset(ctx)
	}
	return b.sqlite.Reset(ctx)
}

func (b *backend) Close() error {
	if b.redis != nil {
		return b.redis.Close()
	}
	return b.sqlite.Close()
}
