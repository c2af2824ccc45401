package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const (
	settingsTable = "settings"
	gamesTable    = "games"
)

// Store holds the SQLite connection and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		drv.Close()
		return nil, err
	}

	return &Store{db: db, drv: drv, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Scores returns the high-score repository backed by this store.
func (s *Store) Scores() *ScoreRepo {
	return &ScoreRepo{drv: s.drv}
}

// Games returns the game history repository. Games recorded through it
// are tagged with catalogName.
func (s *Store) Games(catalogName string) *GameRepo {
	return &GameRepo{drv: s.drv, seq: s.seq, catalog: catalogName}
}

// Reset deletes the high score and all recorded games.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.Scores().ResetHighScore(ctx); err != nil {
		return err
	}
	query, args := entsql.Dialect(dialect.SQLite).Delete(gamesTable).Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete games: %w", err)
	}
	return nil
}

// migrate creates the tables if they do not exist yet.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS ` + settingsTable + ` (
			key        TEXT    NOT NULL PRIMARY KEY,
			value      TEXT    NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + gamesTable + ` (
			id         TEXT    NOT NULL PRIMARY KEY,
			sequence   INTEGER NOT NULL,
			catalog    TEXT    NOT NULL,
			score      INTEGER NOT NULL,
			answered   INTEGER NOT NULL,
			correct    INTEGER NOT NULL,
			mastered   INTEGER NOT NULL,
			rounds     INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			ended_at   INTEGER NOT NULL
		)`,
	}
	for _, q := range ddl {
		if err := drv.Exec(ctx, q, []any{}, nil); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. MAPQUIZ_DB environment variable
// 2. $XDG_DATA_HOME/mapquiz/mapquiz.db
// 3. ~/.local/share/mapquiz/mapquiz.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("MAPQUIZ_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "mapquiz", "mapquiz.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
