package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/mapquiz/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "mapquiz.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{settingsTable, gamesTable, "game_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := migrate(ctx, s.drv); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	want := map[string][]string{
		settingsTable: {"key", "value", "updated_at"},
		gamesTable: {
			"id", "sequence", "catalog", "score", "answered",
			"correct", "mastered", "rounds", "started_at", "ended_at",
		},
	}
	for table, cols := range want {
		rows, err := s.DB().Query("SELECT name FROM pragma_table_info(?)", table)
		if err != nil {
			t.Fatalf("table info %s: %v", table, err)
		}
		var got []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				t.Fatalf("scan %s: %v", table, err)
			}
			got = append(got, name)
		}
		rows.Close()
		if len(got) != len(cols) {
			t.Fatalf("%s columns = %v, want %v", table, got, cols)
		}
		for i := range cols {
			if got[i] != cols[i] {
				t.Errorf("%s column %d = %q, want %q", table, i, got[i], cols[i])
			}
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapquiz.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Scores().SaveHighScore(ctx, 700); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Scores().HighScore(ctx)
	if err != nil {
		t.Fatalf("high score: %v", err)
	}
	if got != 700 {
		t.Errorf("high score after reopen = %d, want 700", got)
	}
}

func TestHighScoreDefaultsToZero(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Scores().HighScore(context.Background())
	if err != nil {
		t.Fatalf("high score: %v", err)
	}
	if got != 0 {
		t.Errorf("high score = %d, want 0", got)
	}
}

func TestSaveHighScoreOnlyRaises(t *testing.T) {
	s := openTestStore(t)
	repo := s.Scores()
	ctx := context.Background()

	for _, score := range []int{300, 100, 500, 400} {
		if err := repo.SaveHighScore(ctx, score); err != nil {
			t.Fatalf("save %d: %v", score, err)
		}
	}

	got, err := repo.HighScore(ctx)
	if err != nil {
		t.Fatalf("high score: %v", err)
	}
	if got != 500 {
		t.Errorf("high score = %d, want 500", got)
	}
}

func TestMalformedHighScoreReadsAsZero(t *testing.T) {
	tests := []string{"abc", "", "12.5", "-40", "1e3"}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			s := openTestStore(t)
			repo := s.Scores()
			ctx := context.Background()

			if err := repo.put(ctx, HighScoreKey, raw); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, err := repo.HighScore(ctx)
			if err != nil {
				t.Fatalf("high score: %v", err)
			}
			if got != 0 {
				t.Errorf("high score for %q = %d, want 0", raw, got)
			}

			// A malformed value never blocks a new record.
			if err := repo.SaveHighScore(ctx, 100); err != nil {
				t.Fatalf("save: %v", err)
			}
			if got, _ := repo.HighScore(ctx); got != 100 {
				t.Errorf("high score after save = %d, want 100", got)
			}
		})
	}
}

func TestParseHighScore(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"0", 0},
		{"1200", 1200},
		{" 300\n", 300},
		{"NaN", 0},
		{"-1", 0},
	}
	for _, tt := range tests {
		if got := parseHighScore(tt.raw); got != tt.want {
			t.Errorf("parseHighScore(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func testGame(id string, score int, ended time.Time) engine.GameSummary {
	return engine.GameSummary{
		GameID:    id,
		StartedAt: ended.Add(-2 * time.Minute),
		EndedAt:   ended,
		Score:     score,
		Answered:  score/100 + 3,
		Correct:   score / 100,
		Mastered:  1,
		Rounds:    score/100 + 3,
	}
}

func TestRecordAndListGames(t *testing.T) {
	s := openTestStore(t)
	repo := s.Games("demo")
	ctx := context.Background()
	base := time.Now().Truncate(time.Millisecond)

	for i, id := range []string{"g1", "g2", "g3"} {
		if err := repo.RecordGame(ctx, testGame(id, (i+1)*100, base)); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}

	games, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	// Same end time, so sequence decides the order.
	if games[0].ID != "g3" || games[1].ID != "g2" {
		t.Errorf("order = [%s %s], want [g3 g2]", games[0].ID, games[1].ID)
	}

	g := games[0]
	if g.Catalog != "demo" {
		t.Errorf("catalog = %q, want demo", g.Catalog)
	}
	if g.Score != 300 || g.Correct != 3 || g.Answered != 6 {
		t.Errorf("game = %+v", g)
	}
	if !g.EndedAt.Equal(base) {
		t.Errorf("ended at = %v, want %v", g.EndedAt, base)
	}
	if g.Duration() != 2*time.Minute {
		t.Errorf("duration = %v, want 2m", g.Duration())
	}
	if g.Accuracy() != 0.5 {
		t.Errorf("accuracy = %v, want 0.5", g.Accuracy())
	}

	all, err := repo.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d games, want 3", len(all))
	}
}

func TestRecordDuplicateGameFails(t *testing.T) {
	s := openTestStore(t)
	repo := s.Games("demo")
	ctx := context.Background()
	now := time.Now()

	if err := repo.RecordGame(ctx, testGame("same", 100, now)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := repo.RecordGame(ctx, testGame("same", 200, now)); err == nil {
		t.Fatal("expected error recording the same game twice")
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.Games("demo")
	ctx := context.Background()

	empty, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats (empty): %v", err)
	}
	if empty != (Stats{}) {
		t.Errorf("empty stats = %+v", empty)
	}
	if empty.Accuracy() != 0 {
		t.Errorf("empty accuracy = %v", empty.Accuracy())
	}

	now := time.Now()
	repo.RecordGame(ctx, testGame("a", 200, now))
	repo.RecordGame(ctx, testGame("b", 500, now))

	st, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := Stats{Games: 2, BestScore: 500, Answered: 13, Correct: 7, Mastered: 2}
	if st != want {
		t.Errorf("stats = %+v, want %+v", st, want)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.Scores().SaveHighScore(ctx, 900)
	s.Games("demo").RecordGame(ctx, testGame("a", 900, time.Now()))

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if got, _ := s.Scores().HighScore(ctx); got != 0 {
		t.Errorf("high score after reset = %d, want 0", got)
	}
	games, err := s.Games("demo").Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(games) != 0 {
		t.Errorf("got %d games after reset, want 0", len(games))
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "quiz.db")
		t.Setenv("MAPQUIZ_DB", want)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("default path: %v", err)
		}
		if got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("MAPQUIZ_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("default path: %v", err)
		}
		want := filepath.Join(dir, "mapquiz", "mapquiz.db")
		if got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
	})
}
