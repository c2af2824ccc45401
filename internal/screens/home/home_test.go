package home

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/engine"
	"github.com/abhisek/mapquiz/internal/router"
	"github.com/abhisek/mapquiz/internal/screens/history"
	"github.com/abhisek/mapquiz/internal/screens/quiz"
	"github.com/abhisek/mapquiz/internal/store"
)

type fakeScores struct {
	best int
	err  error
}

func (f *fakeScores) SaveHighScore(_ context.Context, score int) error {
	f.best = max(f.best, score)
	return nil
}

func (f *fakeScores) HighScore(context.Context) (int, error) { return f.best, f.err }

func (f *fakeScores) ResetHighScore(context.Context) error {
	f.best = 0
	return nil
}

type fakeHistory struct {
	games []store.GameRecord
}

func (f *fakeHistory) RecordGame(_ context.Context, g engine.GameSummary) error {
	f.games = append(f.games, store.GameRecord{ID: g.GameID, Score: g.Score})
	return nil
}

func (f *fakeHistory) Recent(context.Context, int) ([]store.GameRecord, error) {
	return f.games, nil
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestHome(t *testing.T, scores store.HighScoreRepo, games store.GameHistoryRepo) *HomeScreen {
	t.Helper()
	regions, err := catalog.Demo()
	require.NoError(t, err)
	return New(Deps{
		Regions:     regions,
		CatalogName: "demo",
		Quiz:        quiz.Config{HighScore: 50},
		Scores:      scores,
		History:     games,
	})
}

func TestInitLoadsStats(t *testing.T) {
	scores := &fakeScores{best: 900}
	games := &fakeHistory{games: []store.GameRecord{{ID: "a"}, {ID: "b"}}}
	h := newTestHome(t, scores, games)

	assert.Equal(t, 50, h.Scoreboard().HighScore)
	cmd := h.Init()
	require.NotNil(t, cmd)
	h.Update(cmd())

	assert.Equal(t, 900, h.Scoreboard().HighScore)
	assert.Equal(t, -1, h.Scoreboard().Lives)
	assert.Equal(t, 2, h.stats.games)

	out := h.View(120, 40)
	assert.Contains(t, out, "BEST 900")
	assert.Contains(t, out, "16 REGIONS")
	assert.Contains(t, out, "2 PLAYED")
	assert.Contains(t, out, "demo")
}

func TestStatsReadErrorKeepsLastValue(t *testing.T) {
	h := newTestHome(t, &fakeScores{err: errors.New("disk gone")}, nil)
	h.Update(h.Init()())
	assert.Equal(t, 50, h.Scoreboard().HighScore)
}

func TestResumeRefreshesHighScore(t *testing.T) {
	scores := &fakeScores{best: 100}
	h := newTestHome(t, scores, nil)
	h.Update(h.Init()())

	scores.best = 400
	cmd := h.Resume()
	require.NotNil(t, cmd)
	h.Update(cmd())
	assert.Equal(t, 400, h.Scoreboard().HighScore)
}

func TestPlayPushesQuiz(t *testing.T) {
	h := newTestHome(t, &fakeScores{best: 300}, nil)
	h.Update(h.Init()())

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)

	q, ok := push.Screen.(*quiz.QuizScreen)
	require.True(t, ok)
	require.NoError(t, q.Err())
	assert.Equal(t, 300, q.Engine().State().HighScore)
}

func TestHistoryDisabledWithoutRepo(t *testing.T) {
	h := newTestHome(t, nil, nil)

	// Down skips the disabled HISTORY item and lands on EXIT.
	h.Update(specialKey(tea.KeyDown))
	assert.Equal(t, 2, h.menu.Selected)
}

func TestHistoryPushesHistoryScreen(t *testing.T) {
	h := newTestHome(t, nil, &fakeHistory{})

	h.Update(specialKey(tea.KeyDown))
	_, cmd := h.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	_, ok = push.Screen.(*history.HistoryScreen)
	assert.True(t, ok)
}

func TestExitQuits(t *testing.T) {
	h := newTestHome(t, nil, &fakeHistory{})

	h.Update(specialKey(tea.KeyUp))
	_, cmd := h.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestCompactTitle(t *testing.T) {
	h := newTestHome(t, nil, nil)
	assert.Contains(t, h.View(80, 16), titleCompact)
	assert.NotContains(t, h.View(80, 16), "██████╗")
}

func TestAutoPlay(t *testing.T) {
	regions, err := catalog.Demo()
	require.NoError(t, err)
	h := New(Deps{Regions: regions, CatalogName: "demo", AutoPlay: true})

	batch, ok := h.Init()().(tea.BatchMsg)
	require.True(t, ok)

	var pushed bool
	for _, cmd := range batch {
		if _, ok := cmd().(router.PushScreenMsg); ok {
			pushed = true
		}
	}
	assert.True(t, pushed)
}
