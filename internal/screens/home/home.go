// Package home is the menu the app opens on once the catalog is loaded.
package home

import (
	"context"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/router"
	"github.com/abhisek/mapquiz/internal/screen"
	"github.com/abhisek/mapquiz/internal/screens/history"
	"github.com/abhisek/mapquiz/internal/screens/quiz"
	"github.com/abhisek/mapquiz/internal/store"
	"github.com/abhisek/mapquiz/internal/ui/components"
	"github.com/abhisek/mapquiz/internal/ui/layout"
)

// Deps is everything the home screen hands to the screens it opens.
// Scores and History may be nil; the related features are then off.
type Deps struct {
	Regions     []catalog.Region
	CatalogName string
	Quiz        quiz.Config
	Scores      store.HighScoreRepo
	History     store.GameHistoryRepo
	Logger      *slog.Logger
	// AutoPlay starts a game as soon as the screen opens.
	AutoPlay bool
}

type statsLoadedMsg struct {
	highScore int
	games     int
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps  Deps
	menu  components.Menu
	stats stats
}

var (
	_ screen.Screen             = (*HomeScreen)(nil)
	_ screen.Resumer            = (*HomeScreen)(nil)
	_ screen.ScoreboardProvider = (*HomeScreen)(nil)
)

// New creates a HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	h := &HomeScreen{
		deps: deps,
		stats: stats{
			catalog:   deps.CatalogName,
			regions:   len(deps.Regions),
			highScore: deps.Quiz.HighScore,
		},
	}

	items := []components.MenuItem{
		{Label: "PLAY", Action: h.play},
		{Label: "HISTORY", Action: h.history, Disabled: deps.History == nil},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) play() tea.Cmd {
	cfg := h.deps.Quiz
	cfg.HighScore = h.stats.highScore
	s := quiz.New(h.deps.Regions, cfg)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

func (h *HomeScreen) history() tea.Cmd {
	s := history.New(h.deps.History)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

// loadStats reads the stored high score and the number of recorded games.
func (h *HomeScreen) loadStats() tea.Cmd {
	scores, games, log := h.deps.Scores, h.deps.History, h.deps.Logger
	fallback := h.stats
	return func() tea.Msg {
		ctx := context.Background()
		msg := statsLoadedMsg{highScore: fallback.highScore, games: fallback.games}
		if scores != nil {
			best, err := scores.HighScore(ctx)
			if err != nil {
				log.Warn("read high score", "error", err)
			} else {
				msg.highScore = best
			}
		}
		if games != nil {
			recent, err := games.Recent(ctx, 0)
			if err != nil {
				log.Warn("read game history", "error", err)
			} else {
				msg.games = len(recent)
			}
		}
		return msg
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.deps.AutoPlay {
		return tea.Batch(h.loadStats(), h.play())
	}
	return h.loadStats()
}

// Resume refreshes the stats after a game or the history screen closes.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		h.stats.highScore = msg.highScore
		h.stats.games = msg.games
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactWidth(width) || layout.IsCompactHeight(height+8)
	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderTagline(h.stats.catalog, cw),
		renderStatsBar(h.stats, cw, compact),
		components.Centered(h.menu.View(buttonWidth), cw, 0),
	}
	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// Scoreboard shows the stored best in the header. No game is running, so
// there are no lives to draw.
func (h *HomeScreen) Scoreboard() layout.Scoreboard {
	return layout.Scoreboard{HighScore: h.stats.highScore, Lives: -1}
}
