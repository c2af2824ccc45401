// Package quiz is the screen where the game is played: the map with the
// target highlighted, the options, and the running score.
package quiz

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/engine"
	"github.com/abhisek/mapquiz/internal/mapview"
	"github.com/abhisek/mapquiz/internal/screen"
	"github.com/abhisek/mapquiz/internal/ui/components"
	"github.com/abhisek/mapquiz/internal/ui/layout"
)

// Config wires the screen's engine.
type Config struct {
	WorkingSetSize int
	RoundDelay     time.Duration
	HighScore      int
	Scores         engine.ScoreStore
	Games          engine.GameRecorder
	Logger         *slog.Logger
	// Rand fixes the engine's random source; nil seeds a fresh one.
	Rand *rand.Rand
}

type gameOver struct {
	score, highScore int
}

type keyMap struct {
	NewGame key.Binding
}

// QuizScreen implements screen.Screen for a running game.
type QuizScreen struct {
	eng    *engine.Engine
	mapv   *mapview.Map
	styles mapview.Styles
	delay  time.Duration
	keys   keyMap
	err    error

	round    *engine.Round
	outcome  *engine.Outcome
	gameOver *gameOver
	choices  components.Choices
}

var (
	_ screen.Screen             = (*QuizScreen)(nil)
	_ screen.KeyHintProvider    = (*QuizScreen)(nil)
	_ screen.ScoreboardProvider = (*QuizScreen)(nil)
)

// New builds the engine over regions. A catalog the engine rejects leaves
// the screen showing the error.
func New(regions []catalog.Region, cfg Config) *QuizScreen {
	if cfg.RoundDelay <= 0 {
		cfg.RoundDelay = engine.DefaultRoundDelay
	}
	s := &QuizScreen{
		mapv:   mapview.New(regions),
		styles: mapview.DefaultStyles(),
		delay:  cfg.RoundDelay,
		keys: keyMap{
			NewGame: key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("N", "New game")),
		},
	}

	opts := []engine.Option{
		engine.WithSink(s),
		engine.WithWorkingSetSize(cfg.WorkingSetSize),
		engine.WithHighScore(cfg.HighScore),
		engine.WithLogger(cfg.Logger),
	}
	if cfg.Scores != nil {
		opts = append(opts, engine.WithScoreStore(cfg.Scores))
	}
	if cfg.Games != nil {
		opts = append(opts, engine.WithGameRecorder(cfg.Games))
	}
	if cfg.Rand != nil {
		opts = append(opts, engine.WithRand(cfg.Rand))
	}

	s.eng, s.err = engine.New(regions, opts...)
	if s.err == nil && cfg.Logger != nil && len(s.mapv.Invalid) > 0 {
		cfg.Logger.Warn("regions with unparsable geometry", "ids", s.mapv.Invalid)
	}
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.err != nil {
		return nil
	}
	_, s.err = s.eng.StartRound(context.Background())
	return nil
}

func (s *QuizScreen) Title() string {
	return "Name That Region"
}

func (s *QuizScreen) Scoreboard() layout.Scoreboard {
	if s.eng == nil {
		return layout.Scoreboard{Lives: -1}
	}
	st := s.eng.State()
	return layout.Scoreboard{
		Score:     st.Score,
		HighScore: st.HighScore,
		Lives:     st.Lives,
		MaxLives:  engine.MaxLives,
	}
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.err != nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.gameOver != nil {
		return []layout.KeyHint{
			{Key: "N", Description: "Play again"},
			{Key: "Esc", Description: "Menu"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Pick"},
		{Key: "N", Description: "New game"},
		{Key: "Esc", Description: "Menu"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.err != nil {
		return s, nil
	}

	switch msg := msg.(type) {
	case components.ChoiceMsg:
		return s.submit(msg.ID)

	case roundDueMsg:
		// Stale timers come back as ok=false and change nothing.
		if _, _, err := s.eng.Advance(context.Background(), msg.Epoch); err != nil {
			s.err = err
		}
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, s.keys.NewGame) {
			if _, err := s.eng.NewGame(context.Background()); err != nil {
				s.err = err
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.choices, cmd = s.choices.Update(msg)
	return s, cmd
}

func (s *QuizScreen) submit(id string) (screen.Screen, tea.Cmd) {
	out, ok := s.eng.SubmitAnswer(context.Background(), id)
	if !ok || out.GameOver {
		return s, nil
	}
	return s, roundDueCmd(s.delay, out.Epoch)
}

// Engine exposes the engine for callers that inspect game state.
func (s *QuizScreen) Engine() *engine.Engine {
	return s.eng
}

// Err returns the error that stopped the game, if any.
func (s *QuizScreen) Err() error {
	return s.err
}

func (s *QuizScreen) statusOf(id string) engine.Status {
	r, _ := s.eng.Region(id)
	return r.Status
}
