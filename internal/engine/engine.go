package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mapquiz/internal/catalog"
)

const (
	// MaxLives is the number of lives a fresh game starts with and the cap
	// for bonus lives.
	MaxLives = 3

	// DefaultWorkingSetSize is how many regions start out active.
	DefaultWorkingSetSize = 8

	// PointsPerCorrect is added to the score for every correct answer.
	PointsPerCorrect = 100

	// MasteryThreshold is the number of consecutive correct answers that
	// masters a region.
	MasteryThreshold = 3

	// BonusLifeInterval awards a life every time the streak hits a multiple.
	BonusLifeInterval = 5

	// OptionCount is the number of choices offered per round.
	OptionCount = 4

	// DefaultRoundDelay is the pause between answer resolution and the next round.
	DefaultRoundDelay = 1000 * time.Millisecond
)

var (
	ErrEmptyCatalog    = errors.New("catalog has no regions")
	ErrSessionEnded    = errors.New("session has ended")
	ErrNoActiveRegions = errors.New("no active regions")
)

// Engine owns region status, round selection, answer evaluation and
// progression for a single player. It is not safe for concurrent use;
// drivers serialise commands onto it.
type Engine struct {
	regions    []*Region
	byID       map[string]*Region
	workingSet int

	rng      *rand.Rand
	sink     Sink
	scores   ScoreStore
	recorder GameRecorder
	logger   *slog.Logger
	now      func() time.Time

	gameID    string
	startedAt time.Time
	score     int
	highScore int
	lives     int
	streak    int
	active    bool
	phase     Phase

	current  *Region
	previous *Region
	round    *Round
	rounds   int
	epoch    uint64

	answered int
	correct  int
	mastered int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkingSetSize sets how many regions start out active.
func WithWorkingSetSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workingSet = n
		}
	}
}

// WithRand sets the random source used for round and promotion choices.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSink sets the display sink that receives engine events.
func WithSink(s Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithHighScore seeds the high score read from persistent storage.
func WithHighScore(score int) Option {
	return func(e *Engine) {
		if score > 0 {
			e.highScore = score
		}
	}
}

// WithScoreStore persists every new high score.
func WithScoreStore(s ScoreStore) Option {
	return func(e *Engine) { e.scores = s }
}

// WithGameRecorder records each finished game.
func WithGameRecorder(r GameRecorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLogger sets the logger used for store failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds an engine over the given catalog. The first working-set-size
// regions (in the order supplied) become active and the rest pending, so
// callers shuffle first when they want an unbiased start. An error leaves
// no engine behind.
func New(records []catalog.Region, opts ...Option) (*Engine, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}

	e := &Engine{
		workingSet: DefaultWorkingSetSize,
		sink:       NopSink{},
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	e.regions = make([]*Region, 0, len(records))
	e.byID = make(map[string]*Region, len(records))
	for i, rec := range records {
		if _, dup := e.byID[rec.ID]; dup {
			return nil, fmt.Errorf("%w: %q", catalog.ErrDuplicateRegion, rec.ID)
		}
		status := StatusPending
		if i < e.workingSet {
			status = StatusActive
		}
		r := &Region{ID: rec.ID, Geometry: rec.Path, Status: status}
		e.regions = append(e.regions, r)
		e.byID[r.ID] = r
	}

	e.resetSession()
	return e, nil
}

// resetSession puts the per-game fields back to their starting values.
// Region progress and the high score survive.
func (e *Engine) resetSession() {
	e.gameID = uuid.New().String()
	e.startedAt = e.now()
	e.score = 0
	e.lives = MaxLives
	e.streak = 0
	e.active = true
	e.phase = PhaseIdle
	e.current = nil
	e.round = nil
	e.rounds = 0
	e.answered = 0
	e.correct = 0
	e.mastered = 0
}

// State returns a copy of the observable session state.
func (e *Engine) State() State {
	s := State{
		GameID:    e.gameID,
		StartedAt: e.startedAt,
		Score:     e.score,
		HighScore: e.highScore,
		Lives:     e.lives,
		Streak:    e.streak,
		Active:    e.active,
		Phase:     e.phase,
		Epoch:     e.epoch,
		Counts:    e.Counts(),
		Answered:  e.answered,
		Correct:   e.correct,
		Mastered:  e.mastered,
	}
	if e.round != nil {
		r := e.round.clone()
		s.Round = &r
	}
	return s
}

// Regions returns a snapshot of every region in catalog order.
func (e *Engine) Regions() []Region {
	out := make([]Region, len(e.regions))
	for i, r := range e.regions {
		out[i] = *r
	}
	return out
}

// Region returns a snapshot of a single region.
func (e *Engine) Region(id string) (Region, bool) {
	r, ok := e.byID[id]
	if !ok {
		return Region{}, false
	}
	return *r, true
}

// Counts tallies regions by status.
func (e *Engine) Counts() Counts {
	var c Counts
	for _, r := range e.regions {
		switch r.Status {
		case StatusPending:
			c.Pending++
		case StatusActive:
			c.Active++
		case StatusMastered:
			c.Mastered++
		}
	}
	return c
}

// Summary describes the current game for history records.
func (e *Engine) Summary() GameSummary {
	return GameSummary{
		GameID:    e.gameID,
		StartedAt: e.startedAt,
		EndedAt:   e.now(),
		Score:     e.score,
		Answered:  e.answered,
		Correct:   e.correct,
		Mastered:  e.mastered,
		Rounds:    e.rounds,
	}
}

// withStatus returns the regions currently in the given status, in catalog order.
func (e *Engine) withStatus(status Status) []*Region {
	var out []*Region
	for _, r := range e.regions {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}
