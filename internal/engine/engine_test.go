package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mapquiz/internal/catalog"
)

// recordingSink captures every event for assertions.
type recordingSink struct {
	rounds   []Round
	outcomes []Outcome
	gameOver [][2]int
	resets   int
}

func (s *recordingSink) OnRoundStart(r Round)       { s.rounds = append(s.rounds, r) }
func (s *recordingSink) OnAnswerResolved(o Outcome) { s.outcomes = append(s.outcomes, o) }
func (s *recordingSink) OnGameOver(final, high int) { s.gameOver = append(s.gameOver, [2]int{final, high}) }
func (s *recordingSink) OnReset()                   { s.resets++ }

type memScores struct {
	saved []int
	err   error
}

func (m *memScores) SaveHighScore(_ context.Context, score int) error {
	m.saved = append(m.saved, score)
	return m.err
}

type memRecorder struct {
	games []GameSummary
}

func (m *memRecorder) RecordGame(_ context.Context, s GameSummary) error {
	m.games = append(m.games, s)
	return nil
}

func testRegions(n int) []catalog.Region {
	regions := make([]catalog.Region, n)
	for i := range regions {
		regions[i] = catalog.Region{ID: fmt.Sprintf("R%02d", i), Path: "M0,0 L1,0 L1,1 Z"}
	}
	return regions
}

func newTestEngine(t *testing.T, n int, opts ...Option) (*Engine, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	base := []Option{
		WithRand(rand.New(rand.NewPCG(42, 7))),
		WithSink(sink),
	}
	e, err := New(testRegions(n), append(base, opts...)...)
	require.NoError(t, err)
	return e, sink
}

// answer resolves the pending round and, if the game continues, starts
// the next one through the epoch-tagged timer path.
func answer(t *testing.T, e *Engine, correct bool) Outcome {
	t.Helper()
	ctx := context.Background()
	st := e.State()
	require.NotNil(t, st.Round)
	require.Equal(t, PhaseAwaitingAnswer, st.Phase)

	selected := st.Round.TargetID
	if !correct {
		for _, opt := range st.Round.Options {
			if opt != st.Round.TargetID {
				selected = opt
				break
			}
		}
		require.NotEqual(t, st.Round.TargetID, selected, "need a wrong option")
	}

	out, ok := e.SubmitAnswer(ctx, selected)
	require.True(t, ok)
	if !out.GameOver {
		_, started, err := e.Advance(ctx, out.Epoch)
		require.NoError(t, err)
		require.True(t, started)
	}
	return out
}

func activeIDs(e *Engine) map[string]bool {
	ids := make(map[string]bool)
	for _, r := range e.Regions() {
		if r.Status == StatusActive {
			ids[r.ID] = true
		}
	}
	return ids
}

func TestNewAssignsWorkingSet(t *testing.T) {
	e, _ := newTestEngine(t, 10)

	regions := e.Regions()
	for i, r := range regions {
		want := StatusPending
		if i < DefaultWorkingSetSize {
			want = StatusActive
		}
		assert.Equal(t, want, r.Status, "region %s", r.ID)
		assert.Zero(t, r.ConsecutiveCorrect)
	}

	st := e.State()
	assert.Equal(t, Counts{Pending: 2, Active: 8}, st.Counts)
	assert.Equal(t, 0, st.Score)
	assert.Equal(t, MaxLives, st.Lives)
	assert.Equal(t, 0, st.Streak)
	assert.True(t, st.Active)
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Nil(t, st.Round)
	assert.NotEmpty(t, st.GameID)
}

func TestNewSmallCatalogAllActive(t *testing.T) {
	e, _ := newTestEngine(t, 3)
	assert.Equal(t, Counts{Active: 3}, e.Counts())
}

func TestNewWorkingSetOption(t *testing.T) {
	e, _ := newTestEngine(t, 10, WithWorkingSetSize(4))
	assert.Equal(t, Counts{Pending: 6, Active: 4}, e.Counts())
}

func TestNewRejectsBadCatalogs(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = New([]catalog.Region{{ID: "A"}, {ID: "B"}, {ID: "A"}})
	assert.ErrorIs(t, err, catalog.ErrDuplicateRegion)
}

func TestStartRoundOptionSet(t *testing.T) {
	e, sink := newTestEngine(t, 20)
	ctx := context.Background()
	_, err := e.StartRound(ctx)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 300; i++ {
		st := e.State()
		if !st.Active {
			_, err := e.NewGame(ctx)
			require.NoError(t, err)
			st = e.State()
		}
		round := st.Round
		require.NotNil(t, round)

		active := activeIDs(e)
		require.Len(t, round.Options, OptionCount)
		seen := make(map[string]bool)
		for _, opt := range round.Options {
			assert.False(t, seen[opt], "duplicate option %s", opt)
			seen[opt] = true
			assert.True(t, active[opt], "option %s is not active", opt)
		}
		assert.True(t, seen[round.TargetID], "options must include the target")

		answer(t, e, rng.IntN(4) != 0)
	}

	assert.NotEmpty(t, sink.rounds)
	last := sink.rounds[len(sink.rounds)-1]
	assert.Equal(t, e.State().Round.TargetID, last.TargetID)
}

func TestStartRoundNeverRepeatsTarget(t *testing.T) {
	e, _ := newTestEngine(t, 12)
	ctx := context.Background()

	prev := ""
	for i := 0; i < 500; i++ {
		r, err := e.StartRound(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, prev, r.TargetID, "round %d repeated target", i)
		prev = r.TargetID
	}
}

func TestStartRoundSingleActiveRegion(t *testing.T) {
	e, _ := newTestEngine(t, 5, WithWorkingSetSize(1))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		r, err := e.StartRound(ctx)
		require.NoError(t, err)
		assert.Equal(t, "R00", r.TargetID)
		assert.Equal(t, []string{"R00"}, r.Options)
	}
}

func TestStartRoundFewerActiveThanOptions(t *testing.T) {
	e, _ := newTestEngine(t, 3)
	r, err := e.StartRound(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"R00", "R01", "R02"}, r.Options)
}

func TestCorrectAnswer(t *testing.T) {
	scores := &memScores{}
	e, sink := newTestEngine(t, 10, WithScoreStore(scores))
	ctx := context.Background()

	r, err := e.StartRound(ctx)
	require.NoError(t, err)

	out, ok := e.SubmitAnswer(ctx, r.TargetID)
	require.True(t, ok)

	assert.True(t, out.Correct)
	assert.Equal(t, r.TargetID, out.CorrectID)
	assert.Equal(t, r.TargetID, out.SelectedID)
	assert.Equal(t, PointsPerCorrect, out.Score)
	assert.Equal(t, PointsPerCorrect, out.HighScore)
	assert.True(t, out.NewHighScore)
	assert.Equal(t, MaxLives, out.Lives)
	assert.Equal(t, 1, out.Streak)
	assert.False(t, out.BonusLife)
	assert.Nil(t, out.Mastery)
	assert.False(t, out.GameOver)

	reg, _ := e.Region(r.TargetID)
	assert.Equal(t, 1, reg.ConsecutiveCorrect)
	assert.Equal(t, PhaseResolved, e.State().Phase)
	assert.Equal(t, []int{100}, scores.saved)
	require.Len(t, sink.outcomes, 1)
	assert.Equal(t, out, sink.outcomes[0])
}

func TestWrongAnswer(t *testing.T) {
	e, _ := newTestEngine(t, 10)
	_, err := e.StartRound(context.Background())
	require.NoError(t, err)
	answer(t, e, true)
	answer(t, e, true)

	st := e.State()
	target := st.Round.TargetID
	out := answer(t, e, false)

	assert.False(t, out.Correct)
	assert.Equal(t, target, out.CorrectID)
	assert.NotEqual(t, target, out.SelectedID)
	assert.Equal(t, MaxLives-1, out.Lives)
	assert.Equal(t, 0, out.Streak)
	assert.Equal(t, 200, out.Score)

	reg, _ := e.Region(target)
	assert.Zero(t, reg.ConsecutiveCorrect)
}

func TestTwoActiveRegionsScenario(t *testing.T) {
	regions := []catalog.Region{{ID: "A"}, {ID: "B"}}
	e, err := New(regions, WithRand(rand.New(rand.NewPCG(1, 1))))
	require.NoError(t, err)
	ctx := context.Background()

	first, err := e.StartRound(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, first.Options)

	// Alternate correctly once each so the target carries a counter.
	out, ok := e.SubmitAnswer(ctx, first.TargetID)
	require.True(t, ok)
	second, started, err := e.Advance(ctx, out.Epoch)
	require.NoError(t, err)
	require.True(t, started)
	require.NotEqual(t, first.TargetID, second.TargetID)

	out, ok = e.SubmitAnswer(ctx, second.TargetID)
	require.True(t, ok)
	third, started, err := e.Advance(ctx, out.Epoch)
	require.NoError(t, err)
	require.True(t, started)
	require.Equal(t, first.TargetID, third.TargetID)

	reg, _ := e.Region(third.TargetID)
	require.Equal(t, 1, reg.ConsecutiveCorrect)

	out, ok = e.SubmitAnswer(ctx, second.TargetID)
	require.True(t, ok)
	assert.False(t, out.Correct)
	assert.Equal(t, MaxLives-1, out.Lives)
	assert.Equal(t, 0, out.Streak)
	reg, _ = e.Region(third.TargetID)
	assert.Zero(t, reg.ConsecutiveCorrect)

	next, started, err := e.Advance(ctx, out.Epoch)
	require.NoError(t, err)
	require.True(t, started)
	assert.Equal(t, second.TargetID, next.TargetID, "must not repeat %s", third.TargetID)
}

func TestGameOver(t *testing.T) {
	rec := &memRecorder{}
	e, sink := newTestEngine(t, 10, WithGameRecorder(rec))
	ctx := context.Background()
	_, err := e.StartRound(ctx)
	require.NoError(t, err)

	answer(t, e, true)
	answer(t, e, false)
	answer(t, e, false)
	require.Equal(t, 1, e.State().Lives)

	out := answer(t, e, false)
	assert.True(t, out.GameOver)
	assert.Equal(t, 0, out.Lives)

	st := e.State()
	assert.False(t, st.Active)
	assert.Equal(t, PhaseEnded, st.Phase)
	require.Len(t, sink.gameOver, 1)
	assert.Equal(t, [2]int{100, 100}, sink.gameOver[0])

	require.Len(t, rec.games, 1)
	assert.Equal(t, 100, rec.games[0].Score)
	assert.Equal(t, 4, rec.games[0].Answered)
	assert.Equal(t, 1, rec.games[0].Correct)
	assert.Equal(t, st.GameID, rec.games[0].GameID)

	_, err = e.StartRound(ctx)
	assert.ErrorIs(t, err, ErrSessionEnded)

	_, ok := e.SubmitAnswer(ctx, st.Round.TargetID)
	assert.False(t, ok, "answers after game over are ignored")

	_, started, err := e.Advance(ctx, out.Epoch)
	require.NoError(t, err)
	assert.False(t, started)

	_, err = e.NewGame(ctx)
	require.NoError(t, err)
	assert.True(t, e.State().Active)
	assert.Equal(t, PhaseAwaitingAnswer, e.State().Phase)
}

func TestBonusLife(t *testing.T) {
	e, _ := newTestEngine(t, 20)
	_, err := e.StartRound(context.Background())
	require.NoError(t, err)

	answer(t, e, false)
	require.Equal(t, MaxLives-1, e.State().Lives)

	var outs []Outcome
	for i := 0; i < BonusLifeInterval; i++ {
		outs = append(outs, answer(t, e, true))
	}
	for _, o := range outs[:BonusLifeInterval-1] {
		assert.False(t, o.BonusLife)
		assert.Equal(t, MaxLives-1, o.Lives)
	}
	last := outs[BonusLifeInterval-1]
	assert.True(t, last.BonusLife)
	assert.Equal(t, MaxLives, last.Lives)
	assert.Equal(t, BonusLifeInterval, last.Streak)
}

func TestBonusLifeCappedAtMax(t *testing.T) {
	e, _ := newTestEngine(t, 20)
	_, err := e.StartRound(context.Background())
	require.NoError(t, err)

	for i := 0; i < 2*BonusLifeInterval; i++ {
		out := answer(t, e, true)
		assert.False(t, out.BonusLife)
		assert.Equal(t, MaxLives, out.Lives)
	}
}

func TestMasteryPromotesPending(t *testing.T) {
	e, _ := newTestEngine(t, 10)
	_, err := e.StartRound(context.Background())
	require.NoError(t, err)

	pendingBefore := make(map[string]bool)
	for _, r := range e.Regions() {
		if r.Status == StatusPending {
			pendingBefore[r.ID] = true
		}
	}

	var ev *MasteryEvent
	for i := 0; i < 200 && ev == nil; i++ {
		ev = answer(t, e, true).Mastery
	}
	require.NotNil(t, ev, "expected a mastery within 200 correct answers")

	mastered, _ := e.Region(ev.MasteredID)
	assert.Equal(t, StatusMastered, mastered.Status)
	assert.Zero(t, mastered.ConsecutiveCorrect)

	assert.False(t, ev.Recycled)
	assert.True(t, pendingBefore[ev.PromotedID], "promoted region %s was not pending", ev.PromotedID)
	promoted, _ := e.Region(ev.PromotedID)
	assert.Equal(t, StatusActive, promoted.Status)

	assert.Equal(t, Counts{Pending: 1, Active: 8, Mastered: 1}, e.Counts())
	assert.Equal(t, 1, e.State().Mastered)
}

func TestMasteryRecyclesWhenNothingPending(t *testing.T) {
	e, _ := newTestEngine(t, 4)
	_, err := e.StartRound(context.Background())
	require.NoError(t, err)

	var ev *MasteryEvent
	for i := 0; i < 200 && ev == nil; i++ {
		ev = answer(t, e, true).Mastery
	}
	require.NotNil(t, ev)

	// The only mastered region is the one just mastered, so it comes back.
	assert.True(t, ev.Recycled)
	assert.Equal(t, ev.MasteredID, ev.PromotedID)
	assert.Equal(t, Counts{Active: 4}, e.Counts())
}

func TestActiveCountStaysBounded(t *testing.T) {
	e, _ := newTestEngine(t, 12)
	ctx := context.Background()
	_, err := e.StartRound(ctx)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 1000; i++ {
		if !e.State().Active {
			_, err := e.NewGame(ctx)
			require.NoError(t, err)
		}
		out := answer(t, e, rng.IntN(10) != 0)

		c := e.Counts()
		assert.InDelta(t, DefaultWorkingSetSize, c.Active, 1)
		assert.Equal(t, 12, c.Total())

		assert.GreaterOrEqual(t, out.Lives, 0)
		assert.LessOrEqual(t, out.Lives, MaxLives)
		assert.GreaterOrEqual(t, out.Score, 0)
		assert.GreaterOrEqual(t, out.HighScore, out.Score)
	}
}

func TestNewGameIsIdempotent(t *testing.T) {
	e, sink := newTestEngine(t, 10)
	ctx := context.Background()
	_, err := e.StartRound(ctx)
	require.NoError(t, err)
	answer(t, e, true)
	answer(t, e, false)

	_, err = e.NewGame(ctx)
	require.NoError(t, err)
	first := e.State()

	_, err = e.NewGame(ctx)
	require.NoError(t, err)
	second := e.State()

	for _, st := range []State{first, second} {
		assert.Equal(t, 0, st.Score)
		assert.Equal(t, MaxLives, st.Lives)
		assert.Equal(t, 0, st.Streak)
		assert.True(t, st.Active)
		assert.Equal(t, PhaseAwaitingAnswer, st.Phase)
	}
	assert.Equal(t, 2, sink.resets)
}

// Region progress survives a new game; only session counters reset.
func TestNewGameKeepsRegionProgress(t *testing.T) {
	e, _ := newTestEngine(t, 10)
	ctx := context.Background()
	_, err := e.StartRound(ctx)
	require.NoError(t, err)

	var ev *MasteryEvent
	for i := 0; i < 200 && ev == nil; i++ {
		ev = answer(t, e, true).Mastery
	}
	require.NotNil(t, ev)
	before := e.Regions()
	high := e.State().HighScore

	_, err = e.NewGame(ctx)
	require.NoError(t, err)

	assert.Equal(t, before, e.Regions())
	assert.Equal(t, high, e.State().HighScore)
}

func TestStaleRoundTimerIsDropped(t *testing.T) {
	e, sink := newTestEngine(t, 10)
	ctx := context.Background()
	r, err := e.StartRound(ctx)
	require.NoError(t, err)

	out, ok := e.SubmitAnswer(ctx, r.TargetID)
	require.True(t, ok)

	// New game during the delay window.
	fresh, err := e.NewGame(ctx)
	require.NoError(t, err)
	rounds := len(sink.rounds)

	require.NoError(t, e.Handle(ctx, RoundDue{Epoch: out.Epoch}))
	assert.Len(t, sink.rounds, rounds, "stale timer must not start a round")
	assert.Equal(t, fresh.Number, e.State().Round.Number)
	assert.Equal(t, fresh.TargetID, e.State().Round.TargetID)
}

func TestRoundDueBeforeResolutionIsDropped(t *testing.T) {
	e, sink := newTestEngine(t, 10)
	ctx := context.Background()
	_, err := e.StartRound(ctx)
	require.NoError(t, err)

	require.NoError(t, e.Handle(ctx, RoundDue{Epoch: e.State().Epoch}))
	assert.Len(t, sink.rounds, 1)
}

func TestSubmitWithoutPendingRound(t *testing.T) {
	e, sink := newTestEngine(t, 10)
	ctx := context.Background()

	_, ok := e.SubmitAnswer(ctx, "R00")
	assert.False(t, ok, "no round started")

	r, err := e.StartRound(ctx)
	require.NoError(t, err)
	_, ok = e.SubmitAnswer(ctx, r.TargetID)
	require.True(t, ok)

	_, ok = e.SubmitAnswer(ctx, r.TargetID)
	assert.False(t, ok, "round already resolved")
	assert.Len(t, sink.outcomes, 1)
	assert.Equal(t, PointsPerCorrect, e.State().Score)
}

func TestHighScoreSeededFromStore(t *testing.T) {
	scores := &memScores{}
	e, _ := newTestEngine(t, 10, WithHighScore(300), WithScoreStore(scores))
	_, err := e.StartRound(context.Background())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		out := answer(t, e, true)
		assert.Equal(t, 300, out.HighScore)
		assert.False(t, out.NewHighScore)
	}
	assert.Empty(t, scores.saved)

	out := answer(t, e, true)
	assert.True(t, out.NewHighScore)
	assert.Equal(t, 400, out.HighScore)
	assert.Equal(t, []int{400}, scores.saved)
}

func TestScoreStoreFailureDoesNotInterruptPlay(t *testing.T) {
	scores := &memScores{err: errors.New("disk full")}
	e, _ := newTestEngine(t, 10, WithScoreStore(scores))
	_, err := e.StartRound(context.Background())
	require.NoError(t, err)

	out := answer(t, e, true)
	assert.Equal(t, 100, out.HighScore)
	assert.Equal(t, PhaseAwaitingAnswer, e.State().Phase)
}

func TestHandleDispatch(t *testing.T) {
	e, sink := newTestEngine(t, 10)
	ctx := context.Background()

	require.NoError(t, e.Handle(ctx, RequestNewGame{}))
	require.Len(t, sink.rounds, 1)
	assert.Equal(t, 1, sink.resets)

	target := e.State().Round.TargetID
	require.NoError(t, e.Handle(ctx, SubmitAnswer{RegionID: target}))
	require.Len(t, sink.outcomes, 1)
	assert.True(t, sink.outcomes[0].Correct)

	require.NoError(t, e.Handle(ctx, RoundDue{Epoch: sink.outcomes[0].Epoch}))
	assert.Len(t, sink.rounds, 2)
}

func TestStateAccuracy(t *testing.T) {
	assert.Zero(t, State{}.Accuracy())
	assert.InDelta(t, 0.75, State{Answered: 4, Correct: 3}.Accuracy(), 1e-9)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "awaiting_answer", PhaseAwaitingAnswer.String())
	assert.Equal(t, "ended", PhaseEnded.String())
	assert.Equal(t, "unknown", Phase(99).String())
}
