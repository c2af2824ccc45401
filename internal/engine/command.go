package engine

import "context"

// Command is an inbound request processed synchronously by Handle.
type Command interface {
	command()
}

// SubmitAnswer selects an option for the pending round.
type SubmitAnswer struct {
	RegionID string
}

// RequestNewGame resets the session and starts a round.
type RequestNewGame struct{}

// RoundDue fires when the post-answer delay elapses.
type RoundDue struct {
	Epoch uint64
}

func (SubmitAnswer) command()   {}
func (RequestNewGame) command() {}
func (RoundDue) command()       {}

// Handle applies a command. Invalid answers and stale timers are ignored
// and return nil.
func (e *Engine) Handle(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case SubmitAnswer:
		e.SubmitAnswer(ctx, c.RegionID)
		return nil
	case RequestNewGame:
		_, err := e.NewGame(ctx)
		return err
	case RoundDue:
		_, _, err := e.Advance(ctx, c.Epoch)
		return err
	}
	return nil
}

// Advance starts the next round after a resolved answer. It reports false
// when the timer is stale: the epoch has moved on, the round is not
// resolved, or the session has ended.
func (e *Engine) Advance(ctx context.Context, epoch uint64) (Round, bool, error) {
	if epoch != e.epoch || e.phase != PhaseResolved || !e.active {
		return Round{}, false, nil
	}
	r, err := e.StartRound(ctx)
	if err != nil {
		return Round{}, false, err
	}
	return r, true, nil
}

// NewGame resets score, lives and streak, invalidates any pending round
// timer and starts a round. Region progress and the high score are kept.
func (e *Engine) NewGame(ctx context.Context) (Round, error) {
	e.epoch++
	e.resetSession()
	e.sink.OnReset()
	return e.StartRound(ctx)
}
