package engine

import "context"

// StartRound picks the next target and its options. The immediately
// previous target is excluded whenever another active region exists.
// Starting a round while one is pending replaces it.
func (e *Engine) StartRound(_ context.Context) (Round, error) {
	if !e.active {
		return Round{}, ErrSessionEnded
	}

	active := e.withStatus(StatusActive)
	if len(active) == 0 {
		return Round{}, ErrNoActiveRegions
	}

	target := e.pick(eligibleTargets(active, e.previous))
	e.current = target
	e.previous = target
	e.rounds++

	round := Round{
		Number:   e.rounds,
		TargetID: target.ID,
		Options:  e.options(target, active),
		Epoch:    e.epoch,
	}
	e.round = &round
	e.phase = PhaseAwaitingAnswer

	e.sink.OnRoundStart(round.clone())
	return round.clone(), nil
}

// eligibleTargets returns the active regions minus the previous target,
// or all active regions when that would leave nothing.
func eligibleTargets(active []*Region, previous *Region) []*Region {
	if previous == nil {
		return active
	}
	out := make([]*Region, 0, len(active))
	for _, r := range active {
		if r != previous {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return active
	}
	return out
}

// options returns the target plus up to OptionCount-1 distinct other
// active regions, shuffled into display order.
func (e *Engine) options(target *Region, active []*Region) []string {
	others := make([]string, 0, len(active))
	for _, r := range active {
		if r != target {
			others = append(others, r.ID)
		}
	}
	e.rng.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})
	if len(others) > OptionCount-1 {
		others = others[:OptionCount-1]
	}

	opts := append([]string{target.ID}, others...)
	e.rng.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
	return opts
}

func (e *Engine) pick(candidates []*Region) *Region {
	return candidates[e.rng.IntN(len(candidates))]
}
