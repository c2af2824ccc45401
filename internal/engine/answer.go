package engine

import "context"

// SubmitAnswer resolves the pending round. It reports false, with a zero
// Outcome, when no round is awaiting an answer or the session has ended.
func (e *Engine) SubmitAnswer(ctx context.Context, selected string) (Outcome, bool) {
	if !e.active || e.phase != PhaseAwaitingAnswer || e.current == nil {
		return Outcome{}, false
	}

	cur := e.current
	out := Outcome{
		Correct:    selected == cur.ID,
		CorrectID:  cur.ID,
		SelectedID: selected,
	}
	e.answered++

	if out.Correct {
		e.correct++
		e.score += PointsPerCorrect
		if e.score > e.highScore {
			e.highScore = e.score
			out.NewHighScore = true
			e.saveHighScore(ctx)
		}

		cur.ConsecutiveCorrect++
		e.streak++
		if e.streak%BonusLifeInterval == 0 && e.lives < MaxLives {
			e.lives++
			out.BonusLife = true
		}

		if cur.ConsecutiveCorrect == MasteryThreshold {
			out.Mastery = e.master(cur)
		}
	} else {
		e.lives--
		cur.ConsecutiveCorrect = 0
		e.streak = 0
	}

	out.Score = e.score
	out.HighScore = e.highScore
	out.Lives = e.lives
	out.Streak = e.streak
	out.Epoch = e.epoch

	if e.lives <= 0 {
		e.lives = 0
		out.Lives = 0
		out.GameOver = true
		e.active = false
		e.phase = PhaseEnded
	} else {
		e.phase = PhaseResolved
	}

	e.sink.OnAnswerResolved(out)
	if out.GameOver {
		e.recordGame(ctx)
		e.sink.OnGameOver(e.score, e.highScore)
	}
	return out, true
}

// master retires r and refills the active pool from pending regions, or
// from mastered ones when nothing is pending.
func (e *Engine) master(r *Region) *MasteryEvent {
	r.Status = StatusMastered
	r.ConsecutiveCorrect = 0
	e.mastered++

	ev := &MasteryEvent{MasteredID: r.ID}
	if pending := e.withStatus(StatusPending); len(pending) > 0 {
		next := e.pick(pending)
		next.Status = StatusActive
		ev.PromotedID = next.ID
		return ev
	}
	if mastered := e.withStatus(StatusMastered); len(mastered) > 0 {
		next := e.pick(mastered)
		next.Status = StatusActive
		ev.PromotedID = next.ID
		ev.Recycled = true
	}
	return ev
}

func (e *Engine) saveHighScore(ctx context.Context) {
	if e.scores == nil {
		return
	}
	if err := e.scores.SaveHighScore(ctx, e.highScore); err != nil {
		e.logger.Warn("save high score", "score", e.highScore, "error", err)
	}
}

func (e *Engine) recordGame(ctx context.Context) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordGame(ctx, e.Summary()); err != nil {
		e.logger.Warn("record game", "game_id", e.gameID, "error", err)
	}
}
