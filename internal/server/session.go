package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/mapquiz/internal/engine"
)

// commandBuffer bounds the queue between a connection and its engine.
const commandBuffer = 16

// session owns one engine and applies commands to it one at a time from
// a single goroutine. It is also the engine's sink: every event becomes a
// message for the connection.
type session struct {
	eng      *engine.Engine
	delay    time.Duration
	send     func(MessageType, any)
	log      *slog.Logger
	commands chan engine.Command
	done     chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

var _ engine.Sink = (*session)(nil)

func newSession(delay time.Duration, send func(MessageType, any), log *slog.Logger) *session {
	return &session{
		delay:    delay,
		send:     send,
		log:      log,
		commands: make(chan engine.Command, commandBuffer),
		done:     make(chan struct{}),
	}
}

// run starts the first round and then drains commands until ctx is done.
func (s *session) run(ctx context.Context) {
	defer close(s.done)
	defer s.stopTimer()

	if _, err := s.eng.StartRound(ctx); err != nil {
		s.log.Error("start round", "error", err)
		s.send(MessageTypeError, ErrorPayload{Message: err.Error()})
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.commands:
			if err := s.eng.Handle(ctx, cmd); err != nil {
				s.log.Error("handle command", "error", err)
				s.send(MessageTypeError, ErrorPayload{Message: err.Error()})
			}
		}
	}
}

// post queues a command. It reports false once the session has stopped.
func (s *session) post(cmd engine.Command) bool {
	select {
	case s.commands <- cmd:
		return true
	case <-s.done:
		return false
	}
}

func (s *session) scheduleRound(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.post(engine.RoundDue{Epoch: epoch})
	})
}

func (s *session) stopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *session) OnRoundStart(r engine.Round) {
	s.send(MessageTypeRoundStart, newRoundStartPayload(r))
}

func (s *session) OnAnswerResolved(o engine.Outcome) {
	s.send(MessageTypeAnswerResult, newAnswerResultPayload(o))
	if !o.GameOver {
		s.scheduleRound(o.Epoch)
	}
}

func (s *session) OnGameOver(finalScore, highScore int) {
	s.send(MessageTypeGameOver, GameOverPayload{FinalScore: finalScore, HighScore: highScore})
}

func (s *session) OnReset() {
	s.stopTimer()
	s.send(MessageTypeReset, ResetPayload{GameID: s.eng.State().GameID})
}
