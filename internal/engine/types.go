package engine

import "time"

// Status is a region's position in the quiz rotation.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusMastered Status = "mastered"
)

// Phase is the round sub-state of a session.
type Phase int

const (
	PhaseIdle           Phase = iota // No round started yet
	PhaseAwaitingAnswer              // Round presented, waiting for a selection
	PhaseResolved                    // Answer evaluated, next round pending
	PhaseEnded                       // Lives exhausted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingAnswer:
		return "awaiting_answer"
	case PhaseResolved:
		return "resolved"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// Region is a quiz target. Geometry is carried for renderers and never
// interpreted by the engine.
type Region struct {
	ID                 string
	Geometry           string
	Status             Status
	ConsecutiveCorrect int
}

// Round is one presented target with its shuffled options.
type Round struct {
	Number   int
	TargetID string
	Options  []string
	Epoch    uint64
}

func (r Round) clone() Round {
	r.Options = append([]string(nil), r.Options...)
	return r
}

// MasteryEvent describes a region reaching mastery and the region that
// replaced it in the active pool.
type MasteryEvent struct {
	MasteredID string
	PromotedID string

	// Recycled is true when no pending region was left and a mastered
	// region was returned to the active pool instead.
	Recycled bool
}

// Outcome is the result of resolving one answer.
type Outcome struct {
	Correct      bool
	CorrectID    string
	SelectedID   string
	Score        int
	HighScore    int
	NewHighScore bool
	Lives        int
	Streak       int
	BonusLife    bool
	Mastery      *MasteryEvent
	GameOver     bool

	// Epoch tags the next-round timer. Drivers send RoundDue{Epoch} back
	// after the round delay; a mismatching epoch is dropped.
	Epoch uint64
}

// Counts tallies regions by status.
type Counts struct {
	Pending  int
	Active   int
	Mastered int
}

// Total returns the number of regions.
func (c Counts) Total() int {
	return c.Pending + c.Active + c.Mastered
}

// State is a read-only copy of the session.
type State struct {
	GameID    string
	StartedAt time.Time
	Score     int
	HighScore int
	Lives     int
	Streak    int
	Active    bool
	Phase     Phase
	Epoch     uint64
	Round     *Round
	Counts    Counts

	Answered int
	Correct  int
	Mastered int
}

// Accuracy returns the fraction of correct answers this game.
func (s State) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// GameSummary is recorded when a game ends.
type GameSummary struct {
	GameID    string
	StartedAt time.Time
	EndedAt   time.Time
	Score     int
	Answered  int
	Correct   int
	Mastered  int
	Rounds    int
}
