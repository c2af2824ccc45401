package server

import (
	"encoding/json"

	"github.com/abhisek/mapquiz/internal/engine"
)

type MessageType string

const (
	// Client -> Server
	MessageTypeAnswer  MessageType = "answer"
	MessageTypeNewGame MessageType = "new_game"
	MessageTypePing    MessageType = "ping"

	// Server -> Client
	MessageTypeConnected    MessageType = "connected"
	MessageTypeRoundStart   MessageType = "round_start"
	MessageTypeAnswerResult MessageType = "answer_result"
	MessageTypeGameOver     MessageType = "game_over"
	MessageTypeReset        MessageType = "reset"
	MessageTypeError        MessageType = "error"
	MessageTypePong         MessageType = "pong"
)

// Message is the envelope for everything the server sends.
type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

// inboundMessage defers payload decoding until the type is known.
type inboundMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type AnswerPayload struct {
	RegionID string `json:"region_id"`
}

type ConnectedPayload struct {
	ConnectionID string `json:"connection_id"`
	GameID       string `json:"game_id"`
	HighScore    int    `json:"high_score"`
	Regions      int    `json:"regions"`
}

type RoundStartPayload struct {
	Round   int      `json:"round"`
	Target  string   `json:"target"`
	Options []string `json:"options"`
}

type MasteryPayload struct {
	Mastered string `json:"mastered"`
	Promoted string `json:"promoted,omitempty"`
	Recycled bool   `json:"recycled"`
}

type AnswerResultPayload struct {
	Correct      bool            `json:"correct"`
	CorrectID    string          `json:"correct_id"`
	SelectedID   string          `json:"selected_id"`
	Score        int             `json:"score"`
	HighScore    int             `json:"high_score"`
	NewHighScore bool            `json:"new_high_score"`
	Lives        int             `json:"lives"`
	Streak       int             `json:"streak"`
	BonusLife    bool            `json:"bonus_life"`
	Mastery      *MasteryPayload `json:"mastery,omitempty"`
	GameOver     bool            `json:"game_over"`
}

type GameOverPayload struct {
	FinalScore int `json:"final_score"`
	HighScore  int `json:"high_score"`
}

type ResetPayload struct {
	GameID string `json:"game_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newRoundStartPayload(r engine.Round) RoundStartPayload {
	return RoundStartPayload{Round: r.Number, Target: r.TargetID, Options: r.Options}
}

func newAnswerResultPayload(o engine.Outcome) AnswerResultPayload {
	p := AnswerResultPayload{
		Correct:      o.Correct,
		CorrectID:    o.CorrectID,
		SelectedID:   o.SelectedID,
		Score:        o.Score,
		HighScore:    o.HighScore,
		NewHighScore: o.NewHighScore,
		Lives:        o.Lives,
		Streak:       o.Streak,
		BonusLife:    o.BonusLife,
		GameOver:     o.GameOver,
	}
	if o.Mastery != nil {
		p.Mastery = &MasteryPayload{
			Mastered: o.Mastery.MasteredID,
			Promoted: o.Mastery.PromotedID,
			Recycled: o.Mastery.Recycled,
		}
	}
	return p
}
