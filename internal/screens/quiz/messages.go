package quiz

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// roundDueMsg fires when the post-answer delay ends. Epoch ties it to the
// game that scheduled it, so a timer from before a new game is dropped.
type roundDueMsg struct {
	Epoch uint64
}

// roundDueCmd schedules the next round after delay.
func roundDueCmd(delay time.Duration, epoch uint64) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return roundDueMsg{Epoch: epoch}
	})
}
