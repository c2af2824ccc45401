package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mapquiz/internal/ui/theme"
)

// ChoiceMsg reports the option the player picked.
type ChoiceMsg struct {
	ID string
}

// Choices is the option picker for one round. Number keys pick directly;
// arrows move the cursor and Enter picks. Once resolved it only displays
// the outcome.
type Choices struct {
	IDs      []string
	Cursor   int
	Label    func(id string) string
	keys     KeyMap
	resolved bool
	correct  string
	chosen   string
}

// NewChoices creates a picker over ids. label turns an id into display
// text; nil shows ids as-is.
func NewChoices(ids []string, label func(string) string) Choices {
	if label == nil {
		label = func(id string) string { return id }
	}
	return Choices{IDs: ids, Label: label, keys: DefaultKeyMap()}
}

// Resolve freezes the picker and marks the correct and chosen options.
func (c *Choices) Resolve(correctID, chosenID string) {
	c.resolved = true
	c.correct = correctID
	c.chosen = chosenID
}

// Resolved reports whether the round's answer has been shown.
func (c Choices) Resolved() bool {
	return c.resolved
}

// Update handles option keys. A pick is reported as a ChoiceMsg.
func (c Choices) Update(msg tea.Msg) (Choices, tea.Cmd) {
	if c.resolved || len(c.IDs) == 0 {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch {
	case key.Matches(kmsg, c.keys.Up):
		if c.Cursor > 0 {
			c.Cursor--
		}
	case key.Matches(kmsg, c.keys.Down):
		if c.Cursor < len(c.IDs)-1 {
			c.Cursor++
		}
	case key.Matches(kmsg, c.keys.Select):
		return c, c.pick(c.Cursor)
	default:
		s := kmsg.String()
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < len(c.IDs) {
				c.Cursor = i
				return c, c.pick(i)
			}
		}
	}
	return c, nil
}

func (c Choices) pick(i int) tea.Cmd {
	id := c.IDs[i]
	return func() tea.Msg { return ChoiceMsg{ID: id} }
}

// View renders the numbered options.
func (c Choices) View(width int) string {
	var b strings.Builder
	for i, id := range c.IDs {
		if i > 0 {
			b.WriteString("\n")
		}
		prefix := "  "
		if !c.resolved && i == c.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, c.Label(id))

		style := lipgloss.NewStyle().Width(width)
		switch {
		case c.resolved && id == c.correct:
			style = style.Inherit(theme.Correct)
			line += "  ✓"
		case c.resolved && id == c.chosen:
			style = style.Inherit(theme.Incorrect)
			line += "  ✗"
		case c.resolved:
			style = style.Foreground(theme.TextDim)
		case i == c.Cursor:
			style = style.Inherit(theme.Selected)
		default:
			style = style.Inherit(theme.Unselected)
		}
		b.WriteString(style.Render(line))
	}
	return b.String()
}
