package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mapquiz/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu. Selection wraps around and skips
// disabled items.
type Menu struct {
	Items    []MenuItem
	Selected int
	keys     KeyMap
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1, keys: DefaultKeyMap()}
	m.move(1)
	return m
}

// move steps the selection by delta until it lands on an enabled item.
func (m *Menu) move(delta int) {
	n := len(m.Items)
	if n == 0 {
		return
	}
	i := m.Selected
	for range n {
		i = (i + delta + n) % n
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, m.keys.Up):
		m.move(-1)
	case key.Matches(kmsg, m.keys.Down):
		m.move(1)
	case key.Matches(kmsg, m.keys.Select):
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}
	return m, nil
}

// View renders the menu as one bordered button per item.
func (m Menu) View(width int) string {
	rows := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		style := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
		switch {
		case item.Disabled:
			style = style.Foreground(theme.TextDim).BorderForeground(theme.Border).Faint(true)
		case i == m.Selected:
			style = style.Foreground(theme.Text).Background(theme.Primary).BorderForeground(theme.Primary).Bold(true)
		default:
			style = style.Foreground(theme.Text).BorderForeground(theme.Border)
		}
		label := item.Label
		if i == m.Selected {
			label = "▸ " + label
		}
		rows = append(rows, style.Render(label))
	}
	return strings.Join(rows, "\n")
}
