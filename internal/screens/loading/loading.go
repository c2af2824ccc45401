// Package loading shows a spinner while the region catalog is read, then
// hands over to the next screen.
package loading

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/router"
	"github.com/abhisek/mapquiz/internal/screen"
	"github.com/abhisek/mapquiz/internal/ui/theme"
)

// LoadFunc reads the catalog.
type LoadFunc func(ctx context.Context) ([]catalog.Region, error)

// NextFunc builds the screen shown once the catalog has loaded.
type NextFunc func(regions []catalog.Region) screen.Screen

type loadedMsg struct {
	regions []catalog.Region
	err     error
}

// LoadingScreen implements screen.Screen.
type LoadingScreen struct {
	source  string
	load    LoadFunc
	next    NextFunc
	spinner spinner.Model
	err     error
	done    bool
}

var _ screen.Screen = (*LoadingScreen)(nil)

// New creates a LoadingScreen. source is only shown to the player.
func New(source string, load LoadFunc, next NextFunc) *LoadingScreen {
	return &LoadingScreen{
		source: source,
		load:   load,
		next:   next,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Globe),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
	}
}

func (l *LoadingScreen) Init() tea.Cmd {
	load := l.load
	return tea.Batch(l.spinner.Tick, func() tea.Msg {
		regions, err := load(context.Background())
		return loadedMsg{regions: regions, err: err}
	})
}

func (l *LoadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			l.err = msg.err
			return l, nil
		}
		return l, l.transition(msg.regions)

	case tea.KeyMsg:
		if l.err != nil {
			return l, tea.Quit
		}
		return l, nil

	case spinner.TickMsg:
		if l.err != nil || l.done {
			return l, nil
		}
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd
	}
	return l, nil
}

func (l *LoadingScreen) transition(regions []catalog.Region) tea.Cmd {
	if l.done {
		return nil
	}
	l.done = true
	next := l.next(regions)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (l *LoadingScreen) View(width, height int) string {
	var content string
	if l.err != nil {
		content = lipgloss.JoinVertical(lipgloss.Center,
			theme.Incorrect.Render("Could not load the map catalog"),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Width(min(width-4, 70)).Render(l.err.Error()),
			"",
			theme.Hint.Render("press any key to quit"),
		)
	} else {
		content = fmt.Sprintf("%s Loading %s…", l.spinner.View(), l.source)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (l *LoadingScreen) Title() string {
	return "Loading"
}

// Err returns the load failure, if any.
func (l *LoadingScreen) Err() error {
	return l.err
}
