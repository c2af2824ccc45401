// Package app is the root Bubble Tea model: a screen router framed by the
// header and footer.
package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/router"
	"github.com/abhisek/mapquiz/internal/screen"
	"github.com/abhisek/mapquiz/internal/screens/home"
	"github.com/abhisek/mapquiz/internal/screens/loading"
	"github.com/abhisek/mapquiz/internal/screens/quiz"
	"github.com/abhisek/mapquiz/internal/store"
	"github.com/abhisek/mapquiz/internal/ui/layout"
)

// Options holds the dependencies the screens need.
type Options struct {
	// CatalogName is shown while loading and on the home screen.
	CatalogName string
	Load        loading.LoadFunc
	Quiz        quiz.Config
	Scores      store.HighScoreRepo
	History     store.GameHistoryRepo
	Logger      *slog.Logger
	// Play skips the menu and opens a game once the catalog is loaded.
	Play bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
	// best is the last high score a screen reported, shown while the
	// active screen has no scoreboard of its own.
	best int
}

// newAppModel starts on the loading screen, which hands over to home.
func newAppModel(opts Options) AppModel {
	next := func(regions []catalog.Region) screen.Screen {
		return home.New(home.Deps{
			Regions:     regions,
			CatalogName: opts.CatalogName,
			Quiz:        opts.Quiz,
			Scores:      opts.Scores,
			History:     opts.History,
			Logger:      opts.Logger,
			AutoPlay:    opts.Play,
		})
	}
	return AppModel{
		router: router.New(loading.New(opts.CatalogName, opts.Load, next)),
		best:   opts.Quiz.HighScore,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	if sp, ok := m.router.Active().(screen.ScoreboardProvider); ok {
		m.best = sp.Scoreboard().HighScore
	}
	return m, cmd
}

func (m AppModel) scoreboard() layout.Scoreboard {
	if sp, ok := m.router.Active().(screen.ScoreboardProvider); ok {
		return sp.Scoreboard()
	}
	return layout.Scoreboard{HighScore: m.best, Lives: -1}
}

func (m AppModel) footerHints() []layout.KeyHint {
	if kp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return kp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the header, the active screen and the footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.scoreboard(), m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
