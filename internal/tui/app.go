package tui

import (
	"github.com/tinytelemetry/consultas/internal/model"
	"github.com/tinytelemetry/consultas/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// App is the top-level Bubble Tea model that routes between pages. The
// session controller is the source of truth for which page is active.
type App struct {
	ctrl       *session.Controller
	pages      map[string]Page
	activePage string
	width      int
	height     int
}

// NewApp creates the App for one session with its list and note pages.
func NewApp(ctrl *session.Controller) *App {
	list := NewListPage(ctrl)
	note := NewNotePage(ctrl)
	a := &App{
		ctrl: ctrl,
		pages: map[string]Page{
			list.ID(): list,
			note.ID(): note,
		},
	}
	a.activePage = pageForScreen(ctrl.Screen())
	return a
}

func pageForScreen(s model.Screen) string {
	switch s {
	case model.ScreenNoteEntry:
		return PageNoteEntry
	default:
		return PageList
	}
}

func (a *App) Init() tea.Cmd {
	if p, ok := a.pages[a.activePage]; ok {
		return p.Init()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Every page tracks dimensions, not only the visible one.
		a.width = msg.Width
		a.height = msg.Height
		var cmds []tea.Cmd
		for _, p := range a.pages {
			cmd, _ := p.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	cmd, nav := p.Update(msg)

	target := pageForScreen(a.ctrl.Screen())
	if nav != nil {
		target = nav.PageID
	}
	if target != a.activePage {
		if _, exists := a.pages[target]; exists {
			a.activePage = target
			initCmd := a.pages[a.activePage].Init()
			return a, tea.Batch(cmd, initCmd)
		}
	}

	return a, cmd
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}

// ActivePage returns the ID of the page being shown.
func (a *App) ActivePage() string {
	return a.activePage
}
