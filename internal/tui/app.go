// Package tui is the terminal study interface.
package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Model is the root Bubble Tea model.
type Model struct {
	router *Router
	width  int
	height int
}

// NewModel creates a Model showing initial.
func NewModel(initial Screen) Model {
	return Model{router: NewRouter(initial)}
}

func (m Model) Init() tea.Cmd {
	if s := m.router.Active(); s != nil {
		return s.Init()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if c, ok := m.router.Active().(Closer); ok {
				c.Close()
			}
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if IsTooSmall(m.width, m.height) {
		v.SetContent(RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var title, status string
	hints := []KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if active != nil {
		title = active.Title()
		if sp, ok := active.(StatusProvider); ok {
			status = sp.Status()
		}
		if hp, ok := active.(KeyHintProvider); ok {
			hints = hp.KeyHints()
		}
	}

	header := RenderHeader(title, status, m.width)
	footer := RenderFooter(hints, m.width)
	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the program with initial as the first screen.
func Run(initial Screen) error {
	_, err := tea.NewProgram(NewModel(initial)).Run()
	return err
}
