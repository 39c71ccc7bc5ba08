package ui

import (
	"fmt"
	"os"

	"netlab/internal/session"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginDoneMsg struct{}

type loginModel struct {
	session  *session.Store
	username textinput.Model
	password textinput.Model
	focus    int
	err      error
	busy     bool
	done     bool
}

func newLoginModel(s *session.Store) loginModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.Focus()
	user.CharLimit = 64
	user.Width = 30

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.CharLimit = 128
	pass.Width = 30

	return loginModel{session: s, username: user, password: pass}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "shift+tab", "up", "down":
			if m.focus == 0 {
				m.focus = 1
				m.username.Blur()
				m.password.Focus()
			} else {
				m.focus = 0
				m.password.Blur()
				m.username.Focus()
			}
			return m, textinput.Blink
		case "enter":
			if m.focus == 0 {
				m.focus = 1
				m.username.Blur()
				m.password.Focus()
				return m, textinput.Blink
			}
			if m.username.Value() == "" || m.password.Value() == "" {
				m.err = fmt.Errorf("username and password are required")
				return m, nil
			}
			m.err = nil
			m.busy = true
			return m, m.submit()
		}
	case loginDoneMsg:
		m.done = true
		return m, tea.Quit
	case errMsg:
		m.busy = false
		m.err = msg
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) submit() tea.Cmd {
	username, password := m.username.Value(), m.password.Value()
	return func() tea.Msg {
		if err := m.session.Login(username, password); err != nil {
			return errMsg(err)
		}
		return loginDoneMsg{}
	}
}

func (m loginModel) View() string {
	content := fmt.Sprintf("%s\n%s", m.username.View(), m.password.View())
	if m.busy {
		content += "\n\n" + dimStyle.Render("Signing in...")
	}
	if m.err != nil {
		content += "\n\n" + errorStyle.Render(m.err.Error())
	}

	box := baseStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("LOG IN"),
		"",
		content,
	))
	help := dimStyle.Render("tab: switch field • enter: submit • esc: cancel")
	return docStyle.Render(box + "\n" + help)
}

func RunLogin(s *session.Store) {
	p := tea.NewProgram(newLoginModel(s))
	finalModel, err := p.Run()
	if err != nil {
		fmt.Printf("Error running login: %v\n", err)
		os.Exit(1)
	}

	if m, ok := finalModel.(loginModel); ok && m.done {
		fmt.Printf("Logged in as %s.\n", s.User().Username)
	}
}
