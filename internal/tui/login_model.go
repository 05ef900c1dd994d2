package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoginModel is the auth gate screen: a username and a passcode field
// checked against the credential list loaded at startup.
type LoginModel struct {
	deps   Deps
	width  int
	height int

	inputs [2]textinput.Model
	focus  int
	errMsg string
}

// NewLoginModel creates the login screen
func NewLoginModel(deps Deps) LoginModel {
	var inputs [2]textinput.Model
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}

	inputs[0].Placeholder = "Username"
	inputs[0].CharLimit = 25
	inputs[0].Focus()

	inputs[1].Placeholder = "Passcode"
	inputs[1].EchoMode = textinput.EchoPassword
	inputs[1].EchoCharacter = '*'

	return LoginModel{deps: deps, inputs: inputs}
}

func (m *LoginModel) setSize(width, height int) {
	m.width = width
	m.height = height
}

// Init starts the cursor blink
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "down", "shift+tab", "up":
			m.inputs[m.focus].Blur()
			m.focus = (m.focus + 1) % 2
			m.inputs[m.focus].Focus()
			return m, textinput.Blink

		case "enter":
			if m.focus == 0 {
				m.inputs[0].Blur()
				m.focus = 1
				m.inputs[1].Focus()
				return m, textinput.Blink
			}
			return m.attemptLogin()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// attemptLogin hashes the passcode and checks the credential list. On
// failure both fields are cleared and a generic error is shown; success
// persists the identity and hands over to the task list.
func (m LoginModel) attemptLogin() (LoginModel, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[0].Value())
	passcode := m.inputs[1].Value()

	if err := m.deps.Gate.Login(username, passcode); err != nil {
		m.errMsg = "Invalid username or passcode"
		m.inputs[0].SetValue("")
		m.inputs[1].SetValue("")
		m.inputs[1].Blur()
		m.focus = 0
		m.inputs[0].Focus()
		return m, textinput.Blink
	}

	m.errMsg = ""
	// A session file write failure is not fatal; the in-memory identity
	// is the source of truth for this run.
	_ = m.deps.Session.SetUsername(username)

	return m, func() tea.Msg { return loginSuccessMsg{} }
}

// View renders the login form
func (m LoginModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentMain))
	b.WriteString(titleStyle.Render("taskboard"))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	b.WriteString(labelStyle.Render("Username:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[0].View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Passcode:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[1].View())
	b.WriteString("\n\n")

	if m.errMsg != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
		b.WriteString(errStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true)
	b.WriteString(helpStyle.Render("enter login · tab next field · esc quit"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}
