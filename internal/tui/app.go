package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/taskboard/internal/models"
)

// screen identifies which sub-model currently has the terminal
type screen int

const (
	screenLogin screen = iota
	screenList
	screenForm
)

// Messages that move between screens
type (
	loginSuccessMsg struct{}
	logoutMsg       struct{}
	openFormMsg     struct {
		task       *models.Task // nil for a new task
		categories []models.Category
	}
	formClosedMsg struct{ saved bool }
)

// App is the top-level model: it owns the three screens and routes
// messages to whichever one is active.
type App struct {
	deps   Deps
	screen screen
	login  LoginModel
	list   ListModel
	form   FormModel
	width  int
	height int
}

// NewApp builds the client. A stored session skips the login screen.
func NewApp(deps Deps) App {
	a := App{deps: deps, login: NewLoginModel(deps)}
	if deps.Session.LoggedIn() {
		a.screen = screenList
		a.list = NewListModel(deps)
	}
	return a
}

// Init initializes the active screen
func (a App) Init() tea.Cmd {
	if a.screen == screenList {
		return a.list.Init()
	}
	return a.login.Init()
}

// Update routes messages and handles screen transitions
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case loginSuccessMsg:
		a.screen = screenList
		a.list = NewListModel(a.deps)
		a.list.setSize(a.width, a.height)
		return a, a.list.Init()

	case logoutMsg:
		a.screen = screenLogin
		a.login = NewLoginModel(a.deps)
		a.login.setSize(a.width, a.height)
		return a, a.login.Init()

	case openFormMsg:
		a.screen = screenForm
		a.form = NewFormModel(a.deps, msg.task, msg.categories)
		a.form.setSize(a.width, a.height)
		return a, a.form.Init()

	case formClosedMsg:
		a.screen = screenList
		if msg.saved {
			return a, a.list.reload()
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.screen {
	case screenLogin:
		a.login, cmd = a.login.Update(msg)
	case screenList:
		a.list, cmd = a.list.Update(msg)
	case screenForm:
		a.form, cmd = a.form.Update(msg)
	}
	return a, cmd
}

// View renders the active screen
func (a App) View() string {
	switch a.screen {
	case screenList:
		return a.list.View()
	case screenForm:
		return a.form.View()
	default:
		return a.login.View()
	}
}
