package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/taskboard/internal/apiclient"
	"github.com/balkashynov/taskboard/internal/auth"
	"github.com/balkashynov/taskboard/internal/session"
)

// Deps holds everything the client screens share: the API client, the
// identity store, and the login gate.
type Deps struct {
	Client  *apiclient.Client
	Session *session.Store
	Gate    *auth.Gate
}

// Run starts the interactive client and blocks until the user quits
func Run(deps Deps) error {
	p := tea.NewProgram(NewApp(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
