package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskboard/internal/apiclient"
	"github.com/balkashynov/taskboard/internal/auth"
	"github.com/balkashynov/taskboard/internal/config"
	"github.com/balkashynov/taskboard/internal/session"
	"github.com/balkashynov/taskboard/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive task client",
	Long: `Open the terminal client against a running taskboard server.

The client asks for a username and passcode unless a previous session is
still stored, then shows the task table with sorting, filtering, and
per-row edit/close/delete actions.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.MustLoad(configPath)

		serverURL, _ := cmd.Flags().GetString("server")
		if serverURL == "" {
			serverURL = cfg.Client.ServerURL
		}

		sessionPath := cfg.Client.SessionPath
		if sessionPath == "" {
			var err error
			sessionPath, err = session.DefaultPath()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: cannot resolve session path: %v\n", err)
				os.Exit(1)
			}
		}

		// Credentials load once at startup, like the login form did
		gate := auth.NewGate(auth.LoadCredentials(cfg.Client.CredentialsPath))

		store := session.New(sessionPath)
		store.Hydrate()

		client := apiclient.New(serverURL)

		if err := tui.Run(tui.Deps{Client: client, Session: store, Gate: gate}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	uiCmd.Flags().StringP("server", "s", "", "taskboard server URL (overrides config)")
}
