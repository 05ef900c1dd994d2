package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "A small task-management web application",
	Long: `taskboard is a task manager with a JSON HTTP API and a terminal client.
Users log in with a username/passcode pair, then create, list, edit, close,
and delete tasks grouped into categories.`,
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// mustMakeLogger builds the process logger from the configured level
func mustMakeLogger(logLevel string) *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taskboard %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(hashpassCmd)
	rootCmd.AddCommand(versionCmd)
}
