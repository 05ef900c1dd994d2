package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskboard/internal/auth"
	"github.com/balkashynov/taskboard/internal/config"
	"github.com/balkashynov/taskboard/internal/db"
	"github.com/balkashynov/taskboard/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the taskboard HTTP API server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.MustLoad(configPath)
		log := mustMakeLogger(cfg.LogLevel)

		dbPath := cfg.Server.DatabasePath
		if dbPath == "" {
			var err error
			dbPath, err = db.DefaultPath()
			if err != nil {
				log.Error("cannot resolve database path", "error", err)
				os.Exit(1)
			}
		}

		if err := db.Initialize(dbPath); err != nil {
			log.Error("cannot init database", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()

		srv := server.New(log)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Listen(cfg.Server.Address)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt)

		select {
		case <-sigCh:
			log.Info("shutdown requested")
			_ = srv.Shutdown()
		case err := <-errCh:
			if err != nil {
				log.Error("server stopped unexpectedly", "error", err)
				os.Exit(1)
			}
		}
	},
}

var hashpassCmd = &cobra.Command{
	Use:   "hashpass <passcode>",
	Short: "Print the SHA-256 digest of a passcode",
	Long: `Print the hex SHA-256 digest of a passcode, for building the
credentials file by hand.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(auth.HashPasscode(args[0]))
	},
}
