// Package server exposes the task and category HTTP API.
package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Server wraps the fiber app and its dependencies
type Server struct {
	app *fiber.App
	log *slog.Logger
}

// New builds the HTTP server and registers all routes. The database must
// already be initialized; handlers go through the shared db handle.
func New(log *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{app: app, log: log}

	app.Post("/categories", s.handleCreateCategory)
	app.Get("/categories", s.handleListCategories)

	app.Post("/tasks", s.handleCreateTask)
	app.Get("/tasks", s.handleListTasks)
	app.Get("/tasks/:id", s.handleGetTask)
	app.Put("/tasks/:id", s.handleUpdateTask)
	// Status-only update path used by the close/delete UI actions
	app.Put("/tasks", s.handleUpdateTaskStatus)

	return s
}

// App returns the underlying fiber app, used by tests via app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the given address and blocks
func (s *Server) Listen(addr string) error {
	s.log.Info("taskboard api listening", "address", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
