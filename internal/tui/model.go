package tui

import (
	"context"
	"fmt"

	"github.com/existflow/taskboard/internal/app"
	"github.com/existflow/taskboard/internal/config"
	"github.com/existflow/taskboard/internal/logger"
)

// Model is the main TUI model. All app state lives behind the shared
// surface pointer, so copies of Model made by bubbletea stay coherent.
type Model struct {
	app *app.App
	s   *surface
	ctx context.Context
	log *logger.Logger

	// UI state
	width    int
	height   int
	help     bool
	quitting bool
}

// NewModel builds the application with the TUI as its surface.
// deps.Surface is ignored.
func NewModel(ctx context.Context, cfg *config.Config, deps app.Deps) (Model, error) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	log.Info("Initializing TUI model")

	s := newSurface()
	deps.Surface = s
	a, err := app.New(cfg, deps)
	if err != nil {
		return Model{}, fmt.Errorf("failed to build app: %w", err)
	}

	return Model{
		app: a,
		s:   s,
		ctx: ctx,
		log: log.Named("tui"),
	}, nil
}

// App exposes the wired application
func (m Model) App() *app.App { return m.app }

// Close releases the application
func (m Model) Close() error {
	return m.app.Close()
}
