package app

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/measched/internal/scheduler"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	sched      *scheduler.Scheduler
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Command output goes to
// outW and logs to logW. Each App owns its own scheduler, so several can run
// side by side.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		sched:  scheduler.New(),
	}
}

// Scheduler returns the application's scheduler. This is primarily for testing.
func (a *App) Scheduler() *scheduler.Scheduler {
	return a.sched
}
