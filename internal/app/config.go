package app

import (
	"errors"
	"fmt"
	"time"
)

// Commands understood by the application.
const (
	CommandValidate = "validate"
	CommandPlan     = "plan"
	CommandSimulate = "simulate"
	CommandConvert  = "convert"
)

// Output formats for the plan command.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command      string
	SchedulePath string
	// OutputPath receives converted schedules; empty means the app's writer.
	OutputPath   string
	OutputFormat string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int
	// DispatchDelay is how long the simulated dispatcher spends per measurement.
	DispatchDelay time.Duration
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandValidate, CommandPlan, CommandSimulate, CommandConvert:
	case "":
		return nil, errors.New("a command is required")
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	if cfg.SchedulePath == "" {
		return nil, errors.New("SchedulePath is a required configuration field and cannot be empty")
	}

	if cfg.OutputFormat == "" {
		cfg.OutputFormat = FormatText
	}
	if cfg.OutputFormat != FormatText && cfg.OutputFormat != FormatJSON {
		return nil, fmt.Errorf("invalid output format %q: must be %q or %q", cfg.OutputFormat, FormatText, FormatJSON)
	}

	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.DispatchDelay < 0 {
		return nil, fmt.Errorf("dispatch delay cannot be negative, got %s", cfg.DispatchDelay)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
