package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/specialistvlad/measched/internal/ctxlog"
	"github.com/specialistvlad/measched/internal/driver"
	"github.com/specialistvlad/measched/internal/measurement"
	"github.com/specialistvlad/measched/internal/rounds"
	"github.com/specialistvlad/measched/internal/schedapi"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command, "path", a.config.SchedulePath)

	var err error
	switch a.config.Command {
	case CommandValidate:
		err = a.runValidate(ctx)
	case CommandPlan:
		err = a.runPlan(ctx)
	case CommandSimulate:
		err = a.runSimulate(ctx)
	case CommandConvert:
		err = a.runConvert(ctx)
	default:
		err = fmt.Errorf("unknown command %q", a.config.Command)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

func (a *App) load(ctx context.Context) error {
	n, err := a.sched.Load(ctx, a.config.SchedulePath)
	if err != nil {
		return err
	}
	a.logger.Info("Schedule loaded.", "path", a.config.SchedulePath, "measurements", n)
	return nil
}

func (a *App) runValidate(ctx context.Context) error {
	if err := a.load(ctx); err != nil {
		return err
	}

	var roots []string
	for _, m := range a.sched.Snapshots() {
		if len(m.Depends) == 0 {
			roots = append(roots, fmt.Sprint(m.ID))
		}
	}
	fmt.Fprintf(a.outW, "%s: OK, %d measurements, roots: %s\n",
		a.config.SchedulePath, a.sched.CountTotal(), strings.Join(roots, ","))
	return nil
}

// planWaves walks the schedule without running anything: each wave is
// everything ready once the previous waves are done.
func (a *App) planWaves(ctx context.Context) ([][]measurement.Measurement, error) {
	var waves [][]measurement.Measurement
	for !a.sched.IsFinished() {
		var wave []measurement.Measurement
		for id := a.sched.NextReady(ctx); id != measurement.None; id = a.sched.NextReady(ctx) {
			snap, err := a.sched.Snapshot(id)
			if err != nil {
				return nil, err
			}
			wave = append(wave, snap)
		}
		if len(wave) == 0 {
			return nil, driver.ErrStalled
		}
		for _, m := range wave {
			if err := a.sched.MarkDone(ctx, m.ID); err != nil {
				return nil, err
			}
		}
		waves = append(waves, wave)
	}
	return waves, nil
}

func (a *App) runPlan(ctx context.Context) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	waves, err := a.planWaves(ctx)
	if err != nil {
		return fmt.Errorf("failed to plan schedule: %w", err)
	}

	if a.config.OutputFormat == FormatJSON {
		records := make([]schedapi.WaveRecord, 0, len(waves))
		for i, wave := range waves {
			records = append(records, schedapi.WaveRecord{
				Wave:         i + 1,
				Measurements: schedapi.FromMeasurements(wave),
			})
		}
		return schedapi.WriteJSON(a.outW, records)
	}

	for i, wave := range waves {
		fmt.Fprintf(a.outW, "wave %d:\n", i+1)
		for _, m := range wave {
			fmt.Fprintf(a.outW, "  %d %s duration=%ds hosts=%d\n", m.ID, m.Fingerprint, m.Duration, len(m.Hosts))
		}
	}
	return nil
}

func (a *App) runSimulate(ctx context.Context) error {
	if err := a.load(ctx); err != nil {
		return err
	}

	if _, err := a.startHealthCheckServer(ctx); err != nil {
		return err
	}
	defer a.closeHealthCheckServer(ctx)

	a.logger.Info("🚀 Starting simulated run...", "workers", a.config.WorkerCount)
	d := driver.New(a.sched, driver.DryRun{Delay: a.config.DispatchDelay}, a.config.WorkerCount)
	summary, err := d.Run(ctx)
	fmt.Fprintf(a.outW, "dispatched=%d succeeded=%d failed=%d\n", summary.Dispatched, summary.Succeeded, summary.Failed)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	a.logger.Info("🏁 Simulated run finished.")
	return nil
}

func (a *App) runConvert(ctx context.Context) (err error) {
	var w io.Writer = a.outW
	if a.config.OutputPath != "" {
		f, createErr := os.Create(a.config.OutputPath)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()
		w = f
	}

	n, err := rounds.ConvertFile(ctx, a.config.SchedulePath, w)
	if err != nil {
		return err
	}
	a.logger.Info("Schedule converted.", "source", a.config.SchedulePath, "measurements", n)
	return nil
}
