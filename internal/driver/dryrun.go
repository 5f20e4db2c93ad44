package driver

import (
	"context"
	"time"

	"github.com/specialistvlad/measched/internal/ctxlog"
)

// DryRun is a Dispatcher that only logs what it would run. Delay, if set,
// is slept per measurement so concurrency is observable.
type DryRun struct {
	Delay time.Duration
}

// Dispatch implements Dispatcher.
func (d DryRun) Dispatch(ctx context.Context, a Assignment) error {
	ctxlog.FromContext(ctx).Info("Dispatching measurement (dry run).",
		"measurement_id", a.Record.ID,
		"fingerprint", a.Record.Fingerprint,
		"duration", a.Record.Duration,
		"hosts", len(a.Record.Hosts),
		"failsafe_deadline", a.Record.FailsafeDeadline,
	)
	if d.Delay <= 0 {
		return nil
	}

	timer := time.NewTimer(d.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
