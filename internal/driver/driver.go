package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/measched/internal/ctxlog"
	"github.com/specialistvlad/measched/internal/measurement"
	"github.com/specialistvlad/measched/internal/schedapi"
)

// ErrStalled is returned when nothing is running, nothing is ready and the
// schedule is not finished.
var ErrStalled = errors.New("schedule stalled with incomplete measurements")

// Scheduler is the part of the scheduler the driver needs.
type Scheduler interface {
	NextReady(ctx context.Context) measurement.ID
	MarkDone(ctx context.Context, id measurement.ID) error
	IsFinished() bool
	Snapshot(id measurement.ID) (measurement.Measurement, error)
}

// Assignment is one measurement handed to a Dispatcher.
type Assignment struct {
	Record schedapi.MeasurementRecord
}

// Dispatcher runs a measurement somewhere. A returned error marks the
// measurement failed; it is still reported done to the scheduler so its
// dependents can proceed.
type Dispatcher interface {
	Dispatch(ctx context.Context, a Assignment) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, a Assignment) error

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, a Assignment) error {
	return f(ctx, a)
}

// Summary counts what a run did.
type Summary struct {
	Dispatched int
	Succeeded  int
	Failed     int
}

// Driver feeds ready measurements to a fixed pool of workers.
type Driver struct {
	sched      Scheduler
	dispatcher Dispatcher
	numWorkers int
}

// New creates a driver. Fewer than one worker is treated as one.
func New(s Scheduler, d Dispatcher, workers int) *Driver {
	if workers < 1 {
		workers = 1
	}
	return &Driver{sched: s, dispatcher: d, numWorkers: workers}
}

type result struct {
	id          measurement.ID
	dispatchErr error
	markErr     error
}

// Run drives the schedule until every measurement is complete or ctx is
// cancelled. On cancellation it waits for running dispatches to return and
// reports ctx.Err(); measurements handed out but not yet dispatched stay
// InProgress.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	logger := ctxlog.FromContext(ctx)

	readyChan := make(chan Assignment)
	results := make(chan result)

	var wg sync.WaitGroup
	logger.Debug("Starting worker pool.", "workers", d.numWorkers)
	wg.Add(d.numWorkers)
	for i := 0; i < d.numWorkers; i++ {
		go func(workerID int) {
			defer wg.Done()
			d.worker(ctx, readyChan, results, workerID)
		}(i)
	}

	var (
		summary  Summary
		pending  []Assignment
		inflight int
		runErr   error
	)
	tally := func(r result) {
		inflight--
		if r.dispatchErr != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		if r.markErr != nil && runErr == nil {
			runErr = fmt.Errorf("failed to complete measurement %d: %w", r.id, r.markErr)
		}
	}

loop:
	for runErr == nil {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		for id := d.sched.NextReady(ctx); id != measurement.None; id = d.sched.NextReady(ctx) {
			snap, err := d.sched.Snapshot(id)
			if err != nil {
				runErr = err
				break loop
			}
			pending = append(pending, Assignment{Record: schedapi.FromMeasurement(snap)})
			inflight++
			summary.Dispatched++
		}

		if inflight == 0 {
			if !d.sched.IsFinished() {
				runErr = ErrStalled
			}
			break
		}

		var (
			sendChan chan Assignment
			next     Assignment
		)
		if len(pending) > 0 {
			sendChan = readyChan
			next = pending[0]
		}

		select {
		case sendChan <- next:
			pending = pending[1:]
		case r := <-results:
			tally(r)
		case <-ctx.Done():
			runErr = ctx.Err()
		}
	}

	close(readyChan)
	go func() {
		wg.Wait()
		close(results)
	}()
	for r := range results {
		tally(r)
	}

	if len(pending) > 0 {
		logger.Warn("Measurements left in progress without dispatch.", "count", len(pending))
	}
	logger.Info("Driver finished.", "dispatched", summary.Dispatched, "succeeded", summary.Succeeded, "failed", summary.Failed)
	return summary, runErr
}

// worker is the processing loop for a single concurrent worker.
func (d *Driver) worker(ctx context.Context, readyChan <-chan Assignment, results chan<- result, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for a := range readyChan {
		id := measurement.ID(a.Record.ID)
		workerLogger := logger.With("workerID", workerID, "measurement_id", id)

		workerLogger.Debug("Worker picked up measurement.", "failsafe_deadline", a.Record.FailsafeDeadline)
		err := d.dispatcher.Dispatch(ctx, a)
		if err != nil {
			workerLogger.Error("Measurement failed.", "error", err)
		} else {
			workerLogger.Debug("Measurement succeeded.")
		}

		markErr := d.sched.MarkDone(ctx, id)
		results <- result{id: id, dispatchErr: err, markErr: markErr}
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}
