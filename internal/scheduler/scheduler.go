package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/specialistvlad/measched/internal/ctxlog"
	"github.com/specialistvlad/measched/internal/measurement"
	"github.com/specialistvlad/measched/internal/schedfile"
)

// Scheduler owns one catalog of measurements and its state machine. The zero
// value is not usable; create instances with New.
type Scheduler struct {
	// mu guards everything below. Completion propagation touches arbitrary
	// measurements, so there is no finer-grained locking.
	mu      sync.Mutex
	catalog *catalog
	loaded  bool

	now func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock used for failsafe deadlines.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// New creates a scheduler with an empty catalog.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		catalog: newCatalog(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads a line-form schedule file and inserts its measurements. It
// returns the catalog size. Round-based files are refused with
// schedfile.ErrUnsupportedForm.
func (s *Scheduler) Load(ctx context.Context, path string) (int, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading schedule.", "path", path)

	records, err := schedfile.ReadFile(ctx, path)
	if err != nil {
		return 0, err
	}
	return s.Insert(ctx, records)
}

// LoadReader is Load for an in-memory line-form source.
func (s *Scheduler) LoadReader(ctx context.Context, r io.Reader) (int, error) {
	records, err := schedfile.Read(ctx, r)
	if err != nil {
		return 0, err
	}
	return s.Insert(ctx, records)
}

// Insert validates records as one catalog and, only if every check passes,
// makes them the scheduler's catalog. The records are copied; later changes
// to them do not reach the scheduler.
func (s *Scheduler) Insert(ctx context.Context, records []*measurement.Measurement) (int, error) {
	logger := ctxlog.FromContext(ctx)

	fresh := make([]*measurement.Measurement, 0, len(records))
	for _, r := range records {
		if err := measurement.Validate(r); err != nil {
			return 0, err
		}
		m := r.Clone()
		m.State = measurement.Waiting
		m.FinishedDepends = nil
		m.FailsafeDeadline = time.Time{}
		fresh = append(fresh, &m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return 0, ErrAlreadyLoaded
	}

	c, err := buildCatalog(fresh)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog: %w", err)
	}
	s.catalog = c
	s.loaded = true

	logger.Info("Catalog loaded.", "measurements", len(c.order))
	return len(c.order), nil
}

// NextReady hands out the first ready measurement in load order, moving it to
// InProgress and stamping its failsafe deadline. It returns measurement.None
// when nothing is ready.
func (s *Scheduler) NextReady(ctx context.Context) measurement.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.catalog.peekReady()
	if m == nil {
		return measurement.None
	}
	m.State = measurement.InProgress
	m.FailsafeDeadline = s.now().Add(failsafeWindow(m.Duration))

	ctxlog.FromContext(ctx).Debug("Measurement started.",
		"measurement_id", m.ID,
		"fingerprint", m.Fingerprint,
		"failsafe_deadline", m.FailsafeDeadline.Unix(),
	)
	return m.ID
}

// MarkDone completes an InProgress measurement and records the completion on
// each measurement that depends on it. Marking a Waiting or Complete
// measurement done fails with ErrNotInProgress and changes nothing.
func (s *Scheduler) MarkDone(ctx context.Context, id measurement.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.catalog.get(id)
	if err != nil {
		return err
	}
	if m.State != measurement.InProgress {
		return fmt.Errorf("%w: measurement %d is %s", ErrNotInProgress, id, m.State)
	}

	m.State = measurement.Complete
	unblocked := s.catalog.complete(id)

	ctxlog.FromContext(ctx).Debug("Measurement complete.", "measurement_id", id, "dependents_updated", unblocked)
	return nil
}

// failsafeWindow is ceil(1.5 * duration) seconds.
func failsafeWindow(duration uint32) time.Duration {
	d := uint64(duration)
	return time.Duration(d+(d+1)/2) * time.Second
}
