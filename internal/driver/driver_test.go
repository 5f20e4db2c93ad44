package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/measched/internal/measurement"
	"github.com/specialistvlad/measched/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadScheduler(t *testing.T, lines ...string) *scheduler.Scheduler {
	t.Helper()
	s := scheduler.New()
	_, err := s.LoadReader(context.Background(), strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	return s
}

func TestDriver_RunsEveryMeasurementOnce(t *testing.T) {
	var lines []string
	for i := 1; i <= 20; i++ {
		dep := 0
		if i > 5 {
			dep = i - 5
		}
		lines = append(lines, fmt.Sprintf("%d fp%d 10 a 1000 1 %d", i, i, dep))
	}
	s := loadScheduler(t, lines...)

	var (
		mu    sync.Mutex
		count = map[uint32]int{}
	)
	d := New(s, DispatcherFunc(func(ctx context.Context, a Assignment) error {
		mu.Lock()
		count[a.Record.ID]++
		mu.Unlock()
		return nil
	}), 4)

	summary, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Dispatched: 20, Succeeded: 20}, summary)
	assert.True(t, s.IsFinished())
	assert.Len(t, count, 20)
	for id, n := range count {
		assert.Equal(t, 1, n, "measurement %d dispatched %d times", id, n)
	}
}

func TestDriver_DependenciesCompleteFirst(t *testing.T) {
	s := loadScheduler(t,
		"1 a 10 x 1 1 0",
		"2 b 10 x 1 1 0",
		"3 c 10 x 1 1 1,2",
		"4 d 10 x 1 1 3",
	)

	var (
		mu   sync.Mutex
		done = map[uint32]bool{}
	)
	d := New(s, DispatcherFunc(func(ctx context.Context, a Assignment) error {
		mu.Lock()
		defer mu.Unlock()
		for _, dep := range a.Record.Depends {
			assert.True(t, done[dep], "measurement %d dispatched before %d", a.Record.ID, dep)
		}
		done[a.Record.ID] = true
		return nil
	}), 3)

	_, err := d.Run(context.Background())
	require.NoError(t, err)
}

func TestDriver_FailedDispatchStillCompletes(t *testing.T) {
	s := loadScheduler(t,
		"1 a 10 x 1 1 0",
		"2 b 10 x 1 1 1",
	)
	d := New(s, DispatcherFunc(func(ctx context.Context, a Assignment) error {
		if a.Record.ID == 1 {
			return errors.New("host unreachable")
		}
		return nil
	}), 2)

	summary, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Dispatched: 2, Succeeded: 1, Failed: 1}, summary)
	assert.True(t, s.IsFinished())
}

func TestDriver_AssignmentCarriesDeadline(t *testing.T) {
	s := loadScheduler(t, "1 a 30 x 1 1 0")

	var got Assignment
	d := New(s, DispatcherFunc(func(ctx context.Context, a Assignment) error {
		got = a
		return nil
	}), 1)
	_, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "in_progress", got.Record.State)
	assert.NotZero(t, got.Record.FailsafeDeadline)
	assert.Equal(t, "a", got.Record.Fingerprint)
}

func TestDriver_Cancellation(t *testing.T) {
	s := loadScheduler(t,
		"1 a 10 x 1 1 0",
		"2 b 10 x 1 1 1",
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	d := New(s, DispatcherFunc(func(ctx context.Context, a Assignment) error {
		calls.Add(1)
		cancel()
		<-ctx.Done()
		return ctx.Err()
	}), 2)

	summary, err := d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, s.IsFinished())
}

func TestDriver_Stalled(t *testing.T) {
	stub := &stubScheduler{}
	_, err := New(stub, DryRun{}, 1).Run(context.Background())
	assert.ErrorIs(t, err, ErrStalled)
}

func TestDriver_MarkDoneFailureStopsRun(t *testing.T) {
	stub := &stubScheduler{ready: []measurement.ID{1}, markErr: scheduler.ErrNotInProgress}
	_, err := New(stub, DryRun{}, 1).Run(context.Background())
	assert.ErrorIs(t, err, scheduler.ErrNotInProgress)
}

func TestDryRun_Delay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := DryRun{Delay: time.Hour}.Dispatch(ctx, Assignment{})
	assert.ErrorIs(t, err, context.Canceled)

	assert.NoError(t, DryRun{Delay: time.Millisecond}.Dispatch(context.Background(), Assignment{}))
	assert.NoError(t, DryRun{}.Dispatch(context.Background(), Assignment{}))
}

// stubScheduler hands out ready ids once and never finishes.
type stubScheduler struct {
	mu      sync.Mutex
	ready   []measurement.ID
	markErr error
}

func (s *stubScheduler) NextReady(ctx context.Context) measurement.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ready) == 0 {
		return measurement.None
	}
	id := s.ready[0]
	s.ready = s.ready[1:]
	return id
}

func (s *stubScheduler) MarkDone(ctx context.Context, id measurement.ID) error {
	return s.markErr
}

func (s *stubScheduler) IsFinished() bool { return false }

func (s *stubScheduler) Snapshot(id measurement.ID) (measurement.Measurement, error) {
	return measurement.Measurement{ID: id, State: measurement.InProgress}, nil
}
