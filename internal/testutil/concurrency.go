package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/measched/internal/driver"
)

// SleeperDispatcher is a shared driver.Dispatcher for concurrency tests. It
// records the execution time of each measurement it dispatches.
type SleeperDispatcher struct {
	ExecutionTimes map[uint32]*ExecutionRecord
	mu             sync.Mutex
	sleepDuration  time.Duration
	completionChan chan<- uint32
}

// NewSleeperDispatcher creates a new sleeper dispatcher for testing.
func NewSleeperDispatcher(completionChan chan<- uint32, sleep time.Duration) *SleeperDispatcher {
	return &SleeperDispatcher{
		ExecutionTimes: make(map[uint32]*ExecutionRecord),
		sleepDuration:  sleep,
		completionChan: completionChan,
	}
}

// Dispatch implements driver.Dispatcher.
func (s *SleeperDispatcher) Dispatch(ctx context.Context, a driver.Assignment) error {
	startTime := time.Now()
	select {
	case <-time.After(s.sleepDuration):
	case <-ctx.Done():
		return ctx.Err()
	}
	endTime := time.Now()

	s.mu.Lock()
	s.ExecutionTimes[a.Record.ID] = &ExecutionRecord{Start: startTime, End: endTime}
	s.mu.Unlock()

	if s.completionChan != nil {
		s.completionChan <- a.Record.ID
	}
	return nil
}

// Record returns the execution record for id, or nil.
func (s *SleeperDispatcher) Record(id uint32) *ExecutionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ExecutionTimes[id]
}
