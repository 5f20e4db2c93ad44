package scheduler

import (
	"slices"

	"github.com/specialistvlad/measched/internal/measurement"
)

// CountTotal returns the catalog size.
func (s *Scheduler) CountTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.catalog.byID)
}

// CountComplete returns how many measurements are Complete.
func (s *Scheduler) CountComplete() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.count(func(m *measurement.Measurement) bool {
		return m.State == measurement.Complete
	})
}

// CountIncomplete returns how many measurements are Waiting or InProgress.
func (s *Scheduler) CountIncomplete() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.count(func(m *measurement.Measurement) bool {
		return m.State != measurement.Complete
	})
}

// Counts is a consistent view of the catalog's progress. Total always equals
// Waiting + InProgress + Complete.
type Counts struct {
	Total      int
	Waiting    int
	InProgress int
	Complete   int
}

// Counts returns every progress count from a single pass under the lock.
func (s *Scheduler) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Counts{Total: len(s.catalog.byID)}
	for _, m := range s.catalog.byID {
		switch m.State {
		case measurement.Waiting:
			c.Waiting++
		case measurement.InProgress:
			c.InProgress++
		case measurement.Complete:
			c.Complete++
		}
	}
	return c
}

// IsFinished reports whether every measurement is Complete.
func (s *Scheduler) IsFinished() bool {
	return s.CountIncomplete() == 0
}

// Fingerprint returns the measurement's fingerprint.
func (s *Scheduler) Fingerprint(id measurement.ID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.catalog.get(id)
	if err != nil {
		return "", err
	}
	return m.Fingerprint, nil
}

// Duration returns the measurement's expected run length in seconds.
func (s *Scheduler) Duration(id measurement.ID) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.catalog.get(id)
	if err != nil {
		return 0, err
	}
	return m.Duration, nil
}

// FailsafeDeadline returns the deadline in seconds since the Unix epoch, or 0
// while the measurement is still Waiting.
func (s *Scheduler) FailsafeDeadline(id measurement.ID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.catalog.get(id)
	if err != nil {
		return 0, err
	}
	if m.FailsafeDeadline.IsZero() {
		return 0, nil
	}
	return m.FailsafeDeadline.Unix(), nil
}

// Hosts returns a copy of the measurement's hosts in declaration order.
func (s *Scheduler) Hosts(id measurement.ID) ([]measurement.Host, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.catalog.get(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(m.Hosts), nil
}

// State returns the measurement's current state.
func (s *Scheduler) State(id measurement.ID) (measurement.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.catalog.get(id)
	if err != nil {
		return 0, err
	}
	return m.State, nil
}

// Snapshot returns a deep copy of one measurement.
func (s *Scheduler) Snapshot(id measurement.ID) (measurement.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.catalog.get(id)
	if err != nil {
		return measurement.Measurement{}, err
	}
	return m.Clone(), nil
}

// Snapshots returns deep copies of every measurement in load order.
func (s *Scheduler) Snapshots() []measurement.Measurement {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]measurement.Measurement, 0, len(s.catalog.order))
	for _, id := range s.catalog.order {
		out = append(out, s.catalog.byID[id].Clone())
	}
	return out
}

// InProgress lists the InProgress measurement ids in load order.
func (s *Scheduler) InProgress() []measurement.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []measurement.ID
	for _, id := range s.catalog.order {
		if s.catalog.byID[id].State == measurement.InProgress {
			ids = append(ids, id)
		}
	}
	return ids
}
