package scheduler

import (
	"fmt"

	"github.com/specialistvlad/measched/internal/dag"
	"github.com/specialistvlad/measched/internal/measurement"
)

// catalog maps ids to measurements and remembers load order, which is the
// order readiness is checked in. graph is nil until the catalog is built.
type catalog struct {
	byID  map[measurement.ID]*measurement.Measurement
	order []measurement.ID
	graph *dag.Graph
}

func newCatalog() *catalog {
	return &catalog{byID: make(map[measurement.ID]*measurement.Measurement)}
}

// buildCatalog runs the catalog-wide checks over records and returns the
// resulting catalog. Nothing is shared with a live scheduler until it succeeds.
func buildCatalog(records []*measurement.Measurement) (*catalog, error) {
	c := newCatalog()
	for _, m := range records {
		if _, exists := c.byID[m.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, m.ID)
		}
		c.byID[m.ID] = m
		c.order = append(c.order, m.ID)
	}

	for _, id := range c.order {
		for _, dep := range c.byID[id].Depends {
			if _, ok := c.byID[dep]; !ok {
				return nil, fmt.Errorf("%w: measurement %d depends on %d", ErrUnknownDependency, id, dep)
			}
		}
	}

	if c.peekReady() == nil {
		return nil, ErrNoReadyWork
	}

	g, err := dag.FromMeasurements(records)
	if err != nil {
		return nil, err
	}
	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDependencyCycle, err)
	}
	c.graph = g

	return c, nil
}

// peekReady returns the first ready measurement in load order without
// changing it, or nil.
func (c *catalog) peekReady() *measurement.Measurement {
	for _, id := range c.order {
		if m := c.byID[id]; m.Ready() {
			return m
		}
	}
	return nil
}

func (c *catalog) get(id measurement.ID) (*measurement.Measurement, error) {
	m, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	return m, nil
}

// complete records id as finished on every measurement that depends on it and
// returns how many were updated.
func (c *catalog) complete(id measurement.ID) int {
	if c.graph == nil {
		return 0
	}
	dependents, err := c.graph.Dependents(id)
	if err != nil {
		return 0
	}

	updated := 0
	for _, depID := range dependents {
		m := c.byID[depID]
		if !m.HasFinished(id) {
			m.FinishedDepends = append(m.FinishedDepends, id)
			updated++
		}
	}
	return updated
}

func (c *catalog) count(keep func(*measurement.Measurement) bool) int {
	n := 0
	for _, m := range c.byID {
		if keep(m) {
			n++
		}
	}
	return n
}
