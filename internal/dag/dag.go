package dag

import (
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/measched/internal/measurement"
)

// ErrCycle is returned by DetectCycles when the graph is not acyclic.
var ErrCycle = errors.New("cycle detected")

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[measurement.ID]*node),
	}
}

// FromMeasurements builds a graph with one node per measurement and one edge
// per dependency. Every dependency must name a measurement in ms.
func FromMeasurements(ms []*measurement.Measurement) (*Graph, error) {
	g := New()
	for _, m := range ms {
		g.AddNode(m.ID)
	}
	for _, m := range ms {
		for _, dep := range m.Depends {
			if err := g.AddEdge(dep, m.ID); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id measurement.ID) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[measurement.ID]*node),
		dependents: make(map[measurement.ID]*node),
	}
	g.order = append(g.order, id)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
func (g *Graph) AddEdge(fromID, toID measurement.ID) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %d -> %d", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %d", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %d", toID)
	}

	if _, exists := fromNode.dependents[toID]; !exists {
		fromNode.dependentOrder = append(fromNode.dependentOrder, toID)
	}
	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Dependents returns the sorted ids that depend on the given node.
func (g *Graph) Dependents(id measurement.ID) ([]measurement.ID, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %d", id)
	}

	dependents := slices.Clone(n.dependentOrder)
	slices.Sort(dependents)
	return dependents, nil
}

// DetectCycles checks the graph for any cycles. It returns an error wrapping
// ErrCycle naming the first node found on a cycle. Nodes are visited in
// insertion order, so the reported node is stable for a given input.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited and not part of a cycle.
	// temporary: on the recursion stack of the current traversal.
	// unvisited: everything else.
	permanent := make(map[measurement.ID]bool)
	temporary := make(map[measurement.ID]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("%w involving measurement %d", ErrCycle, n.id)
		}

		temporary[n.id] = true
		for _, depID := range n.dependentOrder {
			if err := visit(n.dependents[depID]); err != nil {
				return err
			}
		}
		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, id := range g.order {
		if !permanent[id] {
			if err := visit(g.nodes[id]); err != nil {
				return err
			}
		}
	}

	return nil
}
