package dag

import (
	"sync"

	"github.com/specialistvlad/measched/internal/measurement"
)

// Graph is a collection of nodes and their dependencies, representing a DAG.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by measurement id.
	nodes map[measurement.ID]*node
	// order records insertion order so traversals are deterministic.
	order []measurement.ID
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using ids),
// not by direct struct manipulation.
type node struct {
	id measurement.ID
	// deps holds the set of nodes that this node depends on (predecessors).
	deps map[measurement.ID]*node
	// dependents holds the set of nodes that depend on this node (successors).
	dependents map[measurement.ID]*node
	// dependentOrder mirrors dependents in insertion order.
	dependentOrder []measurement.ID
}
