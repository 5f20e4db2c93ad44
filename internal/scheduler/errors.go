package scheduler

import "errors"

// Load errors. A failed load inserts nothing.
var (
	// ErrDuplicateID reports two records sharing an id.
	ErrDuplicateID = errors.New("duplicate measurement id")
	// ErrUnknownDependency reports a dependency naming no record of the same load.
	ErrUnknownDependency = errors.New("dependency is not a known measurement")
	// ErrDependencyCycle reports dependencies that loop back on themselves.
	ErrDependencyCycle = errors.New("dependency cycle")
	// ErrNoReadyWork reports a catalog in which nothing could ever start.
	ErrNoReadyWork = errors.New("no measurement is ready to run after load")
	// ErrAlreadyLoaded reports a second load into the same scheduler.
	ErrAlreadyLoaded = errors.New("catalog already loaded")
)

// Usage errors. They signal caller misuse and leave the catalog unchanged.
var (
	// ErrUnknownID reports an id that is not in the catalog.
	ErrUnknownID = errors.New("unknown measurement id")
	// ErrNotInProgress reports MarkDone on a measurement that is not InProgress.
	ErrNotInProgress = errors.New("measurement is not in progress")
)
