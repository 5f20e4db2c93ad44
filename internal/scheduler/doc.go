// Package scheduler is the dependency-aware engine that hands out
// measurements for execution.
//
// A Scheduler owns one catalog of measurements, loaded exactly once. Callers
// then loop: NextReady returns the first Waiting measurement (in load order)
// whose dependencies have all completed and moves it to InProgress; MarkDone
// moves an InProgress measurement to Complete and records the completion on
// every measurement that depends on it. NextReady returning measurement.None
// is normal: everything left is either running or blocked.
//
// Every operation runs under a single mutex covering the whole catalog and
// returns in time proportional to the catalog size. Nothing blocks waiting on
// external events.
//
// When a measurement starts, its failsafe deadline is set to
// now + ceil(1.5 * duration) seconds. The scheduler only stores and reports
// the deadline; acting on it is up to the caller.
package scheduler
