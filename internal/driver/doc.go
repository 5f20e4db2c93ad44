// Package driver is a host-side loop around the scheduler: it pulls every
// ready measurement, hands each one to a pool of workers that run it through
// a Dispatcher, and reports completion back to the scheduler. It is how the
// measched binary exercises a schedule without real measurement hosts.
package driver
