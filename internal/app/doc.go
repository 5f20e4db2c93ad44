// Package app contains the measched application: it owns the scheduler
// instance for one run, configures logging, and carries out the selected
// command, decoupled from any specific entrypoint like a CLI.
package app
