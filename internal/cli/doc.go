// Package cli turns measched's command line into an app.Config. Usage
// mistakes come back as *ExitError so the entrypoint can pick the exit code.
package cli
