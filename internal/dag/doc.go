// Package dag holds the dependency graph between measurements of one catalog.
// The scheduler builds it once at load time to reject catalogs whose
// dependencies loop back on themselves.
package dag
