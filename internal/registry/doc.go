// Package registry provides the central "glue" for the module system.
//
// The Registry maps the backend names accepted on the command line (e.g.,
// "crab" or "dryrun") to the Go constructors that build a submission
// backend. Modules under modules/ register themselves at startup, and the
// registry is validated before any submission runs.
package registry
