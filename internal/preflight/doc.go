// Package preflight provides readiness checks for the filesystem paths
// and external services tidy depends on.
//
// The daemon runs RunAll once at startup and refuses to watch a root it
// cannot write to; the CLI "tidy status" command reuses the individual
// check functions to display health.
package preflight
