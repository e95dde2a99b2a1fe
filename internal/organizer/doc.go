// Package organizer moves files from the watch directory into their
// category subdirectories and reports per-category counts. Every move
// attempt is recorded in the journal, and failures are pushed through
// the notification service when one is configured.
package organizer
