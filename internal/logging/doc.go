// Package logging builds the slog loggers used across tidy.
//
// It offers a human-oriented console handler and a JSON handler selected by
// configuration, shared attribute helpers so call sites stay terse, and
// context plumbing for the per-organize correlation id.
package logging
