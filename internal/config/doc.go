// Package config loads, normalizes, and validates tidy configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from ~/.config/tidy/config.toml or a
// project-local tidy.toml. The Config type centralizes every knob the daemon
// and CLI need: the watch root, category extension overrides, the exclusion
// list, watcher timing, and notification settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
