package config

import (
	"errors"
	"fmt"
	"strings"

	"tidy/internal/classify"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCategories(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCategories() error {
	// NewTable applies the same override rules used at runtime; surfacing
	// its error here keeps bad config out of the daemon entirely.
	if _, err := classify.NewTable(c.Categories); err != nil {
		return fmt.Errorf("categories: %w", err)
	}
	return nil
}

func (c *Config) validateWatcher() error {
	if c.Watcher.RecountInterval < 1 {
		return errors.New("watcher.recount_interval must be at least 1 second")
	}
	if c.Watcher.SettleWindowMS < 50 {
		return errors.New("watcher.settle_window_ms must be at least 50")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
