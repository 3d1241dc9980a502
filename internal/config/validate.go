package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateScoring() error {
	switch c.Scoring.EmptyReference {
	case EmptyReferenceAbort, EmptyReferenceSkip:
	default:
		return fmt.Errorf("scoring.empty_reference must be %q or %q, got %q", EmptyReferenceAbort, EmptyReferenceSkip, c.Scoring.EmptyReference)
	}
	if c.Scoring.Workers < 1 {
		return errors.New("scoring.workers must be positive")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.ListLimit <= 0 {
		return errors.New("history.list_limit must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
