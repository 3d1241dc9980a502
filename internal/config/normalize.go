package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize(e env) error {
	if err := c.normalizePaths(e); err != nil {
		return err
	}
	c.normalizeScoring()
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	return c.normalizeLogging(e)
}

func (c *Config) normalizePaths(e env) error {
	if value, ok := e.lookup("WERSCORE_DATA_DIR"); ok && value != "" {
		c.Paths.DataDir = value
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScoring() {
	c.Scoring.EmptyReference = strings.ToLower(strings.TrimSpace(c.Scoring.EmptyReference))
	if c.Scoring.EmptyReference == "" {
		c.Scoring.EmptyReference = defaultEmptyReference
	}
	if c.Scoring.Workers == 0 {
		c.Scoring.Workers = defaultWorkers
	}
}

func (c *Config) normalizeMetrics() error {
	path := strings.TrimSpace(c.Metrics.Textfile)
	if path == "" {
		c.Metrics.Textfile = ""
		return nil
	}
	var err error
	if c.Metrics.Textfile, err = expandPath(path); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging(e env) error {
	if value, ok := e.lookup("WERSCORE_LOG_LEVEL"); ok && value != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if path := strings.TrimSpace(c.Logging.File); path != "" {
		var err error
		if c.Logging.File, err = expandPath(path); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
