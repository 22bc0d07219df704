package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScheduler(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateDiscovery(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.RecordingsDir == "" {
		return errors.New("paths.recordings_dir must be set")
	}
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateScheduler() error {
	if _, err := time.LoadLocation(locationName(c.Scheduler.Timezone)); err != nil {
		return fmt.Errorf("scheduler.timezone: %w", err)
	}
	if c.Scheduler.MaxConcurrentCaptures < 1 {
		return errors.New("scheduler.max_concurrent_captures must be at least 1")
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Capture.MinBytesPerSecond < 1 {
		return errors.New("capture.min_bytes_per_second must be positive")
	}
	if c.Capture.GraceSeconds < 1 {
		return errors.New("capture.grace_seconds must be positive")
	}
	return nil
}

func (c *Config) validateDiscovery() error {
	if c.Discovery.BaseURL == "" {
		return errors.New("discovery.base_url must be set")
	}
	if c.Discovery.MinConfidence < 0 || c.Discovery.MinConfidence > 5 {
		return errors.New("discovery.min_confidence must be between 0 and 5")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}

// Location resolves the scheduler timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(locationName(c.Scheduler.Timezone))
	if err != nil {
		return time.Local
	}
	return loc
}

func locationName(name string) string {
	if name == "" || name == "Local" {
		return "Local"
	}
	return name
}
