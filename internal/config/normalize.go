package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScheduler()
	c.normalizeCapture()
	c.normalizeDiscovery()
	c.normalizeRetention()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RecordingsDir) == "" {
		c.Paths.RecordingsDir = defaultRecordingsDir
	}
	if c.Paths.RecordingsDir, err = expandPath(c.Paths.RecordingsDir); err != nil {
		return fmt.Errorf("paths.recordings_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScheduler() {
	if c.Scheduler.DuplicateWindowMinutes <= 0 {
		c.Scheduler.DuplicateWindowMinutes = defaultDuplicateWindowMinutes
	}
	if c.Scheduler.MaxConcurrentCaptures <= 0 {
		c.Scheduler.MaxConcurrentCaptures = defaultMaxConcurrentCaptures
	}
	if strings.TrimSpace(c.Scheduler.Timezone) == "" {
		c.Scheduler.Timezone = "Local"
	}
}

func (c *Config) normalizeCapture() {
	if strings.TrimSpace(c.Capture.StreamripperBinary) == "" {
		c.Capture.StreamripperBinary = defaultStreamripperBinary
	}
	if strings.TrimSpace(c.Capture.FFmpegBinary) == "" {
		c.Capture.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Capture.FFprobeBinary) == "" {
		c.Capture.FFprobeBinary = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.Capture.WgetBinary) == "" {
		c.Capture.WgetBinary = defaultWgetBinary
	}
	if c.Capture.GraceSeconds <= 0 {
		c.Capture.GraceSeconds = defaultGraceSeconds
	}
	if c.Capture.MinBytesPerSecond <= 0 {
		c.Capture.MinBytesPerSecond = defaultMinBytesPerSecond
	}
	if c.Capture.TestDurationSeconds <= 0 {
		c.Capture.TestDurationSeconds = defaultTestDurationSeconds
	}
	if c.Capture.TestTTLHours <= 0 {
		c.Capture.TestTTLHours = defaultTestTTLHours
	}
	if c.Capture.OnDemandDurationMins <= 0 {
		c.Capture.OnDemandDurationMins = defaultOnDemandDurationMins
	}
}

func (c *Config) normalizeDiscovery() {
	if env := strings.TrimSpace(os.Getenv("AIRCHECK_DISCOVERY_URL")); env != "" {
		c.Discovery.BaseURL = env
	}
	if strings.TrimSpace(c.Discovery.BaseURL) == "" {
		c.Discovery.BaseURL = defaultDiscoveryBaseURL
	}
	c.Discovery.BaseURL = strings.TrimRight(strings.TrimSpace(c.Discovery.BaseURL), "/")
	if c.Discovery.RequestTimeout <= 0 {
		c.Discovery.RequestTimeout = defaultDiscoveryTimeout
	}
	if c.Discovery.MinConfidence <= 0 {
		c.Discovery.MinConfidence = defaultMinConfidence
	}
	if strings.TrimSpace(c.Discovery.UserAgent) == "" {
		c.Discovery.UserAgent = defaultDiscoveryUserAgent
	}
}

func (c *Config) normalizeRetention() {
	if c.Retention.SweepIntervalHours <= 0 {
		c.Retention.SweepIntervalHours = defaultSweepIntervalHours
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays <= 0 {
		c.Logging.RetentionDays = defaultLogRetentionDays
	}
}
