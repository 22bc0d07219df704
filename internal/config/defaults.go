package config

const (
	defaultRecordingsDir          = "~/.local/share/aircheck/recordings"
	defaultLogDir                 = "~/.local/share/aircheck/logs"
	defaultDataDir                = "~/.local/share/aircheck"
	defaultDuplicateWindowMinutes = 60
	defaultMaxConcurrentCaptures  = 4
	defaultStreamripperBinary     = "streamripper"
	defaultFFmpegBinary           = "ffmpeg"
	defaultFFprobeBinary          = "ffprobe"
	defaultWgetBinary             = "wget"
	defaultGraceSeconds           = 30
	defaultMinBytesPerSecond      = 2048
	defaultTestDurationSeconds    = 10
	defaultTestTTLHours           = 4
	defaultOnDemandDurationMins   = 60
	defaultDiscoveryBaseURL       = "https://de1.api.radio-browser.info/json"
	defaultDiscoveryTimeout       = 15
	defaultMinConfidence          = 0.8
	defaultDiscoveryUserAgent     = "aircheck/0.1"
	defaultSweepIntervalHours     = 6
	defaultNtfyRequestTimeout     = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLogRetentionDays       = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RecordingsDir: defaultRecordingsDir,
			LogDir:        defaultLogDir,
			DataDir:       defaultDataDir,
		},
		Scheduler: Scheduler{
			DuplicateWindowMinutes: defaultDuplicateWindowMinutes,
			MaxConcurrentCaptures:  defaultMaxConcurrentCaptures,
			Timezone:               "Local",
		},
		Capture: Capture{
			StreamripperBinary:   defaultStreamripperBinary,
			FFmpegBinary:         defaultFFmpegBinary,
			FFprobeBinary:        defaultFFprobeBinary,
			WgetBinary:           defaultWgetBinary,
			GraceSeconds:         defaultGraceSeconds,
			MinBytesPerSecond:    defaultMinBytesPerSecond,
			TestDurationSeconds:  defaultTestDurationSeconds,
			TestTTLHours:         defaultTestTTLHours,
			OnDemandDurationMins: defaultOnDemandDurationMins,
		},
		Discovery: Discovery{
			BaseURL:        defaultDiscoveryBaseURL,
			RequestTimeout: defaultDiscoveryTimeout,
			MinConfidence:  defaultMinConfidence,
			UserAgent:      defaultDiscoveryUserAgent,
		},
		Retention: Retention{
			SweepIntervalHours: defaultSweepIntervalHours,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			Recording:      true,
			Discovery:      true,
			Retention:      false,
			Errors:         true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
