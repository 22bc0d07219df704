package catalog

import (
	"time"

	"aircheck/internal/textutil"
)

// ToolName identifies a capture binary.
type ToolName string

const (
	ToolUnset        ToolName = ""
	ToolStreamripper ToolName = "streamripper"
	ToolFFmpeg       ToolName = "ffmpeg"
	ToolWget         ToolName = "wget"
)

// TestResult records the outcome of the most recent capture or
// discovery attempt against a station.
type TestResult string

const (
	TestResultUnset   TestResult = ""
	TestResultSuccess TestResult = "success"
	TestResultFailed  TestResult = "failed"
	TestResultError   TestResult = "error"
)

// SourceType classifies how a recording was produced.
type SourceType string

const (
	SourceScheduled SourceType = "scheduled"
	SourceTest      SourceType = "test"
	SourceOnDemand  SourceType = "on_demand"
	SourceUploaded  SourceType = "uploaded"
)

// AiringType distinguishes schedule entries for the same show.
type AiringType string

const (
	AiringOriginal AiringType = "original"
	AiringRepeat   AiringType = "repeat"
	AiringSpecial  AiringType = "special"
)

// RetentionUnit is the unit of a show's retention policy.
type RetentionUnit string

const (
	RetentionDays       RetentionUnit = "days"
	RetentionWeeks      RetentionUnit = "weeks"
	RetentionMonths     RetentionUnit = "months"
	RetentionIndefinite RetentionUnit = "indefinite"
)

// Station is a radio station whose streams aircheck captures. Stations
// are never deleted by the engine.
type Station struct {
	ID                  int64
	Name                string
	CallLetters         string
	StreamURL           string
	UserAgent           string
	RecommendedTool     ToolName
	LastTestResult      TestResult
	LastTestError       string
	LastTestedAt        *time.Time
	DiscoverySource     string
	DiscoveryConfidence float64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Show is a recurring program on a station.
type Show struct {
	ID              int64
	StationID       int64
	Name            string
	RetentionUnit   RetentionUnit
	RetentionValue  int
	Active          bool
	DurationMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Slug returns the show's filename segment.
func (s *Show) Slug() string {
	return textutil.Slug(s.Name)
}

// RetentionExpiry derives the expiry timestamp for a recording made at
// recordedAt under this show's retention policy. Nil means indefinite.
func (s *Show) RetentionExpiry(recordedAt time.Time) *time.Time {
	if s.RetentionValue <= 0 && s.RetentionUnit != RetentionIndefinite {
		return nil
	}
	var expiry time.Time
	switch s.RetentionUnit {
	case RetentionDays:
		expiry = recordedAt.AddDate(0, 0, s.RetentionValue)
	case RetentionWeeks:
		expiry = recordedAt.AddDate(0, 0, 7*s.RetentionValue)
	case RetentionMonths:
		expiry = recordedAt.AddDate(0, s.RetentionValue, 0)
	default:
		return nil
	}
	return &expiry
}

// ShowSchedule is one cron trigger for a show. Multiple airings of the
// same show are independent rows sharing the show's duplicate-guard key.
type ShowSchedule struct {
	ID             int64
	ShowID         int64
	CronExpression string
	AiringType     AiringType
	Priority       int
	Description    string
	CreatedAt      time.Time
}

// ScheduledShow joins a schedule row with its show and station for
// trigger installation.
type ScheduledShow struct {
	Schedule ShowSchedule
	Show     Show
	Station  Station
}

// Recording is one validated capture in the catalog. Rows are created
// only after quality validation passes and deleted only by the
// retention sweep.
type Recording struct {
	ID               int64
	ShowID           int64
	Filename         string
	RecordedAt       time.Time
	DurationSeconds  int
	FileSizeBytes    int64
	SourceType       SourceType
	ExpiresAt        *time.Time
	TTLOverrideHours *int
	Tool             ToolName
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EffectiveExpiry resolves the recording's expiry: a TTL override wins
// over the stored expires_at. Nil means the recording never expires.
func (r *Recording) EffectiveExpiry() *time.Time {
	if r.TTLOverrideHours != nil {
		expiry := r.RecordedAt.Add(time.Duration(*r.TTLOverrideHours) * time.Hour)
		return &expiry
	}
	return r.ExpiresAt
}

// Stats summarizes catalog contents for status output.
type Stats struct {
	Stations       int
	Shows          int
	ActiveShows    int
	Recordings     int
	RecordingBytes int64
}
