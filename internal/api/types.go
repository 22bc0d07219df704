// Package api defines the transport-friendly representations of
// catalog records, shared by the IPC server and the CLI renderers.
package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Station describes a station in a transport-friendly format.
type Station struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	CallLetters         string  `json:"callLetters"`
	StreamURL           string  `json:"streamUrl"`
	RecommendedTool     string  `json:"recommendedTool,omitempty"`
	LastTestResult      string  `json:"lastTestResult,omitempty"`
	LastTestError       string  `json:"lastTestError,omitempty"`
	LastTestedAt        string  `json:"lastTestedAt,omitempty"`
	DiscoverySource     string  `json:"discoverySource,omitempty"`
	DiscoveryConfidence float64 `json:"discoveryConfidence,omitempty"`
}

// Show describes a show and its retention policy.
type Show struct {
	ID              int64  `json:"id"`
	StationID       int64  `json:"stationId"`
	Name            string `json:"name"`
	RetentionUnit   string `json:"retentionUnit"`
	RetentionValue  int    `json:"retentionValue"`
	Active          bool   `json:"active"`
	DurationMinutes int    `json:"durationMinutes"`
}

// Recording describes a validated capture.
type Recording struct {
	ID              int64  `json:"id"`
	ShowID          int64  `json:"showId"`
	Filename        string `json:"filename"`
	RecordedAt      string `json:"recordedAt"`
	DurationSeconds int    `json:"durationSeconds"`
	FileSizeBytes   int64  `json:"fileSizeBytes"`
	SourceType      string `json:"sourceType"`
	ExpiresAt       string `json:"expiresAt,omitempty"`
	Tool            string `json:"tool,omitempty"`
}

// DependencyStatus captures availability of an external binary.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// CatalogStats summarizes catalog contents.
type CatalogStats struct {
	Stations       int   `json:"stations"`
	Shows          int   `json:"shows"`
	ActiveShows    int   `json:"activeShows"`
	Recordings     int   `json:"recordings"`
	RecordingBytes int64 `json:"recordingBytes"`
}

// CaptureJob describes an in-flight capture.
type CaptureJob struct {
	ID         string `json:"id"`
	StationID  int64  `json:"stationId"`
	ShowID     int64  `json:"showId"`
	SourceType string `json:"sourceType"`
	Tool       string `json:"tool,omitempty"`
	Status     string `json:"status"`
	StartedAt  string `json:"startedAt"`
}

// DaemonStatus aggregates daemon runtime information.
type DaemonStatus struct {
	Running       bool               `json:"running"`
	PID           int                `json:"pid"`
	CatalogDBPath string             `json:"catalogDbPath"`
	LockFilePath  string             `json:"lockFilePath"`
	LogPath       string             `json:"logPath,omitempty"`
	TriggerCount  int                `json:"triggerCount"`
	HeldClaims    []int64            `json:"heldClaims,omitempty"`
	ActiveJobs    []CaptureJob       `json:"activeJobs,omitempty"`
	Stats         CatalogStats       `json:"stats"`
	Dependencies  []DependencyStatus `json:"dependencies"`
}
