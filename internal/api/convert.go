package api

import (
	"aircheck/internal/capture"
	"aircheck/internal/catalog"
	"aircheck/internal/daemon"
	"aircheck/internal/deps"
)

// FromStation converts a catalog station to its API representation.
func FromStation(station *catalog.Station) Station {
	if station == nil {
		return Station{}
	}
	dto := Station{
		ID:                  station.ID,
		Name:                station.Name,
		CallLetters:         station.CallLetters,
		StreamURL:           station.StreamURL,
		RecommendedTool:     string(station.RecommendedTool),
		LastTestResult:      string(station.LastTestResult),
		LastTestError:       station.LastTestError,
		DiscoverySource:     station.DiscoverySource,
		DiscoveryConfidence: station.DiscoveryConfidence,
	}
	if station.LastTestedAt != nil && !station.LastTestedAt.IsZero() {
		dto.LastTestedAt = station.LastTestedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromShow converts a catalog show to its API representation.
func FromShow(show *catalog.Show) Show {
	if show == nil {
		return Show{}
	}
	return Show{
		ID:              show.ID,
		StationID:       show.StationID,
		Name:            show.Name,
		RetentionUnit:   string(show.RetentionUnit),
		RetentionValue:  show.RetentionValue,
		Active:          show.Active,
		DurationMinutes: show.DurationMinutes,
	}
}

// FromRecording converts a catalog recording to its API representation.
// The reported expiry is the effective one, with any TTL override
// already applied.
func FromRecording(recording *catalog.Recording) Recording {
	if recording == nil {
		return Recording{}
	}
	dto := Recording{
		ID:              recording.ID,
		ShowID:          recording.ShowID,
		Filename:        recording.Filename,
		DurationSeconds: recording.DurationSeconds,
		FileSizeBytes:   recording.FileSizeBytes,
		SourceType:      string(recording.SourceType),
		Tool:            string(recording.Tool),
	}
	if !recording.RecordedAt.IsZero() {
		dto.RecordedAt = recording.RecordedAt.UTC().Format(dateTimeFormat)
	}
	if expiry := recording.EffectiveExpiry(); expiry != nil {
		dto.ExpiresAt = expiry.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromDependency converts a dependency check result.
func FromDependency(status deps.Status) DependencyStatus {
	return DependencyStatus{
		Name:        status.Name,
		Command:     status.Command,
		Description: status.Description,
		Optional:    status.Optional,
		Available:   status.Available,
		Detail:      status.Detail,
	}
}

// FromCaptureJob converts an in-flight capture job.
func FromCaptureJob(job capture.Job) CaptureJob {
	dto := CaptureJob{
		ID:         job.ID,
		StationID:  job.StationID,
		ShowID:     job.ShowID,
		SourceType: string(job.SourceType),
		Tool:       string(job.Tool),
		Status:     string(job.Status),
	}
	if !job.StartedAt.IsZero() {
		dto.StartedAt = job.StartedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromDaemonStatus converts the daemon's runtime snapshot.
func FromDaemonStatus(status daemon.Status) DaemonStatus {
	dto := DaemonStatus{
		Running:       status.Running,
		PID:           status.PID,
		CatalogDBPath: status.CatalogDBPath,
		LockFilePath:  status.LockFilePath,
		LogPath:       status.LogPath,
		TriggerCount:  status.TriggerCount,
		HeldClaims:    append([]int64(nil), status.HeldClaims...),
		Stats: CatalogStats{
			Stations:       status.Stats.Stations,
			Shows:          status.Stats.Shows,
			ActiveShows:    status.Stats.ActiveShows,
			Recordings:     status.Stats.Recordings,
			RecordingBytes: status.Stats.RecordingBytes,
		},
	}
	for _, job := range status.ActiveJobs {
		dto.ActiveJobs = append(dto.ActiveJobs, FromCaptureJob(job))
	}
	dto.Dependencies = make([]DependencyStatus, 0, len(status.Dependencies))
	for _, dep := range status.Dependencies {
		dto.Dependencies = append(dto.Dependencies, FromDependency(dep))
	}
	return dto
}
