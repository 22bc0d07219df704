package ipc

import "aircheck/internal/api"

// StatusRequest asks for daemon runtime information.
type StatusRequest struct{}

// StatusResponse carries daemon runtime information.
type StatusResponse struct {
	Status api.DaemonStatus `json:"status"`
}

// RefreshShowRequest reinstalls one show's schedule triggers.
type RefreshShowRequest struct {
	ShowID int64 `json:"showId"`
}

// RefreshShowResponse acknowledges a trigger refresh.
type RefreshShowResponse struct {
	Refreshed bool `json:"refreshed"`
}

// RecordNowRequest starts an immediate capture.
type RecordNowRequest struct {
	StationID       int64  `json:"stationId"`
	ShowID          int64  `json:"showId"`
	DurationSeconds int    `json:"durationSeconds"`
	SourceType      string `json:"sourceType"`
}

// RecordNowResponse carries the resulting catalog row.
type RecordNowResponse struct {
	Recording api.Recording `json:"recording"`
}

// DiscoverStationRequest runs stream discovery for one station.
type DiscoverStationRequest struct {
	StationID int64 `json:"stationId"`
	Fresh     bool  `json:"fresh"`
}

// DiscoverStationResponse carries the updated station.
type DiscoverStationResponse struct {
	Station    api.Station `json:"station"`
	StreamURL  string      `json:"streamUrl"`
	Confidence float64     `json:"confidence"`
	Source     string      `json:"source"`
}

// SweepNowRequest runs one retention pass.
type SweepNowRequest struct{}

// SweepNowResponse summarizes the sweep.
type SweepNowResponse struct {
	Expired        int   `json:"expired"`
	Orphans        int   `json:"orphans"`
	BytesReclaimed int64 `json:"bytesReclaimed"`
}

// ListStationsRequest lists all stations.
type ListStationsRequest struct{}

// ListStationsResponse carries station rows.
type ListStationsResponse struct {
	Stations []api.Station `json:"stations"`
}

// ListShowsRequest lists shows, optionally for one station.
type ListShowsRequest struct {
	StationID int64 `json:"stationId"`
}

// ListShowsResponse carries show rows.
type ListShowsResponse struct {
	Shows []api.Show `json:"shows"`
}

// ListRecordingsRequest lists recordings, optionally for one show.
type ListRecordingsRequest struct {
	ShowID int64 `json:"showId"`
}

// ListRecordingsResponse carries recording rows.
type ListRecordingsResponse struct {
	Recordings []api.Recording `json:"recordings"`
}

// TestNotificationRequest sends a test push.
type TestNotificationRequest struct{}

// TestNotificationResponse reports the outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
