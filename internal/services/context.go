package services

import "context"

type contextKey string

const (
	stationIDKey contextKey = "station_id"
	showIDKey    contextKey = "show_id"
	jobIDKey     contextKey = "job_id"
)

// WithStationID annotates context with the station identifier.
func WithStationID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, stationIDKey, id)
}

// StationIDFromContext extracts the station identifier if present.
func StationIDFromContext(ctx context.Context) (int64, bool) {
	return int64FromContext(ctx, stationIDKey)
}

// WithShowID annotates context with the show identifier.
func WithShowID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, showIDKey, id)
}

// ShowIDFromContext extracts the show identifier if present.
func ShowIDFromContext(ctx context.Context) (int64, bool) {
	return int64FromContext(ctx, showIDKey)
}

// WithJobID annotates context with the recording job identifier.
func WithJobID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, jobIDKey, id)
}

// JobIDFromContext extracts the recording job identifier if present.
func JobIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(jobIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

func int64FromContext(ctx context.Context, key contextKey) (int64, bool) {
	switch val := ctx.Value(key).(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}
