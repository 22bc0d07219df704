package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const recordingColumns = `id, show_id, filename, recorded_at, duration_seconds,
    file_size_bytes, source_type, expires_at, ttl_override_hours, tool, created_at, updated_at`

// InsertRecording persists a validated capture.
func (s *Store) InsertRecording(ctx context.Context, recording *Recording) (*Recording, error) {
	if recording == nil {
		return nil, errors.New("recording is nil")
	}
	if strings.TrimSpace(recording.Filename) == "" {
		return nil, errors.New("recording filename required")
	}
	if recording.DurationSeconds <= 0 {
		return nil, errors.New("recording duration must be positive")
	}

	timestamp := formatTime(time.Now())
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO recordings (
            show_id, filename, recorded_at, duration_seconds, file_size_bytes,
            source_type, expires_at, ttl_override_hours, tool, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recording.ShowID,
		recording.Filename,
		formatTime(recording.RecordedAt),
		recording.DurationSeconds,
		recording.FileSizeBytes,
		string(recording.SourceType),
		nullableTime(recording.ExpiresAt),
		nullableInt(recording.TTLOverrideHours),
		string(recording.Tool),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recording: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetRecording(ctx, id)
}

// GetRecording fetches a recording by identifier.
func (s *Store) GetRecording(ctx context.Context, id int64) (*Recording, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordingColumns+` FROM recordings WHERE id = ?`, id)
	recording, err := scanRecording(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recording: %w", err)
	}
	return recording, nil
}

// GetRecordingByFilename fetches a recording by its catalog filename.
func (s *Store) GetRecordingByFilename(ctx context.Context, filename string) (*Recording, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordingColumns+` FROM recordings WHERE filename = ?`, filename)
	recording, err := scanRecording(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recording by filename: %w", err)
	}
	return recording, nil
}

// ListRecordings returns all recordings, optionally filtered by show,
// newest first.
func (s *Store) ListRecordings(ctx context.Context, showID int64) ([]Recording, error) {
	query := `SELECT ` + recordingColumns + ` FROM recordings`
	args := []any{}
	if showID > 0 {
		query += ` WHERE show_id = ?`
		args = append(args, showID)
	}
	query += ` ORDER BY recorded_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	var recordings []Recording
	for rows.Next() {
		recording, err := scanRecording(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		recordings = append(recordings, *recording)
	}
	return recordings, rows.Err()
}

// ListExpiredRecordings returns recordings whose effective expiry is before
// now. Rows with no expiry and no TTL override never appear here.
func (s *Store) ListExpiredRecordings(ctx context.Context, now time.Time) ([]Recording, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordingColumns+` FROM recordings
         WHERE expires_at IS NOT NULL OR ttl_override_hours IS NOT NULL`,
	)
	if err != nil {
		return nil, fmt.Errorf("list expirable recordings: %w", err)
	}
	defer rows.Close()

	var expired []Recording
	for rows.Next() {
		recording, err := scanRecording(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		if expiry := recording.EffectiveExpiry(); expiry != nil && expiry.Before(now) {
			expired = append(expired, *recording)
		}
	}
	return expired, rows.Err()
}

// DeleteRecording removes a catalog row. The caller is responsible for the
// file on disk.
func (s *Store) DeleteRecording(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recording: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// KnownFilenames returns the set of filenames present in the catalog, used by
// the retention sweep to spot orphan files.
func (s *Store) KnownFilenames(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT filename FROM recordings`)
	if err != nil {
		return nil, fmt.Errorf("list filenames: %w", err)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, fmt.Errorf("scan filename: %w", err)
		}
		known[filename] = struct{}{}
	}
	return known, rows.Err()
}

func scanRecording(row interface{ Scan(...any) error }) (*Recording, error) {
	var (
		recording   Recording
		recordedAt  string
		sourceType  string
		expiresAt   sql.NullString
		ttlOverride sql.NullInt64
		tool        string
		createdAt   string
		updatedAt   string
	)
	if err := row.Scan(
		&recording.ID,
		&recording.ShowID,
		&recording.Filename,
		&recordedAt,
		&recording.DurationSeconds,
		&recording.FileSizeBytes,
		&sourceType,
		&expiresAt,
		&ttlOverride,
		&tool,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	recording.SourceType = SourceType(sourceType)
	recording.Tool = ToolName(tool)
	if ttlOverride.Valid {
		hours := int(ttlOverride.Int64)
		recording.TTLOverrideHours = &hours
	}

	var err error
	if recording.RecordedAt, err = parseTime(recordedAt); err != nil {
		return nil, err
	}
	if recording.ExpiresAt, err = parseNullableTime(expiresAt); err != nil {
		return nil, err
	}
	if recording.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if recording.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &recording, nil
}
