package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const stationColumns = `id, name, call_letters, stream_url, user_agent, recommended_tool,
    last_test_result, last_test_error, last_tested_at, discovery_source,
    discovery_confidence, created_at, updated_at`

// CreateStation inserts a new station row.
func (s *Store) CreateStation(ctx context.Context, station *Station) (*Station, error) {
	if station == nil {
		return nil, errors.New("station is nil")
	}
	call := strings.ToUpper(strings.TrimSpace(station.CallLetters))
	if len(call) < 3 || len(call) > 4 {
		return nil, fmt.Errorf("call letters must be 3-4 characters, got %q", station.CallLetters)
	}
	if strings.TrimSpace(station.Name) == "" {
		return nil, errors.New("station name required")
	}

	timestamp := formatTime(time.Now())
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO stations (
            name, call_letters, stream_url, user_agent, recommended_tool,
            last_test_result, last_test_error, last_tested_at,
            discovery_source, discovery_confidence, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		station.Name,
		call,
		nullableString(station.StreamURL),
		nullableString(station.UserAgent),
		string(station.RecommendedTool),
		string(station.LastTestResult),
		nullableString(station.LastTestError),
		nullableTime(station.LastTestedAt),
		nullableString(station.DiscoverySource),
		station.DiscoveryConfidence,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert station: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetStation(ctx, id)
}

// GetStation fetches a station by identifier.
func (s *Store) GetStation(ctx context.Context, id int64) (*Station, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+stationColumns+` FROM stations WHERE id = ?`, id)
	station, err := scanStation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get station: %w", err)
	}
	return station, nil
}

// GetStationByCallLetters fetches a station by its call letters.
func (s *Store) GetStationByCallLetters(ctx context.Context, call string) (*Station, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+stationColumns+` FROM stations WHERE call_letters = ?`,
		strings.ToUpper(strings.TrimSpace(call)),
	)
	station, err := scanStation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get station by call letters: %w", err)
	}
	return station, nil
}

// ListStations returns all stations ordered by call letters.
func (s *Store) ListStations(ctx context.Context) ([]Station, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+stationColumns+` FROM stations ORDER BY call_letters`)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	defer rows.Close()

	var stations []Station
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		stations = append(stations, *station)
	}
	return stations, rows.Err()
}

// UpdateStationCAS persists changes to a station only if updated_at still
// matches expectedUpdatedAt, returning ErrStale otherwise. The station's
// UpdatedAt is refreshed on success.
func (s *Store) UpdateStationCAS(ctx context.Context, station *Station, expectedUpdatedAt time.Time) error {
	if station == nil {
		return errors.New("station is nil")
	}
	newStamp := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE stations
         SET name = ?, stream_url = ?, user_agent = ?, recommended_tool = ?,
             last_test_result = ?, last_test_error = ?, last_tested_at = ?,
             discovery_source = ?, discovery_confidence = ?, updated_at = ?
         WHERE id = ? AND updated_at = ?`,
		station.Name,
		nullableString(station.StreamURL),
		nullableString(station.UserAgent),
		string(station.RecommendedTool),
		string(station.LastTestResult),
		nullableString(station.LastTestError),
		nullableTime(station.LastTestedAt),
		nullableString(station.DiscoverySource),
		station.DiscoveryConfidence,
		formatTime(newStamp),
		station.ID,
		formatTime(expectedUpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("update station: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrStale
	}
	station.UpdatedAt = newStamp
	return nil
}

// MarkStationTested records a capture or discovery outcome with optimistic
// retry: on a concurrent update the station is re-read and the test-result
// fields reapplied, so a lost race never drops the outcome.
func (s *Store) MarkStationTested(ctx context.Context, stationID int64, result TestResult, reason string, tool ToolName) (*Station, error) {
	for attempt := 0; attempt < 3; attempt++ {
		station, err := s.GetStation(ctx, stationID)
		if err != nil {
			return nil, err
		}
		if station == nil {
			return nil, ErrNotFound
		}
		now := time.Now().UTC()
		station.LastTestResult = result
		station.LastTestError = reason
		station.LastTestedAt = &now
		if result == TestResultSuccess && tool != ToolUnset {
			station.RecommendedTool = tool
		}
		err = s.UpdateStationCAS(ctx, station, station.UpdatedAt)
		if err == nil {
			return station, nil
		}
		if !errors.Is(err, ErrStale) {
			return nil, err
		}
	}
	return nil, ErrStale
}

func scanStation(row interface{ Scan(...any) error }) (*Station, error) {
	var (
		station         Station
		streamURL       sql.NullString
		userAgent       sql.NullString
		recommendedTool string
		lastTestResult  string
		lastTestError   sql.NullString
		lastTestedAt    sql.NullString
		discoverySource sql.NullString
		createdAt       string
		updatedAt       string
	)
	if err := row.Scan(
		&station.ID,
		&station.Name,
		&station.CallLetters,
		&streamURL,
		&userAgent,
		&recommendedTool,
		&lastTestResult,
		&lastTestError,
		&lastTestedAt,
		&discoverySource,
		&station.DiscoveryConfidence,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	station.StreamURL = streamURL.String
	station.UserAgent = userAgent.String
	station.RecommendedTool = ToolName(recommendedTool)
	station.LastTestResult = TestResult(lastTestResult)
	station.LastTestError = lastTestError.String
	station.DiscoverySource = discoverySource.String

	var err error
	if station.LastTestedAt, err = parseNullableTime(lastTestedAt); err != nil {
		return nil, err
	}
	if station.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if station.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &station, nil
}
