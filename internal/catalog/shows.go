package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const showColumns = `id, station_id, name, retention_unit, retention_value, active,
    duration_minutes, created_at, updated_at`

const scheduleColumns = `id, show_id, cron_expression, airing_type, priority, description, created_at`

// CreateShow inserts a new show row.
func (s *Store) CreateShow(ctx context.Context, show *Show) (*Show, error) {
	if show == nil {
		return nil, errors.New("show is nil")
	}
	if strings.TrimSpace(show.Name) == "" {
		return nil, errors.New("show name required")
	}
	if show.DurationMinutes <= 0 {
		return nil, errors.New("show duration must be positive")
	}
	unit := show.RetentionUnit
	if unit == "" {
		unit = RetentionIndefinite
	}

	timestamp := formatTime(time.Now())
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO shows (
            station_id, name, retention_unit, retention_value, active,
            duration_minutes, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		show.StationID,
		show.Name,
		string(unit),
		show.RetentionValue,
		boolToInt(show.Active),
		show.DurationMinutes,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert show: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetShow(ctx, id)
}

// GetShow fetches a show by identifier.
func (s *Store) GetShow(ctx context.Context, id int64) (*Show, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+showColumns+` FROM shows WHERE id = ?`, id)
	show, err := scanShow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get show: %w", err)
	}
	return show, nil
}

// GetShowByName fetches a show by station and name.
func (s *Store) GetShowByName(ctx context.Context, stationID int64, name string) (*Show, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+showColumns+` FROM shows WHERE station_id = ? AND name = ?`,
		stationID, name,
	)
	show, err := scanShow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get show by name: %w", err)
	}
	return show, nil
}

// ListShows returns all shows, optionally filtered by station.
func (s *Store) ListShows(ctx context.Context, stationID int64) ([]Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows`
	args := []any{}
	if stationID > 0 {
		query += ` WHERE station_id = ?`
		args = append(args, stationID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer rows.Close()

	var shows []Show
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		shows = append(shows, *show)
	}
	return shows, rows.Err()
}

// SetShowActive toggles a show's active flag.
func (s *Store) SetShowActive(ctx context.Context, showID int64, active bool) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE shows SET active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active), formatTime(time.Now()), showID,
	)
	if err != nil {
		return fmt.Errorf("set show active: %w", err)
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

// AddSchedule attaches a cron trigger to a show.
func (s *Store) AddSchedule(ctx context.Context, schedule *ShowSchedule) (*ShowSchedule, error) {
	if schedule == nil {
		return nil, errors.New("schedule is nil")
	}
	if strings.TrimSpace(schedule.CronExpression) == "" {
		return nil, errors.New("cron expression required")
	}
	airing := schedule.AiringType
	if airing == "" {
		airing = AiringOriginal
	}
	priority := schedule.Priority
	if priority <= 0 {
		priority = 1
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO show_schedules (show_id, cron_expression, airing_type, priority, description, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		schedule.ShowID,
		schedule.CronExpression,
		string(airing),
		priority,
		nullableString(schedule.Description),
		formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM show_schedules WHERE id = ?`, id)
	return scanSchedule(row)
}

// ListSchedules returns schedule rows ordered by priority, optionally
// limited to one show.
func (s *Store) ListSchedules(ctx context.Context, showID int64) ([]ShowSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM show_schedules`
	args := []any{}
	if showID > 0 {
		query += ` WHERE show_id = ?`
		args = append(args, showID)
	}
	query += ` ORDER BY priority, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []ShowSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, *schedule)
	}
	return schedules, rows.Err()
}

// ListScheduledShows returns every schedule row belonging to an active show,
// joined with its show and station, for trigger installation.
func (s *Store) ListScheduledShows(ctx context.Context) ([]ScheduledShow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT sc.id, sc.show_id, sc.cron_expression, sc.airing_type, sc.priority, sc.description, sc.created_at,
               `+prefixColumns("sh", showColumns)+`,
               `+prefixColumns("st", stationColumns)+`
        FROM show_schedules sc
        JOIN shows sh ON sh.id = sc.show_id
        JOIN stations st ON st.id = sh.station_id
        WHERE sh.active = 1
        ORDER BY sc.show_id, sc.priority, sc.id`)
	if err != nil {
		return nil, fmt.Errorf("list scheduled shows: %w", err)
	}
	defer rows.Close()

	var results []ScheduledShow
	for rows.Next() {
		entry, err := scanScheduledShow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled show: %w", err)
		}
		results = append(results, *entry)
	}
	return results, rows.Err()
}

func scanShow(row interface{ Scan(...any) error }) (*Show, error) {
	var (
		show      Show
		unit      string
		active    int
		createdAt string
		updatedAt string
	)
	if err := row.Scan(
		&show.ID,
		&show.StationID,
		&show.Name,
		&unit,
		&show.RetentionValue,
		&active,
		&show.DurationMinutes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	show.RetentionUnit = RetentionUnit(unit)
	show.Active = active != 0

	var err error
	if show.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if show.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &show, nil
}

func scanSchedule(row interface{ Scan(...any) error }) (*ShowSchedule, error) {
	var (
		schedule    ShowSchedule
		airing      string
		description sql.NullString
		createdAt   string
	)
	if err := row.Scan(
		&schedule.ID,
		&schedule.ShowID,
		&schedule.CronExpression,
		&airing,
		&schedule.Priority,
		&description,
		&createdAt,
	); err != nil {
		return nil, err
	}
	schedule.AiringType = AiringType(airing)
	schedule.Description = description.String

	var err error
	if schedule.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func scanScheduledShow(rows *sql.Rows) (*ScheduledShow, error) {
	var (
		entry ScheduledShow

		airing      string
		description sql.NullString
		scCreatedAt string

		unit        string
		active      int
		shCreatedAt string
		shUpdatedAt string

		streamURL       sql.NullString
		userAgent       sql.NullString
		recommendedTool string
		lastTestResult  string
		lastTestError   sql.NullString
		lastTestedAt    sql.NullString
		discoverySource sql.NullString
		stCreatedAt     string
		stUpdatedAt     string
	)
	if err := rows.Scan(
		&entry.Schedule.ID,
		&entry.Schedule.ShowID,
		&entry.Schedule.CronExpression,
		&airing,
		&entry.Schedule.Priority,
		&description,
		&scCreatedAt,

		&entry.Show.ID,
		&entry.Show.StationID,
		&entry.Show.Name,
		&unit,
		&entry.Show.RetentionValue,
		&active,
		&entry.Show.DurationMinutes,
		&shCreatedAt,
		&shUpdatedAt,

		&entry.Station.ID,
		&entry.Station.Name,
		&entry.Station.CallLetters,
		&streamURL,
		&userAgent,
		&recommendedTool,
		&lastTestResult,
		&lastTestError,
		&lastTestedAt,
		&discoverySource,
		&entry.Station.DiscoveryConfidence,
		&stCreatedAt,
		&stUpdatedAt,
	); err != nil {
		return nil, err
	}

	entry.Schedule.AiringType = AiringType(airing)
	entry.Schedule.Description = description.String
	entry.Show.RetentionUnit = RetentionUnit(unit)
	entry.Show.Active = active != 0
	entry.Station.StreamURL = streamURL.String
	entry.Station.UserAgent = userAgent.String
	entry.Station.RecommendedTool = ToolName(recommendedTool)
	entry.Station.LastTestResult = TestResult(lastTestResult)
	entry.Station.LastTestError = lastTestError.String
	entry.Station.DiscoverySource = discoverySource.String

	var err error
	if entry.Schedule.CreatedAt, err = parseTime(scCreatedAt); err != nil {
		return nil, err
	}
	if entry.Show.CreatedAt, err = parseTime(shCreatedAt); err != nil {
		return nil, err
	}
	if entry.Show.UpdatedAt, err = parseTime(shUpdatedAt); err != nil {
		return nil, err
	}
	if entry.Station.LastTestedAt, err = parseNullableTime(lastTestedAt); err != nil {
		return nil, err
	}
	if entry.Station.CreatedAt, err = parseTime(stCreatedAt); err != nil {
		return nil, err
	}
	if entry.Station.UpdatedAt, err = parseTime(stUpdatedAt); err != nil {
		return nil, err
	}
	return &entry, nil
}

func prefixColumns(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = prefix + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
