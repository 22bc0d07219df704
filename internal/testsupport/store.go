package testsupport

import (
	"context"
	"testing"

	"aircheck/internal/catalog"
	"aircheck/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewStation inserts a station fixture.
func NewStation(t testing.TB, store *catalog.Store, call, name, streamURL string) *catalog.Station {
	t.Helper()

	station, err := store.CreateStation(context.Background(), &catalog.Station{
		Name:        name,
		CallLetters: call,
		StreamURL:   streamURL,
	})
	if err != nil {
		t.Fatalf("store.CreateStation: %v", err)
	}
	return station
}

// NewShow inserts an active show fixture with a days-based retention policy.
func NewShow(t testing.TB, store *catalog.Store, stationID int64, name string, durationMinutes int) *catalog.Show {
	t.Helper()

	show, err := store.CreateShow(context.Background(), &catalog.Show{
		StationID:       stationID,
		Name:            name,
		RetentionUnit:   catalog.RetentionDays,
		RetentionValue:  30,
		Active:          true,
		DurationMinutes: durationMinutes,
	})
	if err != nil {
		t.Fatalf("store.CreateShow: %v", err)
	}
	return show
}

// NewSchedule attaches a cron schedule fixture to a show.
func NewSchedule(t testing.TB, store *catalog.Store, showID int64, expr string, airing catalog.AiringType) *catalog.ShowSchedule {
	t.Helper()

	schedule, err := store.AddSchedule(context.Background(), &catalog.ShowSchedule{
		ShowID:         showID,
		CronExpression: expr,
		AiringType:     airing,
	})
	if err != nil {
		t.Fatalf("store.AddSchedule: %v", err)
	}
	return schedule
}
