package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"aircheck/internal/catalog"
	"aircheck/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	station := testsupport.NewStation(t, store, "WEHC", "WEHC 90.7 FM", "http://stream.example/wehc")
	if station.ID == 0 {
		t.Fatal("expected station ID to be assigned")
	}
	if station.CallLetters != "WEHC" {
		t.Fatalf("unexpected call letters: %q", station.CallLetters)
	}

	fetched, err := store.GetStationByCallLetters(context.Background(), "wehc")
	if err != nil {
		t.Fatalf("GetStationByCallLetters: %v", err)
	}
	if fetched == nil || fetched.ID != station.ID {
		t.Fatalf("expected to find station, got %#v", fetched)
	}
}

func TestCreateStationValidatesCallLetters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.CreateStation(context.Background(), &catalog.Station{Name: "Bad", CallLetters: "TOOLONG"})
	if err == nil {
		t.Fatal("expected error for oversized call letters")
	}
}

func TestUpdateStationCASDetectsStaleWrite(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	station := testsupport.NewStation(t, store, "WXYZ", "Test Station", "")
	stale := station.UpdatedAt

	station.LastTestResult = catalog.TestResultSuccess
	if err := store.UpdateStationCAS(ctx, station, stale); err != nil {
		t.Fatalf("first CAS update: %v", err)
	}

	// Second writer holding the old timestamp must lose.
	other := *station
	other.LastTestResult = catalog.TestResultFailed
	if err := store.UpdateStationCAS(ctx, &other, stale); !errors.Is(err, catalog.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
}

func TestMarkStationTestedRecordsTool(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	station := testsupport.NewStation(t, store, "WABC", "ABC Radio", "http://stream.example/wabc")
	updated, err := store.MarkStationTested(ctx, station.ID, catalog.TestResultSuccess, "", catalog.ToolFFmpeg)
	if err != nil {
		t.Fatalf("MarkStationTested: %v", err)
	}
	if updated.RecommendedTool != catalog.ToolFFmpeg {
		t.Fatalf("expected recommended tool ffmpeg, got %q", updated.RecommendedTool)
	}
	if updated.LastTestedAt == nil {
		t.Fatal("expected last_tested_at to be set")
	}

	failed, err := store.MarkStationTested(ctx, station.ID, catalog.TestResultFailed, "all tools exhausted", catalog.ToolUnset)
	if err != nil {
		t.Fatalf("MarkStationTested failure: %v", err)
	}
	if failed.RecommendedTool != catalog.ToolFFmpeg {
		t.Fatal("failure must not clear the recommended tool")
	}
	if failed.LastTestError != "all tools exhausted" {
		t.Fatalf("unexpected error reason: %q", failed.LastTestError)
	}
}

func TestShowRetentionExpiry(t *testing.T) {
	recordedAt := time.Date(2025, 7, 27, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		show catalog.Show
		want *time.Time
	}{
		{"days", catalog.Show{RetentionUnit: catalog.RetentionDays, RetentionValue: 7}, timePtr(recordedAt.AddDate(0, 0, 7))},
		{"weeks", catalog.Show{RetentionUnit: catalog.RetentionWeeks, RetentionValue: 2}, timePtr(recordedAt.AddDate(0, 0, 14))},
		{"months", catalog.Show{RetentionUnit: catalog.RetentionMonths, RetentionValue: 1}, timePtr(recordedAt.AddDate(0, 1, 0))},
		{"indefinite", catalog.Show{RetentionUnit: catalog.RetentionIndefinite, RetentionValue: 5}, nil},
	}
	for _, tc := range cases {
		got := tc.show.RetentionExpiry(recordedAt)
		if (got == nil) != (tc.want == nil) {
			t.Errorf("%s: expiry nil mismatch: got %v want %v", tc.name, got, tc.want)
			continue
		}
		if got != nil && !got.Equal(*tc.want) {
			t.Errorf("%s: expiry = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestListScheduledShowsSkipsInactive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	station := testsupport.NewStation(t, store, "WEHC", "WEHC 90.7 FM", "http://stream.example/wehc")
	active := testsupport.NewShow(t, store, station.ID, "Morning Show", 60)
	idle := testsupport.NewShow(t, store, station.ID, "Night Show", 120)
	testsupport.NewSchedule(t, store, active.ID, "0 8 * * 1-5", catalog.AiringOriginal)
	testsupport.NewSchedule(t, store, active.ID, "0 20 * * 6", catalog.AiringRepeat)
	testsupport.NewSchedule(t, store, idle.ID, "0 2 * * *", catalog.AiringOriginal)

	if err := store.SetShowActive(ctx, idle.ID, false); err != nil {
		t.Fatalf("SetShowActive: %v", err)
	}

	entries, err := store.ListScheduledShows(ctx)
	if err != nil {
		t.Fatalf("ListScheduledShows: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 schedule entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Show.ID != active.ID {
			t.Fatalf("unexpected show in results: %d", entry.Show.ID)
		}
		if entry.Station.CallLetters != "WEHC" {
			t.Fatalf("station join broken: %#v", entry.Station)
		}
	}
}

func TestRecordingLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	station := testsupport.NewStation(t, store, "WEHC", "WEHC 90.7 FM", "http://stream.example/wehc")
	show := testsupport.NewShow(t, store, station.ID, "Morning Show", 60)

	recordedAt := time.Now().UTC().Add(-time.Hour)
	expiry := recordedAt.AddDate(0, 0, 30)
	recording, err := store.InsertRecording(ctx, &catalog.Recording{
		ShowID:          show.ID,
		Filename:        "WEHC_MorningShow_20250727_0800.mp3",
		RecordedAt:      recordedAt,
		DurationSeconds: 3600,
		FileSizeBytes:   3600 * 2048,
		SourceType:      catalog.SourceScheduled,
		ExpiresAt:       &expiry,
		Tool:            catalog.ToolStreamripper,
	})
	if err != nil {
		t.Fatalf("InsertRecording: %v", err)
	}
	if recording.ID == 0 {
		t.Fatal("expected recording ID")
	}

	byName, err := store.GetRecordingByFilename(ctx, "WEHC_MorningShow_20250727_0800.mp3")
	if err != nil {
		t.Fatalf("GetRecordingByFilename: %v", err)
	}
	if byName == nil || byName.ID != recording.ID {
		t.Fatalf("filename lookup failed: %#v", byName)
	}

	// Duplicate filenames are rejected by the unique index.
	if _, err := store.InsertRecording(ctx, &catalog.Recording{
		ShowID:          show.ID,
		Filename:        "WEHC_MorningShow_20250727_0800.mp3",
		RecordedAt:      recordedAt,
		DurationSeconds: 3600,
		FileSizeBytes:   1,
		SourceType:      catalog.SourceScheduled,
	}); err == nil {
		t.Fatal("expected unique constraint violation")
	}

	if err := store.DeleteRecording(ctx, recording.ID); err != nil {
		t.Fatalf("DeleteRecording: %v", err)
	}
	if err := store.DeleteRecording(ctx, recording.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListExpiredRecordingsHonorsOverride(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	station := testsupport.NewStation(t, store, "WEHC", "WEHC 90.7 FM", "")
	show := testsupport.NewShow(t, store, station.ID, "Morning Show", 60)

	now := time.Now().UTC()
	farFuture := now.Add(720 * time.Hour)
	shortTTL := 4

	// Stored expiry far in the future, but the 4h override has lapsed.
	overridden, err := store.InsertRecording(ctx, &catalog.Recording{
		ShowID:           show.ID,
		Filename:         "WEHC_MorningShow_20250101_0800.mp3",
		RecordedAt:       now.Add(-6 * time.Hour),
		DurationSeconds:  60,
		FileSizeBytes:    2048 * 60,
		SourceType:       catalog.SourceTest,
		ExpiresAt:        &farFuture,
		TTLOverrideHours: &shortTTL,
	})
	if err != nil {
		t.Fatalf("InsertRecording: %v", err)
	}

	// Indefinite recording must never expire.
	if _, err := store.InsertRecording(ctx, &catalog.Recording{
		ShowID:          show.ID,
		Filename:        "WEHC_MorningShow_20250102_0800.mp3",
		RecordedAt:      now.Add(-90 * 24 * time.Hour),
		DurationSeconds: 60,
		FileSizeBytes:   2048 * 60,
		SourceType:      catalog.SourceScheduled,
	}); err != nil {
		t.Fatalf("InsertRecording indefinite: %v", err)
	}

	expired, err := store.ListExpiredRecordings(ctx, now)
	if err != nil {
		t.Fatalf("ListExpiredRecordings: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != overridden.ID {
		t.Fatalf("expected only the overridden recording, got %#v", expired)
	}
}

func timePtr(value time.Time) *time.Time {
	return &value
}
