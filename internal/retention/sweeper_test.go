package retention

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"aircheck/internal/catalog"
	"aircheck/internal/config"
	"aircheck/internal/logging"
	"aircheck/internal/notifications"
	"aircheck/internal/testsupport"
)

func newTestSweeper(t *testing.T) (*Sweeper, *catalog.Store, *config.Config, *catalog.Show) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	station := testsupport.NewStation(t, store, "WEHC", "WEHC 90.7 FM", "http://stream.example/wehc")
	show := testsupport.NewShow(t, store, station.ID, "Morning Show", 60)
	sweeper := NewSweeper(cfg, store, notifications.NewService(cfg), logging.NewNop())
	return sweeper, store, cfg, show
}

func seedRecording(t *testing.T, store *catalog.Store, cfg *config.Config, showID int64, filename string, recordedAt time.Time, expiresAt *time.Time, ttlOverride *int, size int) *catalog.Recording {
	t.Helper()
	if size >= 0 {
		path := filepath.Join(cfg.Paths.RecordingsDir, filename)
		if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
			t.Fatalf("write recording file: %v", err)
		}
	}
	recording, err := store.InsertRecording(context.Background(), &catalog.Recording{
		ShowID:           showID,
		Filename:         filename,
		RecordedAt:       recordedAt,
		DurationSeconds:  3600,
		FileSizeBytes:    int64(size),
		SourceType:       catalog.SourceScheduled,
		ExpiresAt:        expiresAt,
		TTLOverrideHours: ttlOverride,
		Tool:             catalog.ToolStreamripper,
	})
	if err != nil {
		t.Fatalf("InsertRecording: %v", err)
	}
	return recording
}

func TestSweepDeletesExpiredKeepsIndefinite(t *testing.T) {
	sweeper, store, cfg, show := newTestSweeper(t)
	now := time.Date(2025, 7, 27, 12, 0, 0, 0, time.UTC)

	yesterday := now.Add(-24 * time.Hour)
	expiredAt := now.Add(-time.Hour)
	expired := seedRecording(t, store, cfg, show.ID, "WEHC_MorningShow_20250726_0800.mp3", yesterday, &expiredAt, nil, 4096)

	keeper := seedRecording(t, store, cfg, show.ID, "WEHC_MorningShow_20250727_0800.mp3", now, nil, nil, 4096)

	result, err := sweeper.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Expired != 1 {
		t.Fatalf("expired = %d, want 1", result.Expired)
	}

	if _, err := os.Stat(filepath.Join(cfg.Paths.RecordingsDir, expired.Filename)); !os.IsNotExist(err) {
		t.Fatal("expired file should be deleted")
	}
	if row, err := store.GetRecording(context.Background(), expired.ID); err != nil || row != nil {
		t.Fatalf("expired row should be deleted, got %v, %v", row, err)
	}

	if _, err := os.Stat(filepath.Join(cfg.Paths.RecordingsDir, keeper.Filename)); err != nil {
		t.Fatalf("indefinite recording must survive: %v", err)
	}
	if row, err := store.GetRecording(context.Background(), keeper.ID); err != nil || row == nil {
		t.Fatalf("indefinite row must survive, got %v, %v", row, err)
	}
}

func TestSweepHonorsTTLOverride(t *testing.T) {
	sweeper, store, cfg, show := newTestSweeper(t)
	now := time.Date(2025, 7, 27, 13, 0, 0, 0, time.UTC)

	// Stored expiry is far in the future but the 4h override recorded
	// 5h ago wins.
	farFuture := now.AddDate(1, 0, 0)
	ttl := 4
	overridden := seedRecording(t, store, cfg, show.ID, "WEHC_test_20250727_0800.mp3", now.Add(-5*time.Hour), &farFuture, &ttl, 4096)

	result, err := sweeper.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Expired != 1 {
		t.Fatalf("expired = %d, want 1", result.Expired)
	}
	if row, err := store.GetRecording(context.Background(), overridden.ID); err != nil || row != nil {
		t.Fatalf("overridden recording should be swept, got %v, %v", row, err)
	}
}

func TestSweepReconcilesDirectory(t *testing.T) {
	sweeper, store, cfg, show := newTestSweeper(t)
	now := time.Date(2025, 7, 27, 12, 0, 0, 0, time.UTC)

	owned := seedRecording(t, store, cfg, show.ID, "WEHC_MorningShow_20250727_0800.mp3", now, nil, nil, 4096)

	orphanPath := filepath.Join(cfg.Paths.RecordingsDir, "WXYZ_Unknown_20250101_0000.mp3")
	if err := os.WriteFile(orphanPath, make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("write orphan: %v", err)
	}
	zeroPath := filepath.Join(cfg.Paths.RecordingsDir, "WEHC_MorningShow_20250725_0800.mp3")
	if err := os.WriteFile(zeroPath, nil, 0o644); err != nil {
		t.Fatalf("write zero-byte file: %v", err)
	}
	notesPath := filepath.Join(cfg.Paths.RecordingsDir, "notes.txt")
	if err := os.WriteFile(notesPath, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	result, err := sweeper.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Orphans != 2 {
		t.Fatalf("orphans = %d, want 2", result.Orphans)
	}

	if _, err := os.Stat(orphanPath); !os.IsNotExist(err) {
		t.Fatal("orphan file should be removed")
	}
	if _, err := os.Stat(zeroPath); !os.IsNotExist(err) {
		t.Fatal("zero-byte file should be removed")
	}
	if _, err := os.Stat(notesPath); err != nil {
		t.Fatal("non-mp3 files are not the sweeper's business")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.RecordingsDir, owned.Filename)); err != nil {
		t.Fatalf("owned file must survive: %v", err)
	}
	if row, err := store.GetRecording(context.Background(), owned.ID); err != nil || row == nil {
		t.Fatalf("owned row must survive, got %v, %v", row, err)
	}
}
