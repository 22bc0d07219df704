// Package retention expires old recordings and reconciles the
// recordings directory against the catalog.
package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aircheck/internal/catalog"
	"aircheck/internal/config"
	"aircheck/internal/logging"
	"aircheck/internal/notifications"
)

// Result summarizes one sweep for status output and notifications.
type Result struct {
	Expired        int
	Orphans        int
	BytesReclaimed int64
}

// Sweeper deletes expired recordings and cleans files the catalog does
// not know about.
type Sweeper struct {
	cfg      *config.Config
	store    *catalog.Store
	notifier notifications.Service
	logger   *slog.Logger
}

// NewSweeper constructs a retention sweeper.
func NewSweeper(cfg *config.Config, store *catalog.Store, notifier notifications.Service, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "retention"),
	}
}

// Sweep runs one retention pass. Rows with no effective expiry are
// never touched. The file is deleted before the row so a crash between
// the two leaves a row pointing at nothing, which the next sweep's
// reconciliation ignores and the operator can still see in listings.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (Result, error) {
	var result Result

	expired, err := s.store.ListExpiredRecordings(ctx, now)
	if err != nil {
		return result, fmt.Errorf("list expired recordings: %w", err)
	}
	for _, recording := range expired {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		path := filepath.Join(s.cfg.Paths.RecordingsDir, recording.Filename)
		size, err := s.removeFile(path)
		if err != nil {
			s.logger.Warn("delete expired recording file",
				logging.String("filename", recording.Filename),
				logging.Error(err),
			)
			continue
		}
		if err := s.store.DeleteRecording(ctx, recording.ID); err != nil {
			s.logger.Warn("delete expired recording row",
				logging.Int64("recording_id", recording.ID),
				logging.Error(err),
			)
			continue
		}
		result.Expired++
		result.BytesReclaimed += size
		s.logger.Info("expired recording removed",
			logging.String("filename", recording.Filename),
			logging.Int64(logging.FieldShowID, recording.ShowID),
		)
	}

	orphans, reclaimed, err := s.reconcileDirectory(ctx)
	if err != nil {
		return result, err
	}
	result.Orphans = orphans
	result.BytesReclaimed += reclaimed

	if result.Expired > 0 || result.Orphans > 0 {
		if err := s.notifier.NotifySweepCompleted(ctx, result.Expired, result.Orphans); err != nil {
			s.logger.Warn("notify sweep completed", logging.Error(err))
		}
	}
	s.logger.Info("sweep completed",
		logging.Int("expired", result.Expired),
		logging.Int("orphans", result.Orphans),
		logging.Int64("bytes_reclaimed", result.BytesReclaimed),
	)
	return result, nil
}

// reconcileDirectory removes zero-byte files and files with no catalog
// row. Age is irrelevant; a file the catalog does not own was never a
// validated capture.
func (s *Sweeper) reconcileDirectory(ctx context.Context) (int, int64, error) {
	known, err := s.store.KnownFilenames(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list known filenames: %w", err)
	}

	entries, err := os.ReadDir(s.cfg.Paths.RecordingsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("read recordings directory: %w", err)
	}

	orphans := 0
	var reclaimed int64
	for _, entry := range entries {
		if ctx.Err() != nil {
			return orphans, reclaimed, ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".mp3") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		_, owned := known[entry.Name()]
		if owned && info.Size() > 0 {
			continue
		}
		path := filepath.Join(s.cfg.Paths.RecordingsDir, entry.Name())
		if _, err := s.removeFile(path); err != nil {
			s.logger.Warn("remove orphan file", logging.String("filename", entry.Name()), logging.Error(err))
			continue
		}
		orphans++
		reclaimed += info.Size()
		s.logger.Info("orphan file removed",
			logging.String("filename", entry.Name()),
			logging.Int64("bytes", info.Size()),
		)
	}
	return orphans, reclaimed, nil
}

func (s *Sweeper) removeFile(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	if err := os.Remove(path); err != nil {
		return 0, err
	}
	return info.Size(), nil
}
