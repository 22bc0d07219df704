// Package scheduler installs cron triggers for active show schedules
// and dispatches capture jobs when they fire, with a duplicate guard
// so overlapping airings of the same show never record twice.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"aircheck/internal/catalog"
	"aircheck/internal/config"
	"aircheck/internal/guard"
	"aircheck/internal/logging"
	"aircheck/internal/services"
)

// Recorder captures one airing. Satisfied by capture.Executor.
type Recorder interface {
	Record(ctx context.Context, station *catalog.Station, show *catalog.Show, duration time.Duration, sourceType catalog.SourceType) (*catalog.Recording, error)
}

// Scheduler owns the cron runtime and the show→trigger registry.
type Scheduler struct {
	cfg      *config.Config
	store    *catalog.Store
	guard    guard.DuplicateGuard
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time

	cron        *cron.Cron
	rediscovery chan int64

	mu      sync.Mutex
	entries map[int64][]cron.EntryID

	baseCtx context.Context
	wg      sync.WaitGroup
	sem     chan struct{}
}

// New constructs a scheduler. Triggers fire in the configured timezone.
func New(cfg *config.Config, store *catalog.Store, dupGuard guard.DuplicateGuard, recorder Recorder, logger *slog.Logger) *Scheduler {
	workers := cfg.Scheduler.MaxConcurrentCaptures
	if workers <= 0 {
		workers = 1
	}
	return &Scheduler{
		cfg:         cfg,
		store:       store,
		guard:       dupGuard,
		recorder:    recorder,
		logger:      logging.NewComponentLogger(logger, "scheduler"),
		now:         time.Now,
		cron:        cron.New(cron.WithLocation(cfg.Location())),
		rediscovery: make(chan int64, 16),
		entries:     make(map[int64][]cron.EntryID),
		sem:         make(chan struct{}, workers),
	}
}

// Start installs triggers for every active show schedule and starts the
// cron runtime. ctx bounds all dispatched captures.
func (s *Scheduler) Start(ctx context.Context) error {
	s.baseCtx = ctx
	scheduled, err := s.store.ListScheduledShows(ctx)
	if err != nil {
		return fmt.Errorf("load schedules: %w", err)
	}
	for i := range scheduled {
		s.install(&scheduled[i])
	}
	s.cron.Start()
	s.logger.Info("scheduler started",
		logging.Int("shows", len(s.entryCounts())),
		logging.Int("triggers", s.EntryCount()),
	)
	return nil
}

// Stop halts the cron runtime and waits for in-flight captures.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.wg.Wait()
}

// Refresh reinstalls the triggers for one show after a schedule or
// activation change. Idempotent; a show with no active schedules ends
// up with no triggers.
func (s *Scheduler) Refresh(ctx context.Context, showID int64) error {
	s.uninstall(showID)

	scheduled, err := s.store.ListScheduledShows(ctx)
	if err != nil {
		return fmt.Errorf("reload schedules: %w", err)
	}
	installed := 0
	for i := range scheduled {
		if scheduled[i].Show.ID != showID {
			continue
		}
		s.install(&scheduled[i])
		installed++
	}
	s.logger.Info("show triggers refreshed",
		logging.Int64(logging.FieldShowID, showID),
		logging.Int("triggers", installed),
	)
	return nil
}

// Rediscoveries yields station IDs whose captures exhausted every tool.
// The daemon consumes this channel; discovery never runs inline with a
// firing trigger.
func (s *Scheduler) Rediscoveries() <-chan int64 {
	return s.rediscovery
}

// EntryCount reports installed trigger count for status output.
func (s *Scheduler) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, ids := range s.entries {
		total += len(ids)
	}
	return total
}

func (s *Scheduler) entryCounts() map[int64]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[int64]int, len(s.entries))
	for showID, ids := range s.entries {
		counts[showID] = len(ids)
	}
	return counts
}

func (s *Scheduler) install(scheduled *catalog.ScheduledShow) {
	showID := scheduled.Show.ID
	stationID := scheduled.Station.ID
	scheduleID := scheduled.Schedule.ID
	hold := s.holdFor(scheduled.Show.DurationMinutes)
	entryID, err := s.cron.AddFunc(scheduled.Schedule.CronExpression, func() {
		s.fire(showID, stationID, scheduleID, hold)
	})
	if err != nil {
		s.logger.Warn("invalid cron expression, trigger skipped",
			logging.Int64(logging.FieldShowID, showID),
			logging.String("expression", scheduled.Schedule.CronExpression),
			logging.Error(err),
		)
		return
	}
	s.mu.Lock()
	s.entries[showID] = append(s.entries[showID], entryID)
	s.mu.Unlock()
}

func (s *Scheduler) uninstall(showID int64) {
	s.mu.Lock()
	ids := s.entries[showID]
	delete(s.entries, showID)
	s.mu.Unlock()
	for _, id := range ids {
		s.cron.Remove(id)
	}
}

// holdFor sizes a claim from the capture length plus grace, so a
// repeat airing firing while the previous capture still runs is
// rejected instead of taking the claim over.
func (s *Scheduler) holdFor(durationMinutes int) time.Duration {
	return time.Duration(durationMinutes)*time.Minute +
		time.Duration(s.cfg.Capture.GraceSeconds)*time.Second
}

/// fire is the trigger path: claim, dispatch, release. Two schedules of
// the same show firing in the same window contend on the claim and the
// loser skips; there are no in-slot retries.
func (s *Scheduler) fire(showID, stationID, scheduleID int64, hold time.Duration) {
	claim, ok := s.guard.TryClaim(showID, s.now(), hold)
	if !ok {
		s.logger.Info("airing skipped, show already claimed",
			logging.Int64(logging.FieldShowID, showID),
			logging.Int64("schedule_id", scheduleID),
			logging.String(logging.FieldEventType, "duplicate_skip"),
		)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.guard.Release(claim)

		select {
		case s.sem <- struct{}{}:
			defer func() { <-s.sem }()
		case <-s.baseCtx.Done():
			return
		}
		s.capture(showID, stationID)
	}()
}

// capture re-reads the station and show so a discovery update between
// install and fire is honored.
func (s *Scheduler) capture(showID, stationID int64) {
	ctx := services.WithShowID(services.WithStationID(s.baseCtx, stationID), showID)
	logger := logging.WithContext(ctx, s.logger)

	show, err := s.store.GetShow(ctx, showID)
	if err != nil || show == nil {
		logger.Error("load show for capture", logging.Error(err))
		return
	}
	if !show.Active {
		logger.Info("show deactivated since trigger install, skipping")
		return
	}
	station, err := s.store.GetStation(ctx, stationID)
	if err != nil || station == nil {
		logger.Error("load station for capture", logging.Error(err))
		return
	}

	duration := time.Duration(show.DurationMinutes) * time.Minute
	if _, err := s.recorder.Record(ctx, station, show, duration, catalog.SourceScheduled); err != nil {
		logger.Error("scheduled capture failed", logging.Error(err))
		if services.IsHardFailure(err) {
			select {
			case s.rediscovery <- stationID:
			default:
				logger.Warn("rediscovery queue full, dropping request")
			}
		}
	}
}
