// Package daemon coordinates the long-running aircheck services and
// enforces single-instance execution.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"aircheck/internal/capture"
	"aircheck/internal/catalog"
	"aircheck/internal/config"
	"aircheck/internal/deps"
	"aircheck/internal/discovery"
	"aircheck/internal/guard"
	"aircheck/internal/logging"
	"aircheck/internal/notifications"
	"aircheck/internal/retention"
	"aircheck/internal/scheduler"
	"aircheck/internal/services"
)

// Daemon owns the scheduler, sweeper, and rediscovery loop.
type Daemon struct {
	cfg       *config.Config
	store     *catalog.Store
	logger    *slog.Logger
	scheduler *scheduler.Scheduler
	executor  *capture.Executor
	sweeper   *retention.Sweeper
	discovery *discovery.Client
	guard     guard.DuplicateGuard
	notifier  notifications.Service
	logPath   string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	CatalogDBPath string
	LockFilePath  string
	LogPath       string
	TriggerCount  int
	HeldClaims    []int64
	ActiveJobs    []capture.Job
	Stats         catalog.Stats
	Dependencies  []deps.Status
}

// Option configures daemon construction.
type Option func(*options)

type options struct {
	captureOpts []capture.Option
}

// WithCaptureOptions forwards options to the capture executor, letting
// callers swap the command runner or clock.
func WithCaptureOptions(opts ...capture.Option) Option {
	return func(o *options) {
		o.captureOpts = append(o.captureOpts, opts...)
	}
}

// New constructs a daemon with initialized services.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger, notifier notifications.Service, logPath string, opts ...Option) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	var resolved options
	for _, opt := range opts {
		opt(&resolved)
	}

	dupGuard := guard.NewMemoryGuard(time.Duration(cfg.Scheduler.DuplicateWindowMinutes) * time.Minute)
	executor := capture.NewExecutor(cfg, store, notifier, logger, resolved.captureOpts...)
	lockPath := filepath.Join(cfg.Paths.DataDir, "aircheck.lock")
	return &Daemon{
		cfg:       cfg,
		store:     store,
		logger:    logger,
		scheduler: scheduler.New(cfg, store, dupGuard, executor, logger),
		executor:  executor,
		sweeper:   retention.NewSweeper(cfg, store, notifier, logger),
		discovery: discovery.NewClient(cfg, logger),
		guard:     dupGuard,
		notifier:  notifier,
		logPath:   logPath,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and launches the scheduler, sweep
// ticker, and rediscovery loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another aircheck daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.scheduler.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start scheduler: %w", err)
	}

	d.wg.Add(2)
	go d.sweepLoop()
	go d.rediscoveryLoop()

	d.running.Store(true)
	d.logger.Info("aircheck daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts background work and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.scheduler.Stop()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("aircheck daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// LogPath reports the active log file path.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status aggregates runtime state for the status surface.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		CatalogDBPath: d.cfg.DatabasePath(),
		LockFilePath:  d.lockPath,
		LogPath:       d.logPath,
		TriggerCount:  d.scheduler.EntryCount(),
		HeldClaims:    d.guard.Held(),
		ActiveJobs:    d.executor.ActiveJobs(),
		Dependencies:  deps.CheckBinaries(deps.Requirements(d.cfg)),
	}
	if stats, err := d.store.Stats(ctx); err == nil {
		status.Stats = stats
	} else {
		d.logger.Warn("collect catalog stats", logging.Error(err))
	}
	return status
}

// RefreshShow reinstalls one show's triggers after a schedule change.
func (d *Daemon) RefreshShow(ctx context.Context, showID int64) error {
	return d.scheduler.Refresh(ctx, showID)
}

// RecordNow runs an immediate capture outside the schedule. The show
// must already exist; on-demand shows are the caller's responsibility.
func (d *Daemon) RecordNow(ctx context.Context, stationID, showID int64, duration time.Duration, sourceType catalog.SourceType) (*catalog.Recording, error) {
	station, err := d.store.GetStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, services.Wrap(services.ErrNotFound, "daemon", "record now", fmt.Sprintf("station %d", stationID), nil)
	}
	show, err := d.store.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, services.Wrap(services.ErrNotFound, "daemon", "record now", fmt.Sprintf("show %d", showID), nil)
	}

	hold := duration + time.Duration(d.cfg.Capture.GraceSeconds)*time.Second
	claim, ok := d.guard.TryClaim(showID, time.Now(), hold)
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "daemon", "record now",
			"a capture for this show is already in progress", nil)
	}
	defer d.guard.Release(claim)

	ctx = services.WithShowID(services.WithStationID(ctx, stationID), showID)
	return d.executor.Record(ctx, station, show, duration, sourceType)
}

// DiscoverStation runs discovery for one station. fresh selects the
// first-time weight set; rediscovery weights apply otherwise.
func (d *Daemon) DiscoverStation(ctx context.Context, stationID int64, fresh bool) (*catalog.Station, *discovery.Match, error) {
	weights := discovery.RediscoveryWeights
	if fresh {
		weights = discovery.FreshDiscoveryWeights
	}
	station, match, err := d.discovery.RefreshStation(ctx, d.store, stationID, weights)
	if err != nil {
		return station, nil, err
	}
	if notifyErr := d.notifier.NotifyStreamDiscovered(ctx, station.Name, match.Candidate.URL, match.Confidence); notifyErr != nil {
		d.logger.Warn("notify stream discovered", logging.Error(notifyErr))
	}
	return station, match, nil
}

// SweepNow runs one retention pass immediately.
func (d *Daemon) SweepNow(ctx context.Context) (retention.Result, error) {
	return d.sweeper.Sweep(ctx, time.Now())
}

// TestNotification sends a test push through the configured channel.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, err.Error(), err
	}
	return true, "notification sent", nil
}

// ListStations exposes the catalog for the IPC surface.
func (d *Daemon) ListStations(ctx context.Context) ([]catalog.Station, error) {
	return d.store.ListStations(ctx)
}

// ListShows exposes shows, optionally filtered by station.
func (d *Daemon) ListShows(ctx context.Context, stationID int64) ([]catalog.Show, error) {
	return d.store.ListShows(ctx, stationID)
}

// ListRecordings exposes recordings, optionally filtered by show.
func (d *Daemon) ListRecordings(ctx context.Context, showID int64) ([]catalog.Recording, error) {
	return d.store.ListRecordings(ctx, showID)
}

func (d *Daemon) sweepLoop() {
	defer d.wg.Done()
	interval := time.Duration(d.cfg.Retention.SweepIntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.sweeper.Sweep(d.ctx, time.Now()); err != nil && d.ctx.Err() == nil {
				d.logger.Error("scheduled sweep failed", logging.Error(err))
				if notifyErr := d.notifier.NotifyError(d.ctx, err, "retention sweep"); notifyErr != nil {
					d.logger.Warn("notify sweep error", logging.Error(notifyErr))
				}
			}
		}
	}
}

// rediscoveryLoop consumes hard capture failures and refreshes the
// failing station's stream so the next trigger has a chance.
func (d *Daemon) rediscoveryLoop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case stationID := <-d.scheduler.Rediscoveries():
			if _, _, err := d.DiscoverStation(d.ctx, stationID, false); err != nil && d.ctx.Err() == nil {
				d.logger.Warn("rediscovery failed",
					logging.Int64(logging.FieldStationID, stationID),
					logging.Error(err),
				)
			}
		}
	}
}
