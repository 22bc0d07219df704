// Package capture records radio streams by driving external tools
// (streamripper, ffmpeg, wget) with a wall-clock bound, validating the
// result against a byte-rate floor, and persisting validated captures
// to the catalog.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"aircheck/internal/catalog"
	"aircheck/internal/config"
	"aircheck/internal/logging"
	"aircheck/internal/notifications"
	"aircheck/internal/services"
)

// Executor runs capture attempts end to end: tool fallback, quality
// validation, format normalization, catalog persistence, and station
// test-result bookkeeping.
type Executor struct {
	cfg      *config.Config
	store    *catalog.Store
	notifier notifications.Service
	runner   CommandRunner
	logger   *slog.Logger
	now      func() time.Time

	jobMu sync.Mutex
	jobs  map[string]Job
}

// Option configures the executor.
type Option func(*Executor)

// WithRunner injects a command runner (primarily for tests).
func WithRunner(runner CommandRunner) Option {
	return func(e *Executor) {
		if runner != nil {
			e.runner = runner
		}
	}
}

// WithClock injects a time source (primarily for tests).
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		if now != nil {
			e.now = now
		}
	}
}

// NewExecutor constructs a recording executor.
func NewExecutor(cfg *config.Config, store *catalog.Store, notifier notifications.Service, logger *slog.Logger, opts ...Option) *Executor {
	executor := &Executor{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		runner:   processRunner{},
		logger:   logging.NewComponentLogger(logger, "capture"),
		now:      time.Now,
		jobs:     make(map[string]Job),
	}
	for _, opt := range opts {
		opt(executor)
	}
	return executor
}

// Record captures one airing of show from station. It tries the
// station's recommended tool first, then the remaining tools in fixed
// order, and returns the catalog row for the first attempt that passes
// quality validation. All tools failing marks the station failed and
// returns an external-tool error; the caller decides whether that
// triggers rediscovery.
func (e *Executor) Record(ctx context.Context, station *catalog.Station, show *catalog.Show, duration time.Duration, sourceType catalog.SourceType) (*catalog.Recording, error) {
	if station == nil || show == nil {
		return nil, services.Wrap(services.ErrConfiguration, "capture", "record", "station and show required", nil)
	}
	if station.StreamURL == "" {
		return nil, e.fail(ctx, station, show, "station has no stream URL")
	}
	if info, err := os.Stat(e.cfg.Paths.RecordingsDir); err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "capture", "record",
			fmt.Sprintf("recordings directory %s unavailable", e.cfg.Paths.RecordingsDir), err)
	}

	tools := availableTools(orderTools(toolset(e.cfg), station.RecommendedTool))
	if len(tools) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "capture", "record", "no capture tools configured", nil)
	}

	durationSeconds := int(duration / time.Second)
	if durationSeconds <= 0 {
		return nil, services.Wrap(services.ErrValidation, "capture", "record", "duration must be positive", nil)
	}

	recordedAt := e.now()
	filename := Filename(station.CallLetters, slugFor(show, sourceType), recordedAt)
	outputPath := filepath.Join(e.cfg.Paths.RecordingsDir, filename)

	// One job per capture so every log line of the attempt chain can be
	// correlated, including tool fallbacks.
	job := e.beginJob(station, show, sourceType)
	defer e.finishJob(job.ID)
	ctx = services.WithJobID(services.WithShowID(services.WithStationID(ctx, station.ID), show.ID), job.ID)
	logger := logging.WithContext(ctx, e.logger)

	if err := e.notifier.NotifyRecordingStarted(ctx, station.Name, show.Name); err != nil {
		logger.Warn("notify recording started", logging.Error(err))
	}

	request := CaptureRequest{
		StreamURL:       station.StreamURL,
		UserAgent:       station.UserAgent,
		OutputPath:      outputPath,
		DurationSeconds: durationSeconds,
	}
	attemptWindow := duration + time.Duration(e.cfg.Capture.GraceSeconds)*time.Second

	var lastReason string
	for _, t := range tools {
		e.setJobStatus(job.ID, JobRunning, t.name)
		size, err := e.attempt(ctx, logger, job.ID, t, request, attemptWindow)
		if err != nil {
			lastReason = fmt.Sprintf("%s: %v", t.name, err)
			logger.Warn("capture attempt failed",
				logging.String("tool", string(t.name)),
				logging.Error(err),
			)
			if ctx.Err() != nil {
				// Daemon shutdown; no point trying further tools.
				break
			}
			continue
		}

		if err := e.normalizeFormat(ctx, outputPath); err != nil {
			logger.Warn("format normalization failed, keeping capture as-is",
				logging.String("filename", filename),
				logging.Error(err),
			)
		} else if info, statErr := os.Stat(outputPath); statErr == nil {
			size = info.Size()
		}

		recording, err := e.persist(ctx, station, show, filename, recordedAt, durationSeconds, size, sourceType, t.name)
		if err != nil {
			e.setJobStatus(job.ID, JobFailed, t.name)
			return nil, err
		}
		e.setJobStatus(job.ID, JobSucceeded, t.name)
		if err := e.notifier.NotifyRecordingCompleted(ctx, station.Name, show.Name, filename, size); err != nil {
			logger.Warn("notify recording completed", logging.Error(err))
		}
		logger.Info("recording captured",
			logging.String("filename", filename),
			logging.String("tool", string(t.name)),
			logging.Int64("bytes", size),
		)
		return recording, nil
	}

	e.setJobStatus(job.ID, JobFailed, catalog.ToolUnset)
	if lastReason == "" {
		lastReason = "no capture attempts ran"
	}
	return nil, e.fail(ctx, station, show, lastReason)
}

// attempt runs one tool under the capture window and validates the
// result. The tool being killed at the deadline is the expected way a
// capture ends; only the validated file decides success.
func (e *Executor) attempt(ctx context.Context, logger *slog.Logger, jobID string, t tool, request CaptureRequest, window time.Duration) (int64, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	runErr := e.runner.Run(attemptCtx, t.binary, t.buildArgs(request), nil)
	if runErr != nil && attemptCtx.Err() == nil {
		// Genuine tool failure, not the deadline. The file may still be
		// usable (some tools exit nonzero after writing), so validation
		// below has the final word.
		logger.Debug("tool exited with error", logging.String("tool", string(t.name)), logging.Error(runErr))
	}

	e.setJobStatus(jobID, JobValidating, t.name)
	size, err := validateCapture(request.OutputPath, request.DurationSeconds, e.cfg.Capture.MinBytesPerSecond)
	if err != nil {
		if removeErr := os.Remove(request.OutputPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			logger.Warn("remove rejected capture", logging.String("path", request.OutputPath), logging.Error(removeErr))
		}
		if runErr != nil {
			return 0, fmt.Errorf("%w (tool: %v)", err, runErr)
		}
		return 0, err
	}
	return size, nil
}

func (e *Executor) persist(ctx context.Context, station *catalog.Station, show *catalog.Show, filename string, recordedAt time.Time, durationSeconds int, size int64, sourceType catalog.SourceType, toolUsed catalog.ToolName) (*catalog.Recording, error) {
	recording := &catalog.Recording{
		ShowID:          show.ID,
		Filename:        filename,
		RecordedAt:      recordedAt.UTC(),
		DurationSeconds: durationSeconds,
		FileSizeBytes:   size,
		SourceType:      sourceType,
		ExpiresAt:       e.expiryFor(show, sourceType, recordedAt.UTC()),
		Tool:            toolUsed,
	}
	stored, err := e.store.InsertRecording(ctx, recording)
	if err != nil {
		return nil, fmt.Errorf("persist recording: %w", err)
	}
	if _, err := e.store.MarkStationTested(ctx, station.ID, catalog.TestResultSuccess, "", toolUsed); err != nil {
		e.logger.Warn("mark station success", logging.Int64(logging.FieldStationID, station.ID), logging.Error(err))
	}
	return stored, nil
}

// expiryFor resolves the stored expiry for a new recording. Test
// captures get the short fixed TTL; everything else follows the show's
// retention policy, where indefinite stays NULL.
func (e *Executor) expiryFor(show *catalog.Show, sourceType catalog.SourceType, recordedAt time.Time) *time.Time {
	if sourceType == catalog.SourceTest && e.cfg.Capture.TestTTLHours > 0 {
		expiry := recordedAt.Add(time.Duration(e.cfg.Capture.TestTTLHours) * time.Hour)
		return &expiry
	}
	return show.RetentionExpiry(recordedAt)
}

func (e *Executor) fail(ctx context.Context, station *catalog.Station, show *catalog.Show, reason string) error {
	if _, err := e.store.MarkStationTested(ctx, station.ID, catalog.TestResultFailed, reason, catalog.ToolUnset); err != nil {
		e.logger.Warn("mark station failed", logging.Int64(logging.FieldStationID, station.ID), logging.Error(err))
	}
	if err := e.notifier.NotifyRecordingFailed(ctx, station.Name, show.Name, reason); err != nil {
		e.logger.Warn("notify recording failed", logging.Error(err))
	}
	return services.Wrap(services.ErrExternalTool, "capture", "record", reason, nil)
}

func availableTools(tools []tool) []tool {
	usable := make([]tool, 0, len(tools))
	for _, t := range tools {
		if t.binary != "" {
			usable = append(usable, t)
		}
	}
	return usable
}
