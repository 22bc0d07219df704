package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aircheck/internal/config"
)

const userAgent = "aircheck/0.1"

// Service defines the notification surface exposed to engine components.
type Service interface {
	NotifyRecordingStarted(ctx context.Context, station, show string) error
	NotifyRecordingCompleted(ctx context.Context, station, show, filename string, size int64) error
	NotifyRecordingFailed(ctx context.Context, station, show, reason string) error
	NotifyStreamDiscovered(ctx context.Context, station, streamURL string, confidence float64) error
	NotifySweepCompleted(ctx context.Context, expired, orphans int) error
	NotifyError(ctx context.Context, err error, where string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		recording: cfg.Notifications.Recording,
		discovery: cfg.Notifications.Discovery,
		retention: cfg.Notifications.Retention,
		errors:    cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	recording bool
	discovery bool
	retention bool
	errors    bool
}

func (n *ntfyService) NotifyRecordingStarted(ctx context.Context, station, show string) error {
	if !n.recording {
		return nil
	}
	return n.send(ctx, payload{
		title:   "aircheck - Recording Started",
		message: fmt.Sprintf("Recording %s on %s", strings.TrimSpace(show), strings.TrimSpace(station)),
		tags:    []string{"aircheck", "recording", "started"},
	})
}

func (n *ntfyService) NotifyRecordingCompleted(ctx context.Context, station, show, filename string, size int64) error {
	if !n.recording {
		return nil
	}
	return n.send(ctx, payload{
		title:   "aircheck - Recording Complete",
		message: fmt.Sprintf("%s on %s captured (%d bytes)\nFile: %s", strings.TrimSpace(show), strings.TrimSpace(station), size, filename),
		tags:    []string{"aircheck", "recording", "completed"},
	})
}

func (n *ntfyService) NotifyRecordingFailed(ctx context.Context, station, show, reason string) error {
	if !n.recording {
		return nil
	}
	return n.send(ctx, payload{
		title:    "aircheck - Recording Failed",
		message:  fmt.Sprintf("%s on %s failed: %s", strings.TrimSpace(show), strings.TrimSpace(station), strings.TrimSpace(reason)),
		tags:     []string{"aircheck", "recording", "failed"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyStreamDiscovered(ctx context.Context, station, streamURL string, confidence float64) error {
	if !n.discovery {
		return nil
	}
	return n.send(ctx, payload{
		title:   "aircheck - Stream Updated",
		message: fmt.Sprintf("New stream for %s (confidence %.2f)\n%s", strings.TrimSpace(station), confidence, streamURL),
		tags:    []string{"aircheck", "discovery"},
	})
}

func (n *ntfyService) NotifySweepCompleted(ctx context.Context, expired, orphans int) error {
	if !n.retention {
		return nil
	}
	if expired == 0 && orphans == 0 {
		return nil
	}
	return n.send(ctx, payload{
		title:   "aircheck - Retention Sweep",
		message: fmt.Sprintf("Removed %d expired recordings, %d orphan files", expired, orphans),
		tags:    []string{"aircheck", "retention"},
	})
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, where string) error {
	if !n.errors || err == nil {
		return nil
	}
	return n.send(ctx, payload{
		title:    "aircheck - Error",
		message:  fmt.Sprintf("%s: %v", strings.TrimSpace(where), err),
		tags:     []string{"aircheck", "error"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:   "aircheck - Test",
		message: "Notifications are working",
		tags:    []string{"aircheck", "test"},
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	endpoint := n.endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://ntfy.sh/" + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected: %s", resp.Status)
	}
	return nil
}

type noopService struct{}

func (noopService) NotifyRecordingStarted(context.Context, string, string) error { return nil }

func (noopService) NotifyRecordingCompleted(context.Context, string, string, string, int64) error {
	return nil
}

func (noopService) NotifyRecordingFailed(context.Context, string, string, string) error { return nil }

func (noopService) NotifyStreamDiscovered(context.Context, string, string, float64) error {
	return nil
}

func (noopService) NotifySweepCompleted(context.Context, int, int) error { return nil }

func (noopService) NotifyError(context.Context, error, string) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }
