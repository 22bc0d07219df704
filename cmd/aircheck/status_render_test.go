package main

import (
	"io"
	"strings"
	"testing"

	"aircheck/internal/api"
)

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestColorTextDisabled(t *testing.T) {
	if got := colorText("ok", ansiGreen, false); got != "ok" {
		t.Fatalf("expected plain text, got %q", got)
	}
	if got := colorText("ok", ansiGreen, true); !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected colored text, got %q", got)
	}
}

func TestRenderDaemonStatus(t *testing.T) {
	var buf strings.Builder
	renderDaemonStatus(&buf, api.DaemonStatus{
		Running:       true,
		PID:           4242,
		CatalogDBPath: "/var/lib/aircheck/catalog.db",
		TriggerCount:  3,
		ActiveJobs: []api.CaptureJob{
			{ID: "9f2c", StationID: 1, ShowID: 7, Tool: "streamripper", Status: "running"},
		},
		Stats: api.CatalogStats{Stations: 2, Shows: 5, ActiveShows: 4, Recordings: 10, RecordingBytes: 1 << 20},
		Dependencies: []api.DependencyStatus{
			{Name: "ffmpeg", Available: true},
			{Name: "streamripper", Available: false, Optional: true, Detail: "not found in PATH"},
		},
	})
	out := buf.String()
	for _, want := range []string{"Running:", "yes", "Triggers:", "3", "show 7 via streamripper (running)", "1.0 MiB", "ffmpeg:", "not found in PATH"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}
