// Package deps reports availability of the external binaries aircheck
// drives as subprocesses. At least one capture tool must be present for
// scheduled recording to work; ffmpeg doubles as the AAC-to-MP3
// converter, so its absence also disables format normalization.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"aircheck/internal/config"
)

// Requirement defines an external dependency aircheck relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the dependency list from configuration.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "streamripper", Command: cfg.Capture.StreamripperBinary, Description: "direct stream ripper (preferred capture tool)", Optional: true},
		{Name: "ffmpeg", Command: cfg.Capture.FFmpegBinary, Description: "capture fallback and AAC-to-MP3 conversion", Optional: true},
		{Name: "ffprobe", Command: cfg.Capture.FFprobeBinary, Description: "codec detection for format normalization", Optional: true},
		{Name: "wget", Command: cfg.Capture.WgetBinary, Description: "last-resort stream downloader", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// AnyCaptureTool reports whether at least one capture binary is available.
func AnyCaptureTool(statuses []Status) bool {
	for _, status := range statuses {
		if status.Name == "ffprobe" {
			continue
		}
		if status.Available {
			return true
		}
	}
	return false
}
