package capture

import (
	"fmt"
	"strconv"

	"aircheck/internal/catalog"
	"aircheck/internal/config"
)

// CaptureRequest carries everything a tool needs to pull one stream to
// one file.
type CaptureRequest struct {
	StreamURL       string
	UserAgent       string
	OutputPath      string
	DurationSeconds int
}

// tool is one capture strategy. Binary is the configured path; empty
// means the tool is not installed and the executor skips it.
type tool struct {
	name      catalog.ToolName
	binary    string
	buildArgs func(CaptureRequest) []string
}

// toolset builds the three capture strategies from configuration in
// default fallback order.
func toolset(cfg *config.Config) []tool {
	return []tool{
		{
			name:   catalog.ToolStreamripper,
			binary: cfg.Capture.StreamripperBinary,
			buildArgs: func(req CaptureRequest) []string {
				args := []string{
					req.StreamURL,
					"-a", req.OutputPath,
					"-A", // single file, no track splitting
					"-s",
					"-l", strconv.Itoa(req.DurationSeconds),
					"--quiet",
				}
				if req.UserAgent != "" {
					args = append(args, "-u", req.UserAgent)
				}
				return args
			},
		},
		{
			name:   catalog.ToolFFmpeg,
			binary: cfg.Capture.FFmpegBinary,
			buildArgs: func(req CaptureRequest) []string {
				args := []string{"-hide_banner", "-loglevel", "error", "-y"}
				if req.UserAgent != "" {
					args = append(args, "-user_agent", req.UserAgent)
				}
				return append(args,
					"-i", req.StreamURL,
					"-t", strconv.Itoa(req.DurationSeconds),
					"-c", "copy",
					req.OutputPath,
				)
			},
		},
		{
			name:   catalog.ToolWget,
			binary: cfg.Capture.WgetBinary,
			buildArgs: func(req CaptureRequest) []string {
				// wget has no duration flag; the context deadline stops it.
				args := []string{"--quiet", "-O", req.OutputPath}
				if req.UserAgent != "" {
					args = append(args, "--user-agent", req.UserAgent)
				}
				return append(args, req.StreamURL)
			},
		},
	}
}

// orderTools moves the station's recommended tool to the front while
// keeping the default fallback order for the rest.
func orderTools(tools []tool, recommended catalog.ToolName) []tool {
	if recommended == catalog.ToolUnset {
		return tools
	}
	ordered := make([]tool, 0, len(tools))
	for _, t := range tools {
		if t.name == recommended {
			ordered = append(ordered, t)
		}
	}
	for _, t := range tools {
		if t.name != recommended {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

func (t tool) String() string {
	return fmt.Sprintf("%s (%s)", t.name, t.binary)
}
