package capture

import (
	"context"
	"fmt"
	"os"
	"strings"

	"aircheck/internal/services"
)

// probeCodec asks ffprobe for the audio codec of a captured file.
// Returns "" when ffprobe is not configured or gives no answer; the
// caller treats that as "leave the file alone".
func (e *Executor) probeCodec(ctx context.Context, path string) string {
	if e.cfg.Capture.FFprobeBinary == "" {
		return ""
	}
	args := []string{
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	var codec string
	if err := e.runner.Run(ctx, e.cfg.Capture.FFprobeBinary, args, func(line string) {
		if codec == "" {
			codec = strings.TrimSpace(line)
		}
	}); err != nil {
		e.logger.Debug("ffprobe failed, skipping codec check", "path", path, "error", err)
		return ""
	}
	return strings.ToLower(codec)
}

// convertToMP3 re-encodes an AAC capture to MP3 in place. The output
// path already ends in .mp3, so the conversion goes through a temp
// file beside it and renames over the original instead of appending a
// second extension.
func (e *Executor) convertToMP3(ctx context.Context, path string) error {
	if e.cfg.Capture.FFmpegBinary == "" {
		return services.Wrap(services.ErrConfiguration, "capture", "convert", "ffmpeg binary not configured", nil)
	}
	tmp := path + ".convert.tmp.mp3"
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", path,
		"-codec:a", "libmp3lame",
		"-q:a", "2",
		"-f", "mp3",
		tmp,
	}
	if err := e.runner.Run(ctx, e.cfg.Capture.FFmpegBinary, args, nil); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrExternalTool, "capture", "convert", "aac to mp3 conversion failed", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace original with converted file: %w", err)
	}
	return nil
}

// normalizeFormat converts AAC captures to MP3 so every catalog file
// honors its .mp3 extension. Unknown codecs pass through untouched.
func (e *Executor) normalizeFormat(ctx context.Context, path string) error {
	codec := e.probeCodec(ctx, path)
	if codec != "aac" {
		return nil
	}
	e.logger.Info("converting aac capture to mp3", "path", path)
	return e.convertToMP3(ctx, path)
}
