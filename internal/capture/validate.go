package capture

import (
	"fmt"
	"os"

	"aircheck/internal/services"
)

// minimumSize is the quality floor for a capture: the file must carry
// at least minBytesPerSecond for every second of the requested
// duration or the stream was silent, stalled, or serving an error page.
func minimumSize(durationSeconds int, minBytesPerSecond int64) int64 {
	return int64(durationSeconds) * minBytesPerSecond
}

// validateCapture checks the captured file against the quality floor.
// The file is left in place either way; the caller deletes rejects.
func validateCapture(path string, durationSeconds int, minBytesPerSecond int64) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "capture", "validate", "capture produced no file", err)
	}
	floor := minimumSize(durationSeconds, minBytesPerSecond)
	if info.Size() < floor {
		return info.Size(), services.Wrap(services.ErrValidation, "capture", "validate",
			fmt.Sprintf("file %d bytes below %d byte floor for %ds capture", info.Size(), floor, durationSeconds), nil)
	}
	return info.Size(), nil
}
