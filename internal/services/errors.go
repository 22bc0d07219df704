package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks failures of spawned capture/encode binaries.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks quality-gate failures (sub-threshold files).
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable setup (missing directories or binaries).
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks lookups that produced no usable result.
	ErrNotFound = errors.New("not found")
	// ErrTimeout marks wall-clock deadline hits.
	ErrTimeout = errors.New("timeout")
	// ErrTransient marks failures eligible for retry on the next occurrence.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsHardFailure reports whether the error should mark the station failed and
// schedule a rediscovery, as opposed to aborting the job without touching
// station state.
func IsHardFailure(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
