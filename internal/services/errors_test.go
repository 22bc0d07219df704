package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 1")
	err := Wrap(ErrExternalTool, "capture", "streamripper", "stream unreachable", base)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "capture", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient default, got %v", err)
	}
}

func TestIsHardFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"configuration", Wrap(ErrConfiguration, "capture", "prepare", "missing directory", nil), false},
		{"external tool", Wrap(ErrExternalTool, "capture", "ffmpeg", "", nil), true},
		{"validation", Wrap(ErrValidation, "capture", "quality gate", "", nil), true},
	}
	for _, tc := range cases {
		if got := IsHardFailure(tc.err); got != tc.want {
			t.Errorf("%s: IsHardFailure = %v, want %v", tc.name, got, tc.want)
		}
	}
}
