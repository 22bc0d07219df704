package logging

import (
	"context"
	"log/slog"
	"testing"

	"aircheck/internal/services"
)

func TestContextFieldsExtractsAnnotations(t *testing.T) {
	ctx := services.WithJobID(
		services.WithShowID(services.WithStationID(context.Background(), 4), 7),
		"job-123",
	)

	fields := ContextFields(ctx)
	if len(fields) != 3 {
		t.Fatalf("ContextFields returned %d attrs, want 3", len(fields))
	}
	byKey := make(map[string]slog.Value, len(fields))
	for _, attr := range fields {
		byKey[attr.Key] = attr.Value
	}
	if got := byKey[FieldStationID].Int64(); got != 4 {
		t.Fatalf("station id attr = %d, want 4", got)
	}
	if got := byKey[FieldShowID].Int64(); got != 7 {
		t.Fatalf("show id attr = %d, want 7", got)
	}
	if got := byKey[FieldJobID].String(); got != "job-123" {
		t.Fatalf("job id attr = %q, want job-123", got)
	}
}

func TestContextFieldsEmptyContext(t *testing.T) {
	if fields := ContextFields(context.Background()); len(fields) != 0 {
		t.Fatalf("expected no attrs from a bare context, got %d", len(fields))
	}
}

func TestWithContextLeavesLoggerUntouchedWhenEmpty(t *testing.T) {
	logger := NewNop()
	if got := WithContext(context.Background(), logger); got != logger {
		t.Fatal("WithContext should return the logger unchanged when the context carries nothing")
	}
	if got := WithContext(context.Background(), nil); got == nil {
		t.Fatal("WithContext must never return nil")
	}
}
