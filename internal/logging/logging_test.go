package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetAndRestore(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	Set(zap.New(core))
	defer Set(nil)

	L().Warn("surface resampled", zap.Float64("max_spacing", 0.5))
	L().Debug("dropped")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "surface resampled" {
		t.Errorf("unexpected message %q", entry.Message)
	}
	if entry.ContextMap()["max_spacing"] != 0.5 {
		t.Errorf("unexpected fields %v", entry.ContextMap())
	}

	Set(nil)
	if L() == nil {
		t.Fatal("L() must never be nil")
	}
}
