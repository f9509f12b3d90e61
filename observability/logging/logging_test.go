package logging

import (
	"log/slog"
	"testing"
)

func TestSetupReturnsUsableLogger(t *testing.T) {
	logger := Setup("ringlend", "test")
	if logger == nil {
		t.Fatal("Setup returned a nil logger")
	}
	if !logger.Enabled(nil, slog.LevelInfo) {
		t.Fatal("logger should have info-level logging enabled")
	}
	// Exercise the handler end to end; ReplaceAttr must not panic on any of
	// the well-known keys it rewrites.
	logger.Info("startup", "pool", "assetA", "count", 3)
	logger.Warn("degraded", "reason", "accrual skipped")
}

func TestSetupWithoutEnvReturnsLogger(t *testing.T) {
	logger := Setup("ringlend", "")
	if logger == nil {
		t.Fatal("Setup returned a nil logger")
	}
	logger.Info("startup with no environment set")
}
