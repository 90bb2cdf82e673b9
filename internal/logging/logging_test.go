package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewProduction(t *testing.T) {
	logger, err := New("production")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected logger instance")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug to be disabled in production")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info to be enabled in production")
	}
	_ = logger.Sync()
}

func TestNewDevelopment(t *testing.T) {
	for _, environment := range []string{"development", "staging", ""} {
		logger, err := New(environment)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", environment, err)
		}
		if !logger.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("expected debug to be enabled for %q", environment)
		}
		_ = logger.Sync()
	}
}
