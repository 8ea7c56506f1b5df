package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	quiet, err := New(false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if quiet.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug should be disabled by default")
	}
	loud, err := New(true)
	if err != nil {
		t.Fatalf("new verbose: %v", err)
	}
	if !loud.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug should be enabled when verbose")
	}
}
