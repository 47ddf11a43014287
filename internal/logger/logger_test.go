package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromZap_WritesFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := FromZap(zap.New(core)).With("user_id", 7)

	l.Info("study set generated", "size", 20)
	l.Debug("dropped below level")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["user_id"] != int64(7) {
		t.Errorf("user_id = %v, want 7", fields["user_id"])
	}
	if fields["size"] != int64(20) {
		t.Errorf("size = %v, want 20", fields["size"])
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("ignored")
	l.Warn("ignored", "k", "v")
	if l.With("k", "v") != nil {
		t.Error("With on nil logger should return nil")
	}
	l.Sync()
}
