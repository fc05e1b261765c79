package logger

import (
	"testing"
	"time"
)

// TestNewLoggerStartsSilent ensures that a subsystem logger created from a
// backend that was never started stays at the off level and never pushes
// entries onto the backend's write channel. Library consumers construct
// loggers long before (or without ever) calling InitLog, so a send here
// would block forever.
func TestNewLoggerStartsSilent(t *testing.T) {
	backend := NewBackend()
	log := backend.Logger("TEST")

	if level := log.Level(); level != LevelOff {
		t.Fatalf("new subsystem logger level: got %s, want %s", level, LevelOff)
	}

	done := make(chan struct{})
	go func() {
		log.Infof("message while backend is not running")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("logging on a stopped backend blocked")
	}
}

// TestParseAndSetDebugLevels ensures the startup path can raise subsystem
// loggers from their silent default.
func TestParseAndSetDebugLevels(t *testing.T) {
	log, _ := Get(SubsystemTags.BTRE)
	defer SetLogLevels("off")

	if level := log.Level(); level != LevelOff {
		t.Fatalf("unconfigured subsystem logger level: got %s, want %s", level, LevelOff)
	}

	if err := ParseAndSetDebugLevels("debug"); err != nil {
		t.Fatalf("ParseAndSetDebugLevels: %v", err)
	}
	if level := log.Level(); level != LevelDebug {
		t.Fatalf("subsystem logger level after raise: got %s, want %s", level, LevelDebug)
	}

	if err := ParseAndSetDebugLevels("bogus"); err == nil {
		t.Fatal("expected an error for an invalid debug level")
	}
	if err := ParseAndSetDebugLevels("NOPE=debug"); err == nil {
		t.Fatal("expected an error for an unknown subsystem")
	}
}
