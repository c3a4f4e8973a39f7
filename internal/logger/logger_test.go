package logger

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewSetsGlobalLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	New(Config{Level: "error", Format: "json"}, "test", "dev", "production")
	if zerolog.GlobalLevel() != zerolog.ErrorLevel {
		t.Errorf("expected global error level, got %s", zerolog.GlobalLevel())
	}

	New(Config{Level: "debug", Format: "json"}, "test", "dev", "development")
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("expected global debug level, got %s", zerolog.GlobalLevel())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := Config{Level: "shouty", Format: "json"}
	l := New(cfg, "test", "dev", "development")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test").WithComponent("mail")
	if l == nil {
		t.Fatal("expected non-nil component logger")
	}
	l.Info("component logger works")
}

func TestWithRequestID(t *testing.T) {
	l := NewDefault("test").WithRequestID("req-123")
	if l == nil {
		t.Fatal("expected non-nil request logger")
	}
	l.Debug("request logger works")
}

func TestFields(t *testing.T) {
	m := Fields("op", "send", "size", 42)
	if m["op"] != "send" {
		t.Errorf("expected op 'send', got %v", m["op"])
	}
	if m["size"] != 42 {
		t.Errorf("expected size 42, got %v", m["size"])
	}

	// Odd trailing value is dropped.
	m = Fields("only")
	if len(m) != 0 {
		t.Errorf("expected empty map, got %v", m)
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("transcribe", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", m[FieldDuration])
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cfg.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid level")
	}
}
