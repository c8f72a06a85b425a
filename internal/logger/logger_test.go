package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"PriceSentinel/internal/config"
)

func TestNew(t *testing.T) {
	log, err := New(config.LoggingConfig{Level: "warn", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.GetLevel() != logrus.WarnLevel {
		t.Errorf("expected warn level, got %s", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("expected JSON formatter, got %T", log.Formatter)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentinel.log")
	log, err := New(config.LoggingConfig{Level: "info", Output: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Component(log, "test").Info("hello")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "component=test") {
		t.Errorf("expected component field in %q", string(data))
	}
}

func TestComponent_NilLogger(t *testing.T) {
	if Component(nil, "x") == nil {
		t.Fatal("expected non-nil entry")
	}
	Nop().Info("discarded")
}
