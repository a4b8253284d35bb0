package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Error("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitWriter(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, false)

	Debug("hidden")
	Info("reminder sent", "date", "2024-03-01")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at info level: %q", out)
	}
	if !strings.Contains(out, "reminder sent") || !strings.Contains(out, "2024-03-01") {
		t.Errorf("expected info message with keyvals, got %q", out)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()
	Logger = nil

	Debug("no-op")
	Info("no-op")
	Warn("no-op")
	Error("no-op")
}
