package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmcdole/popcorn/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_WritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "WARN")

	logger.Info("hidden")
	logger.Warn("shown", "query", "iron")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["query"] != "iron" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestSetupLogger_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "popcorn.log")

	logger, closer, err := SetupLogger(&config.LoggingConfig{File: path, Level: "INFO"})
	if err != nil {
		t.Fatalf("SetupLogger failed: %v", err)
	}
	logger.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestSetupLogger_EmptyPathDiscards(t *testing.T) {
	logger, closer, err := SetupLogger(&config.LoggingConfig{})
	if err != nil {
		t.Fatalf("SetupLogger failed: %v", err)
	}
	logger.Info("dropped")
	if err := closer.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
