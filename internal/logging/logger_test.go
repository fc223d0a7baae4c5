// Package logging tests for structured JSON logging.
package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// logEntry mirrors the JSON shape written by the production encoder.
type logEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Error     string                 `json:"error"`
	Context   map[string]interface{} `json:"context"`
}

func newBufferLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(Options{Level: level, Production: true, Output: &buf}), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []logEntry {
	t.Helper()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry logEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Output is not valid JSON: %v (%s)", err, line)
		}
		entries = append(entries, entry)
	}
	return entries
}

// TestParseLevel verifies level name parsing.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestLogger_Info verifies JSON output with context.
func TestLogger_Info(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.Info("notebook created", map[string]interface{}{"notebook_id": "nb-1"})

	entries := decodeLines(t, buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Level != "INFO" {
		t.Errorf("Level = %q, want 'INFO'", entry.Level)
	}
	if entry.Message != "notebook created" {
		t.Errorf("Message = %q, want 'notebook created'", entry.Message)
	}
	if entry.Timestamp == "" {
		t.Error("Timestamp should be set")
	}
	if entry.Context["notebook_id"] != "nb-1" {
		t.Errorf("Context['notebook_id'] = %v, want 'nb-1'", entry.Context["notebook_id"])
	}
}

// TestLogger_levelFiltering verifies entries below the minimum level are dropped.
func TestLogger_levelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error", io.ErrUnexpectedEOF)

	entries := decodeLines(t, buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("levels = %q, %q", entries[0].Level, entries[1].Level)
	}
}

// TestLogger_Error verifies error details are recorded.
func TestLogger_Error(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.Error("persist failed", io.ErrUnexpectedEOF, map[string]interface{}{"key": "notebooks"})

	entries := decodeLines(t, buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if !strings.Contains(entries[0].Error, io.ErrUnexpectedEOF.Error()) {
		t.Errorf("Error field = %q", entries[0].Error)
	}
	if entries[0].Context["key"] != "notebooks" {
		t.Errorf("Context['key'] = %v", entries[0].Context["key"])
	}
}

// TestLogger_mergesContexts verifies multiple context maps are merged.
func TestLogger_mergesContexts(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	logger.Debug("merge",
		map[string]interface{}{"a": "1"},
		map[string]interface{}{"b": "2"},
	)

	entries := decodeLines(t, buf)
	if entries[0].Context["a"] != "1" || entries[0].Context["b"] != "2" {
		t.Errorf("Context = %v", entries[0].Context)
	}
}

// TestNew_withFile verifies the rotating file sink receives JSON entries.
func TestNew_withFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notebooks.log")
	logger := New(Options{FilePath: path, Level: LevelInfo, Output: io.Discard})

	logger.Info("written to file")
	if err := logger.Sync(); err != nil {
		t.Logf("Sync() returned %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !strings.Contains(string(data), `"message":"written to file"`) {
		t.Errorf("log file content = %s", data)
	}
}

// TestNewNop verifies the no-op logger is safe to use.
func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Debug("x")
	logger.Info("x")
	logger.Warn("x")
	logger.Error("x", io.EOF)
}

// TestGet_default verifies the global logger is created lazily.
func TestGet_default(t *testing.T) {
	if Get() == nil {
		t.Fatal("Get() returned nil")
	}
	if Get() != Get() {
		t.Error("Get() should return the same instance")
	}
}
