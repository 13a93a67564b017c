package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"trips-club/internal/config"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "loud", Format: "json", Output: "stdout"})
	if err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLogTransitionWritesStructuredFields(t *testing.T) {
	l, err := New(&config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.LogTransition(42, "voting", "ready_to_schedule", "promote")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["trip_id"] != float64(42) {
		t.Errorf("expected trip_id 42, got %v", entry["trip_id"])
	}
	if entry["to"] != "ready_to_schedule" {
		t.Errorf("expected to=ready_to_schedule, got %v", entry["to"])
	}
	if entry["type"] != "lifecycle" {
		t.Errorf("expected type=lifecycle, got %v", entry["type"])
	}
}

func TestFileOutputCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "club.log")

	l, err := New(&config.LoggingConfig{
		Level:    "debug",
		Format:   "text",
		Output:   "file",
		FilePath: path,
		MaxSize:  1,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Info("hello")
}
