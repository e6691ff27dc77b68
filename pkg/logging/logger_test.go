package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// TestJSONOutput verifies entries are line-delimited JSON with level and fields
func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("connection added", Origin("MARTLOCK"), Destination("QIITUN-OZOS"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("level = %q, want INFO", entry.Level)
	}
	if entry.Message != "connection added" {
		t.Errorf("msg = %q, want 'connection added'", entry.Message)
	}
	if entry.Fields["origin"] != "MARTLOCK" {
		t.Errorf("origin field = %v, want MARTLOCK", entry.Fields["origin"])
	}
}

// TestLevelFiltering verifies messages below the threshold are dropped
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("should not appear")
	logger.Info("should not appear either")
	logger.Warn("should appear")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "should appear") {
		t.Errorf("unexpected line: %s", lines[0])
	}
}

// TestWithFields verifies child loggers carry their pre-set fields
func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("graph.engine"))
	child.Info("sweep complete", Count(3))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.Fields["component"] != "graph.engine" {
		t.Errorf("component field = %v, want graph.engine", entry.Fields["component"])
	}
	if entry.Fields["count"] != float64(3) {
		t.Errorf("count field = %v, want 3", entry.Fields["count"])
	}
}

// TestParseLevel verifies string-to-level mapping, including the INFO default
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"nonsense", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestErrorField verifies nil and non-nil error rendering
func TestErrorField(t *testing.T) {
	f := Error(errors.New("boom"))
	if f.Value != "boom" {
		t.Errorf("Error field value = %v, want boom", f.Value)
	}
	if f = Error(nil); f.Value != nil {
		t.Errorf("Error(nil) value = %v, want nil", f.Value)
	}
}

// TestNopLogger verifies the nop logger writes nothing and chains
func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("dropped")
	child := logger.With(Component("x"))
	child.Error("also dropped", Error(errors.New("ignored")))
}
