package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"invalid", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFieldConstructors(t *testing.T) {
	t.Run("Float32", func(t *testing.T) {
		f := Float32("theta", 0.5)
		if f.Key != "theta" || f.Value != float32(0.5) {
			t.Errorf("Float32() = %+v", f)
		}
	})

	t.Run("Duration", func(t *testing.T) {
		f := Duration("budget", 16*time.Millisecond)
		if f.Value != "16ms" {
			t.Errorf("Duration() = %+v", f)
		}
	})

	t.Run("Error", func(t *testing.T) {
		f := Error(errors.New("bad config"))
		if f.Key != "error" || f.Value != "bad config" {
			t.Errorf("Error() = %+v", f)
		}
	})

	t.Run("Error_nil", func(t *testing.T) {
		f := Error(nil)
		if f.Value != nil {
			t.Errorf("Error(nil) = %+v", f)
		}
	})

	t.Run("Vec3", func(t *testing.T) {
		f := Vec3("position", mgl32.Vec3{1, 2, 3})
		if f.Value != [3]float32{1, 2, 3} {
			t.Errorf("Vec3() = %+v", f)
		}
	})

	t.Run("EntityID", func(t *testing.T) {
		id := uuid.New()
		f := EntityID(id)
		if f.Key != "entity_id" || f.Value != id.String() {
			t.Errorf("EntityID() = %+v", f)
		}
	})

	t.Run("Mode", func(t *testing.T) {
		f := Mode("barnes_hut")
		if f.Key != "mode" || f.Value != "barnes_hut" {
			t.Errorf("Mode() = %+v", f)
		}
	})
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("step complete", Count(12), Vec3("center", mgl32.Vec3{0, 1, 0}))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "step complete" {
		t.Errorf("Message = %v, want 'step complete'", entry.Message)
	}
	if entry.Fields["count"] != float64(12) {
		t.Errorf("Fields[count] = %v, want 12", entry.Fields["count"])
	}
	center, ok := entry.Fields["center"].([]any)
	if !ok || len(center) != 3 || center[1] != float64(1) {
		t.Errorf("Fields[center] = %v, want [0 1 0]", entry.Fields["center"])
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}

	for i, want := range []string{"WARN", "ERROR"} {
		var entry LogEntry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to unmarshal entry %d: %v", i, err)
		}
		if entry.Level != want {
			t.Errorf("Entry %d level = %v, want %v", i, entry.Level, want)
		}
	}
}

func TestJSONLogger_Enabled(t *testing.T) {
	logger := NewJSONLogger(&bytes.Buffer{}, InfoLevel)

	if logger.Enabled(DebugLevel) {
		t.Error("Debug should be disabled at InfoLevel")
	}
	if !logger.Enabled(InfoLevel) || !logger.Enabled(ErrorLevel) {
		t.Error("Info and Error should be enabled at InfoLevel")
	}

	logger.SetLevel(DebugLevel)
	if !logger.Enabled(DebugLevel) {
		t.Error("Debug should be enabled after SetLevel(DebugLevel)")
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("octree"), String("version", "1"))
	child.Info("rebuilt", Count(3))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if entry.Fields["component"] != "octree" {
		t.Errorf("component field = %v, want octree", entry.Fields["component"])
	}
	if entry.Fields["version"] != "1" {
		t.Errorf("version field = %v, want 1", entry.Fields["version"])
	}
	if entry.Fields["count"] != float64(3) {
		t.Errorf("count field = %v, want 3", entry.Fields["count"])
	}
}

func TestJSONLogger_ChildDoesNotLeakFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	_ = logger.With(Component("grid"))

	logger.Info("parent")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, exists := entry["fields"]; exists {
		t.Error("parent logger picked up child fields")
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("ignored", Count(1))
	if logger.Enabled(ErrorLevel) {
		t.Error("NopLogger should report every level disabled")
	}
	if logger.With(Count(1)) == nil {
		t.Error("NopLogger.With returned nil")
	}
}

func TestGlobalHelperFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))

	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	ErrorLog("error msg")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 log entries, got %d", len(lines))
	}

	levels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	for i, expectedLevel := range levels {
		var entry LogEntry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to unmarshal entry %d: %v", i, err)
		}
		if entry.Level != expectedLevel {
			t.Errorf("Entry %d level = %v, want %v", i, entry.Level, expectedLevel)
		}
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	timer := StartTimer(logger, "layout step", Mode("brute_force"))
	elapsed := timer.EndWithLevel(DebugLevel, Count(5))
	if elapsed < 0 {
		t.Errorf("elapsed = %v, want >= 0", elapsed)
	}

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Level != "DEBUG" || entry.Message != "layout step" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if _, ok := entry.Fields["latency"]; !ok {
		t.Error("latency field missing")
	}
	if entry.Fields["mode"] != "brute_force" || entry.Fields["count"] != float64(5) {
		t.Errorf("fields = %v", entry.Fields)
	}
}

func TestTimedOperation_SkipsDisabledLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	StartTimer(logger, "quiet").EndWithLevel(DebugLevel)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestTimedOperation_EndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	StartTimer(logger, "load config").EndError(errors.New("missing file"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Level != "ERROR" || entry.Fields["error"] != "missing file" {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func BenchmarkJSONLogger_DisabledDebug(b *testing.B) {
	logger := NewJSONLogger(&bytes.Buffer{}, InfoLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if logger.Enabled(DebugLevel) {
			logger.Debug("step", Count(i))
		}
	}
}
