package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

func TestTestLoggerLevels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelInfo)

	testLogger.Debug("debug message", "key", "value")
	testLogger.Info("info message", OperationKey, OperationGenerate)
	testLogger.Warn("warning message")
	testLogger.Error("error message", errors.New("boom"), "code", 7)

	if strings.Contains(buffer.String(), "debug message") {
		t.Error("Debug message should be filtered at info level")
	}
	for _, msg := range []string{"info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}
	if !testLogger.ContainsField(ErrorKey, "boom") {
		t.Error("Expected leading error to be recorded under the error key")
	}
	if !testLogger.ContainsField("code", 7.0) {
		t.Error("Expected field code=7")
	}
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(ComponentKey, "synth", RandomSeedKey, 0)
	contextLogger.Info("dataset generated", SamplesKey, 1000)

	if !testLogger.ContainsField(ComponentKey, "synth") {
		t.Error("Component context not found")
	}
	if !testLogger.ContainsField(SamplesKey, 1000.0) {
		t.Error("Samples field not found")
	}

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("GetLogEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	testLogger.Clear()
	if testLogger.ContainsMessage("dataset generated") {
		t.Error("Clear should drop captured records")
	}
}

func TestZerologLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug, false)

	err := errors.NewInvalidParameterError("synth.Generate", "order", "must be in [1, n_features]", 0)
	logger.With(ComponentKey, "synth").Error("generation failed", err, OrderKey, 0)

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not a JSON line: %v (%s)", err, buf.String())
	}

	if entry["level"] != "error" {
		t.Errorf("level = %v, want error", entry["level"])
	}
	if entry[ComponentKey] != "synth" {
		t.Errorf("%s = %v, want synth", ComponentKey, entry[ComponentKey])
	}
	if entry[OrderKey] != 0.0 {
		t.Errorf("%s = %v, want 0", OrderKey, entry[OrderKey])
	}
	detail, ok := entry[ErrorDetailKey].(map[string]interface{})
	if !ok {
		t.Fatalf("expected %s object, got %v", ErrorDetailKey, entry[ErrorDetailKey])
	}
	if detail["param_name"] != "order" {
		t.Errorf("param_name = %v, want order", detail["param_name"])
	}
}

func TestZerologLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelWarn, false)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn record should be emitted")
	}
	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should not be enabled at warn level")
	}
}

func TestSetupLogger(t *testing.T) {
	defer SetLogger(nil)
	defer errors.SetZerologWarnFunc(nil)

	var buf bytes.Buffer
	logger, err := SetupLogger(&buf, "debug", "console")
	if err != nil {
		t.Fatalf("SetupLogger failed: %v", err)
	}
	if GetLogger() != logger {
		t.Error("SetupLogger should install the default logger")
	}

	errors.Warn(errors.NewIllConditionedWarning("LinearRegression.Fit", 1e14))
	if !strings.Contains(buf.String(), "ill-conditioned") {
		t.Errorf("warning should be routed through zerolog, got %q", buf.String())
	}

	if _, err := SetupLogger(&buf, "verbose", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := SetupLogger(&buf, "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %s, want %s", tt.level, got, tt.want)
		}
	}
}
