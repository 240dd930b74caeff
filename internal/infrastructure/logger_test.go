package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthcli/internal/config"
)

func decodeLastLine(t *testing.T, content []byte) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "growth.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("table loaded", "kind", "weight-for-age", "rows", 438)
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entry := decodeLastLine(t, content)
	assert.Equal(t, "table loaded", entry["msg"])
	assert.Equal(t, "weight-for-age", entry["kind"])
	assert.Equal(t, float64(438), entry["rows"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestInitializeLoggerOnlyOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "console"})
	require.NoError(t, err)

	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestInitializeLoggerBadPath(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := InitializeLogger(config.LoggingConfig{
		Output:   "file",
		FilePath: filepath.Join(blocker, "growth.log"),
	})
	require.Error(t, err)
}

func TestContextIdentifiersInjected(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)

	ctx := WithTraceID(context.Background(), "trace-123")
	ctx = WithRunID(ctx, "run-456")
	logger.DebugContext(ctx, "scoring")

	entry := decodeLastLine(t, buf.Bytes())
	assert.Equal(t, "trace-123", entry["trace_id"])
	assert.Equal(t, "run-456", entry["run_id"])

	buf.Reset()
	logger.With("measurement", "weight").InfoContext(ctx, "grouped")
	entry = decodeLastLine(t, buf.Bytes())
	assert.Equal(t, "weight", entry["measurement"])
	assert.Equal(t, "trace-123", entry["trace_id"])

	buf.Reset()
	logger.Info("no context")
	entry = decodeLastLine(t, buf.Bytes())
	assert.NotContains(t, entry, "trace_id")
	assert.NotContains(t, entry, "run_id")
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info", Format: "text"}, &buf)

	logger.Info("scored", "rows", 3)
	assert.Contains(t, buf.String(), "msg=scored")
	assert.Contains(t, buf.String(), "rows=3")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "warn"}, &buf)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected string
	}{
		{"debug", "DEBUG"},
		{"INFO", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"", "INFO"},
		{"verbose", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLogLevel(tt.level).String())
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	assert.NotEmpty(t, traceID)

	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)), "existing trace ID is kept")
	assert.Empty(t, GetTraceID(context.Background()))

	runCtx, runID := NewRunContext(ctx)
	assert.NotEmpty(t, runID)
	assert.Equal(t, runID, GetRunID(runCtx))
	assert.Equal(t, traceID, GetTraceID(runCtx))
	assert.Empty(t, GetRunID(ctx))
}
