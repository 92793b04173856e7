package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level string) (ApplicationLogger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger, err := NewApplicationLogger(Config{
		Level:  level,
		Format: "json",
		Output: OutputWriter,
		Writer: &buf,
	})
	require.NoError(t, err)
	return logger, &buf
}

func decodeEntries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "log line should be JSON: %s", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestNewApplicationLogger_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config Config
		errMsg string
	}{
		{name: "bad level", config: Config{Level: "loud", Format: "json", Output: OutputStderr}, errMsg: "invalid log level"},
		{name: "empty level", config: Config{Format: "json", Output: OutputStderr}, errMsg: "invalid log level"},
		{name: "bad format", config: Config{Level: "info", Format: "xml", Output: OutputStderr}, errMsg: "invalid log format"},
		{name: "bad output", config: Config{Level: "info", Format: "json", Output: "syslog"}, errMsg: "invalid log output"},
		{name: "writer output without writer", config: Config{Level: "info", Format: "json", Output: OutputWriter}, errMsg: "requires a writer"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewApplicationLogger(tt.config)

			require.Error(t, err)
			assert.Nil(t, logger)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestApplicationLogger_StructuredFields(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferLogger(t, "debug")
	ctx := WithCorrelationID(context.Background(), "corr-123")

	logger.WithComponent("sourcegraph").Warn(ctx, "Repository lookup failed", Fields{"status_code": 502})
	require.NoError(t, logger.Sync())

	entries := decodeEntries(t, buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Repository lookup failed", entry["message"])
	assert.Equal(t, "sourcegraph", entry["component"])
	assert.Equal(t, "corr-123", entry["correlation_id"])
	assert.InDelta(t, 502, entry["status_code"], 0)
}

func TestApplicationLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferLogger(t, "warn")
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)
	logger.ErrorWithError(ctx, errors.New("boom"), "error", Fields{"op": "stream"})

	entries := decodeEntries(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["message"])
	assert.Equal(t, "error", entries[1]["message"])
	assert.Equal(t, "boom", entries[1]["error"])
	assert.Equal(t, "codycli", entries[1]["component"])
}

func TestEnsureCorrelationID(t *testing.T) {
	t.Parallel()

	ctx := EnsureCorrelationID(context.Background())
	id := GetCorrelationID(ctx)
	assert.NotEmpty(t, id)

	assert.Equal(t, id, GetCorrelationID(EnsureCorrelationID(ctx)), "existing ID should be kept")
	assert.Empty(t, GetCorrelationID(context.Background()))
}
