package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-dose-core/internal/observability/logging"
)

func TestValidateAndExtractRequestID(t *testing.T) {
	supplied := uuid.NewString()

	assert.Equal(t, supplied, logging.ValidateAndExtractRequestID(supplied))

	for _, header := range []string{"", "not-a-uuid", "<script>"} {
		got := logging.ValidateAndExtractRequestID(header)

		_, err := uuid.Parse(got)
		assert.NoError(t, err, "header %q", header)
		assert.NotEqual(t, header, got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "WARN", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "", expected: slog.LevelInfo},
		{input: "verbose", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, logging.ParseLevel(tt.input))
		})
	}
}

func TestNewLoggerAddsContextAttributes(t *testing.T) {
	var buf bytes.Buffer

	logger := logging.NewLogger(&buf, logging.Config{
		Level:         "debug",
		ServiceInfo:   logging.ServiceInfo{Name: "dose-core", Version: "1.2.3"},
		Environment:   logging.EnvLocal,
		DefaultModule: logging.ModuleCore,
	})

	ctx := logging.WithRequestID(context.Background(), "req-1")
	ctx = logging.WithModule(ctx, logging.ModuleQueue)

	logger.InfoContext(ctx, "action queued", "action_id", "a1")
	logger.DebugContext(context.Background(), "background pass")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "dose-core", first["service"])
	assert.Equal(t, "1.2.3", first["version"])
	assert.Equal(t, "local", first["env"])
	assert.Equal(t, "req-1", first["request_id"])
	assert.Equal(t, "queue", first["module"])
	assert.Equal(t, "a1", first["action_id"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "core", second["module"])
	assert.NotContains(t, second, "request_id")
}
