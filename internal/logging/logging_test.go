package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/fuel-command-center/internal/logging"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fuel.log")
	logger := logging.New(logging.Config{Level: "warn", Format: "json", Output: path})

	logger.Info().Msg("hidden")
	logger.Warn().Str("worksheet", "Tanker Receipts").Msg("append failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(content)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"worksheet":"Tanker Receipts"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestConsoleFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fuel.log")
	logger := logging.New(logging.Config{Level: "info", Format: "console", Output: path, NoColor: true})
	logger.Info().Msg("console line")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "INF")
	assert.Contains(t, string(content), "console line")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fuel.log")
	logger := logging.New(logging.Config{Level: "chatty", Format: "json", Output: path})
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "hidden")
	assert.Contains(t, string(content), "shown")
}

func TestContextLogger(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))

	var buf bytes.Buffer
	base := zerolog.New(&buf)
	ctx := logging.WithLogger(context.Background(), &base)
	ctx = logging.WithRequestID(ctx, "req-1")

	assert.Equal(t, "req-1", logging.RequestID(ctx))
	logging.FromContext(ctx).Info().Msg("tagged")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Empty(t, logging.RequestID(context.Background()))
}
