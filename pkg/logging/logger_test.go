package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostermatch/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	defer logging.SetDefault(original)

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	logging.SetDefault(logger)

	logging.Default().Debug().Msg("debug message")
	logging.Default().Info().Msg("info message")
	logging.Default().Warn().Msg("warning message")

	output := buf.String()
	if !strings.Contains(output, "info message") {
		t.Errorf("Expected info message in output, got: %s", output)
	}
	if strings.Contains(output, "debug message") {
		t.Errorf("Debug message should be filtered at info level, got: %s", output)
	}
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithRunID(ctx, "run-123")
	ctx = logging.WithSource(ctx, "ctf")
	ctx = logging.WithPlayer(ctx, "Foo Bar")

	logging.FromContext(ctx).Info().Msg("test message")

	testLogger.AssertContains(t, `"run_id":"run-123"`)
	testLogger.AssertContains(t, `"source":"ctf"`)
	testLogger.AssertContains(t, `"player":"Foo Bar"`)
	testLogger.AssertContains(t, "test message")
	assert.Equal(t, "run-123", logging.RunID(ctx))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Equal(t, "", logging.RunID(context.Background()))
}

func TestWithFieldTypes(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)

	ctx = logging.WithField(ctx, "count", 3)
	ctx = logging.WithField(ctx, "ok", true)
	ctx = logging.WithField(ctx, "rating", 2.5)
	ctx = logging.WithField(ctx, "error", assert.AnError)
	logging.Ctx(ctx).Info().Msg("fields")

	testLogger.AssertContains(t, `"count":3`)
	testLogger.AssertContains(t, `"ok":true`)
	testLogger.AssertContains(t, `"rating":2.5`)
	testLogger.AssertContains(t, assert.AnError.Error())
}

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)

	path := filepath.Join(t.TempDir(), "run.log")
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "debug",
		Format: "json",
		Output: path,
	})
	logger.Debug().Str("source", "tdm").Msg("fetched")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"source":"tdm"`)
	assert.Contains(t, string(content), `"level":"debug"`)
	assert.Contains(t, string(content), `"caller"`)
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
}

func TestCaptureLoggingForTest(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)
	logging.Default().Warn().Str("id", "7656").Msg("merge conflict")

	captured.AssertContains(t, "merge conflict")
	captured.AssertNotContains(t, "unrelated")
	assert.Len(t, captured.Lines(), 1)
}
