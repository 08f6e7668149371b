package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func useBuffer(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	mu.Lock()
	prev := defaultLogger
	defaultLogger = slog.New(newHandler(&buf, level, "json"))
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		defaultLogger = prev
		mu.Unlock()
	})
	return &buf
}

func TestFromContextAddsKnownKeys(t *testing.T) {
	buf := useBuffer(t, "debug")

	ctx := WithContext(context.Background(), RequestIDKey, "req-1")
	ctx = WithContext(ctx, ProviderKey, "openai")
	Info(ctx, "hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "openai", line["provider"])
	assert.NotContains(t, line, "trace_id")
}

func TestErrorAppendsErrorField(t *testing.T) {
	buf := useBuffer(t, "info")

	Error(context.Background(), "failed", assertErr("boom"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boom", line["error"])
}

func TestFromContextBindsFields(t *testing.T) {
	buf := useBuffer(t, "info")

	ctx := WithContext(context.Background(), TraceIDKey, "t-9")
	FromContext(ctx).Info("bound", "n", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "t-9", line["trace_id"])
	assert.Equal(t, float64(1), line["n"])
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
