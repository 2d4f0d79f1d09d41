package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithBuildIDAndStage(t *testing.T) {
	ctx := WithBuildID(context.Background(), "build-123")
	ctx = WithStage(ctx, "declare")

	lc := GetContext(ctx)
	assert.Equal(t, "build-123", lc.BuildID)
	assert.Equal(t, "declare", lc.Stage)
}

func TestStageOverridesPrevious(t *testing.T) {
	ctx := WithStage(context.Background(), "declare")
	ctx = WithStage(ctx, "flush")
	assert.Equal(t, "flush", GetContext(ctx).Stage)
}

func TestEmptyContext(t *testing.T) {
	assert.Equal(t, LogContext{}, GetContext(context.Background()))
	assert.Empty(t, Attrs(context.Background()))
}

func TestLoggerAddsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithBuildID(context.Background(), "b-1")
	Logger(ctx, base).Info("hello")

	out := buf.String()
	assert.Contains(t, out, "build_id=b-1")
	assert.NotContains(t, out, "stage=")
}

func TestInfoContextUsesDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	ctx := WithStage(WithBuildID(context.Background(), "b-2"), "verify")
	InfoContext(ctx, "checked", slog.Int("count", 3))

	out := buf.String()
	assert.Contains(t, out, "build_id=b-2")
	assert.Contains(t, out, "stage=verify")
	assert.Contains(t, out, "count=3")
}
