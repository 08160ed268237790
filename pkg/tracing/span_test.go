package tracing

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanTree(t *testing.T) {
	ctx, root := StartSpan(context.Background(), "search", "")
	require.NotEmpty(t, root.TraceID)

	_, child := StartChildSpan(ctx, "evaluate")
	child.SetAttr("mode", "boolean")
	child.End()
	root.End()

	require.Len(t, root.Children, 1)
	assert.Equal(t, root.TraceID, child.TraceID)
	assert.Same(t, root, SpanFromContext(ctx))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	root.Log(ctx, logger)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "span=evaluate")
	assert.Contains(t, lines[1], "mode=boolean")
}

func TestChildWithoutParent(t *testing.T) {
	_, span := StartChildSpan(context.Background(), "orphan")
	assert.NotEmpty(t, span.TraceID)
	assert.Nil(t, SpanFromContext(context.Background()))
}
