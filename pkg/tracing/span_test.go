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
	ctx, root := StartRun(context.Background(), "run", "abc")
	_, normalize := StartChild(ctx, "normalize")
	normalize.SetAttr("records", 3)
	normalize.End()
	_, vectorize := StartChild(ctx, "vectorize")
	vectorize.End()
	root.End()

	assert.Same(t, root, FromContext(ctx))
	require.Len(t, root.Children, 2)
	assert.Equal(t, "abc", root.Children[0].RunID)
	v, ok := normalize.Attr("records")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	var buf bytes.Buffer
	root.Log(slog.New(slog.NewTextHandler(&buf, nil)))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "span=run")
	assert.Contains(t, lines[1], "span=normalize")
	assert.Contains(t, lines[1], "records=3")
	assert.Contains(t, lines[2], "depth=1")
}

func TestStartChildWithoutParent(t *testing.T) {
	ctx, span := StartChild(context.Background(), "orphan")
	assert.Same(t, span, FromContext(ctx))
	assert.Empty(t, span.RunID)
	assert.Nil(t, FromContext(context.Background()))
}
