package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), logger)

	ctx = With(ctx, "sweep", "primitives")
	FromContext(ctx).Info("Point done.")

	assert.Contains(t, buf.String(), "sweep=primitives")
	assert.Contains(t, buf.String(), `msg="Point done."`)
}
