package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns stored logger", func(t *testing.T) {
		t.Parallel()
		stored := slog.Default().With("component", "test")
		ctx := WithLogger(context.Background(), stored)
		assert.Same(t, stored, FromContext(ctx))
	})

	t.Run("falls back to default", func(t *testing.T) {
		t.Parallel()
		assert.NotNil(t, FromContext(context.Background()))
	})
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	fallback := slog.Default().With("component", "fallback")

	t.Run("prefers context logger", func(t *testing.T) {
		t.Parallel()
		stored := slog.Default().With("component", "stored")
		ctx := WithLogger(context.Background(), stored)
		assert.Same(t, stored, FromContextOrDefault(ctx, fallback))
	})

	t.Run("uses fallback when context empty", func(t *testing.T) {
		t.Parallel()
		assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("nil fallback degrades to default", func(t *testing.T) {
		t.Parallel()
		assert.NotNil(t, FromContextOrDefault(context.Background(), nil))
	})
}

func TestSetupLevels(t *testing.T) {
	// Setup mutates the process default logger, so no t.Parallel here.
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		logger := Setup(level)
		assert.NotNil(t, logger, "level %q", level)
	}
}
