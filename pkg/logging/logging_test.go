package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	l := zap.NewExample().Sugar()
	ctx := IntoContext(context.Background(), l)

	assert.Same(t, l, FromContext(ctx))
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestNew_Levels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "WARN", "error", ""} {
		assert.NotNil(t, New(lvl), lvl)
	}
	assert.False(t, New("error").Desugar().Core().Enabled(zap.WarnLevel))
	assert.True(t, New("debug").Desugar().Core().Enabled(zap.DebugLevel))
}
