package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false}, "test", zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Meter("storefront"))
	assert.False(t, p.LogCore(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestLevelFilterCore(t *testing.T) {
	inner := zapcore.NewCore(zapcore.NewJSONEncoder(zapcore.EncoderConfig{}), zapcore.AddSync(&discard{}), zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))

	child := core.With(nil)
	assert.False(t, child.Enabled(zapcore.InfoLevel))
}

func TestProfileRequest(t *testing.T) {
	var route, method string
	ProfileRequest(context.Background(), "/checkout", "POST", func(ctx context.Context) {
		route, _ = pprof.Label(ctx, "route")
		method, _ = pprof.Label(ctx, "method")
	})
	assert.Equal(t, "/checkout", route)
	assert.Equal(t, "POST", method)

	ProfileRequest(context.Background(), "", "GET", func(ctx context.Context) {
		route, _ = pprof.Label(ctx, "route")
	})
	assert.Equal(t, "unmatched", route)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
func (discard) Sync() error                 { return nil }
