package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewLoggerProvider(ctx, LogsConfig{Enabled: false, ServiceName: "shipdocs"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, provider.IsEnabled())
	assert.NoError(t, provider.Shutdown(ctx))
}

func TestLoggerProvider_BridgeDisabledKeepsBase(t *testing.T) {
	provider, err := NewLoggerProvider(context.Background(), LogsConfig{}, nil)
	require.NoError(t, err)

	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	bridged := provider.Bridge(base)
	assert.Same(t, base, bridged)

	bridged.Info("export finished")
	assert.Equal(t, 1, recorded.Len())
}

func TestLevelFilterCore(t *testing.T) {
	inner, recorded := observer.New(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: inner, enabler: zapcore.WarnLevel}

	l := zap.New(filtered).With(zap.String("document_id", "doc-1"))
	l.Info("ignored")
	l.Warn("kept")

	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "doc-1", entry.ContextMap()["document_id"])
}
