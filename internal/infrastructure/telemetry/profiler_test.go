package telemetry

import (
	"context"
	"testing"

	"github.com/farmerp/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func TestProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(config.ProfilingConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestProfiler_RequiresServerAddress(t *testing.T) {
	_, err := NewProfiler(config.ProfilingConfig{Enabled: true, ApplicationName: "farm-backend"}, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server address")
}

func TestEnableSpanProfiles_NoopWithoutTracing(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	before := otel.GetTracerProvider()

	tp.EnableSpanProfiles()

	assert.Equal(t, before, otel.GetTracerProvider())
}
