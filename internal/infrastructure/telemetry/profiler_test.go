package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresServerAddress(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{
		Enabled:         true,
		ApplicationName: "multistore",
	}, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server address")
}

func TestNewProfiler_RequiresApplicationName(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{
		Enabled:       true,
		ServerAddress: "http://pyroscope:4040",
	}, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "application name")
}

func TestProfiler_StopIdempotent(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}
