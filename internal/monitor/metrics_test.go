package monitor

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsInitialization(t *testing.T) {
	require.NoError(t, InitMetrics(""))
	// Second call must not panic on duplicate registration
	require.NoError(t, InitMetrics(""))
	require.NoError(t, Register(prometheus.NewRegistry()))
}

func TestMetricsValues(t *testing.T) {
	require.NoError(t, InitMetrics(""))

	before := testutil.ToFloat64(ProbeTotal.WithLabelValues("is_running", "fail"))
	ObserveProbe("is_running", false)
	ObserveProbe("is_running", false)
	assert.Equal(t, before+2, testutil.ToFloat64(ProbeTotal.WithLabelValues("is_running", "fail")))

	SetRuntimeUp(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(RuntimeUp))
	SetRuntimeUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(RuntimeUp))

	RecordTransition("CHECK_INSTALLED", "CHECK_RUNNING")
	assert.GreaterOrEqual(t, testutil.ToFloat64(StageTransitions.WithLabelValues("CHECK_INSTALLED", "CHECK_RUNNING")), 1.0)

	// Just verify the remaining helpers can be used
	ObserveSpawn(true)
	ObserveHealthWait(1.5)
	ObservePull(42, false)
}
