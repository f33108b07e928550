package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupPrometheus_StoreInfo(t *testing.T) {
	reg := SetupPrometheus("postgres")

	expected := `
# HELP backend_mapty_store_info Workouts store backend in use, always 1
# TYPE backend_mapty_store_info gauge
backend_mapty_store_info{backend="postgres"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "backend_mapty_store_info"))

	count, err := testutil.GatherAndCount(reg, "go_goroutines")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSetupPrometheus_ExtraCollectors(t *testing.T) {
	markers := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_map_markers_total",
		Help: "Markers put on the map",
	})
	markers.Add(3)

	reg := SetupPrometheus("redis", markers)

	count, err := testutil.GatherAndCount(reg, "test_map_markers_total", "backend_mapty_store_info")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// the manager registers on the same registry without clashing
	manager := NewManager("backend", "mapty", reg)
	manager.GaugeWorkouts.Set(4)
	assert.Equal(t, float64(4), testutil.ToFloat64(manager.GaugeWorkouts))
}
