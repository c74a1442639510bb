package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerCounters(t *testing.T) {
	m := NewTestManager()

	m.CounterRequests.WithLabelValues("GET", "/api/profiles", "200").Inc()
	m.CounterRequests.WithLabelValues("GET", "/api/profiles", "200").Inc()
	m.CounterPanics.Inc()
	m.HistRequestDuration.WithLabelValues("GET", "/api/profiles").Observe(0.02)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterRequests.WithLabelValues("GET", "/api/profiles", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterPanics))

	n, err := testutil.GatherAndCount(m.Registry, "liftlog_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewRegistryCollectors(t *testing.T) {
	families, err := NewRegistry().Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
	assert.True(t, names["go_build_info"])
}
