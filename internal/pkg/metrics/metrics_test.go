package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustRegisterMetrics_Idempotent(t *testing.T) {
	assert.NotPanics(t, MustRegisterMetrics)
	assert.NotPanics(t, MustRegisterMetrics)

	SnapshotFetches.WithLabelValues("success").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "livetrack_snapshot_fetches_total" {
			found = true
		}
	}
	assert.True(t, found)
}
