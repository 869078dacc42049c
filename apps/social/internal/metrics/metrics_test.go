package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterOnlineGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	n := 3

	require.NoError(t, RegisterOnlineGauge(reg, func() int { return n }))
	require.NoError(t, RegisterOnlineGauge(reg, func() int { return n }), "second registration is ignored")

	count, err := testutil.GatherAndCount(reg, "fitsocial_online_sessions")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPushTotalLabels(t *testing.T) {
	before := testutil.ToFloat64(PushTotal.WithLabelValues("new_message", ResultOffline))
	PushTotal.WithLabelValues("new_message", ResultOffline).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(PushTotal.WithLabelValues("new_message", ResultOffline)))
}
