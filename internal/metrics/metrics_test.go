package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_HealthTransitions(t *testing.T) {
	m := &Metrics{IsHealthy: true}

	m.SetError("all providers failed")
	assert.False(t, m.Healthy())
	assert.Equal(t, "all providers failed", m.GetStats()["last_error"])

	m.SetLastRun()
	assert.True(t, m.Healthy())
	assert.NotEmpty(t, m.GetStats()["last_run_time"])
}

func TestMetrics_RecordProcessingTime(t *testing.T) {
	m := &Metrics{}
	m.RecordProcessingTime(100 * time.Millisecond)
	m.RecordProcessingTime(300 * time.Millisecond)

	stats := m.GetStats()
	assert.Equal(t, int64(300), stats["last_processing_time_ms"])
	assert.Equal(t, int64(200), stats["average_processing_time_ms"])
}

func TestRecordProvider(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequests.WithLabelValues(KindNews, "test", "ok"))
	RecordProvider(KindNews, "test", "ok", 0.2)
	after := testutil.ToFloat64(ProviderRequests.WithLabelValues(KindNews, "test", "ok"))
	assert.Equal(t, before+1, after)
}

func TestSetDegraded(t *testing.T) {
	SetDegraded(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(DegradedMode))
	SetDegraded(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(DegradedMode))
}
