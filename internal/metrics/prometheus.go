package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider kinds used as the "kind" label.
const (
	KindNews      = "news"
	KindTranslate = "translate"
)

var (
	// ProviderRequests counts outbound provider calls by outcome.
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vnnews",
			Name:      "provider_requests_total",
			Help:      "Total number of outbound provider requests",
		},
		[]string{"kind", "provider", "status"},
	)

	// ProviderDuration measures outbound provider latency.
	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vnnews",
			Name:      "provider_duration_seconds",
			Help:      "Duration of outbound provider requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind", "provider"},
	)

	MockServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vnnews",
			Name:      "mock_served_total",
			Help:      "Number of responses served from the built-in mock article set",
		},
	)

	// DegradedMode is 1 while the degraded latch is set.
	DegradedMode = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vnnews",
			Name:      "degraded_mode",
			Help:      "Degraded latch status (1 = serving mock data, 0 = normal)",
		},
	)

	// Translations counts field translations by the provider that produced them.
	Translations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vnnews",
			Name:      "translations_total",
			Help:      "Total number of translated fields by provider",
		},
		[]string{"provider"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vnnews",
			Name:      "request_duration_seconds",
			Help:      "Duration of inbound requests in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		},
		[]string{"route"},
	)
)

// RecordProvider records one outbound provider call.
func RecordProvider(kind, provider, status string, duration float64) {
	ProviderRequests.WithLabelValues(kind, provider, status).Inc()
	ProviderDuration.WithLabelValues(kind, provider).Observe(duration)
}

// RecordMockServed counts a fallback to mock data.
func RecordMockServed() {
	MockServed.Inc()
	Global.IncrementMockResponses()
}

// SetDegraded reflects the latch state.
func SetDegraded(on bool) {
	if on {
		DegradedMode.Set(1)
		return
	}
	DegradedMode.Set(0)
}

// RecordTranslation counts a translated field.
func RecordTranslation(provider string) {
	Translations.WithLabelValues(provider).Inc()
	if provider == "dictionary" {
		Global.IncrementFailedTranslations()
		return
	}
	Global.IncrementSuccessfulTranslations()
}

// RecordRequest observes an inbound request.
func RecordRequest(route string, duration float64) {
	RequestDuration.WithLabelValues(route).Observe(duration)
}
