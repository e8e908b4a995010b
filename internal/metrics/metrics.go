package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	RequestsServed         int64
	ArticlesServed         int64
	SuccessfulTranslations int64
	FailedTranslations     int64
	MockResponses          int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementRequestsServed(articles int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestsServed++
	m.ArticlesServed += int64(articles)
}

func (m *Metrics) IncrementSuccessfulTranslations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulTranslations++
}

func (m *Metrics) IncrementFailedTranslations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedTranslations++
}

func (m *Metrics) IncrementMockResponses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MockResponses++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

// SetLastRun marks a request that reached at least one live provider.
func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

// SetError marks the service unhealthy until the next successful run.
func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"requests_served":            m.RequestsServed,
		"articles_served":            m.ArticlesServed,
		"successful_translations":    m.SuccessfulTranslations,
		"failed_translations":        m.FailedTranslations,
		"mock_responses":             m.MockResponses,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              formatTime(m.LastRunTime),
		"last_error_time":            formatTime(m.LastErrorTime),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
