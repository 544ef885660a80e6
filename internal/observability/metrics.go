package observability

import (
	"io"
	"net/http"
	"time"
)

var apiLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Metrics is the process metric set, exposed in Prometheus text format.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg registry

	apiRequests *family
	apiLatency  *histFamily
	apiInflight *family

	aggregateOps      *family
	aggregateLatency  *histFamily
	aggregateConflict *family
	aggregateRetry    *family

	notificationsPublished *family

	dbStats *family
	redisUp *family
}

func NewMetrics() *Metrics {
	m := &Metrics{}
	r := &m.reg
	m.apiRequests = r.counter("kajkor_api_requests_total", "API requests by method/route/status.", "method", "route", "status")
	m.apiLatency = r.histogram("kajkor_api_request_duration_seconds", "API request latency in seconds by method/route.", apiLatencyBuckets, "method", "route")
	m.apiInflight = r.gauge("kajkor_api_inflight_requests", "In-flight API requests.")

	m.aggregateOps = r.counter("kajkor_aggregate_operations_total", "Aggregate writes by operation/status.", "op", "status")
	m.aggregateLatency = r.histogram("kajkor_aggregate_operation_duration_seconds", "Aggregate write latency in seconds by operation.", nil, "op")
	m.aggregateConflict = r.counter("kajkor_aggregate_conflicts_total", "Aggregate writes rejected as conflicts.", "op")
	m.aggregateRetry = r.counter("kajkor_aggregate_retries_total", "Aggregate write attempts repeated after a retryable failure.", "op")

	m.notificationsPublished = r.counter("kajkor_notifications_published_total", "Notification bus publishes by type/result.", "type", "result")

	m.dbStats = r.gauge("kajkor_db_pool", "database/sql pool statistics.", "stat")
	m.redisUp = r.gauge("kajkor_redis_up", "1 when the notification bus Redis answered the last ping.")
	return m
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_ = m.WritePrometheus(w)
	})
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	return m.reg.write(w)
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	m.apiRequests.add(1, method, route, status)
	m.apiLatency.observe(dur.Seconds(), method, route)
}

// TrackInflight bumps the in-flight gauge and returns the matching decrement.
func (m *Metrics) TrackInflight() (done func()) {
	if m == nil {
		return func() {}
	}
	m.apiInflight.add(1)
	return func() { m.apiInflight.add(-1) }
}

// ObserveOperation, IncConflict and IncRetry make Metrics an aggregates.Hooks.
func (m *Metrics) ObserveOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.add(1, name, status)
	m.aggregateLatency.observe(dur.Seconds(), name)
}

func (m *Metrics) IncConflict(name string) {
	if m != nil {
		m.aggregateConflict.add(1, name)
	}
}

func (m *Metrics) IncRetry(name string) {
	if m != nil {
		m.aggregateRetry.add(1, name)
	}
}

func (m *Metrics) IncNotificationPublished(notificationType string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.notificationsPublished.add(1, notificationType, result)
}
