package telemetry

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type AppMetrics struct {
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	activeConnections  prometheus.Gauge
	memoryUsage        prometheus.Gauge
	goroutines         prometheus.Gauge
	taskOperations     *prometheus.CounterVec
	trashOperations    *prometheus.CounterVec
	authOperations     *prometheus.CounterVec
	databaseOperations *prometheus.CounterVec
	trashPurged        prometheus.Counter
	rateLimitHits      *prometheus.CounterVec
	rateLimitAllowed   *prometheus.CounterVec
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	metrics := &AppMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		activeConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_connections",
				Help: "Number of in-flight HTTP requests",
			},
		),
		memoryUsage: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "memory_usage_bytes",
				Help: "Memory usage in bytes",
			},
		),
		goroutines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "goroutines",
				Help: "Number of goroutines",
			},
		),
		taskOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "task_operations_total",
				Help: "Total number of task operations",
			},
			[]string{"operation"},
		),
		trashOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trash_operations_total",
				Help: "Total number of trash operations",
			},
			[]string{"operation"},
		),
		authOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_operations_total",
				Help: "Total number of authentication operations",
			},
			[]string{"operation"},
		),
		databaseOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_operations_total",
				Help: "Total number of repository operations",
			},
			[]string{"operation", "entity", "status"},
		),
		trashPurged: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "trash_purged_total",
				Help: "Total number of expired trash entries removed by the sweeper",
			},
		),
		rateLimitHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_hits_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"path", "key_type"},
		),
		rateLimitAllowed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_allowed_total",
				Help: "Total number of requests allowed by the rate limiter",
			},
			[]string{"path", "key_type"},
		),
	}

	registry.MustRegister(
		metrics.requestDuration,
		metrics.requestTotal,
		metrics.activeConnections,
		metrics.memoryUsage,
		metrics.goroutines,
		metrics.taskOperations,
		metrics.trashOperations,
		metrics.authOperations,
		metrics.databaseOperations,
		metrics.trashPurged,
		metrics.rateLimitHits,
		metrics.rateLimitAllowed,
	)

	return metrics
}

// All recorders are safe to call on a nil *AppMetrics.

func (m *AppMetrics) RecordRequest(ctx context.Context, method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}

	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, status).Inc()
}

func (m *AppMetrics) IncrementActiveConnections(ctx context.Context) {
	if m == nil {
		return
	}

	m.activeConnections.Inc()
}

func (m *AppMetrics) DecrementActiveConnections(ctx context.Context) {
	if m == nil {
		return
	}

	m.activeConnections.Dec()
}

func (m *AppMetrics) RecordTaskOperation(ctx context.Context, operation string) {
	if m == nil {
		return
	}

	m.taskOperations.WithLabelValues(operation).Inc()
}

func (m *AppMetrics) RecordTrashOperation(ctx context.Context, operation string) {
	if m == nil {
		return
	}

	m.trashOperations.WithLabelValues(operation).Inc()
}

func (m *AppMetrics) RecordAuthOperation(ctx context.Context, operation string) {
	if m == nil {
		return
	}

	m.authOperations.WithLabelValues(operation).Inc()
}

func (m *AppMetrics) RecordDatabaseOperation(ctx context.Context, operation, entity string, err error) {
	if m == nil {
		return
	}

	status := "ok"

	if err != nil {
		status = "error"
	}

	m.databaseOperations.WithLabelValues(operation, entity, status).Inc()
}

func (m *AppMetrics) RecordTrashPurged(ctx context.Context, count int) {
	if m == nil || count <= 0 {
		return
	}

	m.trashPurged.Add(float64(count))
}

func (m *AppMetrics) RecordRateLimitHit(ctx context.Context, path, keyType string) {
	if m == nil {
		return
	}

	m.rateLimitHits.WithLabelValues(path, keyType).Inc()
}

func (m *AppMetrics) RecordRateLimitAllowed(ctx context.Context, path, keyType string) {
	if m == nil {
		return
	}

	m.rateLimitAllowed.WithLabelValues(path, keyType).Inc()
}

func (m *AppMetrics) StartSystemMetrics(ctx context.Context) {
	if m == nil {
		return
	}

	ticker := time.NewTicker(10 * time.Second)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				var memStats runtime.MemStats
				runtime.ReadMemStats(&memStats)
				m.memoryUsage.Set(float64(memStats.Alloc))

				m.goroutines.Set(float64(runtime.NumGoroutine()))

			case <-ctx.Done():
				return
			}
		}
	}()
}
