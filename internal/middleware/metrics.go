package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	httpRequestsTotal     *prometheus.CounterVec
	httpRequestDuration   *prometheus.HistogramVec
	httpRequestsInFlight  prometheus.Gauge
	httpResponseSizeBytes *prometheus.HistogramVec

	// Inspection metrics
	inspectionsRecordedTotal *prometheus.CounterVec
	inspectionFailedItems    *prometheus.CounterVec
	reportsGeneratedTotal    *prometheus.CounterVec

	initOnce sync.Once
)

// MetricsMiddleware records request count, latency and response size per
// route. Requests to /metrics are not recorded.
//
// Usage in routes.go:
//
//	s.echo.Use(middleware.MetricsMiddleware())
//	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
func MetricsMiddleware() echo.MiddlewareFunc {
	InitMetrics()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}

			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			// Render errors here so the recorded status is the one sent.
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			method := c.Request().Method
			path := c.Path()
			httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			httpResponseSizeBytes.WithLabelValues(method, path).Observe(float64(c.Response().Size))

			return err
		}
	}
}

// InitMetrics registers the collectors with the default Prometheus registry.
// It is safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		httpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"method", "path"},
		)

		httpRequestsInFlight = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		)

		httpResponseSizeBytes = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8), // 100B to 1GB
			},
			[]string{"method", "path"},
		)

		inspectionsRecordedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetcheck_inspections_recorded_total",
				Help: "Inspection records created, by vehicle type and overall status",
			},
			[]string{"vehicle_type", "status"},
		)

		inspectionFailedItems = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetcheck_inspection_failed_items_total",
				Help: "Failed checklist items in created records, by category",
			},
			[]string{"category"},
		)

		reportsGeneratedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetcheck_reports_generated_total",
				Help: "Reports generated, by kind",
			},
			[]string{"kind"},
		)
	})
}

// RecordInspection counts a created record and its failed categories.
//
// Usage in http/inspection.go:
//
//	middleware.RecordInspection(string(record.Vehicle.Type), string(record.Status()), categories)
func RecordInspection(vehicleType, status string, failedCategories []string) {
	InitMetrics()

	inspectionsRecordedTotal.WithLabelValues(vehicleType, status).Inc()
	for _, category := range failedCategories {
		inspectionFailedItems.WithLabelValues(category).Inc()
	}
}

// RecordReport counts a generated report ("csv", "upload", "dashboard").
func RecordReport(kind string) {
	InitMetrics()

	reportsGeneratedTotal.WithLabelValues(kind).Inc()
}
