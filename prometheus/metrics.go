package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waste_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Authentication errors
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waste_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "missing_token", "invalid_token", "forbidden_role", "login_failure", ...
	)

	// Auth lifecycle operations
	AuthOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waste_auth_operations_total",
			Help: "Total number of authentication operations",
		},
		[]string{"operation"}, // "signup", "signin", "logout", "profile_update"
	)

	// Marketplace operations
	ProductOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waste_product_operations_total",
			Help: "Total number of product listing operations",
		},
		[]string{"operation"},
	)

	CartOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waste_cart_operations_total",
			Help: "Total number of cart operations",
		},
		[]string{"operation"},
	)

	OrderOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waste_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation"},
	)

	// Citizen services
	ComplaintOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waste_complaint_operations_total",
			Help: "Total number of complaint operations",
		},
		[]string{"operation"},
	)

	FleetOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waste_fleet_operations_total",
			Help: "Total number of truck, route and pickup operations",
		},
		[]string{"operation"},
	)

	// Product popularity
	ProductViewsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waste_product_views_total",
			Help: "Total number of product views",
		},
		[]string{"category"},
	)

	// Dashboard cache hits and misses
	DashboardCacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waste_dashboard_cache_total",
			Help: "Dashboard snapshot cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waste_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waste_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Checkout totals
	CheckoutAmount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "waste_checkout_amount",
			Help:    "Order total amounts at checkout",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000},
		},
	)

	// Media uploads
	UploadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waste_media_upload_duration_seconds",
			Help:    "Duration of media uploads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "waste_info",
			Help: "Information about the waste service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestCounter,
		AuthErrorCounter,
		AuthOperationCounter,
		ProductOperationCounter,
		CartOperationCounter,
		OrderOperationCounter,
		ComplaintOperationCounter,
		FleetOperationCounter,
		ProductViewsCounter,
		DashboardCacheCounter,
		RequestDuration,
		DBOperationDuration,
		CheckoutAmount,
		UploadDuration,
		InfoGauge,
	)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations:
//
//	defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(startTime time.Time) {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(startTime).Seconds())
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the real status is recorded
				c.Error(err)
			}
			status := c.Response().Status

			labels := prometheus.Labels{
				"endpoint": c.Path(),
				"method":   c.Request().Method,
				"status":   strconv.Itoa(status),
			}
			RequestDuration.With(labels).Observe(time.Since(start).Seconds())
			HTTPRequestCounter.With(labels).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordAuthOperation records an authentication operation by type
func RecordAuthOperation(operation string) {
	AuthOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationCounter.WithLabelValues(operation).Inc()
}

// RecordCartOperation increments the counter for cart operations
func RecordCartOperation(operation string) {
	CartOperationCounter.WithLabelValues(operation).Inc()
}

// RecordOrderOperation increments the counter for order operations
func RecordOrderOperation(operation string) {
	OrderOperationCounter.WithLabelValues(operation).Inc()
}

// RecordComplaintOperation increments the counter for complaint operations
func RecordComplaintOperation(operation string) {
	ComplaintOperationCounter.WithLabelValues(operation).Inc()
}

// RecordFleetOperation increments the counter for truck, route and pickup operations
func RecordFleetOperation(operation string) {
	FleetOperationCounter.WithLabelValues(operation).Inc()
}

// RecordProductView increments the counter for product views
func RecordProductView(category string) {
	ProductViewsCounter.WithLabelValues(category).Inc()
}

// RecordDashboardCache records a dashboard cache lookup result
func RecordDashboardCache(result string) {
	DashboardCacheCounter.WithLabelValues(result).Inc()
}

// ObserveCheckout records the total of a placed order
func ObserveCheckout(total float64) {
	CheckoutAmount.Observe(total)
}

// TrackUpload measures a media upload; call the returned func with the outcome
func TrackUpload() func(err error) {
	start := time.Now()
	return func(err error) {
		result := "success"
		if err != nil {
			result = "failure"
		}
		UploadDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}
}
