package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the collectors exposed on /metrics. Each server owns its registry so several
// servers can live in one process.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	fitDuration     prometheus.Histogram
	fitErrors       *prometheus.CounterVec
	observations    prometheus.Histogram
}

// NewMetrics creates and registers every collector
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricecast_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pricecast_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method"},
		),
		fitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pricecast_fit_duration_seconds",
				Help:    "Duration of model fits in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		fitErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricecast_fit_errors_total",
				Help: "Total number of failed forecasts by error kind",
			},
			[]string{"kind"},
		),
		observations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pricecast_fit_observations",
				Help:    "Number of validated observations per fit",
				Buckets: prometheus.ExponentialBuckets(2, 4, 8),
			},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.fitDuration,
		m.fitErrors,
		m.observations,
	)
	return m
}

// Registry returns the registry served on /metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records the count and latency of every request by its route template
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)
			m.requestsTotal.WithLabelValues(route, method, status).Inc()
			m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func (m *Metrics) recordFit(d time.Duration, n int) {
	m.fitDuration.Observe(d.Seconds())
	m.observations.Observe(float64(n))
}

func (m *Metrics) recordError(kind string) {
	m.fitErrors.WithLabelValues(kind).Inc()
}
