package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections prometheus.Gauge
	DBInUse           prometheus.Gauge
	DBIdle            prometheus.Gauge

	// Доступность слотов
	AvailabilityQueries  *prometheus.CounterVec
	AvailabilitySlots    prometheus.Histogram
	AvailabilityDuration prometheus.Histogram

	// Кеш расписаний
	ScheduleCacheRequests *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в указанном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	ns := namespace(serviceName)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),

		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_open_connections",
			Help:      "Number of established database connections.",
		}),

		DBInUse: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_in_use_connections",
			Help:      "Number of database connections currently in use.",
		}),

		DBIdle: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_idle_connections",
			Help:      "Number of idle database connections.",
		}),

		AvailabilityQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "availability_queries_total",
			Help:      "Availability computations by outcome.",
		}, []string{"outcome"}),

		AvailabilitySlots: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "availability_slots",
			Help:      "Number of bookable slots returned per availability query.",
			Buckets:   []float64{0, 1, 5, 10, 20, 40, 80},
		}),

		AvailabilityDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "availability_duration_seconds",
			Help:      "Time spent computing availability, data loading included.",
			Buckets:   prometheus.DefBuckets,
		}),

		ScheduleCacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "schedule_cache_requests_total",
			Help:      "Schedule snapshot cache lookups by result.",
		}, []string{"result"}),
	}
}

// namespace приводит имя сервиса к допустимому имени Prometheus
func namespace(serviceName string) string {
	ns := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, serviceName)
	if ns == "" {
		return "salon_booking"
	}
	return ns
}
