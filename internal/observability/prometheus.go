package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loadbroker_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"route"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loadbroker_requests_total",
			Help: "Total HTTP requests handled",
		},
		[]string{"route", "status"},
	)

	CarrierLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loadbroker_carrier_lookups_total",
			Help: "FMCSA carrier lookups by result",
		},
		[]string{"result"},
	)

	CarrierLookupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loadbroker_carrier_lookup_duration_seconds",
			Help:    "FMCSA carrier lookup duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loadbroker_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loadbroker_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	CatalogFallback = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "loadbroker_catalog_fallback_total",
			Help: "Times the catalog fell back to the embedded demo dataset",
		},
	)

	CatalogSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "loadbroker_catalog_loads",
			Help: "Loads in the active catalog index",
		},
	)

	EventsAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loadbroker_events_appended_total",
			Help: "Negotiation events appended to the event log",
		},
		[]string{"kind"},
	)
)

func Init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RequestTotal)
	prometheus.MustRegister(CarrierLookups)
	prometheus.MustRegister(CarrierLookupDuration)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(CatalogFallback)
	prometheus.MustRegister(CatalogSize)
	prometheus.MustRegister(EventsAppended)
}

// Middleware records per-route request totals and durations.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		RequestTotal.WithLabelValues(route, strconv.Itoa(c.Response().StatusCode())).Inc()

		return err
	}
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
