package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

const namespace = "dominos"

// Metrics owns a private registry so tests and multiple routers never collide on
// the default one.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	lifetime     *lifetimeCollector
	statsUpdates prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "path"}),
		lifetime: newLifetimeCollector(),
		statsUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "updates_total",
			Help:      "Number of lifetime statistics recomputations.",
		}),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.lifetime,
		m.statsUpdates,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request metrics labelled by the matched route, not the raw
// path, so ids and dates do not explode the label space.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		m.httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordLifetime keeps the latest lifetime summary of a user. Summaries are
// exported as distributions over users, never with a per-user label.
func (m *Metrics) RecordLifetime(userID string, summary domain.LifetimeSummary) {
	m.lifetime.record(userID, summary)
	m.statsUpdates.Inc()
}

var (
	streakBuckets  = []float64{0, 1, 3, 7, 14, 30, 90, 180, 365}
	dominoBuckets  = prometheus.ExponentialBuckets(1, 4, 8)
	perfectBuckets = []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000}
)

// lifetimeCollector builds constant histograms from the latest summary of every
// user on each scrape, so the series count does not grow with the user base.
type lifetimeCollector struct {
	mu     sync.Mutex
	latest map[string]domain.LifetimeSummary

	users   *prometheus.Desc
	dominos *prometheus.Desc
	streak  *prometheus.Desc
	perfect *prometheus.Desc
}

func newLifetimeCollector() *lifetimeCollector {
	name := func(n string) string { return prometheus.BuildFQName(namespace, "stats", n) }
	return &lifetimeCollector{
		latest:  make(map[string]domain.LifetimeSummary),
		users:   prometheus.NewDesc(name("users"), "Number of users with computed lifetime statistics.", nil, nil),
		dominos: prometheus.NewDesc(name("total_dominos"), "Distribution over users of lifetime completed dominoes.", nil, nil),
		streak:  prometheus.NewDesc(name("current_streak_days"), "Distribution over users of the current run of perfect days.", nil, nil),
		perfect: prometheus.NewDesc(name("perfect_days"), "Distribution over users of days with every domino completed.", nil, nil),
	}
}

func (c *lifetimeCollector) record(userID string, summary domain.LifetimeSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest[userID] = summary
}

func (c *lifetimeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.users
	ch <- c.dominos
	ch <- c.streak
	ch <- c.perfect
}

func (c *lifetimeCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	dominos := make([]float64, 0, len(c.latest))
	streaks := make([]float64, 0, len(c.latest))
	perfect := make([]float64, 0, len(c.latest))
	for _, s := range c.latest {
		dominos = append(dominos, float64(s.TotalDominos))
		streaks = append(streaks, float64(s.CurrentStreak))
		perfect = append(perfect, float64(s.PerfectDays))
	}
	c.mu.Unlock()

	ch <- prometheus.MustNewConstMetric(c.users, prometheus.GaugeValue, float64(len(dominos)))
	ch <- constHistogram(c.dominos, dominoBuckets, dominos)
	ch <- constHistogram(c.streak, streakBuckets, streaks)
	ch <- constHistogram(c.perfect, perfectBuckets, perfect)
}

func constHistogram(desc *prometheus.Desc, bounds, values []float64) prometheus.Metric {
	buckets := make(map[float64]uint64, len(bounds))
	sum := 0.0
	for _, v := range values {
		sum += v
		for _, b := range bounds {
			if v <= b {
				buckets[b]++
			}
		}
	}
	return prometheus.MustNewConstHistogram(desc, uint64(len(values)), sum, buckets)
}
