package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Business metrics
	ScoringRuns     *prometheus.CounterVec
	LeadsScored     prometheus.Gauge
	FollowUpsDue    prometheus.Gauge
	ChatRequests    *prometheus.CounterVec
	LLMRequests     *prometheus.CounterVec
	DocumentsStored prometheus.Counter
	ListingsScraped prometheus.Counter
	JobRuns         *prometheus.CounterVec

	// Database metrics
	DBConnections prometheus.Gauge

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// New creates a Metrics instance registered with reg. A nil reg uses the
// default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aura_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aura_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPResponseSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aura_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
			},
			[]string{"method", "path"},
		),

		ScoringRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aura_scoring_runs_total",
				Help: "Lead scoring runs by result",
			},
			[]string{"result"}, // success, failed
		),
		LeadsScored: f.NewGauge(prometheus.GaugeOpts{
			Name: "aura_leads_scored",
			Help: "Contacts scored by the most recent scoring run",
		}),
		FollowUpsDue: f.NewGauge(prometheus.GaugeOpts{
			Name: "aura_follow_ups_due",
			Help: "Contacts due for follow-up at the last check",
		}),
		ChatRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aura_chat_requests_total",
				Help: "Chat messages by resolved route",
			},
			[]string{"route"},
		),
		LLMRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aura_llm_requests_total",
				Help: "Text generation calls by provider and result",
			},
			[]string{"provider", "result"},
		),
		DocumentsStored: f.NewCounter(prometheus.CounterOpts{
			Name: "aura_knowledge_documents_stored_total",
			Help: "Knowledge documents ingested or refreshed",
		}),
		ListingsScraped: f.NewCounter(prometheus.CounterOpts{
			Name: "aura_listings_scraped_total",
			Help: "Listings collected by the scraper",
		}),
		JobRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aura_job_runs_total",
				Help: "Scheduled job executions by job and result",
			},
			[]string{"job", "result"},
		),

		DBConnections: f.NewGauge(prometheus.GaugeOpts{
			Name: "aura_db_connections_open",
			Help: "Number of open database connections",
		}),

		CacheHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aura_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache"},
		),
		CacheMisses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aura_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := c.Path() // route pattern, e.g. /api/v1/contacts/:id

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, status).Observe(time.Since(start).Seconds())
			m.HTTPResponseSize.WithLabelValues(req.Method, path).Observe(float64(c.Response().Size))

			return err
		}
	}
}

func result(err error) string {
	if err != nil {
		return "failed"
	}
	return "success"
}

// RecordScoringRun records the outcome of a full scoring pass
func (m *Metrics) RecordScoringRun(scored int, err error) {
	if m == nil {
		return
	}
	m.ScoringRuns.WithLabelValues(result(err)).Inc()
	if err == nil {
		m.LeadsScored.Set(float64(scored))
	}
}

// RecordFollowUps sets the follow-up gauge
func (m *Metrics) RecordFollowUps(n int) {
	if m == nil {
		return
	}
	m.FollowUpsDue.Set(float64(n))
}

// RecordChat counts a chat message under its route
func (m *Metrics) RecordChat(route string) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(route).Inc()
}

// RecordLLMRequest counts a text generation call
func (m *Metrics) RecordLLMRequest(provider string, err error) {
	if m == nil {
		return
	}
	m.LLMRequests.WithLabelValues(provider, result(err)).Inc()
}

// RecordDocumentStored counts an ingested knowledge document
func (m *Metrics) RecordDocumentStored() {
	if m == nil {
		return
	}
	m.DocumentsStored.Inc()
}

// RecordListingsScraped adds n scraped listings
func (m *Metrics) RecordListingsScraped(n int) {
	if m == nil {
		return
	}
	m.ListingsScraped.Add(float64(n))
}

// RecordJobRun counts a scheduled job execution
func (m *Metrics) RecordJobRun(job string, err error) {
	if m == nil {
		return
	}
	m.JobRuns.WithLabelValues(job, result(err)).Inc()
}

// RecordCache counts a cache lookup
func (m *Metrics) RecordCache(cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.WithLabelValues(cache).Inc()
		return
	}
	m.CacheMisses.WithLabelValues(cache).Inc()
}

// UpdateDBConnections updates the open connections gauge
func (m *Metrics) UpdateDBConnections(count int) {
	if m == nil {
		return
	}
	m.DBConnections.Set(float64(count))
}
