// Package metrics exposes Prometheus counters for the betting engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service's collectors on a private registry.
// A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	BetsPlaced      prometheus.Counter
	BetsSettled     *prometheus.CounterVec
	StakedLamports  prometheus.Counter
	PaidLamports    prometheus.Counter
	RugScores       *prometheus.CounterVec
	PoolsCreated    prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		BetsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rugfork_bets_placed_total",
			Help: "Bets accepted.",
		}),
		BetsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rugfork_bets_settled_total",
			Help: "Bets settled, by result.",
		}, []string{"result"}),
		StakedLamports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rugfork_staked_lamports_total",
			Help: "Lamports staked across all bets.",
		}),
		PaidLamports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rugfork_paid_lamports_total",
			Help: "Lamports credited as winnings.",
		}),
		RugScores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rugfork_rug_scores_total",
			Help: "Rug score evaluations, by risk level.",
		}, []string{"risk_level"}),
		PoolsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rugfork_pools_created_total",
			Help: "Pools launched.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rugfork_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.BetsPlaced,
		m.BetsSettled,
		m.StakedLamports,
		m.PaidLamports,
		m.RugScores,
		m.PoolsCreated,
		m.RequestDuration,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) BetPlaced(stake int64) {
	if m == nil {
		return
	}
	m.BetsPlaced.Inc()
	m.StakedLamports.Add(float64(stake))
}

func (m *Metrics) BetSettled(winnings int64) {
	if m == nil {
		return
	}
	if winnings > 0 {
		m.BetsSettled.WithLabelValues("won").Inc()
		m.PaidLamports.Add(float64(winnings))
		return
	}
	m.BetsSettled.WithLabelValues("lost").Inc()
}

func (m *Metrics) RugScored(level string, degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		level = "unavailable"
	}
	m.RugScores.WithLabelValues(level).Inc()
}

func (m *Metrics) PoolCreated() {
	if m == nil {
		return
	}
	m.PoolsCreated.Inc()
}

// GinMiddleware records request latency by matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
