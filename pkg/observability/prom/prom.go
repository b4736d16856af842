// Package prom adapts the observability hooks to Prometheus metrics.
//
// Each constructor registers its collectors with the given registerer, so a
// process calls them once at startup:
//
//	reg := prometheus.NewRegistry()
//	observability.SetSolverHooks(prom.NewSolverHooks(reg))
//	observability.SetCacheHooks(prom.NewCacheHooks(reg))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/observability"
)

const namespace = "gcad"

// outcome labels an operation by its error code, "ok" on success.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errs.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

// SolverHooks records ordering and assignment metrics.
type SolverHooks struct {
	orderTotal    *prometheus.CounterVec
	orderDuration prometheus.Histogram
	solveTotal    *prometheus.CounterVec
	solveDuration prometheus.Histogram
	solveSteps    prometheus.Histogram
	backtracks    prometheus.Counter
}

var _ observability.SolverHooks = (*SolverHooks)(nil)

// NewSolverHooks creates solver metrics registered with reg.
func NewSolverHooks(reg prometheus.Registerer) *SolverHooks {
	f := promauto.With(reg)
	return &SolverHooks{
		orderTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_total",
			Help:      "Ordering passes by outcome",
		}, []string{"outcome"}),
		orderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_duration_seconds",
			Help:      "Duration of the ordering pass",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		solveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solve_total",
			Help:      "Backtracking searches by outcome",
		}, []string{"outcome"}),
		solveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Duration of the backtracking search",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		solveSteps: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_steps",
			Help:      "Candidate placements tried per search",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		backtracks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backtracks_total",
			Help:      "Dead ends reached during searches",
		}),
	}
}

func (h *SolverHooks) OnOrderComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	h.orderTotal.WithLabelValues(outcome(err)).Inc()
	h.orderDuration.Observe(d.Seconds())
}

func (h *SolverHooks) OnSolveStart(context.Context, string, int) {}

func (h *SolverHooks) OnBacktrack(context.Context, string, int) { h.backtracks.Inc() }

func (h *SolverHooks) OnSolveComplete(_ context.Context, _ string, steps int, d time.Duration, err error) {
	h.solveTotal.WithLabelValues(outcome(err)).Inc()
	h.solveDuration.Observe(d.Seconds())
	h.solveSteps.Observe(float64(steps))
}

// PipelineHooks records per-stage durations.
type PipelineHooks struct {
	stageDuration *prometheus.HistogramVec
}

var _ observability.PipelineHooks = (*PipelineHooks)(nil)

// NewPipelineHooks creates pipeline metrics registered with reg.
func NewPipelineHooks(reg prometheus.Registerer) *PipelineHooks {
	return &PipelineHooks{
		stageDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"stage", "outcome"}),
	}
}

func (h *PipelineHooks) OnStageStart(context.Context, string) {}

func (h *PipelineHooks) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	h.stageDuration.WithLabelValues(stage, outcome(err)).Observe(d.Seconds())
}

// CacheHooks records cache hits, misses and write sizes.
type CacheHooks struct {
	hits   *prometheus.CounterVec
	misses *prometheus.CounterVec
	bytes  *prometheus.CounterVec
}

var _ observability.CacheHooks = (*CacheHooks)(nil)

// NewCacheHooks creates cache metrics registered with reg.
func NewCacheHooks(reg prometheus.Registerer) *CacheHooks {
	f := promauto.With(reg)
	return &CacheHooks{
		hits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache hits by key type",
		}, []string{"key_type"}),
		misses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache misses by key type",
		}, []string{"key_type"}),
		bytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),
	}
}

func (h *CacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.hits.WithLabelValues(keyType).Inc()
}

func (h *CacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.misses.WithLabelValues(keyType).Inc()
}

func (h *CacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.bytes.WithLabelValues(keyType).Add(float64(size))
}

// HTTPHooks records API request counts and latencies.
type HTTPHooks struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

var _ observability.HTTPHooks = (*HTTPHooks)(nil)

// NewHTTPHooks creates HTTP metrics registered with reg.
func NewHTTPHooks(reg prometheus.Registerer) *HTTPHooks {
	f := promauto.With(reg)
	return &HTTPHooks{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (h *HTTPHooks) OnRequest(context.Context, string, string) {}

func (h *HTTPHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// Register installs all adapters as the global hooks.
func Register(reg prometheus.Registerer) {
	observability.SetSolverHooks(NewSolverHooks(reg))
	observability.SetPipelineHooks(NewPipelineHooks(reg))
	observability.SetCacheHooks(NewCacheHooks(reg))
	observability.SetHTTPHooks(NewHTTPHooks(reg))
}
