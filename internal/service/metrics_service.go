package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the engine.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	registrarRoundTrip *prometheus.HistogramVec
	placementOutcomes  *prometheus.CounterVec
	conflictChecks     *prometheus.CounterVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
}

// NewMetricsService registers the engine's Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	registrarRoundTrip := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "registrar_roundtrip_seconds",
		Help:    "Latency of registrar backend calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	placementOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placement_outcomes_total",
		Help: "Resolved placement attempts by outcome",
	}, []string{"outcome"})

	conflictChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflict_checks_total",
		Help: "Conflict check results by dimension",
	}, []string{"dimension", "result"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "overlay_cache_hits_total",
		Help: "Professor overlay cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "overlay_cache_misses_total",
		Help: "Professor overlay cache misses",
	})

	registry.MustRegister(requestDuration, requestTotal, registrarRoundTrip, placementOutcomes, conflictChecks, cacheHits, cacheMisses)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		registrarRoundTrip: registrarRoundTrip,
		placementOutcomes:  placementOutcomes,
		conflictChecks:     conflictChecks,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveRegistrarCall records one backend round trip.
func (s *MetricsService) ObserveRegistrarCall(operation string, duration time.Duration) {
	s.registrarRoundTrip.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPlacementOutcome counts a resolved placement attempt.
func (s *MetricsService) RecordPlacementOutcome(outcome string) {
	s.placementOutcomes.WithLabelValues(outcome).Inc()
}

// RecordConflictCheck counts one conflict check result.
func (s *MetricsService) RecordConflictCheck(dimension, result string) {
	s.conflictChecks.WithLabelValues(dimension, result).Inc()
}

// RecordCacheLookup counts an overlay cache hit or miss.
func (s *MetricsService) RecordCacheLookup(hit bool) {
	if hit {
		s.cacheHits.Inc()
		return
	}
	s.cacheMisses.Inc()
}
