package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"utsulog/internal/domain"
)

// Outcome labels for search requests
const (
	OutcomeOK        = "ok"
	OutcomeExhausted = "exhausted"
	OutcomeError     = "error"
	OutcomeStale     = "stale"
)

// Metrics holds the client's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	searchRequests  *prometheus.CounterVec
	searchDuration  *prometheus.HistogramVec
	resultsReceived prometheus.Counter
	catalogLoads    *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "utsulog_search_requests_total",
			Help: "Search page requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "utsulog_search_request_duration_seconds",
			Help:    "Latency of settled search page requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		resultsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "utsulog_search_results_received_total",
			Help: "Result items merged into sessions.",
		}),
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "utsulog_catalog_loads_total",
			Help: "Video catalog and emoji map loads by outcome.",
		}, []string{"catalog", "outcome"}),
	}

	m.registry.MustRegister(m.searchRequests, m.searchDuration, m.resultsReceived, m.catalogLoads)
	return m
}

// Registry exposes the registry for handlers and tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSearch records a settled search request.
func (m *Metrics) RecordSearch(kind domain.FetchKind, outcome string, received int, latency time.Duration) {
	if m == nil {
		return
	}
	m.searchRequests.WithLabelValues(string(kind), outcome).Inc()
	if outcome != OutcomeStale {
		m.searchDuration.WithLabelValues(string(kind)).Observe(latency.Seconds())
	}
	if received > 0 {
		m.resultsReceived.Add(float64(received))
	}
}

// RecordCatalogLoad records a video catalog or emoji map load.
func (m *Metrics) RecordCatalogLoad(catalog string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.catalogLoads.WithLabelValues(catalog, outcome).Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
