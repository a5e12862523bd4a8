// Package metrics records movie database traffic and search outcomes with Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes
const (
	OutcomeSuccess    = "success"
	OutcomeNotFound   = "not_found"
	OutcomeNetwork    = "network"
	OutcomeParse      = "parse"
	OutcomeSuperseded = "superseded"
	OutcomeError      = "error"
)

// Recorder is implemented by Collector and Nop
type Recorder interface {
	RecordRequest(endpoint string, statusCode int, latency time.Duration)
	RecordOutcome(operation, outcome string)
	RecordWatchedSize(n int)
}

// Collector is the Prometheus Recorder
type Collector struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	outcomes    *prometheus.CounterVec
	watchedSize prometheus.Gauge
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "popcorn_api_requests_total",
			Help: "Movie database requests by endpoint and HTTP status (0 = transport failure)",
		}, []string{"endpoint", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "popcorn_api_request_seconds",
			Help:    "Movie database request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "popcorn_fetch_outcomes_total",
			Help: "Search and detail fetch outcomes",
		}, []string{"operation", "outcome"}),
		watchedSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "popcorn_watched_entries",
			Help: "Entries on the watched list",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.outcomes, c.watchedSize)
	return c
}

// RecordRequest records one HTTP round trip
func (c *Collector) RecordRequest(endpoint string, statusCode int, latency time.Duration) {
	c.requests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	c.latency.WithLabelValues(endpoint).Observe(latency.Seconds())
}

// RecordOutcome records how a search or detail fetch concluded
func (c *Collector) RecordOutcome(operation, outcome string) {
	c.outcomes.WithLabelValues(operation, outcome).Inc()
}

// RecordWatchedSize sets the watched list size
func (c *Collector) RecordWatchedSize(n int) {
	c.watchedSize.Set(float64(n))
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordRequest(string, int, time.Duration) {}
func (Nop) RecordOutcome(string, string)             {}
func (Nop) RecordWatchedSize(int)                    {}

// NewRouter returns a router exposing /metrics for gatherer
func NewRouter(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// Serve runs the metrics endpoint on addr until ctx is done
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
