package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "property", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "property", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "property", Name: "external_requests_total", Help: "Outbound object-store requests."},
		[]string{"service", "key", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "property", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "key"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "property", Name: "cache_events_total", Help: "Cache hits/misses/sets/flushes."},
		[]string{"cache", "event"}, // event: hit|miss|set|flush
	)
	IngestRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "property", Name: "ingest_runs_total", Help: "Ingestion runs by outcome."},
		[]string{"outcome"}, // outcome: ok|error|skipped
	)
	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "property", Name: "ingest_duration_seconds",
			Help:    "Full fetch-normalize-replace cycle duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	IngestedRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "property", Name: "ingested_records", Help: "Records stored by the last successful run."},
	)
)

// Serve exposes reg on its own listener. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency,
		CacheEvents, IngestRuns, IngestDuration, IngestedRecords)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, key string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, key, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, key).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|flush
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveIngest(outcome string, records int, dur time.Duration) {
	IngestRuns.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		IngestDuration.Observe(dur.Seconds())
		IngestedRecords.Set(float64(records))
	}
}
