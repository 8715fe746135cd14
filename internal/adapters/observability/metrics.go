package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"hotel_merge/internal/domain"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotels", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	SupplierRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "supplier_requests_total", Help: "Outbound supplier requests."},
		[]string{"supplier", "status"},
	)
	SupplierLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotels", Name: "supplier_request_duration_seconds",
			Help:    "Outbound supplier request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"supplier"},
	)
	SupplierRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "supplier_records_total", Help: "Supplier records by outcome."},
		[]string{"supplier", "outcome"}, // outcome: ok|skipped
	)
	SupplierFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "supplier_failures_total", Help: "Failed supplier fetches."},
		[]string{"supplier", "kind"}, // kind: unavailable|malformed|other
	)
	MergeGroups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "merge_groups_total", Help: "Catalog groups by outcome."},
		[]string{"outcome"}, // outcome: single|merged
	)
	FieldWins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "merge_field_wins_total", Help: "Merged fields by winning supplier."},
		[]string{"field", "supplier"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|error|purge
	)
)

// Serve exposes reg on a separate listener; an empty addr disables it.
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
	reg.MustRegister(HTTPRequests, HTTPLatency, SupplierRequests, SupplierLatency,
		SupplierRecords, SupplierFailures, MergeGroups, FieldWins, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one supplier request; status 0 means no response.
func ObserveExternal(supplier string, status int, dur time.Duration) {
	SupplierRequests.WithLabelValues(supplier, strconv.Itoa(status)).Inc()
	SupplierLatency.WithLabelValues(supplier).Observe(dur.Seconds())
}

func ObserveSupplierRecords(supplier, outcome string, n int) {
	if n > 0 {
		SupplierRecords.WithLabelValues(supplier, outcome).Add(float64(n))
	}
}

func ObserveSupplierFailure(supplier string, err error) {
	SupplierFailures.WithLabelValues(supplier, FailureKind(err)).Inc()
}

func ObserveMergeGroup(size int) {
	if size > 1 {
		MergeGroups.WithLabelValues("merged").Inc()
		return
	}
	MergeGroups.WithLabelValues("single").Inc()
}

func ObserveFieldWin(field, supplier string) {
	FieldWins.WithLabelValues(field, supplier).Inc()
}

func ObserveCache(cache, event string) { // event: hit|miss|set|error|purge
	CacheEvents.WithLabelValues(cache, event).Inc()
}

// FailureKind maps a supplier error onto a metric label.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrSourceUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrMalformedPayload):
		return "malformed"
	default:
		return "other"
	}
}
