// Package metrics exposes the Prometheus registry of the menu backend.
// Metrics are defined in the packages that record them (square, pagination,
// cache, catalog, webhook, api) and register themselves via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer every package's promauto metrics land in.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back what Registry collected.
var Gatherer = prometheus.DefaultGatherer

// Handler serves Gatherer in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Families returns the names of all metric families that have been observed
// at least once.
func Families() ([]string, error) {
	mfs, err := Gatherer.Gather()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	return names, nil
}

// Metrics Documentation
//
// Square API (pkg/square, pkg/pagination):
//   - square_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - square_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - square_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//   - square_retries_total{error_class} (Counter): Retry attempts of bulk writes
//   - square_retry_exhausted_total{error_class} (Counter): Bulk writes that ran out of attempts
//   - square_pages_fetched_total{endpoint} (Counter): Cursor pages fetched
//
// Cache (pkg/cache):
//   - menu_cache_hits_total{namespace} (Counter): Cache hits by namespace
//   - menu_cache_misses_total{namespace} (Counter): Cache misses by namespace
//   - menu_cache_invalidated_keys_total{namespace} (Counter): Keys evicted by webhooks or menuctl
//   - menu_cache_errors_total{operation} (Counter): Redis failures that degraded to a miss
//
// Aggregation (pkg/catalog):
//   - catalog_aggregations_total{view, outcome} (Counter): Menu, category and location builds
//   - catalog_aggregation_duration_seconds{view} (Histogram): Build duration including all pages
//
// Webhooks (pkg/webhook):
//   - webhook_events_total{event, outcome} (Counter): Notifications by event type and outcome
//
// HTTP (internal/api):
//   - http_requests_total{route, method, status} (Counter): Served requests
//   - http_request_duration_seconds{route} (Histogram): Handler latency
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(menu_cache_hits_total[5m])) /
//   (sum(rate(menu_cache_hits_total[5m])) + sum(rate(menu_cache_misses_total[5m])))
//
//   # Rejected Webhooks
//   rate(webhook_events_total{outcome="rejected"}[5m])
//
//   # Upstream Error Rate
//   rate(square_errors_total[5m])
//
//   # P95 Menu Build Latency
//   histogram_quantile(0.95, rate(catalog_aggregation_duration_seconds_bucket{view="catalog"}[5m]))
