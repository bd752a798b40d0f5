// Package catalog builds the client-facing views of the Square catalog: the
// menu and category counts for a location, and the list of active locations.
//
// Every view is computed from a full upstream read, cached for a fixed TTL, and
// served from the cache until it expires or a webhook invalidates it. Cache
// failures never fail a request; they only cost an upstream round trip.
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/square-menu/pkg/cache"
	"github.com/Sternrassler/square-menu/pkg/logging"
	"github.com/Sternrassler/square-menu/pkg/pagination"
)

var (
	aggregationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_aggregations_total",
		Help: "Total upstream aggregations by view and outcome",
	}, []string{"view", "outcome"})

	aggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_aggregation_duration_seconds",
		Help:    "Duration of upstream aggregations by view",
		Buckets: prometheus.DefBuckets,
	}, []string{"view"})
)

// Upstream is the subset of the Square client the service needs.
type Upstream interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// Store is a best-effort response cache.
type Store interface {
	Get(ctx context.Context, key cache.Key, dst any) bool
	Set(ctx context.Context, key cache.Key, value any, ttl time.Duration)
}

// Config holds service configuration.
type Config struct {
	// TTL of cached views.
	TTL time.Duration

	// MaxPages bounds a single catalog read.
	MaxPages int
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() Config {
	return Config{
		TTL:      cache.DefaultTTL,
		MaxPages: pagination.DefaultConfig().MaxPages,
	}
}

// Service serves cached catalog views.
type Service struct {
	upstream Upstream
	store    Store
	walker   *pagination.Walker
	config   Config
	logger   zerolog.Logger
}

// New creates a catalog service.
func New(upstream Upstream, store Store, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = cache.DefaultTTL
	}
	return &Service{
		upstream: upstream,
		store:    store,
		walker:   pagination.NewWalker(pagination.Config{MaxPages: cfg.MaxPages}),
		config:   cfg,
		logger:   logging.NewLogger("catalog"),
	}
}

// observe records the outcome of one aggregation.
func observe(view string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	aggregationsTotal.WithLabelValues(view, outcome).Inc()
	aggregationDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
}
