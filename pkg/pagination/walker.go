package pagination

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var pagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "square_pages_fetched_total",
	Help: "Total cursor pages fetched by endpoint",
}, []string{"endpoint"})

// ErrTooManyPages is returned when MaxPages is reached with a cursor still pending.
var ErrTooManyPages = errors.New("pagination page limit reached")

// Config holds walker configuration.
type Config struct {
	// MaxPages bounds a single walk.
	MaxPages int
}

// DefaultConfig returns the default walker configuration.
func DefaultConfig() Config {
	return Config{
		MaxPages: 500,
	}
}

// PageFunc fetches the page for cursor and returns the next cursor, or "" on
// the last page. The first call receives an empty cursor.
type PageFunc func(ctx context.Context, cursor string) (next string, err error)

// Walker follows cursors until the upstream omits one.
type Walker struct {
	config Config
}

// NewWalker creates a new walker.
func NewWalker(config Config) *Walker {
	if config.MaxPages <= 0 {
		config.MaxPages = DefaultConfig().MaxPages
	}
	return &Walker{config: config}
}

// Walk calls fetch sequentially, feeding each returned cursor into the next
// call. It returns the number of pages fetched.
func (w *Walker) Walk(ctx context.Context, endpoint string, fetch PageFunc) (int, error) {
	start := time.Now()
	cursor := ""
	pages := 0

	for {
		if err := ctx.Err(); err != nil {
			return pages, errors.Wrap(err, "pagination cancelled")
		}
		if pages >= w.config.MaxPages {
			return pages, errors.Wrapf(ErrTooManyPages, "%s: %d pages", endpoint, pages)
		}

		next, err := fetch(ctx, cursor)
		if err != nil {
			log.Debug().
				Err(err).
				Str("endpoint", endpoint).
				Int("page", pages+1).
				Msg("Page fetch failed")
			return pages, err
		}
		pages++
		pagesFetched.WithLabelValues(endpoint).Inc()

		log.Debug().
			Str("endpoint", endpoint).
			Int("page", pages).
			Bool("has_more", next != "").
			Msg("Fetched page")

		if next == "" {
			break
		}
		cursor = next
	}

	log.Debug().
		Str("endpoint", endpoint).
		Int("pages", pages).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return pages, nil
}
