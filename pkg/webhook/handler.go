package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/square-menu/pkg/apierr"
	"github.com/Sternrassler/square-menu/pkg/cache"
	"github.com/Sternrassler/square-menu/pkg/logging"
)

// EventCatalogVersionUpdated is sent whenever the catalog changes.
const EventCatalogVersionUpdated = "catalog.version.updated"

var eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "webhook_events_total",
	Help: "Total webhook notifications by event and outcome",
}, []string{"event", "outcome"})

// Invalidator evicts cache entries by pattern and reports how many went.
type Invalidator interface {
	Invalidate(ctx context.Context, pattern string) int
}

// Result is the acknowledgement returned to Square.
type Result struct {
	OK          bool         `json:"ok"`
	Invalidated *Invalidated `json:"invalidated,omitempty"`
	Message     string       `json:"message,omitempty"`
}

// Invalidated counts the evicted keys per view.
type Invalidated struct {
	Catalog    int `json:"catalog"`
	Categories int `json:"categories"`
}

// Handler processes notifications.
type Handler struct {
	verifier *Verifier
	store    Invalidator
	logger   zerolog.Logger
}

// NewHandler creates a webhook handler.
func NewHandler(verifier *Verifier, store Invalidator) *Handler {
	return &Handler{
		verifier: verifier,
		store:    store,
		logger:   logging.NewLogger("webhook"),
	}
}

// Forbidden is returned for notifications with a bad or missing signature.
func Forbidden() *apierr.Error {
	return apierr.New(http.StatusForbidden, apierr.CodeForbidden, "Invalid webhook signature.")
}

// ProcessingFailed is returned when an authentic notification cannot be handled.
func ProcessingFailed() *apierr.Error {
	return apierr.New(http.StatusInternalServerError, apierr.CodeWebhook, "Failed to process event.")
}

// Process authenticates the raw body and acts on the event. Unknown event
// types are acknowledged and ignored. Errors are *apierr.Error values.
func (h *Handler) Process(ctx context.Context, body []byte, signature string) (res *Result, err error) {
	logger := logging.For(ctx, h.logger)
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("panic", fmt.Sprint(r)).Msg("Webhook processing panicked")
			eventsTotal.WithLabelValues("unknown", "error").Inc()
			res, err = nil, ProcessingFailed()
		}
	}()

	if !h.verifier.Valid(body, signature) {
		logger.Warn().Bool("signature_present", signature != "").Msg("Invalid signature, rejecting notification")
		eventsTotal.WithLabelValues("unknown", "rejected").Inc()
		return nil, Forbidden()
	}

	eventType, err := parseEventType(body)
	if err != nil {
		logger.Error().Err(err).Msg("Webhook body could not be decoded")
		eventsTotal.WithLabelValues("unknown", "error").Inc()
		return nil, ProcessingFailed()
	}

	logger.Info().Str(logging.FieldEventType, eventType).Msg("Square event received")

	if eventType != EventCatalogVersionUpdated {
		eventsTotal.WithLabelValues("other", "ignored").Inc()
		return &Result{OK: true, Message: "Event ignored."}, nil
	}

	inv := &Invalidated{
		Catalog:    h.store.Invalidate(ctx, cache.CatalogKey("").Pattern()),
		Categories: h.store.Invalidate(ctx, cache.CategoriesKey("").Pattern()),
	}
	eventsTotal.WithLabelValues(EventCatalogVersionUpdated, "invalidated").Inc()

	logger.Info().
		Int("catalog_keys", inv.Catalog).
		Int("category_keys", inv.Categories).
		Msg("Catalog cache invalidated")

	return &Result{OK: true, Invalidated: inv}, nil
}

// parseEventType extracts the top-level "type" field. Bodies that are valid
// JSON but carry no string type yield "".
func parseEventType(body []byte) (string, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", errors.Wrap(err, "decode event")
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return "", nil
	}
	eventType, _ := obj["type"].(string)
	return eventType, nil
}
