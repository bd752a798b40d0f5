// Package api exposes the catalog views and the Square webhook over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/square-menu/internal/config"
	"github.com/Sternrassler/square-menu/pkg/apierr"
	"github.com/Sternrassler/square-menu/pkg/catalog"
	"github.com/Sternrassler/square-menu/pkg/logging"
	"github.com/Sternrassler/square-menu/pkg/metrics"
	"github.com/Sternrassler/square-menu/pkg/webhook"
)

// CatalogService serves the cached catalog views.
type CatalogService interface {
	Menu(ctx context.Context, locationID string) (*catalog.Menu, error)
	Categories(ctx context.Context, locationID string) ([]catalog.Category, error)
	Locations(ctx context.Context) ([]catalog.Location, error)
}

// WebhookProcessor handles raw Square notifications.
type WebhookProcessor interface {
	Process(ctx context.Context, body []byte, signature string) (*webhook.Result, error)
}

// Pinger reports cache availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the server routes to.
type Deps struct {
	Catalog CatalogService
	Webhook WebhookProcessor
	Cache   Pinger
}

// Server is the HTTP API server.
type Server struct {
	config  *config.Config
	deps    Deps
	logger  zerolog.Logger
	router  *gin.Engine
	handler http.Handler
	server  *http.Server
}

// New builds the router and middleware chain.
func New(cfg *config.Config, deps Deps) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: cfg,
		deps:   deps,
		logger: logging.NewLogger("api"),
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Middleware
	router.Use(s.requestID())
	router.Use(s.requestLogger())
	router.Use(s.recovery())
	router.Use(s.apiKey())

	router.NoRoute(func(c *gin.Context) {
		s.respondError(c, apierr.New(http.StatusNotFound, apierr.CodeNotFound, "Route not found."))
	})
	router.NoMethod(func(c *gin.Context) {
		s.respondError(c, apierr.New(http.StatusMethodNotAllowed, apierr.CodeMethodNotAllowed, "Method not allowed."))
	})

	// Routes
	router.GET("/health", s.health)
	router.GET("/ready", s.ready)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v := router.Group("/api")
	{
		v.GET("/locations", s.locations)
		v.GET("/catalog", s.menu)
		v.GET("/catalog/categories", s.categories)
		v.POST("/webhooks/square", s.squareWebhook)
	}

	s.router = router
	s.handler = cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", apiKeyHeader, webhook.SignatureHeader, requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         600,
	}).Handler(router)

	return s
}

// Handler returns the root handler including CORS.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured port and blocks until the server stops.
func (s *Server) Start() error {
	addr := ":" + s.config.Port

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("Starting server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info().Msg("Shutting down server")
	return s.server.Shutdown(ctx)
}

// respondError writes the error envelope. Anything that is not an
// *apierr.Error is reported as a generic 500; the cause only goes to the log.
func (s *Server) respondError(c *gin.Context, err error) {
	apiErr := apierr.From(err)

	if apiErr.Status >= http.StatusInternalServerError {
		s.logger.Error().
			Err(err).
			Str("request_id", requestID(c)).
			Str("path", c.Request.URL.Path).
			Int("status", apiErr.Status).
			Str("code", apiErr.Code).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(apiErr.Status, apiErr.Envelope())
}
