package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sternrassler/square-menu/pkg/apierr"
	"github.com/Sternrassler/square-menu/pkg/webhook"
)

const readyTimeout = 2 * time.Second

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := s.deps.Cache.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Readiness check failed")
		s.respondError(c, apierr.New(http.StatusServiceUnavailable, apierr.CodeUnavailable, "Cache unavailable."))
		return
	}
	c.String(http.StatusOK, "OK")
}

func (s *Server) locations(c *gin.Context) {
	locations, err := s.deps.Catalog.Locations(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (s *Server) menu(c *gin.Context) {
	menu, err := s.deps.Catalog.Menu(c.Request.Context(), c.Query("location_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (s *Server) categories(c *gin.Context) {
	categories, err := s.deps.Catalog.Categories(c.Request.Context(), c.Query("location_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// squareWebhook hands the unparsed body to the processor; the signature
// covers the exact bytes received.
func (s *Server) squareWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.respondError(c, webhook.ProcessingFailed())
		return
	}

	result, err := s.deps.Webhook.Process(c.Request.Context(), body, c.GetHeader(webhook.SignatureHeader))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
