package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Sternrassler/square-menu/pkg/apierr"
	"github.com/Sternrassler/square-menu/pkg/logging"
)

const (
	requestIDHeader = "X-Request-ID"
	apiKeyHeader    = "x-api-key"
	requestIDKey    = logging.FieldRequestID
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// requestID propagates or assigns an X-Request-ID.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// requestLogger logs method, path, status and duration of every request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(route, c.Request.Method, fmt.Sprint(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(latency.Seconds())

		s.logger.Info().
			Str(logging.FieldRequestID, requestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", latency).
			Str("client_ip", c.ClientIP()).
			Msg("Request handled")
	}
}

// recovery turns a panic into the INTERNAL_ERROR envelope.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error().
			Str(logging.FieldRequestID, requestID(c)).
			Str("path", c.Request.URL.Path).
			Str("panic", fmt.Sprint(recovered)).
			Msg("Panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierr.Internal().Envelope())
	})
}

// apiKey requires x-api-key on /api routes. Webhooks authenticate with their
// signature instead. The gate is off when no key is configured.
func (s *Server) apiKey() gin.HandlerFunc {
	expected := []byte(s.config.APIKey)
	unauthorized := apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, "Invalid or missing API key.")

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if len(expected) == 0 || !strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/api/webhooks") {
			c.Next()
			return
		}

		if subtle.ConstantTimeCompare([]byte(c.GetHeader(apiKeyHeader)), expected) != 1 {
			s.logger.Warn().
				Str(logging.FieldRequestID, requestID(c)).
				Str("path", path).
				Msg("Rejected request without valid API key")
			c.AbortWithStatusJSON(unauthorized.Status, unauthorized.Envelope())
			return
		}
		c.Next()
	}
}
