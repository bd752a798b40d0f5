// Package square provides the HTTP client for the Square Connect v2 API, the
// mapping of Square error payloads into API errors, and validated parsing of
// the location and catalog payloads the menu backend consumes.
package square

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/square-menu/pkg/logging"
)

// Prometheus metrics for Square client operations.
var (
	squareRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "square_requests_total",
		Help: "Total Square API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	squareRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "square_request_duration_seconds",
		Help:    "Square API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 15},
	}, []string{"endpoint"})

	squareErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "square_errors_total",
		Help: "Total Square API errors by class",
	}, []string{"class"})
)

// Base URLs for the two Square environments.
const (
	ProductionBaseURL = "https://connect.squareup.com/v2"
	SandboxBaseURL    = "https://connect.squareupsandbox.com/v2"
)

// DefaultTimeout bounds every upstream call.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 1 << 20

// Client is the Square API client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root including the version segment.
	BaseURL string

	// AccessToken is sent as a bearer credential. It may be empty at
	// construction; calls fail with ErrMissingAccessToken until it is set.
	AccessToken string

	// Timeout per request.
	Timeout time.Duration
}

// BaseURLFor maps the SQUARE_ENVIRONMENT value to an API root. Anything other
// than "production" selects the sandbox.
func BaseURLFor(environment string) string {
	if environment == "production" {
		return ProductionBaseURL
	}
	return SandboxBaseURL
}

// DefaultConfig returns a configuration for the given environment and token.
func DefaultConfig(environment, accessToken string) Config {
	return Config{
		BaseURL:     BaseURLFor(environment),
		AccessToken: accessToken,
		Timeout:     DefaultTimeout,
	}
}

// New creates a new Square client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logging.NewLogger("square-client"),
	}, nil
}

// Do sends a request and returns the raw JSON response body.
//
// body is marshalled as JSON when non-nil. Non-2xx responses and transport
// failures are returned as *apierr.Error values built by MapError. Nothing is
// retried here.
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if c.config.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	startTime := time.Now()
	defer func() {
		squareRequestDuration.WithLabelValues(path).Observe(time.Since(startTime).Seconds())
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", path).
		Str("method", method).
		Msg("Executing Square request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", path).Msg("HTTP request failed")
		squareErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		squareRequestsTotal.WithLabelValues(path, "network_error").Inc()
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	squareRequestsTotal.WithLabelValues(path, status).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := MapError(resp.StatusCode, decodeErrors(resp.Body))
		class := classify(apiErr)
		squareErrorsTotal.WithLabelValues(string(class)).Inc()

		c.logger.Warn().
			Str("endpoint", path).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Str("code", apiErr.Code).
			Msg("Square request error")
		return nil, apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		squareErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, networkError(err)
	}

	return data, nil
}

// decodeErrors reads Square's {"errors": [...]} document. Bodies that are not
// in that shape yield no errors.
func decodeErrors(r io.Reader) []UpstreamError {
	var doc struct {
		Errors []UpstreamError `json:"errors"`
	}
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&doc); err != nil {
		return nil
	}
	return doc.Errors
}

// Get performs a GET request against a Square endpoint.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body against a Square endpoint.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
