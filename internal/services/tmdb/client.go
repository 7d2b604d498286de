package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/gocinema/internal/config"
	"github.com/amaumene/gocinema/internal/metrics"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/amaumene/gocinema/internal/services/tmdb"

// Client handles communication with the TMDB API
type Client struct {
	baseURL     string
	accessToken string
	apiKey      string
	language    string
	images      ImageResolver
	httpClient  *http.Client
	limiter     *rate.Limiter
	tracer      trace.Tracer
	logger      *logrus.Logger
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAccessToken == "" && cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB credentials are required")
	}
	if _, err := url.Parse(cfg.TMDBBaseURL); err != nil {
		return nil, fmt.Errorf("invalid TMDB URL: %w", err)
	}

	burst := int(cfg.TMDBRateLimit)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.TMDBBaseURL, "/"),
		accessToken: cfg.TMDBAccessToken,
		apiKey:      cfg.TMDBAPIKey,
		language:    cfg.TMDBLanguage,
		images:      ImageResolver{BaseURL: cfg.TMDBImageBaseURL},
		httpClient:  &http.Client{Timeout: cfg.TMDBTimeout},
		limiter:     rate.NewLimiter(rate.Limit(cfg.TMDBRateLimit), burst),
		tracer:      otel.Tracer(tracerName),
		logger:      logger,
	}, nil
}

// Images returns the resolver used to build absolute image URLs
func (c *Client) Images() ImageResolver {
	return c.images
}

// doRequest performs a GET request against the API and decodes the JSON body.
// endpoint is a low-cardinality label used for metrics and tracing.
func (c *Client) doRequest(ctx context.Context, endpoint, path string, params url.Values, result interface{}) error {
	ctx, span := c.tracer.Start(ctx, "tmdb."+endpoint, trace.WithAttributes(
		attribute.String("tmdb.path", path),
	))
	defer span.End()

	start := time.Now()
	status := "error"
	defer func() {
		metrics.APIRequests.WithLabelValues(endpoint, status).Inc()
		metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rate limiter")
		return fmt.Errorf("rate limiter: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	if c.accessToken == "" {
		params.Set("api_key", c.apiKey)
	}

	fullURL := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	c.logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"path":     path,
	}).Debug("Making TMDB API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "gocinema/1.0")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		span.SetStatus(codes.Error, status)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode")
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// StatusError is returned when the API answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}
