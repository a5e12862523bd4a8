package moviedb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/metrics"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodySize    = 4 << 20

	endpointSearch = "search"
	endpointMovie  = "movie"
)

// Options configures a Client
type Options struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
	Burst     int
	Metrics   metrics.Recorder
}

// Client implements domain.MovieRepository against the kinopoisk.dev API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    metrics.Recorder
	logger     *slog.Logger
}

// NewClient creates a new movie database client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: limiter,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// doRequest performs an authenticated GET against the API.
// No retries: the user re-triggers by editing the query or reselecting.
func (c *Client) doRequest(ctx context.Context, endpoint, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL += "?" + query.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("X-Request-ID", requestID)

	logger := c.logger.With("request_id", requestID, "endpoint", endpoint)
	logger.Debug("moviedb request", "url", reqURL)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			logger.Debug("moviedb request cancelled")
			return nil, ctx.Err()
		}
		c.metrics.RecordRequest(endpoint, 0, time.Since(start))
		logger.Error("moviedb request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.metrics.RecordRequest(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("moviedb request error", "status", resp.StatusCode, "body", truncate(string(body), 200))
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrNetwork, resp.StatusCode)
	}

	logger.Debug("moviedb response", "status", resp.StatusCode, "bytes", len(body), "elapsed", time.Since(start))
	return body, nil
}

// Search returns movies matching query
func (c *Client) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)

	body, err := c.doRequest(ctx, endpointSearch, "/movie/search", params)
	if err != nil {
		return nil, err
	}

	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	return MapSearch(resp)
}

// GetMovie returns full details for a movie
func (c *Client) GetMovie(ctx context.Context, id string) (*domain.MovieDetail, error) {
	body, err := c.doRequest(ctx, endpointMovie, "/movie/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var doc MovieDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	return MapMovie(doc)
}

// VerifyKey issues a minimal search to check that the API key is accepted
func (c *Client) VerifyKey(ctx context.Context) error {
	_, err := c.Search(ctx, "matrix")
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
