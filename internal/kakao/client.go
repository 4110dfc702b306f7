// Package kakao is a client for the Kakao Daum image and video clip search API.
package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/mmcdole/locker/internal/domain"
)

const (
	DefaultBaseURL  = "https://dapi.kakao.com"
	DefaultPageSize = 30
	defaultTimeout  = 30 * time.Second
	userAgent       = "Locker/1.0"

	imagePath = "/v2/search/image"
	videoPath = "/v2/search/vclip"

	// Largest size each endpoint accepts
	maxImagePageSize = 80
	maxVideoPageSize = 30
)

// Client implements domain.SearchRepository for Kakao
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithPageSize sets how many documents each search requests. Each endpoint
// is capped at its own maximum: 80 for images, 30 for clips.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithRateLimit allows at most perSecond requests per second. Zero or less disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithTimeout sets the per-request HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the client logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new Kakao search client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		pageSize: DefaultPageSize,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAPIKey updates the REST API key
func (c *Client) SetAPIKey(key string) {
	c.apiKey = key
}

// doRequest performs an authenticated GET request
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, domain.ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if query != nil {
		reqURL = reqURL + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("kakao request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("kakao request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, domain.ErrAuthFailed
	case http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	default:
		c.logger.Error("kakao request error", "status", resp.StatusCode, "body", apiMessage(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

func (c *Client) searchQuery(query string, maxSize int) url.Values {
	q := url.Values{}
	q.Set("query", query)
	q.Set("sort", "recency")
	q.Set("size", strconv.Itoa(min(c.pageSize, maxSize)))
	return q
}

// SearchImages returns image results for query, most recent first
func (c *Client) SearchImages(ctx context.Context, query string) ([]domain.Thumbnail, error) {
	body, err := c.doRequest(ctx, imagePath, c.searchQuery(query, maxImagePageSize))
	if err != nil {
		return nil, err
	}

	var resp Response[ImageDocument]
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse image response: %w", err)
	}

	return MapImages(resp.Documents), nil
}

// SearchVideos returns video clip results for query, most recent first
func (c *Client) SearchVideos(ctx context.Context, query string) ([]domain.Thumbnail, error) {
	body, err := c.doRequest(ctx, videoPath, c.searchQuery(query, maxVideoPageSize))
	if err != nil {
		return nil, err
	}

	var resp Response[VideoDocument]
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse video response: %w", err)
	}

	return MapVideos(resp.Documents), nil
}

// apiMessage extracts the error message from an error body, falling back to the raw text
func apiMessage(body []byte) string {
	var e ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.ErrorType + ": " + e.Message
	}
	return string(body)
}
