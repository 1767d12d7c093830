package atera

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dreschagin/support-dashboard/internal/infrastructure/metrics"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

const (
	DefaultBaseURL = "https://app.atera.com/api/v3"

	apiKeyHeader     = "X-API-KEY"
	maxResponseBytes = 16 * 1024 * 1024
	defaultTimeout   = 15 * time.Second
	limiterBurst     = 10
)

// UpstreamError is returned for any non-2xx response from the API.
type UpstreamError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("atera API error (%d) %s: %s", e.StatusCode, e.Path, e.Body)
}

// Params are query parameters; nil values are omitted from the URL.
type Params map[string]interface{}

type Config struct {
	BaseURL            string
	APIKey             string
	Timeout            time.Duration
	RateLimitPerMinute int
	HTTPClient         *http.Client
}

// Client issues authenticated GET requests against the ticketing API. It never retries.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewClient(cfg Config, m *metrics.Metrics, log *logger.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RateLimitPerMinute)/60), limiterBurst)
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		http:    httpClient,
		limiter: limiter,
		metrics: m,
		logger:  log,
	}
}

// Get performs GET base+path and decodes the JSON body into dest.
func (c *Client) Get(ctx context.Context, path string, params Params, dest interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	endpoint, err := c.buildURL(path, params)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	startedAt := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(path, 0, time.Since(startedAt))
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.metrics.ObserveUpstream(path, resp.StatusCode, time.Since(startedAt))

	body, err := readLimited(resp.Body, maxResponseBytes)
	if err != nil {
		return fmt.Errorf("read response %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &UpstreamError{Path: path, StatusCode: resp.StatusCode, Body: message}
	}

	if c.logger != nil {
		c.logger.Debug("Atera request completed",
			"path", path,
			"status", resp.StatusCode,
			"duration_ms", time.Since(startedAt).Milliseconds())
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response %s: %w", path, err)
	}
	return nil
}

func (c *Client) buildURL(path string, params Params) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid url for %s: %w", path, err)
	}

	query := u.Query()
	for key, value := range params {
		if value == nil {
			continue
		}
		query.Set(key, fmt.Sprint(value))
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	lr := io.LimitReader(r, limit+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, io.ErrUnexpectedEOF
	}
	return data, nil
}
