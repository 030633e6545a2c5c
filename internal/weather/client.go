// Package weather is the client for the upstream weather REST API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	common "github.com/bobmcallan/weather-mcp/internal/common"
)

// maxResponseSize caps the upstream response body to prevent OOM from unexpectedly large responses.
const maxResponseSize = 10 << 20 // 10MB

// Params are the endpoint-specific query parameters of a call.
// Nil values, including nil pointers, are left out of the query.
type Params map[string]any

// Client issues GET requests against the weather API.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	logger     *common.Logger
}

// NewClient creates a client for the given base URL (e.g. https://api.weatherapi.com/v1).
// Each call is a single attempt: the retry policy never retries.
func NewClient(baseURL string, timeout time.Duration, logger *common.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil // request URLs carry the caller's key, so the client logs redacted paths itself
	retryClient.HTTPClient.Timeout = timeout
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, err
	}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: retryClient,
		logger:     logger,
	}
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call performs GET {baseURL}{endpoint}?key={credential}&{params} and returns the JSON body.
// A non-2xx response yields *UpstreamError.
func (c *Client) Call(ctx context.Context, endpoint, credential string, params Params) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("key", credential)
	for name, value := range params {
		if s, ok := paramString(value); ok {
			query.Set(name, s)
		}
	}
	target := c.baseURL + endpoint + "?" + query.Encode()

	logger := c.logger.ForContext(ctx)
	logger.Debug().Str("method", http.MethodGet).Str("endpoint", endpoint).Msg("upstream request")

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		logger.Error().Str("endpoint", endpoint).Int64("duration_ms", duration.Milliseconds()).Str("error", redact(err.Error(), credential)).Msg("upstream request failed")
		return nil, fmt.Errorf("weather API request failed: %s", redact(err.Error(), credential))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read weather API response: %w", err)
	}

	logger.Debug().Str("endpoint", endpoint).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("upstream response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newUpstreamError(resp, body)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("weather API returned invalid JSON from %s", endpoint)
	}

	return json.RawMessage(body), nil
}

// paramString renders a parameter value in string form; ok is false for absent values.
func paramString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	case *int:
		if v == nil {
			return "", false
		}
		return fmt.Sprint(*v), true
	default:
		return fmt.Sprint(v), true
	}
}

// redact strips the credential from error text that may embed the request URL.
func redact(text, credential string) string {
	if credential == "" {
		return text
	}
	text = strings.ReplaceAll(text, url.QueryEscape(credential), "REDACTED")
	return strings.ReplaceAll(text, credential, "REDACTED")
}
