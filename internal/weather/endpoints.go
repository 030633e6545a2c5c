package weather

import (
	"context"
	"encoding/json"
)

// Upstream endpoint paths, relative to the base URL.
const (
	EndpointCurrent  = "/current.json"
	EndpointForecast = "/forecast.json"
	EndpointSearch   = "/search.json"
)

// Current fetches current conditions. language is optional.
func (c *Client) Current(ctx context.Context, credential, location string, language *string) (json.RawMessage, error) {
	return c.Call(ctx, EndpointCurrent, credential, Params{
		"q":    location,
		"lang": language,
	})
}

// Forecast fetches a daily forecast for the given number of days. language is optional.
func (c *Client) Forecast(ctx context.Context, credential, location string, days int, language *string) (json.RawMessage, error) {
	return c.Call(ctx, EndpointForecast, credential, Params{
		"q":    location,
		"days": days,
		"lang": language,
	})
}

// Search looks up locations matching a free-text query.
func (c *Client) Search(ctx context.Context, credential, query string) (json.RawMessage, error) {
	return c.Call(ctx, EndpointSearch, credential, Params{
		"q": query,
	})
}
