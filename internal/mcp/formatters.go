package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/weather-mcp/internal/weather"
)

// formatNumber renders a number in its shortest form (20, 20.5), as it appears in JSON.
// Negative zero renders as "0".
func formatNumber(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCurrentWeather(resp *weather.CurrentResponse) string {
	c := resp.Current
	return fmt.Sprintf("Current weather in %s, %s: %s, %s°C (%s°F). Feels like %s°C. Humidity: %s%%. Wind: %s km/h %s.",
		resp.Location.Name, resp.Location.Country,
		c.Condition.Text,
		formatNumber(c.TempC), formatNumber(c.TempF),
		formatNumber(c.FeelslikeC),
		formatNumber(c.Humidity),
		formatNumber(c.WindKph), c.WindDir,
	)
}

func formatForecast(resp *weather.ForecastResponse, days int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%d-day forecast for %s, %s:\n", days, resp.Location.Name, resp.Location.Country))
	for _, day := range resp.Forecast.ForecastDay {
		sb.WriteString(fmt.Sprintf("%s: %s, High: %s°C, Low: %s°C\n",
			day.Date, day.Day.Condition.Text, formatNumber(day.Day.MaxtempC), formatNumber(day.Day.MintempC)))
	}

	return sb.String()
}

func formatSearchResults(results []weather.SearchResult, query string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Found %d locations matching \"%s\":\n", len(results), query))
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%s, %s, %s (%s, %s)\n",
			r.Name, r.Region, r.Country, formatNumber(r.Lat), formatNumber(r.Lon)))
	}

	return sb.String()
}

// dualResult builds the two-part tool result: the summary first, then the raw payload.
func dualResult(summary string, payload json.RawMessage) *mcp.CallToolResult {
	var pretty bytes.Buffer
	raw := string(payload)
	if err := json.Indent(&pretty, payload, "", "  "); err == nil {
		raw = pretty.String()
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(summary),
			mcp.NewTextContent(raw),
		},
	}
}
