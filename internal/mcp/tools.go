package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/weather-mcp/internal/weather"
)

// ToolName identifies one of the weather tools.
type ToolName string

const (
	ToolGetCurrentWeather  ToolName = "getCurrentWeather"
	ToolGetWeatherForecast ToolName = "getWeatherForecast"
	ToolSearchLocations    ToolName = "searchLocations"
)

// AllTools returns every tool name in catalog order.
func AllTools() []ToolName {
	return []ToolName{ToolGetCurrentWeather, ToolGetWeatherForecast, ToolSearchLocations}
}

// WeatherAPI is the upstream surface the tools depend on. *weather.Client implements it.
type WeatherAPI interface {
	Current(ctx context.Context, credential, location string, language *string) (json.RawMessage, error)
	Forecast(ctx context.Context, credential, location string, days int, language *string) (json.RawMessage, error)
	Search(ctx context.Context, credential, query string) (json.RawMessage, error)
}

// ToolHandler validates raw arguments, calls the upstream API and formats the result.
type ToolHandler func(ctx context.Context, credential string, args map[string]any) (*mcp.CallToolResult, error)

// ToolDescriptor is the published description of a tool, as returned by tools/list.
type ToolDescriptor struct {
	Name        string              `json:"name"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	InputSchema mcp.ToolInputSchema `json:"inputSchema"`
}

type registeredTool struct {
	descriptor ToolDescriptor
	handler    ToolHandler
}

// Registry is the fixed name-to-handler table. It is immutable after NewRegistry.
type Registry struct {
	tools       map[ToolName]registeredTool
	descriptors []ToolDescriptor
}

// NewRegistry builds the registry for every tool in AllTools.
func NewRegistry(api WeatherAPI) *Registry {
	r := &Registry{tools: make(map[ToolName]registeredTool)}
	for _, name := range AllTools() {
		tool, err := buildTool(name, api)
		if err != nil {
			panic(err)
		}
		r.tools[name] = tool
		r.descriptors = append(r.descriptors, tool.descriptor)
	}
	return r
}

// Descriptors returns a copy of the tool descriptors in catalog order.
func (r *Registry) Descriptors() []ToolDescriptor {
	result := make([]ToolDescriptor, len(r.descriptors))
	copy(result, r.descriptors)
	return result
}

// Names returns the registered tool names in catalog order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.descriptors))
	for i, d := range r.descriptors {
		names[i] = d.Name
	}
	return names
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (ToolHandler, bool) {
	tool, ok := r.tools[ToolName(name)]
	if !ok {
		return nil, false
	}
	return tool.handler, true
}

// buildTool is the exhaustive switch over ToolName.
func buildTool(name ToolName, api WeatherAPI) (registeredTool, error) {
	switch name {
	case ToolGetCurrentWeather:
		return registeredTool{
			descriptor: describe(name, "Current Weather",
				"Get current weather conditions for a location",
				locationField, languageField),
			handler: currentWeatherHandler(api),
		}, nil
	case ToolGetWeatherForecast:
		return registeredTool{
			descriptor: describe(name, "Weather Forecast",
				"Get a daily weather forecast of up to 3 days for a location",
				locationField, daysField, languageField),
			handler: forecastHandler(api),
		}, nil
	case ToolSearchLocations:
		return registeredTool{
			descriptor: describe(name, "Search Locations",
				"Search for locations by partial name",
				queryField),
			handler: searchHandler(api),
		}, nil
	default:
		return registeredTool{}, fmt.Errorf("no handler for tool %q", name)
	}
}

// describe builds a descriptor through mcp-go's tool builder.
func describe(name ToolName, title, description string, fields ...fieldSpec) ToolDescriptor {
	opts := []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithTitleAnnotation(title),
	}
	for _, f := range fields {
		opts = append(opts, f.toolOption())
	}
	tool := mcp.NewTool(string(name), opts...)

	return ToolDescriptor{
		Name:        tool.Name,
		Title:       tool.Annotations.Title,
		Description: tool.Description,
		InputSchema: tool.InputSchema,
	}
}

func currentWeatherHandler(api WeatherAPI) ToolHandler {
	return func(ctx context.Context, credential string, raw map[string]any) (*mcp.CallToolResult, error) {
		args, err := validateCurrentWeather(raw)
		if err != nil {
			return nil, err
		}

		body, err := api.Current(ctx, credential, args.Location, args.Language)
		if err != nil {
			return nil, err
		}

		var resp weather.CurrentResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode current weather response: %w", err)
		}
		if resp.Current == nil {
			return nil, fmt.Errorf("current weather response has no current block")
		}
		return dualResult(formatCurrentWeather(&resp), body), nil
	}
}

func forecastHandler(api WeatherAPI) ToolHandler {
	return func(ctx context.Context, credential string, raw map[string]any) (*mcp.CallToolResult, error) {
		args, err := validateForecast(raw)
		if err != nil {
			return nil, err
		}

		body, err := api.Forecast(ctx, credential, args.Location, args.Days, args.Language)
		if err != nil {
			return nil, err
		}

		var resp weather.ForecastResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode forecast response: %w", err)
		}
		if resp.Forecast == nil {
			return nil, fmt.Errorf("forecast response has no forecast block")
		}
		return dualResult(formatForecast(&resp, args.Days), body), nil
	}
}

func searchHandler(api WeatherAPI) ToolHandler {
	return func(ctx context.Context, credential string, raw map[string]any) (*mcp.CallToolResult, error) {
		args, err := validateSearch(raw)
		if err != nil {
			return nil, err
		}

		body, err := api.Search(ctx, credential, args.Query)
		if err != nil {
			return nil, err
		}

		var results []weather.SearchResult
		if err := json.Unmarshal(body, &results); err != nil {
			return nil, fmt.Errorf("failed to decode search response: %w", err)
		}
		return dualResult(formatSearchResults(results, args.Query), body), nil
	}
}
