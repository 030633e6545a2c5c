package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Forecast day range accepted by getWeatherForecast.
const (
	minForecastDays     = 1
	maxForecastDays     = 3
	defaultForecastDays = 3
)

// CurrentWeatherArgs are the validated arguments of getCurrentWeather.
type CurrentWeatherArgs struct {
	Location string
	Language *string
}

// ForecastArgs are the validated arguments of getWeatherForecast.
type ForecastArgs struct {
	Location string
	Days     int
	Language *string
}

// SearchArgs are the validated arguments of searchLocations.
type SearchArgs struct {
	Query string
}

// fieldKind is the semantic type of a tool argument.
type fieldKind int

const (
	kindString fieldKind = iota
	kindInteger
)

// fieldSpec declares one tool argument for publication in tools/list.
type fieldSpec struct {
	name        string
	kind        fieldKind
	description string
	optional    bool
	defaultInt  *int
	minInt      *int
	maxInt      *int
}

// required reports whether the field must be listed as required:
// it is neither optional nor defaulted.
func (f fieldSpec) required() bool {
	return !f.optional && f.defaultInt == nil
}

func intPtr(v int) *int { return &v }

var (
	locationField = fieldSpec{
		name:        "location",
		kind:        kindString,
		description: "City name, postcode, IATA code, IP address or \"lat,lon\" coordinates",
	}
	languageField = fieldSpec{
		name:        "language",
		kind:        kindString,
		description: "Language code for the condition text (e.g. fr, de, es)",
		optional:    true,
	}
	daysField = fieldSpec{
		name:        "days",
		kind:        kindInteger,
		description: "Number of forecast days",
		optional:    true,
		defaultInt:  intPtr(defaultForecastDays),
		minInt:      intPtr(minForecastDays),
		maxInt:      intPtr(maxForecastDays),
	}
	queryField = fieldSpec{
		name:        "query",
		kind:        kindString,
		description: "Partial location name to search for",
	}
)

// integer narrows an mcp-go number property to a JSON-Schema integer.
func integer() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}

// toolOption maps a fieldSpec onto the matching mcp-go builder option.
func (f fieldSpec) toolOption() mcp.ToolOption {
	var opts []mcp.PropertyOption
	if f.description != "" {
		opts = append(opts, mcp.Description(f.description))
	}
	if f.required() {
		opts = append(opts, mcp.Required())
	}

	switch f.kind {
	case kindInteger:
		opts = append(opts, integer())
		if f.minInt != nil {
			opts = append(opts, mcp.Min(float64(*f.minInt)))
		}
		if f.maxInt != nil {
			opts = append(opts, mcp.Max(float64(*f.maxInt)))
		}
		if f.defaultInt != nil {
			opts = append(opts, mcp.DefaultNumber(float64(*f.defaultInt)))
		}
		return mcp.WithNumber(f.name, opts...)
	default:
		return mcp.WithString(f.name, opts...)
	}
}

// argReader collects typed values and issues from raw tool arguments.
type argReader struct {
	raw    map[string]any
	issues []FieldIssue
}

func (r *argReader) fail(field, format string, args ...any) {
	r.issues = append(r.issues, FieldIssue{Field: field, Message: fmt.Sprintf(format, args...)})
}

// requiredString returns a present, non-blank string value.
func (r *argReader) requiredString(field string) string {
	v, ok := r.raw[field]
	if !ok || v == nil {
		r.fail(field, "is required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(field, "must be a string")
		return ""
	}
	if strings.TrimSpace(s) == "" {
		r.fail(field, "must not be empty")
		return ""
	}
	return s
}

// optionalString returns nil when the field is absent or null.
func (r *argReader) optionalString(field string) *string {
	v, ok := r.raw[field]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		r.fail(field, "must be a string")
		return nil
	}
	return &s
}

// integerInRange applies the default first, then the type and range checks.
func (r *argReader) integerInRange(field string, def, lo, hi int) int {
	v, ok := r.raw[field]
	if !ok || v == nil {
		v = def
	}

	n, ok := asInteger(v)
	if !ok {
		r.fail(field, "must be an integer")
		return def
	}
	if n < int64(lo) || n > int64(hi) {
		r.fail(field, "must be between %d and %d", lo, hi)
		return def
	}
	return int(n)
}

func (r *argReader) err(tool ToolName) error {
	if len(r.issues) == 0 {
		return nil
	}
	return &ValidationError{Tool: tool, Issues: r.issues}
}

// asInteger accepts any JSON number without a fractional part.
func asInteger(v any) (int64, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int64(f), true
}

func validateCurrentWeather(raw map[string]any) (CurrentWeatherArgs, error) {
	r := &argReader{raw: raw}
	args := CurrentWeatherArgs{
		Location: r.requiredString(locationField.name),
		Language: r.optionalString(languageField.name),
	}
	return args, r.err(ToolGetCurrentWeather)
}

func validateForecast(raw map[string]any) (ForecastArgs, error) {
	r := &argReader{raw: raw}
	args := ForecastArgs{
		Location: r.requiredString(locationField.name),
		Days:     r.integerInRange(daysField.name, defaultForecastDays, minForecastDays, maxForecastDays),
		Language: r.optionalString(languageField.name),
	}
	return args, r.err(ToolGetWeatherForecast)
}

func validateSearch(raw map[string]any) (SearchArgs, error) {
	r := &argReader{raw: raw}
	args := SearchArgs{
		Query: r.requiredString(queryField.name),
	}
	return args, r.err(ToolSearchLocations)
}
