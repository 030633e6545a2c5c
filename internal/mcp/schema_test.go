package mcp

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateForecast_DefaultDays(t *testing.T) {
	args, err := validateForecast(map[string]any{"location": "Paris"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if args.Days != 3 {
		t.Errorf("Expected default days 3, got %d", args.Days)
	}
	if args.Language != nil {
		t.Errorf("Expected nil language, got %q", *args.Language)
	}

	args, err = validateForecast(map[string]any{"location": "Paris", "days": nil})
	if err != nil {
		t.Fatalf("Unexpected error for null days: %v", err)
	}
	if args.Days != 3 {
		t.Errorf("Expected null days to default to 3, got %d", args.Days)
	}
}

func TestValidateForecast_Days(t *testing.T) {
	tests := []struct {
		name    string
		days    any
		want    int
		wantErr bool
	}{
		{"json number 1", json.Number("1"), 1, false},
		{"json number 3", json.Number("3"), 3, false},
		{"integral float notation", json.Number("2.0"), 2, false},
		{"float64", float64(2), 2, false},
		{"int", 1, 1, false},
		{"zero", json.Number("0"), 0, true},
		{"four", json.Number("4"), 0, true},
		{"negative", json.Number("-1"), 0, true},
		{"fractional", json.Number("2.5"), 0, true},
		{"string", "2", 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := validateForecast(map[string]any{"location": "Paris", "days": tt.days})
			if tt.wantErr {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("Expected *ValidationError, got %v", err)
				}
				if len(validationErr.Issues) != 1 || validationErr.Issues[0].Field != "days" {
					t.Errorf("Expected a single days issue, got %+v", validationErr.Issues)
				}
				if validationErr.Tool != ToolGetWeatherForecast {
					t.Errorf("Expected tool %s, got %s", ToolGetWeatherForecast, validationErr.Tool)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if args.Days != tt.want {
				t.Errorf("Expected days %d, got %d", tt.want, args.Days)
			}
		})
	}
}

func TestValidateCurrentWeather(t *testing.T) {
	tests := []struct {
		name       string
		raw        map[string]any
		wantFields []string
	}{
		{"valid", map[string]any{"location": "London"}, nil},
		{"valid with language", map[string]any{"location": "London", "language": "fr"}, nil},
		{"null language", map[string]any{"location": "London", "language": nil}, nil},
		{"extra fields ignored", map[string]any{"location": "London", "units": "metric"}, nil},
		{"missing location", map[string]any{}, []string{"location"}},
		{"null location", map[string]any{"location": nil}, []string{"location"}},
		{"blank location", map[string]any{"location": "   "}, []string{"location"}},
		{"numeric location", map[string]any{"location": json.Number("51")}, []string{"location"}},
		{"numeric language", map[string]any{"location": "London", "language": json.Number("1")}, []string{"language"}},
		{"both invalid", map[string]any{"language": false}, []string{"location", "language"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := validateCurrentWeather(tt.raw)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if args.Location != "London" {
					t.Errorf("Expected location London, got %q", args.Location)
				}
				return
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Expected *ValidationError, got %v", err)
			}
			if len(validationErr.Issues) != len(tt.wantFields) {
				t.Fatalf("Expected %d issues, got %+v", len(tt.wantFields), validationErr.Issues)
			}
			for i, field := range tt.wantFields {
				if validationErr.Issues[i].Field != field {
					t.Errorf("Issue %d: expected field %s, got %s", i, field, validationErr.Issues[i].Field)
				}
			}
		})
	}
}

func TestValidateCurrentWeather_Language(t *testing.T) {
	args, err := validateCurrentWeather(map[string]any{"location": "Madrid", "language": "es"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if args.Language == nil || *args.Language != "es" {
		t.Errorf("Expected language es, got %v", args.Language)
	}
}

func TestValidateSearch(t *testing.T) {
	args, err := validateSearch(map[string]any{"query": "lond"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if args.Query != "lond" {
		t.Errorf("Expected query lond, got %q", args.Query)
	}

	_, err = validateSearch(map[string]any{"location": "London"})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	if validationErr.Issues[0].Field != "query" {
		t.Errorf("Expected query issue, got %+v", validationErr.Issues)
	}
	if validationErr.Error() != "invalid arguments for searchLocations: query is required" {
		t.Errorf("Unexpected error text %q", validationErr.Error())
	}
}

// schemaJSON publishes a descriptor's input schema as a client would see it.
func schemaJSON(t *testing.T, d ToolDescriptor) map[string]any {
	t.Helper()
	data, err := json.Marshal(d.InputSchema)
	if err != nil {
		t.Fatalf("Failed to marshal input schema: %v", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatalf("Failed to unmarshal input schema: %v", err)
	}
	return schema
}

func TestPublishedSchema_Required(t *testing.T) {
	expected := map[string][]string{
		"getCurrentWeather":  {"location"},
		"getWeatherForecast": {"location"},
		"searchLocations":    {"query"},
	}

	for _, d := range NewRegistry(&fakeWeatherAPI{}).Descriptors() {
		schema := schemaJSON(t, d)
		if schema["type"] != "object" {
			t.Errorf("%s: expected object schema, got %v", d.Name, schema["type"])
		}

		required, _ := schema["required"].([]any)
		want := expected[d.Name]
		if len(required) != len(want) {
			t.Errorf("%s: expected required %v, got %v", d.Name, want, schema["required"])
			continue
		}
		for i := range want {
			if required[i] != want[i] {
				t.Errorf("%s: expected required %v, got %v", d.Name, want, required)
			}
		}
	}
}

func TestPublishedSchema_ForecastDays(t *testing.T) {
	var forecast ToolDescriptor
	for _, d := range NewRegistry(&fakeWeatherAPI{}).Descriptors() {
		if d.Name == string(ToolGetWeatherForecast) {
			forecast = d
		}
	}

	props, ok := schemaJSON(t, forecast)["properties"].(map[string]any)
	if !ok {
		t.Fatal("Expected properties in forecast schema")
	}
	days, ok := props["days"].(map[string]any)
	if !ok {
		t.Fatal("Expected days property")
	}
	if days["type"] != "integer" {
		t.Errorf("Expected integer type, got %v", days["type"])
	}
	if days["minimum"] != float64(1) || days["maximum"] != float64(3) {
		t.Errorf("Expected range [1,3], got [%v,%v]", days["minimum"], days["maximum"])
	}
	if days["default"] != float64(3) {
		t.Errorf("Expected default 3, got %v", days["default"])
	}

	language, ok := props["language"].(map[string]any)
	if !ok || language["type"] != "string" {
		t.Errorf("Expected string language property, got %v", props["language"])
	}
}

func TestPublishedSchema_OmitsEmptyRequired(t *testing.T) {
	d := describe("optionalOnly", "Optional Only", "All fields optional", languageField, daysField)

	schema := schemaJSON(t, d)
	if _, ok := schema["required"]; ok {
		t.Errorf("Expected required to be omitted, got %v", schema["required"])
	}
}

func TestFieldSpec_Required(t *testing.T) {
	if !locationField.required() || !queryField.required() {
		t.Error("location and query should be required")
	}
	if languageField.required() {
		t.Error("optional language should not be required")
	}
	if daysField.required() {
		t.Error("defaulted days should not be required")
	}
}
