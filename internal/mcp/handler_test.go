package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	common "github.com/bobmcallan/weather-mcp/internal/common"
	"github.com/bobmcallan/weather-mcp/internal/weather"
)

func newTestHandler(api WeatherAPI) *Handler {
	return NewHandler(newTestDispatcher(api), common.NewSilentLogger())
}

// postMCP sends body to the handler and decodes the JSON-RPC response.
func postMCP(t *testing.T, h http.Handler, body, authorization string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, out
}

func TestHandler_MalformedJSON(t *testing.T) {
	h := newTestHandler(&fakeWeatherAPI{})

	for _, body := range []string{`{"jsonrpc":"2.0",`, `not json`, ``} {
		status, out := postMCP(t, h, body, "")
		if status != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, status)
		}
		errObj := wireError(t, out)
		if errObj["code"] != float64(CodeParseError) {
			t.Errorf("body %q: expected -32700, got %v", body, errObj["code"])
		}
		if out["id"] != "unknown" {
			t.Errorf("body %q: expected id unknown, got %v", body, out["id"])
		}
	}
}

func TestHandler_InvalidRequest(t *testing.T) {
	h := newTestHandler(&fakeWeatherAPI{})

	tests := []struct {
		name   string
		body   string
		wantID any
	}{
		{"wrong version", `{"jsonrpc":"1.0","method":"tools/list"}`, "unknown"},
		{"missing version", `{"id":3,"method":"tools/list"}`, float64(3)},
		{"numeric version", `{"jsonrpc":2.0,"id":"a","method":"tools/list"}`, "a"},
		{"missing method", `{"jsonrpc":"2.0","id":1}`, float64(1)},
		{"empty method", `{"jsonrpc":"2.0","id":1,"method":""}`, float64(1)},
		{"numeric method", `{"jsonrpc":"2.0","id":1,"method":5}`, float64(1)},
		{"array body", `[{"jsonrpc":"2.0","method":"tools/list"}]`, "unknown"},
		{"string body", `"tools/list"`, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := postMCP(t, h, tt.body, "")
			if status != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", status)
			}
			errObj := wireError(t, out)
			if errObj["code"] != float64(CodeInvalidRequest) {
				t.Errorf("Expected -32600, got %v", errObj["code"])
			}
			if out["id"] != tt.wantID {
				t.Errorf("Expected id %v, got %v", tt.wantID, out["id"])
			}
		})
	}
}

func TestHandler_JSONRPCErrorsAre200(t *testing.T) {
	h := newTestHandler(&fakeWeatherAPI{})

	tests := []struct {
		name string
		body string
		auth string
		code float64
	}{
		{"unknown method", `{"jsonrpc":"2.0","id":1,"method":"nope"}`, "", float64(CodeMethodNotFound)},
		{"missing credential", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"getCurrentWeather","arguments":{"location":"London"}}}`, "", float64(CodeUnauthorized)},
		{"non-bearer scheme", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"getCurrentWeather","arguments":{"location":"London"}}}`, "Basic dXNlcjpwYXNz", float64(CodeUnauthorized)},
		{"empty bearer", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"getCurrentWeather","arguments":{"location":"London"}}}`, "Bearer    ", float64(CodeUnauthorized)},
		{"unknown tool", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"x"}}`, "Bearer k", float64(CodeMethodNotFound)},
		{"invalid params", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"getWeatherForecast","arguments":{"location":"x","days":7}}}`, "Bearer k", float64(CodeInvalidParams)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := postMCP(t, h, tt.body, tt.auth)
			if status != http.StatusOK {
				t.Errorf("Expected 200, got %d", status)
			}
			errObj := wireError(t, out)
			if errObj["code"] != tt.code {
				t.Errorf("Expected %v, got %v", tt.code, errObj["code"])
			}
		})
	}
}

func TestHandler_ToolsList(t *testing.T) {
	h := newTestHandler(&fakeWeatherAPI{})

	status, out := postMCP(t, h, `{"jsonrpc":"2.0","id":"l1","method":"tools/list"}`, "")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if out["id"] != "l1" {
		t.Errorf("Expected id l1, got %v", out["id"])
	}
	tools := out["result"].(map[string]any)["tools"].([]any)
	if len(tools) != 3 {
		t.Errorf("Expected 3 tools, got %d", len(tools))
	}
}

func TestBearerCredential(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"BEARER   abc123  ", "abc123"},
		{"  Bearer abc123", "abc123"},
		{"Bearer", ""},
		{"Bearer   ", ""},
		{"", ""},
		{"   ", ""},
		{"Basic abc123", ""},
		{"abc123", ""},
	}

	for _, tt := range tests {
		if got := BearerCredential(tt.header); got != tt.want {
			t.Errorf("BearerCredential(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

// TestHandler_EndToEnd runs a tools/call through the real upstream client against a mock weather API.
func TestHandler_EndToEnd(t *testing.T) {
	var gotKey, gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/current.json" {
			t.Errorf("Expected /v1/current.json, got %s", r.URL.Path)
		}
		gotKey = r.URL.Query().Get("key")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(londonCurrent))
	}))
	defer upstream.Close()

	client := weather.NewClient(upstream.URL+"/v1", 5*time.Second, common.NewSilentLogger())
	h := newTestHandler(client)

	status, out := postMCP(t, h,
		`{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"getCurrentWeather","arguments":{"location":"London"}}}`,
		"Bearer  live-key ")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if gotKey != "live-key" || gotQuery != "London" {
		t.Errorf("Expected key=live-key q=London upstream, got key=%q q=%q", gotKey, gotQuery)
	}

	content := out["result"].(map[string]any)["content"].([]any)
	text := content[0].(map[string]any)["text"]
	if text != "Current weather in London, UK: Sunny, 20°C (68°F). Feels like 19°C. Humidity: 50%. Wind: 10 km/h N." {
		t.Errorf("Unexpected summary %v", text)
	}
}

func TestHandler_EndToEndUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":2008,"message":"API key has been disabled."}}`))
	}))
	defer upstream.Close()

	client := weather.NewClient(upstream.URL, 5*time.Second, common.NewSilentLogger())
	h := newTestHandler(client)

	status, out := postMCP(t, h,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"searchLocations","arguments":{"query":"lon"}}}`,
		"Bearer k")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	errObj := wireError(t, out)
	if errObj["code"] != float64(CodeForbidden) {
		t.Errorf("Expected -32002, got %v", errObj["code"])
	}
	data := errObj["data"].(map[string]any)
	if data["status"] != float64(403) || data["statusText"] != "Forbidden" {
		t.Errorf("Unexpected upstream data %v", data)
	}
}
