package weather

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// UpstreamError is returned by Client.Call when the weather API answers with a non-2xx status.
type UpstreamError struct {
	StatusCode int
	StatusText string
	// Body is the parsed JSON error body, or {"message": raw} when the body is not JSON.
	Body    any
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// newUpstreamError builds an UpstreamError from a failed response and its raw body.
func newUpstreamError(resp *http.Response, raw []byte) *UpstreamError {
	text := string(raw)

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		body = map[string]any{"message": text}
	}

	statusText := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if statusText == "" {
		statusText = http.StatusText(resp.StatusCode)
	}

	return &UpstreamError{
		StatusCode: resp.StatusCode,
		StatusText: statusText,
		Body:       body,
		Message:    "request failed: " + text,
	}
}
