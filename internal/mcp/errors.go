package mcp

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/weather-mcp/internal/weather"
)

// JSON-RPC error codes. The standard range reuses mcp-go's constants;
// the -3200x range is specific to this server.
const (
	CodeParseError     = mcp.PARSE_ERROR
	CodeInvalidRequest = mcp.INVALID_REQUEST
	CodeMethodNotFound = mcp.METHOD_NOT_FOUND
	CodeInvalidParams  = mcp.INVALID_PARAMS
	CodeInternalError  = mcp.INTERNAL_ERROR
	CodeUnauthorized   = -32001
	CodeForbidden      = -32002
	CodeNotFound       = -32003
	CodeRateLimited    = -32004
)

// credentialHint tells callers how to supply their weather API key.
const credentialHint = "Send your WeatherAPI key as the header Authorization: Bearer <your-api-key>"

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// FieldIssue is one failed argument check.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports tool arguments that do not satisfy the tool's input schema.
type ValidationError struct {
	Tool   ToolName
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+" "+issue.Message)
	}
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(parts, "; "))
}

// upstreamStatus maps an upstream HTTP status to its JSON-RPC code, message and hint.
func upstreamStatus(status int) (int, string, string) {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidParams, "Invalid request to weather API", "Check the location or query value"
	case http.StatusUnauthorized:
		return CodeUnauthorized, "Weather API rejected the API key", credentialHint
	case http.StatusForbidden:
		return CodeForbidden, "Access to weather API forbidden", "The API key is disabled or its plan does not cover this endpoint"
	case http.StatusNotFound:
		return CodeNotFound, "Weather API resource not found", "Use searchLocations to find a valid location"
	case http.StatusTooManyRequests:
		return CodeRateLimited, "Weather API rate limit exceeded", "Wait before retrying"
	default:
		return CodeInternalError, "Weather API error", "The weather service failed; try again later"
	}
}

// unauthorizedError is returned for tools/call without a credential.
func unauthorizedError() *RPCError {
	return &RPCError{
		Code:    CodeUnauthorized,
		Message: "Missing API key",
		Data:    map[string]any{"hint": credentialHint},
	}
}

// unknownToolError lists the registered tools.
func unknownToolError(name string, available []string) *RPCError {
	return &RPCError{
		Code:    CodeMethodNotFound,
		Message: fmt.Sprintf("Unknown tool: %s", name),
		Data:    map[string]any{"availableTools": available},
	}
}

// unknownMethodError lists the supported methods.
func unknownMethodError(method string) *RPCError {
	return &RPCError{
		Code:    CodeMethodNotFound,
		Message: fmt.Sprintf("Method not found: %s", method),
		Data:    map[string]any{"availableMethods": supportedMethods},
	}
}

// classifyError converts a tool handler failure into a JSON-RPC error.
// Wrapped errors are unwrapped with errors.As.
func classifyError(err error) *RPCError {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return &RPCError{
			Code:    CodeInvalidParams,
			Message: validationErr.Error(),
			Data: map[string]any{
				"issues": validationErr.Issues,
				"hint":   fmt.Sprintf("See tools/list for the input schema of %s", validationErr.Tool),
			},
		}
	}

	var upstreamErr *weather.UpstreamError
	if errors.As(err, &upstreamErr) {
		code, message, hint := upstreamStatus(upstreamErr.StatusCode)
		return &RPCError{
			Code:    code,
			Message: message,
			Data: map[string]any{
				"status":     upstreamErr.StatusCode,
				"statusText": upstreamErr.StatusText,
				"details":    upstreamErr.Body,
				"hint":       hint,
			},
		}
	}

	return &RPCError{
		Code:    CodeInternalError,
		Message: "Internal error",
		Data:    err.Error(),
	}
}
