package mcp

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	common "github.com/bobmcallan/weather-mcp/internal/common"
)

// Handler is the HTTP handler for the MCP endpoint.
// It parses the JSON-RPC body, extracts the bearer credential and delegates to the Dispatcher.
type Handler struct {
	dispatcher *Dispatcher
	logger     *common.Logger
}

// NewHandler creates a new MCP HTTP handler.
func NewHandler(dispatcher *Dispatcher, logger *common.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ServeHTTP answers 200 for every well-formed JSON-RPC exchange, JSON-RPC errors included,
// and 400 for bodies that are not valid JSON-RPC 2.0 requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.ForContext(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn().Str("error", err.Error()).Msg("failed to read MCP request body")
		writeResponse(w, http.StatusBadRequest, errorResponse(unknownID, &RPCError{
			Code:    CodeParseError,
			Message: "Parse error",
			Data:    err.Error(),
		}))
		return
	}

	req, rpcErr := parseRequest(body)
	if rpcErr != nil {
		logger.Debug().Int("code", rpcErr.Code).Str("message", rpcErr.Message).Msg("malformed MCP request")
		writeResponse(w, http.StatusBadRequest, errorResponse(responseID(req.ID), rpcErr))
		return
	}

	credential := BearerCredential(r.Header.Get("Authorization"))

	logger.Debug().
		Str("method", req.Method).
		Str("id", string(responseID(req.ID))).
		Str("credential", presence(credential)).
		Msg("MCP request")

	resp := h.dispatcher.Dispatch(r.Context(), req, credential)
	writeResponse(w, http.StatusOK, resp)
}

// parseRequest validates the JSON-RPC envelope. The returned Request carries the id
// whenever one could be read, so error responses can echo it.
func parseRequest(body []byte) (Request, *RPCError) {
	if !json.Valid(body) {
		return Request{}, &RPCError{Code: CodeParseError, Message: "Parse error: request body is not valid JSON"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Request{}, &RPCError{Code: CodeInvalidRequest, Message: "Invalid Request: body must be a JSON object"}
	}

	req := Request{ID: fields["id"], Params: fields["params"]}

	if err := json.Unmarshal(fields["jsonrpc"], &req.JSONRPC); err != nil || req.JSONRPC != "2.0" {
		return req, &RPCError{Code: CodeInvalidRequest, Message: `Invalid Request: jsonrpc must be "2.0"`}
	}
	if err := json.Unmarshal(fields["method"], &req.Method); err != nil || req.Method == "" {
		return req, &RPCError{Code: CodeInvalidRequest, Message: "Invalid Request: method must be a non-empty string"}
	}

	return req, nil
}

// BearerCredential extracts the key from an "Authorization: Bearer <key>" header value.
// It returns "" when the header is absent, blank or uses another scheme.
func BearerCredential(header string) string {
	scheme, value, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(value)
}

func presence(credential string) string {
	if credential == "" {
		return "absent"
	}
	return "present"
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
