package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	common "github.com/bobmcallan/weather-mcp/internal/common"
)

// Dispatcher routes JSON-RPC requests to the initialize, tools/list and tools/call methods.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	registry        *Registry
	serverInfo      mcp.Implementation
	protocolVersion string
	logger          *common.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, serverInfo mcp.Implementation, protocolVersion string, logger *common.Logger) *Dispatcher {
	return &Dispatcher{
		registry:        registry,
		serverInfo:      serverInfo,
		protocolVersion: protocolVersion,
		logger:          logger,
	}
}

// Dispatch handles one request and always returns exactly one response.
// An empty credential means none was supplied.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request, credential string) (resp Response) {
	id := responseID(req.ID)

	defer func() {
		if rec := recover(); rec != nil {
			d.logger.ForContext(ctx).Error().
				Str("method", req.Method).
				Str("panic", fmt.Sprint(rec)).
				Msg("dispatcher panic recovered")
			resp = errorResponse(id, &RPCError{
				Code:    CodeInternalError,
				Message: "Internal error",
				Data:    fmt.Sprint(rec),
			})
		}
	}()

	switch req.Method {
	case MethodInitialize:
		return resultResponse(id, InitializeResult{
			ProtocolVersion: d.protocolVersion,
			Capabilities:    Capabilities{Tools: ToolsCapability{ListChanged: true}},
			ServerInfo:      d.serverInfo,
		})
	case MethodToolsList:
		return resultResponse(id, ToolsListResult{Tools: d.registry.Descriptors()})
	case MethodToolsCall:
		return d.callTool(ctx, id, req.Params, credential)
	default:
		return errorResponse(id, unknownMethodError(req.Method))
	}
}

// callParams are the decoded params of tools/call.
type callParams struct {
	name      string
	arguments any
}

// decodeCallParams reads name and arguments; absent or non-object params read as {}.
func decodeCallParams(raw json.RawMessage) callParams {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return callParams{}
	}

	var p callParams
	if rawName, ok := fields["name"]; ok {
		_ = json.Unmarshal(rawName, &p.name)
	}
	if rawArgs, ok := fields["arguments"]; ok {
		dec := json.NewDecoder(bytes.NewReader(rawArgs))
		dec.UseNumber()
		_ = dec.Decode(&p.arguments)
	}
	return p
}

// toolArguments coerces decoded arguments to a map; absent or null arguments read as {}.
func toolArguments(tool ToolName, arguments any) (map[string]any, error) {
	switch args := arguments.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return args, nil
	default:
		return nil, &ValidationError{
			Tool:   tool,
			Issues: []FieldIssue{{Field: "arguments", Message: "must be an object"}},
		}
	}
}

func (d *Dispatcher) callTool(ctx context.Context, id json.RawMessage, rawParams json.RawMessage, credential string) Response {
	params := decodeCallParams(rawParams)
	logger := d.logger.ForContext(ctx)

	if strings.TrimSpace(credential) == "" {
		logger.Warn().Str("tool", params.name).Msg("tools/call rejected: missing API key")
		return errorResponse(id, unauthorizedError())
	}

	handler, ok := d.registry.Lookup(params.name)
	if !ok {
		logger.Warn().Str("tool", params.name).Msg("tools/call rejected: unknown tool")
		return errorResponse(id, unknownToolError(params.name, d.registry.Names()))
	}

	start := time.Now()
	args, err := toolArguments(ToolName(params.name), params.arguments)
	if err == nil {
		var result *mcp.CallToolResult
		result, err = handler(ctx, credential, args)
		if err == nil {
			logger.Info().
				Str("tool", params.name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("tool call completed")
			return resultResponse(id, result)
		}
	}

	rpcErr := classifyError(err)
	logger.Warn().
		Str("tool", params.name).
		Int("code", rpcErr.Code).
		Str("error", err.Error()).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("tool call failed")
	return errorResponse(id, rpcErr)
}
