// Package mcp implements the JSON-RPC 2.0 / Model Context Protocol core of the gateway:
// the request envelope, the method dispatcher, the weather tool registry and the
// HTTP adapter for the /mcp endpoint.
package mcp

import (
	"bytes"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// Supported JSON-RPC methods.
const (
	MethodInitialize = "initialize"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"
)

// supportedMethods is reported in method-not-found errors, in this order.
var supportedMethods = []string{MethodInitialize, MethodToolsList, MethodToolsCall}

// unknownID is echoed when the request carried no usable id.
var unknownID = json.RawMessage(`"unknown"`)

// Request is one inbound JSON-RPC 2.0 request.
// ID and Params are kept raw so numbers and strings round-trip exactly.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// InitializeResult is the result of the initialize handshake.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    Capabilities       `json:"capabilities"`
	ServerInfo      mcp.Implementation `json:"serverInfo"`
}

// Capabilities advertises what the server supports.
type Capabilities struct {
	Tools ToolsCapability `json:"tools"`
}

// ToolsCapability describes tool support.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ToolsListResult is the result of tools/list.
type ToolsListResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

// responseID returns the id to echo: the request id, or "unknown" when it is absent or null.
func responseID(id json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(id)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return unknownID
	}
	return trimmed
}

func resultResponse(id json.RawMessage, result any) Response {
	return Response{JSONRPC: mcp.JSONRPC_VERSION, ID: id, Result: result}
}

func errorResponse(id json.RawMessage, rpcErr *RPCError) Response {
	return Response{JSONRPC: mcp.JSONRPC_VERSION, ID: id, Error: rpcErr}
}
