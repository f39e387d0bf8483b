package models

import "encoding/json"

// JSONRPCRequest represents a JSON-RPC request
type JSONRPCRequest struct {
	ID      interface{} `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	Jsonrpc string      `json:"jsonrpc"`
}

// JSONRPCError is the error object of a JSON-RPC response
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	ID      interface{}     `json:"id"`
	Jsonrpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// EthCall is the call object passed to eth_call
type EthCall struct {
	To   string `json:"to"`
	Data string `json:"data"`
}
