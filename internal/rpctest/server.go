// Package rpctest runs an in-process Solana JSON-RPC endpoint for tests.
package rpctest

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Call is one request received by the server.
type Call struct {
	Method string
	Params []json.RawMessage
}

// Error is a JSON-RPC error object returned by a Handler.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Handler produces the result for one call.
type Handler func(params []json.RawMessage) (any, *Error)

// InterceptFunc sees every call before its handler. Returning true means it
// has written the response itself, which is how tests inject HTTP-level
// failures such as rate limiting.
type InterceptFunc func(w http.ResponseWriter, call Call) bool

// Server is a mock JSON-RPC endpoint.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	handlers  map[string]Handler
	intercept InterceptFunc
	calls     []Call
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{handlers: map[string]Handler{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers h for method.
func (s *Server) Handle(method string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

// HandleResult makes method always return result.
func (s *Server) HandleResult(method string, result any) {
	s.Handle(method, func([]json.RawMessage) (any, *Error) { return result, nil })
}

// HandleError makes method always fail with an RPC error.
func (s *Server) HandleError(method string, code int, message string) {
	s.Handle(method, func([]json.RawMessage) (any, *Error) {
		return nil, &Error{Code: code, Message: message}
	})
}

// Intercept installs fn ahead of every handler.
func (s *Server) Intercept(fn InterceptFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intercept = fn
}

// Calls returns the recorded calls of method, or all calls when method is
// empty.
func (s *Server) Calls(method string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

type request struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, map[string]any{"jsonrpc": "2.0", "id": nil,
			"error": Error{Code: -32700, Message: "parse error"}})
		return
	}
	call := Call{Method: req.Method, Params: req.Params}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	intercept := s.intercept
	h, ok := s.handlers[req.Method]
	s.mu.Unlock()

	if intercept != nil && intercept(w, call) {
		return
	}

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = Error{Code: -32601, Message: "Method not found"}
		writeJSON(w, resp)
		return
	}
	result, rpcErr := h(req.Params)
	if rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// ContextValue wraps v in the {"context":..., "value":...} envelope.
func ContextValue(v any) map[string]any {
	return map[string]any{
		"context": map[string]any{"slot": 1},
		"value":   v,
	}
}

// AccountInfo builds a getAccountInfo value with base64 data.
func AccountInfo(owner string, data []byte) map[string]any {
	return map[string]any{
		"owner":      owner,
		"lamports":   2039280,
		"executable": false,
		"rentEpoch":  0,
		"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
	}
}

// TokenAccount builds one jsonParsed getTokenAccountsByOwner entry.
func TokenAccount(pubkey, mint, owner, amount string, decimals uint8) map[string]any {
	return map[string]any{
		"pubkey": pubkey,
		"account": map[string]any{
			"owner": "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
			"data": map[string]any{
				"program": "spl-token",
				"parsed": map[string]any{
					"type": "account",
					"info": map[string]any{
						"mint":  mint,
						"owner": owner,
						"state": "initialized",
						"tokenAmount": map[string]any{
							"amount":   amount,
							"decimals": decimals,
						},
					},
				},
			},
		},
	}
}

// SignatureStatus builds one getSignatureStatuses entry.
func SignatureStatus(slot uint64, status string, txErr any) map[string]any {
	return map[string]any{
		"slot":               slot,
		"confirmations":      nil,
		"err":                txErr,
		"confirmationStatus": status,
	}
}
