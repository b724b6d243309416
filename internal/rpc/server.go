// Package rpc provides a read-only JSON-RPC 2.0 facade over the swap
// module's committed state, for clients that would rather not speak raw
// ABCI Query paths.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/acuity-network/atomicswap/internal/app"
	"github.com/acuity-network/atomicswap/pkg/logging"
)

// Handler is a JSON-RPC method handler.
type Handler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error represents a JSON-RPC 2.0 error.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// Server is a JSON-RPC 2.0 server backed directly by a live *app.App,
// mirrored as a set of plain REST routes for clients that prefer those.
type Server struct {
	app *app.App
	log *logging.Logger

	server   *http.Server
	listener net.Listener

	handlers map[string]Handler
	mu       sync.RWMutex
}

func NewServer(a *app.App) *Server {
	s := &Server{
		app:      a,
		log:      logging.GetDefault().Component("rpc"),
		handlers: make(map[string]Handler),
	}
	s.registerHandlers()
	return s
}

func (s *Server) registerHandlers() {
	s.handlers["atomicSwap_getStashes"] = s.getStashes
	s.handlers["atomicSwap_getIndexBlocks"] = s.getIndexBlocks
	s.handlers["atomicSwap_getOrder"] = s.getOrder
	s.handlers["atomicSwap_getLock"] = s.getLock
	s.handlers["atomicSwap_getAccount"] = s.getAccount
}

// Start binds addr and begins serving both the JSON-RPC endpoint at POST /
// and the mirrored REST routes under /v1.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("rpc: listen on %s: %w", addr, err)
	}
	s.listener = listener

	router := mux.NewRouter()
	router.HandleFunc("/", s.handleRPC).Methods(http.MethodPost)
	router.HandleFunc("/v1/stashes/{asset}", s.restGetStashes).Methods(http.MethodGet)
	router.HandleFunc("/v1/index/{account}", s.restGetIndexBlocks).Methods(http.MethodGet)
	router.HandleFunc("/v1/orders/{orderId}", s.restGetOrder).Methods(http.MethodGet)
	router.HandleFunc("/v1/locks/{lockId}", s.restGetLock).Methods(http.MethodGet)
	router.HandleFunc("/v1/accounts/{account}", s.restGetAccount).Methods(http.MethodGet)

	s.server = &http.Server{
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("rpc server stopped", "err", err)
		}
	}()

	s.log.Info("rpc facade started", "addr", addr)
	return nil
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, nil, ParseError, "parse error", nil)
		return
	}
	if req.JSONRPC != "2.0" {
		s.writeError(w, req.ID, InvalidRequest, "invalid request", nil)
		return
	}

	s.mu.RLock()
	handler, ok := s.handlers[req.Method]
	s.mu.RUnlock()
	if !ok {
		s.writeError(w, req.ID, MethodNotFound, "method not found", req.Method)
		return
	}

	result, err := handler(r.Context(), req.Params)
	if err != nil {
		s.writeError(w, req.ID, InternalError, err.Error(), nil)
		return
	}
	s.writeResult(w, req.ID, result)
}

func (s *Server) writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{JSONRPC: "2.0", Result: result, ID: id})
}

func (s *Server) writeError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{JSONRPC: "2.0", Error: &Error{Code: code, Message: message, Data: data}, ID: id})
}
