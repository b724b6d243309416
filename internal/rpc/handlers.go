package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type stashesParams struct {
	Asset  string `json:"asset"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

func (s *Server) getStashes(_ context.Context, params json.RawMessage) (interface{}, error) {
	var p stashesParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("atomicSwap_getStashes: %w", err)
		}
	}
	if p.Limit <= 0 {
		p.Limit = 100
	}
	st, release := s.app.State()
	defer release()
	return st.GetStashes(p.Asset, p.Offset, p.Limit), nil
}

type indexParams struct {
	Account string `json:"account"`
}

func (s *Server) getIndexBlocks(_ context.Context, params json.RawMessage) (interface{}, error) {
	var p indexParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("atomicSwap_getIndexBlocks: %w", err)
	}
	st, release := s.app.State()
	defer release()
	return st.IndexBlocks(p.Account), nil
}

type orderParams struct {
	OrderID string `json:"orderId"`
}

func (s *Server) getOrder(_ context.Context, params json.RawMessage) (interface{}, error) {
	var p orderParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("atomicSwap_getOrder: %w", err)
	}
	st, release := s.app.State()
	defer release()
	value, ok := st.OrderValues[p.OrderID]
	if !ok {
		return nil, fmt.Errorf("order not found: %s", p.OrderID)
	}
	return map[string]any{"orderId": p.OrderID, "value": value}, nil
}

type lockParams struct {
	LockID string `json:"lockId"`
}

func (s *Server) getLock(_ context.Context, params json.RawMessage) (interface{}, error) {
	var p lockParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("atomicSwap_getLock: %w", err)
	}
	st, release := s.app.State()
	defer release()
	lock, ok := st.LockValues[p.LockID]
	if !ok {
		return nil, fmt.Errorf("lock not found: %s", p.LockID)
	}
	return lock, nil
}

type accountParams struct {
	Account string `json:"account"`
}

func (s *Server) getAccount(_ context.Context, params json.RawMessage) (interface{}, error) {
	var p accountParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("atomicSwap_getAccount: %w", err)
	}
	st, release := s.app.State()
	defer release()
	return map[string]any{"account": p.Account, "balance": st.Balance(p.Account)}, nil
}

// ---- REST mirrors ----

func (s *Server) restGetStashes(w http.ResponseWriter, r *http.Request) {
	asset := mux.Vars(r)["asset"]
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	st, release := s.app.State()
	defer release()
	writeJSON(w, http.StatusOK, st.GetStashes(asset, offset, limit))
}

func (s *Server) restGetIndexBlocks(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]
	st, release := s.app.State()
	defer release()
	writeJSON(w, http.StatusOK, st.IndexBlocks(account))
}

func (s *Server) restGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]
	st, release := s.app.State()
	value, ok := st.OrderValues[orderID]
	release()
	if !ok {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orderId": orderID, "value": value})
}

func (s *Server) restGetLock(w http.ResponseWriter, r *http.Request) {
	lockID := mux.Vars(r)["lockId"]
	st, release := s.app.State()
	lock, ok := st.LockValues[lockID]
	release()
	if !ok {
		http.Error(w, "lock not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, lock)
}

func (s *Server) restGetAccount(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]
	st, release := s.app.State()
	balance := st.Balance(account)
	release()
	writeJSON(w, http.StatusOK, map[string]any{"account": account, "balance": balance})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
