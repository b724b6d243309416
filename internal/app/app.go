// Package app implements the atomic-swap settlement module as a CometBFT
// ABCI application: a deterministic state machine driven by signed
// transaction envelopes, one per lock/order/stash/index operation.
package app

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/google/uuid"

	"github.com/acuity-network/atomicswap/internal/state"
	"github.com/acuity-network/atomicswap/pkg/logging"
)

const AppVersion uint64 = 1

// App is the swap module's ABCI application. One instance drives one
// chain's worth of state; CometBFT guarantees it is only ever invoked by
// a single consensus thread, so the mutex exists for safety against
// concurrent RPC facade reads, not against concurrent block execution.
type App struct {
	*abci.BaseApplication

	home string
	log  *logging.Logger

	nodeID string

	mu       sync.Mutex
	st       *state.State
	lastHash []byte
}

func New(home string, log *logging.Logger) (*App, error) {
	if log == nil {
		log = logging.GetDefault()
	}
	appHome := filepath.Join(home, "app")
	st, err := state.Load(appHome)
	if err != nil {
		return nil, err
	}
	a := &App{
		BaseApplication: abci.NewBaseApplication(),
		home:            home,
		log:             log.Component("app"),
		nodeID:          uuid.NewString(),
		st:              st,
		lastHash:        st.AppHash(),
	}
	return a, nil
}

// State returns the live, mutex-guarded state for read-only callers such
// as the RPC facade. Callers must not mutate the returned pointer's maps.
func (a *App) State() (*state.State, func()) {
	a.mu.Lock()
	return a.st, a.mu.Unlock
}

func (a *App) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &abci.InfoResponse{
		Data:             "acuity-atomicswap (node " + a.nodeID + ")",
		Version:          "v1",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.st.Height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

func (a *App) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	if _, err := decodeOrReject(req.Tx); err != nil {
		return &abci.CheckTxResponse{Code: 1, Log: err.Error()}, nil
	}
	return &abci.CheckTxResponse{Code: 0}, nil
}

func (a *App) InitChain(_ context.Context, _ *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	// v0: no special genesis handling. Account balances enter the ledger
	// through whatever external bridge or faucet process front-runs this
	// module; it only custodies value once an account already holds some.
	return &abci.InitChainResponse{}, nil
}

func (a *App) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.Height = req.Height

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		res := a.deliverTx(txBytes, req.Height, req.Time.Unix())
		txResults = append(txResults, res)
	}

	a.lastHash = a.st.AppHash()

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *App) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	appHome := filepath.Join(a.home, "app")
	if err := a.st.Save(appHome); err != nil {
		a.log.Error("commit: failed to persist state", "err", err)
		return nil, err
	}
	return &abci.CommitResponse{}, nil
}

// Query serves read-only lookups against the last committed state. Paths:
//
//	/stashes/<asset-hex>?offset=<n>&limit=<n>
//	/index/<account>
//	/order/<order-id-hex>
//	/lock/<lock-id-hex>
//	/account/<account>
func (a *App) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := strings.TrimSpace(req.Path)
	switch {
	case strings.HasPrefix(path, "/stashes/"):
		rest := strings.TrimPrefix(path, "/stashes/")
		asset, query := splitPathQuery(rest)
		offset, limit := parseOffsetLimit(query)
		entries := a.st.GetStashes(asset, offset, limit)
		b, _ := json.Marshal(entries)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil

	case strings.HasPrefix(path, "/index/"):
		account := strings.TrimPrefix(path, "/index/")
		blocks := a.st.IndexBlocks(account)
		b, _ := json.Marshal(blocks)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil

	case strings.HasPrefix(path, "/order/"):
		id := strings.TrimPrefix(path, "/order/")
		val, ok := a.st.OrderValues[id]
		if !ok {
			return &abci.QueryResponse{Code: 1, Log: "order not found", Height: a.st.Height}, nil
		}
		b, _ := json.Marshal(map[string]any{"orderId": id, "value": val})
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil

	case strings.HasPrefix(path, "/lock/"):
		id := strings.TrimPrefix(path, "/lock/")
		lock, ok := a.st.LockValues[id]
		if !ok {
			return &abci.QueryResponse{Code: 1, Log: "lock not found", Height: a.st.Height}, nil
		}
		b, _ := json.Marshal(lock)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil

	case strings.HasPrefix(path, "/account/"):
		addr := strings.TrimPrefix(path, "/account/")
		b, _ := json.Marshal(map[string]any{"account": addr, "balance": a.st.Balance(addr)})
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil

	default:
		return &abci.QueryResponse{Code: 1, Log: "unknown query path", Height: a.st.Height}, nil
	}
}

func splitPathQuery(rest string) (path string, query string) {
	if idx := strings.IndexByte(rest, '?'); idx >= 0 {
		return rest[:idx], rest[idx+1:]
	}
	return rest, ""
}

func parseOffsetLimit(query string) (offset, limit int) {
	limit = 100
	for _, kv := range strings.Split(query, "&") {
		if kv == "" {
			continue
		}
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "offset":
			if n, err := strconv.Atoi(parts[1]); err == nil {
				offset = n
			}
		case "limit":
			if n, err := strconv.Atoi(parts[1]); err == nil {
				limit = n
			}
		}
	}
	return offset, limit
}
