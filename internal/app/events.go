package app

import (
	"sort"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"
)

// uint64str formats a value for an event attribute.
func uint64str(v uint64) string { return strconv.FormatUint(v, 10) }

// int64str formats a block height or timeout for an event attribute.
func int64str(v int64) string { return strconv.FormatInt(v, 10) }

// okEvent builds a successful ExecTxResult carrying one event with sorted,
// indexed attributes.
func okEvent(typ string, attrs map[string]string) *abci.ExecTxResult {
	return &abci.ExecTxResult{
		Code:   0,
		Events: []abci.Event{buildEvent(typ, attrs)},
	}
}

// okEvents builds a successful ExecTxResult carrying more than one event,
// used by change_order/change_order_all which fire both RemoveFromOrder
// and AddToOrder for a single call, and by move_stash which fires both
// StashRemove and StashAdd.
func okEvents(events ...abci.Event) *abci.ExecTxResult {
	return &abci.ExecTxResult{Code: 0, Events: events}
}

func buildEvent(typ string, attrs map[string]string) abci.Event {
	ev := abci.Event{Type: typ}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev.Attributes = append(ev.Attributes, abci.EventAttribute{Key: k, Value: attrs[k], Index: true})
	}
	return ev
}

// errResult maps a registered sentinel (or any error) to its stable
// numeric code and message. No event is attached: failed calls never emit.
func errResult(err error) *abci.ExecTxResult {
	_, code, log := errorsmod.ABCIInfo(err, false)
	return &abci.ExecTxResult{Code: code, Log: log}
}

// transfer moves value between two ledger accounts, wrapping any failure
// as ErrTransferFailed so every escrow movement surfaces one stable error
// kind regardless of which underlying ledger check rejected it.
func (a *App) transfer(from, to string, value uint64) error {
	if err := a.st.Transfer(from, to, value); err != nil {
		return errorsmod.Wrap(ErrTransferFailed, err.Error())
	}
	return nil
}
