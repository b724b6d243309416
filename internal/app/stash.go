package app

import (
	abci "github.com/cometbft/cometbft/abci/types"

	errorsmod "cosmossdk.io/errors"

	"github.com/acuity-network/atomicswap/internal/codec"
	"github.com/acuity-network/atomicswap/internal/swapid"
)

// handleDepositStash moves value from the caller's plain balance into
// escrow and credits it to their stash for one asset. Both the add and
// remove side of a ranking change emit unconditionally, even when the
// account's rank position does not change — callers observe every
// mutation, not just the ones that moved the list.
func (a *App) handleDepositStash(caller string, msg codec.DepositStashTx, height int64) *abci.ExecTxResult {
	if msg.Value == 0 {
		return errResult(ErrZeroValue)
	}
	if _, err := swapid.ParseAssetID(msg.Asset); err != nil {
		return errResult(errorsmod.Wrap(ErrInvalidRequest, err.Error()))
	}
	escrow := swapid.EscrowAccount().Hex()
	if err := a.transfer(caller, escrow, msg.Value); err != nil {
		return errResult(err)
	}
	newTotal := a.st.StashValue(msg.Asset, caller) + msg.Value
	a.st.SetStashValue(msg.Asset, caller, newTotal)
	a.st.IndexAccount(caller, height)
	return okEvent("StashAdd", map[string]string{
		"account": caller,
		"asset":   msg.Asset,
		"value":   uint64str(msg.Value),
		"total":   uint64str(newTotal),
	})
}

// handleWithdrawStash removes value from the caller's stash back to their
// plain balance.
func (a *App) handleWithdrawStash(caller string, msg codec.WithdrawStashTx, height int64) *abci.ExecTxResult {
	if msg.Value == 0 {
		return errResult(ErrZeroValue)
	}
	current := a.st.StashValue(msg.Asset, caller)
	if current < msg.Value {
		return errResult(ErrStashNotBigEnough)
	}
	escrow := swapid.EscrowAccount().Hex()
	if err := a.transfer(escrow, caller, msg.Value); err != nil {
		return errResult(err)
	}
	newTotal := current - msg.Value
	a.st.SetStashValue(msg.Asset, caller, newTotal)
	a.st.IndexAccount(caller, height)
	return okEvent("StashRemove", map[string]string{
		"account": caller,
		"asset":   msg.Asset,
		"value":   uint64str(msg.Value),
		"total":   uint64str(newTotal),
	})
}

// handleWithdrawStashAll drains the caller's entire stash for one asset.
func (a *App) handleWithdrawStashAll(caller string, msg codec.WithdrawStashAllTx, height int64) *abci.ExecTxResult {
	current := a.st.StashValue(msg.Asset, caller)
	if current == 0 {
		return errResult(ErrStashNotBigEnough)
	}
	escrow := swapid.EscrowAccount().Hex()
	if err := a.transfer(escrow, caller, current); err != nil {
		return errResult(err)
	}
	a.st.SetStashValue(msg.Asset, caller, 0)
	a.st.IndexAccount(caller, height)
	return okEvent("StashRemove", map[string]string{
		"account": caller,
		"asset":   msg.Asset,
		"value":   uint64str(current),
		"total":   "0",
	})
}

// handleMoveStash atomically moves stash value from one asset to another
// for the same caller; no escrow transfer is needed since the funds never
// leave escrow custody.
func (a *App) handleMoveStash(caller string, msg codec.MoveStashTx, height int64) *abci.ExecTxResult {
	if msg.Value == 0 {
		return errResult(ErrZeroValue)
	}
	fromCurrent := a.st.StashValue(msg.FromAsset, caller)
	if fromCurrent < msg.Value {
		return errResult(ErrStashNotBigEnough)
	}
	fromTotal := fromCurrent - msg.Value
	a.st.SetStashValue(msg.FromAsset, caller, fromTotal)
	toTotal := a.st.StashValue(msg.ToAsset, caller) + msg.Value
	a.st.SetStashValue(msg.ToAsset, caller, toTotal)
	a.st.IndexAccount(caller, height)

	return okEvents(
		buildEvent("StashRemove", map[string]string{
			"account": caller,
			"asset":   msg.FromAsset,
			"value":   uint64str(msg.Value),
			"total":   uint64str(fromTotal),
		}),
		buildEvent("StashAdd", map[string]string{
			"account": caller,
			"asset":   msg.ToAsset,
			"value":   uint64str(msg.Value),
			"total":   uint64str(toTotal),
		}),
	)
}
