package app

import (
	abci "github.com/cometbft/cometbft/abci/types"

	errorsmod "cosmossdk.io/errors"

	"github.com/acuity-network/atomicswap/internal/codec"
	"github.com/acuity-network/atomicswap/internal/swapid"
)

func toPrice128(p codec.Price) swapid.Price128 {
	return swapid.Price128{Lo: p.Lo, Hi: p.Hi}
}

// resolveOrderID parses the seller/asset/foreignAddress strings and derives
// the order id the seller, asset, price and foreign address resolve to.
func resolveOrderID(seller, asset string, price codec.Price, foreignAddress string) (swapid.OrderID, error) {
	sellerID, err := swapid.ParseAccountID(seller)
	if err != nil {
		return swapid.OrderID{}, errorsmod.Wrap(ErrInvalidRequest, err.Error())
	}
	assetID, err := swapid.ParseAssetID(asset)
	if err != nil {
		return swapid.OrderID{}, errorsmod.Wrap(ErrInvalidRequest, err.Error())
	}
	foreignID, err := swapid.ParseForeignAddress(foreignAddress)
	if err != nil {
		return swapid.OrderID{}, errorsmod.Wrap(ErrInvalidRequest, err.Error())
	}
	id, err := swapid.ComputeOrderID(sellerID, assetID, toPrice128(price), foreignID)
	if err != nil {
		return swapid.OrderID{}, errorsmod.Wrap(ErrInvalidRequest, err.Error())
	}
	return id, nil
}

// handleAddToOrder moves value from the caller's plain balance into escrow
// and credits it to their standing sell order.
func (a *App) handleAddToOrder(caller string, msg codec.AddToOrderTx, height int64) *abci.ExecTxResult {
	if msg.Value == 0 {
		return errResult(ErrZeroValue)
	}
	id, err := resolveOrderID(caller, msg.Asset, msg.Price, msg.ForeignAddress)
	if err != nil {
		return errResult(err)
	}
	escrow := swapid.EscrowAccount().Hex()
	if err := a.transfer(caller, escrow, msg.Value); err != nil {
		return errResult(err)
	}
	a.st.OrderValues[id.Hex()] += msg.Value
	a.st.IndexAccount(caller, height)
	return okEvent("AddToOrder", map[string]string{
		"seller":         caller,
		"orderId":        id.Hex(),
		"asset":          msg.Asset,
		"foreignAddress": msg.ForeignAddress,
		"value":          uint64str(msg.Value),
	})
}

// handleRemoveFromOrder withdraws value from a standing order back to the
// caller's plain balance.
func (a *App) handleRemoveFromOrder(caller string, msg codec.RemoveFromOrderTx, height int64) *abci.ExecTxResult {
	if msg.Value == 0 {
		return errResult(ErrZeroValue)
	}
	id, err := resolveOrderID(caller, msg.Asset, msg.Price, msg.ForeignAddress)
	if err != nil {
		return errResult(err)
	}
	key := id.Hex()
	current := a.st.OrderValues[key]
	if current < msg.Value {
		return errResult(ErrOrderTooSmall)
	}
	escrow := swapid.EscrowAccount().Hex()
	if err := a.transfer(escrow, caller, msg.Value); err != nil {
		return errResult(err)
	}
	remaining := current - msg.Value
	if remaining == 0 {
		delete(a.st.OrderValues, key)
	} else {
		a.st.OrderValues[key] = remaining
	}
	a.st.IndexAccount(caller, height)
	return okEvent("RemoveFromOrder", map[string]string{
		"seller":         caller,
		"orderId":        key,
		"asset":          msg.Asset,
		"foreignAddress": msg.ForeignAddress,
		"value":          uint64str(msg.Value),
	})
}

// handleRemoveFromOrderAll drains an order entirely back to the caller.
func (a *App) handleRemoveFromOrderAll(caller string, msg codec.RemoveFromOrderAllTx, height int64) *abci.ExecTxResult {
	id, err := resolveOrderID(caller, msg.Asset, msg.Price, msg.ForeignAddress)
	if err != nil {
		return errResult(err)
	}
	key := id.Hex()
	value := a.st.OrderValues[key]
	if value == 0 {
		return errResult(ErrOrderTooSmall)
	}
	escrow := swapid.EscrowAccount().Hex()
	if err := a.transfer(escrow, caller, value); err != nil {
		return errResult(err)
	}
	delete(a.st.OrderValues, key)
	a.st.IndexAccount(caller, height)
	return okEvent("RemoveFromOrder", map[string]string{
		"seller":         caller,
		"orderId":        key,
		"asset":          msg.Asset,
		"foreignAddress": msg.ForeignAddress,
		"value":          uint64str(value),
	})
}

// handleChangeOrder migrates value from one listing to another, both owned
// by the caller, without moving escrow funds. Both RemoveFromOrder and
// AddToOrder fire even when old and new listings resolve to the same order
// id, so a same-id call is a documented no-op on value with an observable
// event pair, not a silent skip.
func (a *App) handleChangeOrder(caller string, msg codec.ChangeOrderTx, height int64) *abci.ExecTxResult {
	if msg.Value == 0 {
		return errResult(ErrZeroValue)
	}
	oldID, err := resolveOrderID(caller, msg.OldAsset, msg.OldPrice, msg.OldForeignAddress)
	if err != nil {
		return errResult(err)
	}
	newID, err := resolveOrderID(caller, msg.NewAsset, msg.NewPrice, msg.NewForeignAddress)
	if err != nil {
		return errResult(err)
	}
	oldKey, newKey := oldID.Hex(), newID.Hex()
	current := a.st.OrderValues[oldKey]
	if current < msg.Value {
		return errResult(ErrOrderTooSmall)
	}
	remaining := current - msg.Value
	if remaining == 0 {
		delete(a.st.OrderValues, oldKey)
	} else {
		a.st.OrderValues[oldKey] = remaining
	}
	a.st.OrderValues[newKey] += msg.Value
	a.st.IndexAccount(caller, height)

	return okEvents(
		buildEvent("RemoveFromOrder", map[string]string{
			"seller":         caller,
			"orderId":        oldKey,
			"asset":          msg.OldAsset,
			"foreignAddress": msg.OldForeignAddress,
			"value":          uint64str(msg.Value),
		}),
		buildEvent("AddToOrder", map[string]string{
			"seller":         caller,
			"orderId":        newKey,
			"asset":          msg.NewAsset,
			"foreignAddress": msg.NewForeignAddress,
			"value":          uint64str(msg.Value),
		}),
	)
}

// handleChangeOrderAll migrates an entire listing's value to another.
func (a *App) handleChangeOrderAll(caller string, msg codec.ChangeOrderAllTx, height int64) *abci.ExecTxResult {
	oldID, err := resolveOrderID(caller, msg.OldAsset, msg.OldPrice, msg.OldForeignAddress)
	if err != nil {
		return errResult(err)
	}
	newID, err := resolveOrderID(caller, msg.NewAsset, msg.NewPrice, msg.NewForeignAddress)
	if err != nil {
		return errResult(err)
	}
	oldKey, newKey := oldID.Hex(), newID.Hex()
	value := a.st.OrderValues[oldKey]
	if value == 0 {
		return errResult(ErrOrderTooSmall)
	}
	delete(a.st.OrderValues, oldKey)
	a.st.OrderValues[newKey] += value
	a.st.IndexAccount(caller, height)

	return okEvents(
		buildEvent("RemoveFromOrder", map[string]string{
			"seller":         caller,
			"orderId":        oldKey,
			"asset":          msg.OldAsset,
			"foreignAddress": msg.OldForeignAddress,
			"value":          uint64str(value),
		}),
		buildEvent("AddToOrder", map[string]string{
			"seller":         caller,
			"orderId":        newKey,
			"asset":          msg.NewAsset,
			"foreignAddress": msg.NewForeignAddress,
			"value":          uint64str(value),
		}),
	)
}
