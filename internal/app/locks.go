package app

import (
	"math/big"

	abci "github.com/cometbft/cometbft/abci/types"

	errorsmod "cosmossdk.io/errors"

	"github.com/acuity-network/atomicswap/internal/codec"
	"github.com/acuity-network/atomicswap/internal/state"
	"github.com/acuity-network/atomicswap/internal/swapid"
)

func parseHashedSecret(s string) (swapid.HashedSecret, error) {
	h, err := swapid.ParseHashedSecret(s)
	if err != nil {
		return h, errorsmod.Wrap(ErrInvalidRequest, err.Error())
	}
	return h, nil
}

func lockIDFor(sender, recipient string, hashedSecret swapid.HashedSecret, timeout int64) (swapid.LockID, error) {
	senderID, err := swapid.ParseAccountID(sender)
	if err != nil {
		return swapid.LockID{}, errorsmod.Wrap(ErrInvalidRequest, err.Error())
	}
	recipientID, err := swapid.ParseAccountID(recipient)
	if err != nil {
		return swapid.LockID{}, errorsmod.Wrap(ErrInvalidRequest, err.Error())
	}
	return swapid.ComputeLockID(senderID, recipientID, hashedSecret, timeout), nil
}

// handleLockBuy escrows value straight from the caller's plain balance,
// redeemable by recipient on presentation of the secret before timeout.
// sellAsset/sellPrice name the listing the buyer intends to fill off-chain
// and are carried only as event metadata; this operation never touches the
// order book itself.
func (a *App) handleLockBuy(caller string, msg codec.LockBuyTx, height int64) *abci.ExecTxResult {
	if msg.Value == 0 {
		return errResult(ErrZeroValue)
	}
	hashedSecret, err := parseHashedSecret(msg.HashedSecret)
	if err != nil {
		return errResult(err)
	}
	id, err := lockIDFor(caller, msg.Recipient, hashedSecret, msg.Timeout)
	if err != nil {
		return errResult(err)
	}
	key := id.Hex()
	if _, exists := a.st.LockValues[key]; exists {
		return errResult(ErrLockAlreadyExists)
	}
	escrow := swapid.EscrowAccount().Hex()
	if err := a.transfer(caller, escrow, msg.Value); err != nil {
		return errResult(err)
	}
	a.st.LockValues[key] = &state.LockRecord{
		Sender:       caller,
		Recipient:    msg.Recipient,
		HashedSecret: msg.HashedSecret,
		Timeout:      msg.Timeout,
		Value:        msg.Value,
	}
	a.st.IndexAccount(caller, height)
	a.st.IndexAccount(msg.Recipient, height)
	sellPrice := new(big.Int).Lsh(new(big.Int).SetUint64(msg.SellPrice.Hi), 64)
	sellPrice.Or(sellPrice, new(big.Int).SetUint64(msg.SellPrice.Lo))
	return okEvent("BuyLock", map[string]string{
		"lockId":       key,
		"sender":       caller,
		"recipient":    msg.Recipient,
		"hashedSecret": msg.HashedSecret,
		"timeout":      int64str(msg.Timeout),
		"value":        uint64str(msg.Value),
		"sellAsset":    msg.SellAsset,
		"sellPrice":    sellPrice.String(),
	})
}

// handleLockSell draws value from the caller's stash instead of their plain
// balance, locking it for recipient on the same terms. buyLockId names the
// counterpart buy-side lock this fills off-chain and is carried only as
// event metadata.
func (a *App) handleLockSell(caller string, msg codec.LockSellTx, height int64) *abci.ExecTxResult {
	if msg.Value == 0 {
		return errResult(ErrZeroValue)
	}
	hashedSecret, err := parseHashedSecret(msg.HashedSecret)
	if err != nil {
		return errResult(err)
	}
	id, err := lockIDFor(caller, msg.Recipient, hashedSecret, msg.Timeout)
	if err != nil {
		return errResult(err)
	}
	key := id.Hex()
	if _, exists := a.st.LockValues[key]; exists {
		return errResult(ErrLockAlreadyExists)
	}
	current := a.st.StashValue(msg.StashAsset, caller)
	if current < msg.Value {
		return errResult(ErrStashNotBigEnough)
	}
	a.st.SetStashValue(msg.StashAsset, caller, current-msg.Value)
	a.st.LockValues[key] = &state.LockRecord{
		Sender:       caller,
		Recipient:    msg.Recipient,
		HashedSecret: msg.HashedSecret,
		Timeout:      msg.Timeout,
		Value:        msg.Value,
	}
	a.st.IndexAccount(caller, height)
	a.st.IndexAccount(msg.Recipient, height)
	return okEvent("SellLock", map[string]string{
		"lockId":       key,
		"sender":       caller,
		"recipient":    msg.Recipient,
		"hashedSecret": msg.HashedSecret,
		"timeout":      int64str(msg.Timeout),
		"value":        uint64str(msg.Value),
		"buyLockId":    msg.BuyLockID,
	})
}

// handleUnlockBySender lets the lock's own sender redeem it early, before
// timeout, by revealing the secret — paying the recipient directly instead
// of waiting on the recipient to claim it.
func (a *App) handleUnlockBySender(caller string, msg codec.UnlockBySenderTx, height int64, now int64) *abci.ExecTxResult {
	secret, err := swapid.ParseSecret(msg.Secret)
	if err != nil {
		return errResult(errorsmod.Wrap(ErrInvalidRequest, err.Error()))
	}
	hashedSecret := swapid.ComputeHashSecret(secret)
	id, err := lockIDFor(caller, msg.Recipient, hashedSecret, msg.Timeout)
	if err != nil {
		return errResult(err)
	}
	key := id.Hex()
	lock, exists := a.st.LockValues[key]
	if !exists {
		return errResult(ErrLockDoesNotExist)
	}
	if now >= lock.Timeout {
		return errResult(ErrLockTimedOut)
	}
	if err := a.transfer(swapid.EscrowAccount().Hex(), lock.Recipient, lock.Value); err != nil {
		return errResult(err)
	}
	delete(a.st.LockValues, key)
	a.st.IndexAccount(caller, height)
	a.st.IndexAccount(lock.Recipient, height)
	return okEvent("Unlock", map[string]string{
		"lockId":    key,
		"sender":    caller,
		"recipient": lock.Recipient,
		"secret":    msg.Secret,
		"value":     uint64str(lock.Value),
	})
}

// handleUnlockByRecipient lets the recipient claim the lock by revealing
// the secret, before timeout.
func (a *App) handleUnlockByRecipient(caller string, msg codec.UnlockByRecipientTx, height int64, now int64) *abci.ExecTxResult {
	secret, err := swapid.ParseSecret(msg.Secret)
	if err != nil {
		return errResult(errorsmod.Wrap(ErrInvalidRequest, err.Error()))
	}
	hashedSecret := swapid.ComputeHashSecret(secret)
	id, err := lockIDFor(msg.Sender, caller, hashedSecret, msg.Timeout)
	if err != nil {
		return errResult(err)
	}
	key := id.Hex()
	lock, exists := a.st.LockValues[key]
	if !exists {
		return errResult(ErrLockDoesNotExist)
	}
	if now >= lock.Timeout {
		return errResult(ErrLockTimedOut)
	}
	if err := a.transfer(swapid.EscrowAccount().Hex(), caller, lock.Value); err != nil {
		return errResult(err)
	}
	delete(a.st.LockValues, key)
	a.st.IndexAccount(caller, height)
	a.st.IndexAccount(lock.Sender, height)
	return okEvent("Unlock", map[string]string{
		"lockId":    key,
		"sender":    lock.Sender,
		"recipient": caller,
		"secret":    msg.Secret,
		"value":     uint64str(lock.Value),
	})
}

// handleDeclineByRecipient lets the recipient refuse a lock; value returns
// to the sender immediately, regardless of timeout.
func (a *App) handleDeclineByRecipient(caller string, msg codec.DeclineByRecipientTx, height int64) *abci.ExecTxResult {
	hashedSecret, err := parseHashedSecret(msg.HashedSecret)
	if err != nil {
		return errResult(err)
	}
	id, err := lockIDFor(msg.Sender, caller, hashedSecret, msg.Timeout)
	if err != nil {
		return errResult(err)
	}
	key := id.Hex()
	lock, exists := a.st.LockValues[key]
	if !exists {
		return errResult(ErrLockDoesNotExist)
	}
	if err := a.transfer(swapid.EscrowAccount().Hex(), lock.Sender, lock.Value); err != nil {
		return errResult(err)
	}
	delete(a.st.LockValues, key)
	a.st.IndexAccount(caller, height)
	a.st.IndexAccount(lock.Sender, height)
	return okEvent("Decline", map[string]string{
		"lockId":    key,
		"sender":    lock.Sender,
		"recipient": caller,
		"value":     uint64str(lock.Value),
	})
}

// handleTimeoutValue returns a timed-out lock's value to its recorded
// sender's plain balance. Any registered account may submit this; funds
// always flow to the lock's sender, never to the caller.
func (a *App) handleTimeoutValue(caller string, msg codec.TimeoutValueTx, height int64, now int64) *abci.ExecTxResult {
	hashedSecret, err := parseHashedSecret(msg.HashedSecret)
	if err != nil {
		return errResult(err)
	}
	id, err := lockIDFor(msg.Sender, msg.Recipient, hashedSecret, msg.Timeout)
	if err != nil {
		return errResult(err)
	}
	key := id.Hex()
	lock, exists := a.st.LockValues[key]
	if !exists {
		return errResult(ErrLockDoesNotExist)
	}
	if now < lock.Timeout {
		return errResult(ErrLockNotTimedOut)
	}
	if err := a.transfer(swapid.EscrowAccount().Hex(), lock.Sender, lock.Value); err != nil {
		return errResult(err)
	}
	delete(a.st.LockValues, key)
	a.st.IndexAccount(caller, height)
	a.st.IndexAccount(lock.Sender, height)
	return okEvent("Timeout", map[string]string{
		"lockId": key,
		"sender": lock.Sender,
		"caller": caller,
		"value":  uint64str(lock.Value),
	})
}

// handleTimeoutStash returns a timed-out lock's value to its recorded
// sender's stash for stashAsset instead of their plain balance.
func (a *App) handleTimeoutStash(caller string, msg codec.TimeoutStashTx, height int64, now int64) *abci.ExecTxResult {
	hashedSecret, err := parseHashedSecret(msg.HashedSecret)
	if err != nil {
		return errResult(err)
	}
	id, err := lockIDFor(msg.Sender, msg.Recipient, hashedSecret, msg.Timeout)
	if err != nil {
		return errResult(err)
	}
	key := id.Hex()
	lock, exists := a.st.LockValues[key]
	if !exists {
		return errResult(ErrLockDoesNotExist)
	}
	if now < lock.Timeout {
		return errResult(ErrLockNotTimedOut)
	}
	newTotal := a.st.StashValue(msg.StashAsset, lock.Sender) + lock.Value
	a.st.SetStashValue(msg.StashAsset, lock.Sender, newTotal)
	delete(a.st.LockValues, key)
	a.st.IndexAccount(caller, height)
	a.st.IndexAccount(lock.Sender, height)
	return okEvent("Timeout", map[string]string{
		"lockId": key,
		"sender": lock.Sender,
		"caller": caller,
		"asset":  msg.StashAsset,
		"value":  uint64str(lock.Value),
		"total":  uint64str(newTotal),
	})
}
