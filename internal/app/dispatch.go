package app

import (
	"encoding/json"

	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/acuity-network/atomicswap/internal/codec"
)

func decodeOrReject(txBytes []byte) (codec.TxEnvelope, error) {
	return codec.DecodeTxEnvelope(txBytes)
}

// deliverTx decodes, authenticates, and executes one transaction,
// returning its ExecTxResult. Every branch validates fully before
// mutating a.st — on any error the function returns before touching state,
// so a failed call never leaves a partial mutation.
func (a *App) deliverTx(txBytes []byte, height int64, nowUnixOpt ...int64) *abci.ExecTxResult {
	env, err := decodeOrReject(txBytes)
	if err != nil {
		return &abci.ExecTxResult{Code: 1, Log: err.Error()}
	}

	a.st.Height = height
	now := height
	if len(nowUnixOpt) > 0 {
		now = nowUnixOpt[0]
	}

	switch env.Type {
	case "auth/register_account":
		var msg codec.AuthRegisterAccountTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireRegisterAccountAuth(env, msg); err != nil {
			return errResult(err)
		}
		return a.handleRegisterAccount(msg)

	case "deposit_stash":
		var msg codec.DepositStashTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleDepositStash(env.Signer, msg, height)

	case "withdraw_stash":
		var msg codec.WithdrawStashTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleWithdrawStash(env.Signer, msg, height)

	case "withdraw_stash_all":
		var msg codec.WithdrawStashAllTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleWithdrawStashAll(env.Signer, msg, height)

	case "move_stash":
		var msg codec.MoveStashTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleMoveStash(env.Signer, msg, height)

	case "add_to_order":
		var msg codec.AddToOrderTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleAddToOrder(env.Signer, msg, height)

	case "remove_from_order":
		var msg codec.RemoveFromOrderTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleRemoveFromOrder(env.Signer, msg, height)

	case "remove_from_order_all":
		var msg codec.RemoveFromOrderAllTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleRemoveFromOrderAll(env.Signer, msg, height)

	case "change_order":
		var msg codec.ChangeOrderTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleChangeOrder(env.Signer, msg, height)

	case "change_order_all":
		var msg codec.ChangeOrderAllTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleChangeOrderAll(env.Signer, msg, height)

	case "lock_buy":
		var msg codec.LockBuyTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleLockBuy(env.Signer, msg, height)

	case "lock_sell":
		var msg codec.LockSellTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleLockSell(env.Signer, msg, height)

	case "unlock_by_sender":
		var msg codec.UnlockBySenderTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleUnlockBySender(env.Signer, msg, height, now)

	case "unlock_by_recipient":
		var msg codec.UnlockByRecipientTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleUnlockByRecipient(env.Signer, msg, height, now)

	case "decline_by_recipient":
		var msg codec.DeclineByRecipientTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAccountAuth(a.st, env, env.Signer); err != nil {
			return errResult(err)
		}
		return a.handleDeclineByRecipient(env.Signer, msg, height)

	case "timeout_value":
		var msg codec.TimeoutValueTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAnySignedAccount(a.st, env); err != nil {
			return errResult(err)
		}
		return a.handleTimeoutValue(env.Signer, msg, height, now)

	case "timeout_stash":
		var msg codec.TimeoutStashTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return errResult(ErrInvalidRequest)
		}
		if err := requireAnySignedAccount(a.st, env); err != nil {
			return errResult(err)
		}
		return a.handleTimeoutStash(env.Signer, msg, height, now)

	default:
		return &abci.ExecTxResult{Code: 1, Log: "unknown tx type: " + env.Type}
	}
}

func (a *App) handleRegisterAccount(msg codec.AuthRegisterAccountTx) *abci.ExecTxResult {
	if existing := a.st.AccountKeys[msg.Account]; len(existing) != 0 {
		if string(existing) != string(msg.PubKey) {
			return errResult(ErrAccountKeyAlreadySet)
		}
		return okEvent("AccountKeyRegistered", map[string]string{
			"account":  msg.Account,
			"existing": "true",
		})
	}
	a.st.AccountKeys[msg.Account] = append([]byte(nil), msg.PubKey...)
	return okEvent("AccountKeyRegistered", map[string]string{"account": msg.Account})
}
