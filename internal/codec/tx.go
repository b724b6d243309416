// Package codec decodes signed transaction envelopes and the per-operation
// payloads the dispatch layer acts on.
package codec

import (
	"encoding/json"
	"fmt"
)

// TxEnvelope is the outer, signed wrapper every transaction is submitted
// as. Value holds the operation-specific payload, decoded only once its
// Type has selected a concrete struct.
type TxEnvelope struct {
	Type   string          `json:"type"`
	Value  json.RawMessage `json:"value"`
	Nonce  string          `json:"nonce"`
	Signer string          `json:"signer"`
	Sig    []byte          `json:"sig"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("decode tx envelope: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("decode tx envelope: missing type")
	}
	return env, nil
}

// AuthRegisterAccountTx registers the ed25519 public key an account's
// future signed transactions must verify against.
type AuthRegisterAccountTx struct {
	Account string `json:"account"`
	PubKey  []byte `json:"pubKey"`
}

// DepositStashTx adds value to the caller's per-asset stash pool.
type DepositStashTx struct {
	Asset string `json:"asset"`
	Value uint64 `json:"value"`
}

// WithdrawStashTx removes value from the caller's per-asset stash pool.
type WithdrawStashTx struct {
	Asset string `json:"asset"`
	Value uint64 `json:"value"`
}

// WithdrawStashAllTx drains the caller's entire stash for one asset.
type WithdrawStashAllTx struct {
	Asset string `json:"asset"`
}

// MoveStashTx atomically moves stash value from one asset to another
// without any escrow movement.
type MoveStashTx struct {
	FromAsset string `json:"fromAsset"`
	ToAsset   string `json:"toAsset"`
	Value     uint64 `json:"value"`
}

// AddToOrderTx moves value from the caller into escrow and into their
// standing sell order for (asset, price, foreignAddress).
type AddToOrderTx struct {
	Asset          string `json:"asset"`
	Price          Price  `json:"price"`
	ForeignAddress string `json:"foreignAddress"`
	Value          uint64 `json:"value"`
}

// RemoveFromOrderTx withdraws value from a standing order back to the
// caller.
type RemoveFromOrderTx struct {
	Asset          string `json:"asset"`
	Price          Price  `json:"price"`
	ForeignAddress string `json:"foreignAddress"`
	Value          uint64 `json:"value"`
}

// RemoveFromOrderAllTx drains an order entirely.
type RemoveFromOrderAllTx struct {
	Asset          string `json:"asset"`
	Price          Price  `json:"price"`
	ForeignAddress string `json:"foreignAddress"`
}

// ChangeOrderTx migrates value from one listing to another without moving
// escrow funds.
type ChangeOrderTx struct {
	OldAsset          string `json:"oldAsset"`
	OldPrice          Price  `json:"oldPrice"`
	OldForeignAddress string `json:"oldForeignAddress"`
	NewAsset          string `json:"newAsset"`
	NewPrice          Price  `json:"newPrice"`
	NewForeignAddress string `json:"newForeignAddress"`
	Value             uint64 `json:"value"`
}

// ChangeOrderAllTx migrates an entire listing's value to another listing.
type ChangeOrderAllTx struct {
	OldAsset          string `json:"oldAsset"`
	OldPrice          Price  `json:"oldPrice"`
	OldForeignAddress string `json:"oldForeignAddress"`
	NewAsset          string `json:"newAsset"`
	NewPrice          Price  `json:"newPrice"`
	NewForeignAddress string `json:"newForeignAddress"`
}

// LockBuyTx escrows value from the caller (the buyer), redeemable by
// recipient (the seller) on presentation of the secret before timeout.
type LockBuyTx struct {
	Recipient    string `json:"recipient"`
	HashedSecret string `json:"hashedSecret"`
	Timeout      int64  `json:"timeout"`
	Value        uint64 `json:"value"`
	SellAsset    string `json:"sellAsset"`
	SellPrice    Price  `json:"sellPrice"`
}

// LockSellTx draws value from the caller's stash (already in escrow) and
// locks it for recipient (the buyer) on presentation of the secret before
// timeout.
type LockSellTx struct {
	Recipient    string `json:"recipient"`
	HashedSecret string `json:"hashedSecret"`
	Timeout      int64  `json:"timeout"`
	StashAsset   string `json:"stashAsset"`
	Value        uint64 `json:"value"`
	BuyLockID    string `json:"buyLockId"`
}

// UnlockBySenderTx lets the lock's sender redeem it early by revealing the
// secret, before timeout, paying the recipient.
type UnlockBySenderTx struct {
	Recipient string `json:"recipient"`
	Secret    string `json:"secret"`
	Timeout   int64  `json:"timeout"`
}

// UnlockByRecipientTx lets the recipient redeem the lock by revealing the
// secret, before timeout.
type UnlockByRecipientTx struct {
	Sender  string `json:"sender"`
	Secret  string `json:"secret"`
	Timeout int64  `json:"timeout"`
}

// DeclineByRecipientTx lets the recipient refuse the lock; funds return to
// the sender immediately regardless of timeout.
type DeclineByRecipientTx struct {
	Sender       string `json:"sender"`
	HashedSecret string `json:"hashedSecret"`
	Timeout      int64  `json:"timeout"`
}

// TimeoutValueTx returns a timed-out lock's value to the sender's plain
// balance. May be submitted by any signed caller; the lock's recorded
// sender, not the caller, is always the one credited.
type TimeoutValueTx struct {
	Sender       string `json:"sender"`
	Recipient    string `json:"recipient"`
	HashedSecret string `json:"hashedSecret"`
	Timeout      int64  `json:"timeout"`
}

// TimeoutStashTx returns a timed-out lock's value to the sender's stash for
// stashAsset instead of their plain balance.
type TimeoutStashTx struct {
	Sender       string `json:"sender"`
	Recipient    string `json:"recipient"`
	HashedSecret string `json:"hashedSecret"`
	Timeout      int64  `json:"timeout"`
	StashAsset   string `json:"stashAsset"`
}

// Price is the wire form of a 128-bit price: Lo holds the low 64 bits, Hi
// the high 64 bits, matching internal/swapid.Price128.
type Price struct {
	Lo uint64 `json:"lo"`
	Hi uint64 `json:"hi"`
}
