// Package swapid derives the module's identifiers: account addresses,
// order IDs, lock IDs, and hashed secrets.
package swapid

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// AccountID is the 32-byte canonical encoding of an account: an ed25519
// public key for user accounts, or a module-derived digest for the escrow
// account. It is encoded with no length prefix wherever it appears inside a
// hash preimage.
type AccountID [32]byte

func (a AccountID) Hex() string {
	return hex.EncodeToString(a[:])
}

func (a AccountID) String() string { return a.Hex() }

func ParseAccountID(s string) (AccountID, error) {
	var out AccountID
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("account id: invalid hex: %w", err)
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("account id: want %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

func AccountIDFromPublicKey(pub ed25519.PublicKey) (AccountID, error) {
	var out AccountID
	if len(pub) != len(out) {
		return out, fmt.Errorf("account id: ed25519 public key must be %d bytes", len(out))
	}
	copy(out[:], pub)
	return out, nil
}

// moduleTag is this module's fixed identifier, analogous to a pallet ID.
const moduleTag = "swap/v1\x00"

// EscrowAccount is the single account that holds every locked and stashed
// value. It is derived deterministically from moduleTag so that every node
// computes the identical address without any on-chain bookkeeping.
func EscrowAccount() AccountID {
	sum := blake2b.Sum256([]byte(moduleTag))
	return AccountID(sum)
}
