package swapid

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// AssetID names an off-chain asset; opaque to this module.
type AssetID [16]byte

func (a AssetID) Hex() string { return hex.EncodeToString(a[:]) }

func ParseAssetID(s string) (AssetID, error) {
	var out AssetID
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("asset id: invalid hex: %w", err)
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("asset id: want %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

// ForeignAddress is the counterparty address on the remote chain; opaque
// to this module.
type ForeignAddress [32]byte

func (f ForeignAddress) Hex() string { return hex.EncodeToString(f[:]) }

func ParseForeignAddress(s string) (ForeignAddress, error) {
	var out ForeignAddress
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("foreign address: invalid hex: %w", err)
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("foreign address: want %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

// HashedSecret is the Keccak-256 digest of a Secret.
type HashedSecret [32]byte

func (h HashedSecret) Hex() string { return hex.EncodeToString(h[:]) }

func ParseHashedSecret(s string) (HashedSecret, error) {
	var out HashedSecret
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("hashed secret: invalid hex: %w", err)
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("hashed secret: want %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

// Secret is the 32-byte preimage of a HashedSecret. It must never be
// persisted in module state; it only ever flows through as a transaction
// argument and an event attribute once revealed.
type Secret [32]byte

func ParseSecret(s string) (Secret, error) {
	var out Secret
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("secret: invalid hex: %w", err)
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("secret: want %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

// OrderID is the 16-byte Blake2-128 digest identifying a (seller, asset,
// price, foreign_address) listing.
type OrderID [16]byte

func (o OrderID) Hex() string { return hex.EncodeToString(o[:]) }

// LockID is the 32-byte Blake2-256 digest identifying one HTLC lock.
type LockID [32]byte

func (l LockID) Hex() string { return hex.EncodeToString(l[:]) }

// Price128 is a 128-bit unsigned price, Lo holding the low 64 bits and Hi
// the high 64 bits; encoded little-endian as Lo-bytes then Hi-bytes, which
// together form the canonical little-endian u128 encoding.
type Price128 struct {
	Lo uint64
	Hi uint64
}

func (p Price128) leBytes() [16]byte {
	var out [16]byte
	binary.LittleEndian.PutUint64(out[0:8], p.Lo)
	binary.LittleEndian.PutUint64(out[8:16], p.Hi)
	return out
}

// ComputeOrderID derives the order id. Concatenation order, with no
// padding, delimiter, or length prefix between fields:
//
//	seller[32] || asset[16] || price_le[16] || foreignAddr[32]
func ComputeOrderID(seller AccountID, asset AssetID, price Price128, foreignAddr ForeignAddress) (OrderID, error) {
	h, err := blake2b.New(16, nil)
	if err != nil {
		return OrderID{}, fmt.Errorf("order id: init blake2b-128: %w", err)
	}
	h.Write(seller[:])
	h.Write(asset[:])
	priceLE := price.leBytes()
	h.Write(priceLE[:])
	h.Write(foreignAddr[:])
	var out OrderID
	copy(out[:], h.Sum(nil))
	return out, nil
}

// ComputeLockID derives the lock id. Concatenation order:
//
//	sender[32] || recipient[32] || hashedSecret[32] || timeout_le[8]
func ComputeLockID(sender, recipient AccountID, hashedSecret HashedSecret, timeout int64) LockID {
	h := blake2b.Sum256(lockIDPreimage(sender, recipient, hashedSecret, timeout))
	return LockID(h)
}

func lockIDPreimage(sender, recipient AccountID, hashedSecret HashedSecret, timeout int64) []byte {
	buf := make([]byte, 0, 32+32+32+8)
	buf = append(buf, sender[:]...)
	buf = append(buf, recipient[:]...)
	buf = append(buf, hashedSecret[:]...)
	var tb [8]byte
	binary.LittleEndian.PutUint64(tb[:], uint64(timeout))
	buf = append(buf, tb[:]...)
	return buf
}

// ComputeHashSecret computes HashedSecret = Keccak_256(secret).
func ComputeHashSecret(secret Secret) HashedSecret {
	return HashedSecret(crypto.Keccak256Hash(secret[:]))
}
