package app

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"

	errorsmod "cosmossdk.io/errors"

	"github.com/acuity-network/atomicswap/internal/codec"
	"github.com/acuity-network/atomicswap/internal/state"
)

const txAuthDomainV1 = "acuity/swap/tx/v1"

// txAuthSignBytes = DOMAIN || 0x00 || type || 0x00 || nonce || 0x00 || signer || 0x00 || sha256(value)
func txAuthSignBytes(typ string, value []byte, nonce string, signer string) []byte {
	sum := sha256.Sum256(value)
	out := make([]byte, 0, len(txAuthDomainV1)+1+len(typ)+1+len(nonce)+1+len(signer)+1+sha256.Size)
	out = append(out, []byte(txAuthDomainV1)...)
	out = append(out, 0)
	out = append(out, []byte(typ)...)
	out = append(out, 0)
	out = append(out, []byte(nonce)...)
	out = append(out, 0)
	out = append(out, []byte(signer)...)
	out = append(out, 0)
	out = append(out, sum[:]...)
	return out
}

func requireSignedEnvelope(env codec.TxEnvelope) error {
	if env.Nonce == "" {
		return errorsmod.Wrap(ErrInvalidRequest, "missing tx.nonce")
	}
	if env.Signer == "" {
		return errorsmod.Wrap(ErrInvalidRequest, "missing tx.signer")
	}
	if len(env.Sig) != ed25519.SignatureSize {
		return errorsmod.Wrapf(ErrInvalidRequest, "invalid tx.sig length: got %d want %d", len(env.Sig), ed25519.SignatureSize)
	}
	return nil
}

// requireRegisterAccountAuth authenticates auth/register_account: the
// envelope must be signed by the very key being registered, proving
// possession of the private key before the module ever trusts it.
func requireRegisterAccountAuth(env codec.TxEnvelope, msg codec.AuthRegisterAccountTx) error {
	if msg.Account == "" {
		return errorsmod.Wrap(ErrInvalidRequest, "missing account")
	}
	if len(msg.PubKey) != ed25519.PublicKeySize {
		return errorsmod.Wrapf(ErrInvalidRequest, "pubKey must be %d bytes", ed25519.PublicKeySize)
	}
	// The account identifier is the hex encoding of its own ed25519 public
	// key (see internal/swapid.AccountID) — there is no separate namespace
	// of human-readable account labels.
	if msg.Account != hex.EncodeToString(msg.PubKey) {
		return errorsmod.Wrap(ErrInvalidRequest, "account must equal hex(pubKey)")
	}
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}
	if env.Signer != msg.Account {
		return errorsmod.Wrapf(ErrUnauthorized, "tx signer mismatch: signer=%q want=%q", env.Signer, msg.Account)
	}
	pub := ed25519.PublicKey(msg.PubKey)
	signBytes := txAuthSignBytes(env.Type, env.Value, env.Nonce, env.Signer)
	if !ed25519.Verify(pub, signBytes, env.Sig) {
		return errorsmod.Wrap(ErrUnauthorized, "invalid signature")
	}
	return nil
}

// requireAccountAuth authenticates any other operation whose caller must
// be a previously-registered account.
func requireAccountAuth(st *state.State, env codec.TxEnvelope, account string) error {
	if account == "" {
		return errorsmod.Wrap(ErrInvalidRequest, "missing account")
	}
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}
	if env.Signer != account {
		return errorsmod.Wrapf(ErrUnauthorized, "tx signer mismatch: signer=%q want=%q", env.Signer, account)
	}
	pub := st.AccountKeys[account]
	if len(pub) != ed25519.PublicKeySize {
		return errorsmod.Wrapf(ErrUnknownAccount, "account %q has no registered public key (submit auth/register_account first)", account)
	}
	signBytes := txAuthSignBytes(env.Type, env.Value, env.Nonce, env.Signer)
	if !ed25519.Verify(ed25519.PublicKey(pub), signBytes, env.Sig) {
		return errorsmod.Wrap(ErrUnauthorized, "invalid signature")
	}
	return nil
}

// requireAnySignedAccount authenticates operations like timeout_value and
// timeout_stash that may be submitted by any registered account, not just
// a specific party — funds always flow to the record's sender, never to
// the caller, so a permissive caller set costs nothing and lets off-chain
// relayers sweep timed-out locks without the sender's participation.
func requireAnySignedAccount(st *state.State, env codec.TxEnvelope) error {
	return requireAccountAuth(st, env, env.Signer)
}
