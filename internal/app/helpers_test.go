package app

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/acuity-network/atomicswap/internal/codec"
	"github.com/acuity-network/atomicswap/pkg/logging"
)

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

var testTxNonce uint64

func testEd25519Key(label string) (ed25519.PublicKey, ed25519.PrivateKey) {
	seed := sha256.Sum256([]byte("atomicswap/test/ed25519/" + label))
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)
	return pub, priv
}

// testAccount derives a deterministic (account id, private key) pair from a
// human-readable label. The account id is the hex encoding of the public
// key itself, per internal/swapid.AccountID's convention.
func testAccount(label string) (account string, priv ed25519.PrivateKey) {
	pub, priv := testEd25519Key(label)
	return hex.EncodeToString(pub), priv
}

// testAssetID derives a deterministic 16-byte hex asset id from a label.
func testAssetID(label string) string {
	sum := sha256.Sum256([]byte("atomicswap/test/asset/" + label))
	return hex.EncodeToString(sum[:16])
}

// testForeignAddress derives a deterministic 32-byte hex foreign address
// from a label.
func testForeignAddress(label string) string {
	sum := sha256.Sum256([]byte("atomicswap/test/foreign/" + label))
	return hex.EncodeToString(sum[:])
}

func txBytesSigned(t *testing.T, typ string, value any, signer string, priv ed25519.PrivateKey) []byte {
	t.Helper()
	if signer == "" {
		t.Fatalf("txBytesSigned: missing signer")
	}
	valueBytes := mustMarshal(t, value)
	nonce := fmt.Sprintf("%d", atomic.AddUint64(&testTxNonce, 1))
	msg := txAuthSignBytes(typ, valueBytes, nonce, signer)
	sig := ed25519.Sign(priv, msg)

	env := codec.TxEnvelope{
		Type:   typ,
		Value:  valueBytes,
		Nonce:  nonce,
		Signer: signer,
		Sig:    sig,
	}
	return mustMarshal(t, env)
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(t.TempDir(), logging.New(&logging.Config{Level: "error"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

// registerTestAccount registers the deterministic key for label and returns
// the resulting account id (hex pubkey), which callers use as the signer
// for every subsequent transaction.
func registerTestAccount(t *testing.T, a *App, height int64, label string) string {
	t.Helper()
	account, priv := testAccount(label)
	pub := priv.Public().(ed25519.PublicKey)
	mustOk(t, a.deliverTx(txBytesSigned(t, "auth/register_account", map[string]any{
		"account": account,
		"pubKey":  []byte(pub),
	}, account, priv), height, height))
	return account
}

// creditTestBalance grants a plain-balance starting position directly on
// state, standing in for whatever external bridge or genesis allocation
// would normally fund an account before it interacts with this module.
func creditTestBalance(t *testing.T, a *App, account string, amount uint64) {
	t.Helper()
	if err := a.st.Credit(account, amount); err != nil {
		t.Fatalf("creditTestBalance: %v", err)
	}
}

func mustOk(t *testing.T, res *abci.ExecTxResult) *abci.ExecTxResult {
	t.Helper()
	if res.Code != 0 {
		t.Fatalf("expected ok, got code=%d log=%q", res.Code, res.Log)
	}
	return res
}

func mustErr(t *testing.T, res *abci.ExecTxResult) *abci.ExecTxResult {
	t.Helper()
	if res.Code == 0 {
		t.Fatalf("expected error, got ok")
	}
	return res
}

func findEvent(events []abci.Event, typ string) *abci.Event {
	for i := range events {
		if events[i].Type == typ {
			return &events[i]
		}
	}
	return nil
}

func attr(ev *abci.Event, key string) string {
	if ev == nil {
		return ""
	}
	for _, a := range ev.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}
