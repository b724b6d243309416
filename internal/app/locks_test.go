package app

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acuity-network/atomicswap/internal/swapid"
)

func testSecretAndHash(label string) (secretHex string, hashedHex string) {
	var secret swapid.Secret
	copy(secret[:], []byte("atomicswap/test/secret/"+label+"0123456789012345678901234567890"))
	hashed := swapid.ComputeHashSecret(secret)
	return hex.EncodeToString(secret[:]), hashed.Hex()
}

func TestLockBuyThenUnlockByRecipient(t *testing.T) {
	a := newTestApp(t)
	const height = int64(1)
	buyer, buyerPriv := testAccount("buyer")
	seller, sellerPriv := testAccount("seller")
	registerTestAccount(t, a, height, "buyer")
	registerTestAccount(t, a, height, "seller")
	creditTestBalance(t, a, buyer, 1000)

	secretHex, hashedHex := testSecretAndHash("swap1")
	const timeout = int64(100)

	lockRes := mustOk(t, a.deliverTx(txBytesSigned(t, "lock_buy", map[string]any{
		"recipient": seller, "hashedSecret": hashedHex, "timeout": timeout, "value": 300,
		"sellAsset": testAssetID("gold"), "sellPrice": map[string]any{"lo": 5, "hi": 0},
	}, buyer, buyerPriv), height, height))
	lockID := attr(findEvent(lockRes.Events, "BuyLock"), "lockId")
	require.NotEmpty(t, lockID)
	require.Equal(t, uint64(700), a.st.Balance(buyer))

	const now = int64(50)
	unlockRes := mustOk(t, a.deliverTx(txBytesSigned(t, "unlock_by_recipient", map[string]any{
		"sender": buyer, "secret": secretHex, "timeout": timeout,
	}, seller, sellerPriv), height, now))

	ev := findEvent(unlockRes.Events, "Unlock")
	require.Equal(t, lockID, attr(ev, "lockId"))
	require.Equal(t, uint64(300), a.st.Balance(seller))
	_, stillLocked := a.st.LockValues[lockID]
	require.False(t, stillLocked)
}

func TestUnlockByRecipientAfterTimeoutFails(t *testing.T) {
	a := newTestApp(t)
	const height = int64(1)
	buyer, buyerPriv := testAccount("buyer")
	seller, sellerPriv := testAccount("seller")
	registerTestAccount(t, a, height, "buyer")
	registerTestAccount(t, a, height, "seller")
	creditTestBalance(t, a, buyer, 1000)

	secretHex, hashedHex := testSecretAndHash("swap2")
	const timeout = int64(100)

	mustOk(t, a.deliverTx(txBytesSigned(t, "lock_buy", map[string]any{
		"recipient": seller, "hashedSecret": hashedHex, "timeout": timeout, "value": 300,
		"sellAsset": testAssetID("gold"), "sellPrice": map[string]any{"lo": 5, "hi": 0},
	}, buyer, buyerPriv), height, height))

	res := mustErr(t, a.deliverTx(txBytesSigned(t, "unlock_by_recipient", map[string]any{
		"sender": buyer, "secret": secretHex, "timeout": timeout,
	}, seller, sellerPriv), height, timeout))
	require.Equal(t, uint32(7), res.Code)
}

func TestTimeoutValueReturnsToSenderAndAnyCallerMaySubmit(t *testing.T) {
	a := newTestApp(t)
	const height = int64(1)
	buyer, buyerPriv := testAccount("buyer")
	seller, _ := testAccount("seller")
	relayer, relayerPriv := testAccount("relayer")
	registerTestAccount(t, a, height, "buyer")
	registerTestAccount(t, a, height, "seller")
	registerTestAccount(t, a, height, "relayer")
	creditTestBalance(t, a, buyer, 1000)

	_, hashedHex := testSecretAndHash("swap3")
	const timeout = int64(100)

	mustOk(t, a.deliverTx(txBytesSigned(t, "lock_buy", map[string]any{
		"recipient": seller, "hashedSecret": hashedHex, "timeout": timeout, "value": 300,
		"sellAsset": testAssetID("gold"), "sellPrice": map[string]any{"lo": 5, "hi": 0},
	}, buyer, buyerPriv), height, height))
	require.Equal(t, uint64(700), a.st.Balance(buyer))

	res := mustOk(t, a.deliverTx(txBytesSigned(t, "timeout_value", map[string]any{
		"sender": buyer, "recipient": seller, "hashedSecret": hashedHex, "timeout": timeout,
	}, relayer, relayerPriv), height, timeout))

	ev := findEvent(res.Events, "Timeout")
	require.Equal(t, buyer, attr(ev, "sender"))
	require.Equal(t, relayer, attr(ev, "caller"))
	require.Equal(t, uint64(1000), a.st.Balance(buyer))
}

func TestDeclineByRecipientReturnsImmediatelyRegardlessOfTimeout(t *testing.T) {
	a := newTestApp(t)
	const height = int64(1)
	buyer, buyerPriv := testAccount("buyer")
	seller, sellerPriv := testAccount("seller")
	registerTestAccount(t, a, height, "buyer")
	registerTestAccount(t, a, height, "seller")
	creditTestBalance(t, a, buyer, 1000)

	_, hashedHex := testSecretAndHash("swap4")
	const timeout = int64(100000)

	mustOk(t, a.deliverTx(txBytesSigned(t, "lock_buy", map[string]any{
		"recipient": seller, "hashedSecret": hashedHex, "timeout": timeout, "value": 300,
		"sellAsset": testAssetID("gold"), "sellPrice": map[string]any{"lo": 5, "hi": 0},
	}, buyer, buyerPriv), height, height))

	res := mustOk(t, a.deliverTx(txBytesSigned(t, "decline_by_recipient", map[string]any{
		"sender": buyer, "hashedSecret": hashedHex, "timeout": timeout,
	}, seller, sellerPriv), height, height))

	require.Equal(t, uint64(1000), a.st.Balance(buyer))
	_ = res
}
