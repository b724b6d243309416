package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDepositAndWithdrawStashRoundTrip(t *testing.T) {
	a := newTestApp(t)
	const height = int64(1)
	acc, priv := testAccount("acc")
	registerTestAccount(t, a, height, "acc")
	creditTestBalance(t, a, acc, 500)

	asset := testAssetID("gold")

	depRes := mustOk(t, a.deliverTx(txBytesSigned(t, "deposit_stash", map[string]any{
		"asset": asset, "value": 200,
	}, acc, priv), height, height))
	require.Equal(t, "200", attr(findEvent(depRes.Events, "StashAdd"), "total"))
	require.Equal(t, uint64(300), a.st.Balance(acc))

	wRes := mustOk(t, a.deliverTx(txBytesSigned(t, "withdraw_stash", map[string]any{
		"asset": asset, "value": 50,
	}, acc, priv), height, height))
	require.Equal(t, "150", attr(findEvent(wRes.Events, "StashRemove"), "total"))
	require.Equal(t, uint64(350), a.st.Balance(acc))

	allRes := mustOk(t, a.deliverTx(txBytesSigned(t, "withdraw_stash_all", map[string]any{
		"asset": asset,
	}, acc, priv), height, height))
	require.Equal(t, "0", attr(findEvent(allRes.Events, "StashRemove"), "total"))
	require.Equal(t, uint64(500), a.st.Balance(acc))
	require.Equal(t, uint64(0), a.st.StashValue(asset, acc))
}

// TestStashRankingAcrossDeposits reproduces the documented ranking sequence:
// deposits of A=50, B=40, C=60, D=45, then A gains 10 then 1 more, and the
// ranking must read back highest-value-first with ties broken by insertion
// order.
func TestStashRankingAcrossDeposits(t *testing.T) {
	a := newTestApp(t)
	const height = int64(1)
	asset := testAssetID("gold")

	accA, privA := testAccount("A")
	accB, privB := testAccount("B")
	accC, privC := testAccount("C")
	accD, privD := testAccount("D")
	for label, acc := range map[string]string{"A": accA, "B": accB, "C": accC, "D": accD} {
		registerTestAccount(t, a, height, label)
		creditTestBalance(t, a, acc, 1000)
	}

	mustOk(t, a.deliverTx(txBytesSigned(t, "deposit_stash", map[string]any{"asset": asset, "value": 50}, accA, privA), height, height))
	mustOk(t, a.deliverTx(txBytesSigned(t, "deposit_stash", map[string]any{"asset": asset, "value": 40}, accB, privB), height, height))
	mustOk(t, a.deliverTx(txBytesSigned(t, "deposit_stash", map[string]any{"asset": asset, "value": 60}, accC, privC), height, height))
	mustOk(t, a.deliverTx(txBytesSigned(t, "deposit_stash", map[string]any{"asset": asset, "value": 45}, accD, privD), height, height))

	entries := a.st.GetStashes(asset, 0, 10)
	require.Len(t, entries, 4)
	require.Equal(t, []string{accC, accA, accD, accB}, []string{entries[0].Account, entries[1].Account, entries[2].Account, entries[3].Account})

	mustOk(t, a.deliverTx(txBytesSigned(t, "deposit_stash", map[string]any{"asset": asset, "value": 10}, accA, privA), height, height))
	entries = a.st.GetStashes(asset, 0, 10)
	require.Equal(t, accC, entries[0].Account)
	require.Equal(t, uint64(60), entries[0].Value)
	require.Equal(t, accA, entries[1].Account)
	require.Equal(t, uint64(60), entries[1].Value)

	mustOk(t, a.deliverTx(txBytesSigned(t, "deposit_stash", map[string]any{"asset": asset, "value": 1}, accA, privA), height, height))
	entries = a.st.GetStashes(asset, 0, 10)
	require.Equal(t, []string{accA, accC, accD, accB}, []string{entries[0].Account, entries[1].Account, entries[2].Account, entries[3].Account})
	require.Equal(t, uint64(61), entries[0].Value)
}

func TestMoveStashBetweenAssets(t *testing.T) {
	a := newTestApp(t)
	const height = int64(1)
	acc, priv := testAccount("acc")
	registerTestAccount(t, a, height, "acc")
	creditTestBalance(t, a, acc, 500)

	gold := testAssetID("gold")
	silver := testAssetID("silver")

	mustOk(t, a.deliverTx(txBytesSigned(t, "deposit_stash", map[string]any{"asset": gold, "value": 100}, acc, priv), height, height))

	res := mustOk(t, a.deliverTx(txBytesSigned(t, "move_stash", map[string]any{
		"fromAsset": gold, "toAsset": silver, "value": 40,
	}, acc, priv), height, height))

	require.Equal(t, "60", attr(findEvent(res.Events, "StashRemove"), "total"))
	require.Equal(t, "40", attr(findEvent(res.Events, "StashAdd"), "total"))
	require.Equal(t, uint64(60), a.st.StashValue(gold, acc))
	require.Equal(t, uint64(40), a.st.StashValue(silver, acc))
	// escrow custody never changes across a move: plain balance untouched.
	require.Equal(t, uint64(400), a.st.Balance(acc))
}
