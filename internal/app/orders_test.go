package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddToOrderEscrowsAndCreditsOrder(t *testing.T) {
	a := newTestApp(t)
	const height = int64(1)
	seller, priv := testAccount("seller")
	registerTestAccount(t, a, height, "seller")
	creditTestBalance(t, a, seller, 1000)

	asset := testAssetID("gold")
	foreign := testForeignAddress("seller-btc")
	price := map[string]any{"lo": 5, "hi": 0}

	res := mustOk(t, a.deliverTx(txBytesSigned(t, "add_to_order", map[string]any{
		"asset":          asset,
		"price":          price,
		"foreignAddress": foreign,
		"value":          300,
	}, seller, priv), height, height))

	ev := findEvent(res.Events, "AddToOrder")
	require.NotNil(t, ev)
	require.Equal(t, "300", attr(ev, "value"))

	require.Equal(t, uint64(700), a.st.Balance(seller))
	orderID := attr(ev, "orderId")
	require.Equal(t, uint64(300), a.st.OrderValues[orderID])
}

func TestRemoveFromOrderTooMuchFails(t *testing.T) {
	a := newTestApp(t)
	const height = int64(1)
	seller, priv := testAccount("seller")
	registerTestAccount(t, a, height, "seller")
	creditTestBalance(t, a, seller, 1000)

	asset := testAssetID("gold")
	foreign := testForeignAddress("seller-btc")
	price := map[string]any{"lo": 5, "hi": 0}

	mustOk(t, a.deliverTx(txBytesSigned(t, "add_to_order", map[string]any{
		"asset": asset, "price": price, "foreignAddress": foreign, "value": 100,
	}, seller, priv), height, height))

	res := mustErr(t, a.deliverTx(txBytesSigned(t, "remove_from_order", map[string]any{
		"asset": asset, "price": price, "foreignAddress": foreign, "value": 200,
	}, seller, priv), height, height))
	require.Equal(t, uint32(2), res.Code)
}

func TestChangeOrderAllMigratesEntireListing(t *testing.T) {
	a := newTestApp(t)
	const height = int64(1)
	seller, priv := testAccount("seller")
	registerTestAccount(t, a, height, "seller")
	creditTestBalance(t, a, seller, 1000)

	oldAsset := testAssetID("gold")
	newAsset := testAssetID("silver")
	foreign := testForeignAddress("seller-btc")
	oldPrice := map[string]any{"lo": 5, "hi": 0}
	newPrice := map[string]any{"lo": 7, "hi": 0}

	addRes := mustOk(t, a.deliverTx(txBytesSigned(t, "add_to_order", map[string]any{
		"asset": oldAsset, "price": oldPrice, "foreignAddress": foreign, "value": 250,
	}, seller, priv), height, height))
	oldOrderID := attr(findEvent(addRes.Events, "AddToOrder"), "orderId")

	changeRes := mustOk(t, a.deliverTx(txBytesSigned(t, "change_order_all", map[string]any{
		"oldAsset": oldAsset, "oldPrice": oldPrice, "oldForeignAddress": foreign,
		"newAsset": newAsset, "newPrice": newPrice, "newForeignAddress": foreign,
	}, seller, priv), height, height))

	removed := findEvent(changeRes.Events, "RemoveFromOrder")
	added := findEvent(changeRes.Events, "AddToOrder")
	require.NotNil(t, removed)
	require.NotNil(t, added)
	require.Equal(t, "250", attr(removed, "value"))
	require.Equal(t, "250", attr(added, "value"))

	_, stillExists := a.st.OrderValues[oldOrderID]
	require.False(t, stillExists)
	newOrderID := attr(added, "orderId")
	require.Equal(t, uint64(250), a.st.OrderValues[newOrderID])
	// seller's plain balance unaffected: change_order_all moves no escrow funds.
	require.Equal(t, uint64(750), a.st.Balance(seller))
}
