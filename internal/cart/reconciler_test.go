package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/api"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/cache"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/upstreamstub"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		requested, stock int
		want             int
		clamped          bool
	}{
		{3, 5, 3, false},
		{5, 5, 5, false},
		{6, 5, 5, true},
		{99, 5, 5, true},
		{0, 5, 1, true},
		{-2, 5, 1, true},
		{1, 5, 1, false},
		{100, 0, 100, false}, // no reported stock: unbounded above
		{0, 0, 1, true},
	}
	for _, tc := range cases {
		got, clamped := Clamp(tc.requested, tc.stock)
		require.Equal(t, tc.want, got, "requested=%d stock=%d", tc.requested, tc.stock)
		require.Equal(t, tc.clamped, clamped, "requested=%d stock=%d", tc.requested, tc.stock)
	}
}

func TestGenerationCounterDiscardsStaleEdits(t *testing.T) {
	r := NewReconciler(nil)
	id := uuid.New()

	g1 := r.begin(id)
	g2 := r.begin(id)

	require.False(t, r.current(id, g1), "older edit must be superseded")
	require.True(t, r.current(id, g2))
}

func newStubEnv(t *testing.T) (*upstreamstub.Stub, *api.Client, api.Credentials) {
	t.Helper()
	stub, err := upstreamstub.New()
	require.NoError(t, err)
	t.Cleanup(stub.Close)

	client := api.NewClient(stub.URL(), cache.New())
	creds := api.Credentials{Token: stub.MintToken("user-1", "CUSTOMER")}
	return stub, client, creds
}

func TestSetQuantityUsesServerValue(t *testing.T) {
	stub, client, creds := newStubEnv(t)
	fc := stub.SeedFlowerColor("Hồng đỏ", "Đỏ", 100000, 0, 5)
	stub.SeedCartItem("user-1", fc, 2)

	ctx := context.Background()
	ct, err := client.GetMyCart(ctx, creds)
	require.NoError(t, err)
	require.Len(t, ct.Items, 1)
	item := ct.Items[0]
	require.Equal(t, 2, item.Quantity)
	require.Equal(t, int64(200000), ct.Total())

	r := NewReconciler(client)
	res, err := r.SetQuantity(ctx, creds, item, 3)
	require.NoError(t, err)
	require.Equal(t, 3, res.Quantity, "displayed quantity equals the server-returned one")
	require.False(t, res.Clamped)
	require.Empty(t, res.Warning)
	require.Equal(t, int64(300000), res.Item.LineTotal())

	// The mutation invalidated the Cart tag, so this refetch is fresh.
	ct, err = client.GetMyCart(ctx, creds)
	require.NoError(t, err)
	require.Equal(t, 3, ct.Items[0].Quantity)
}

func TestSetQuantityClampsToStock(t *testing.T) {
	stub, client, creds := newStubEnv(t)
	fc := stub.SeedFlowerColor("Lan trắng", "Trắng", 150000, 0, 5)
	stub.SeedCartItem("user-1", fc, 2)

	ctx := context.Background()
	ct, err := client.GetMyCart(ctx, creds)
	require.NoError(t, err)

	r := NewReconciler(client)
	res, err := r.SetQuantity(ctx, creds, ct.Items[0], 12)
	require.NoError(t, err)
	require.Equal(t, 5, res.Quantity)
	require.True(t, res.Clamped)
	require.Contains(t, res.Warning, "5")
}

func TestSetQuantityClampsBelowOne(t *testing.T) {
	stub, client, creds := newStubEnv(t)
	fc := stub.SeedFlowerColor("Cúc vàng", "Vàng", 50000, 0, 10)
	stub.SeedCartItem("user-1", fc, 4)

	ctx := context.Background()
	ct, err := client.GetMyCart(ctx, creds)
	require.NoError(t, err)

	r := NewReconciler(client)
	res, err := r.SetQuantity(ctx, creds, ct.Items[0], 0)
	require.NoError(t, err)
	require.Equal(t, 1, res.Quantity)
	require.True(t, res.Clamped)
}

func TestSetQuantityFailureRevertsToLastKnown(t *testing.T) {
	stub, client, creds := newStubEnv(t)
	fc := stub.SeedFlowerColor("Sen hồng", "Hồng", 80000, 0, 8)
	stub.SeedCartItem("user-1", fc, 2)

	ctx := context.Background()
	ct, err := client.GetMyCart(ctx, creds)
	require.NoError(t, err)
	item := ct.Items[0]

	r := NewReconciler(client)

	res, err := r.SetQuantity(ctx, creds, item, 3)
	require.NoError(t, err)
	require.Equal(t, 3, res.Quantity)

	stub.FailCartUpdate = true
	item.Quantity = 3
	res, err = r.SetQuantity(ctx, creds, item, 7)
	require.Error(t, err)
	require.Equal(t, 3, res.Quantity, "reverts to the last server-confirmed value")

	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	require.Equal(t, "kho đang bận, thử lại sau", apiErr.Message)
}

func TestSetQuantityPromotionPriceWins(t *testing.T) {
	stub, client, creds := newStubEnv(t)
	fc := stub.SeedFlowerColor("Tulip đỏ", "Đỏ", 120000, 90000, 5)
	stub.SeedCartItem("user-1", fc, 1)

	ctx := context.Background()
	ct, err := client.GetMyCart(ctx, creds)
	require.NoError(t, err)
	item := ct.Items[0]
	require.Equal(t, int64(90000), item.EffectiveUnitPrice())

	r := NewReconciler(client)
	res, err := r.SetQuantity(ctx, creds, item, 2)
	require.NoError(t, err)
	require.Equal(t, int64(180000), res.Item.LineTotal(), "server promotion total is authoritative")
}
