package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/api"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/cache"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/cart"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/checkout"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/upstreamstub"
)

var ict = time.FixedZone("ICT", 7*3600)

// fixedNow is a Tuesday morning.
var fixedNow = time.Date(2026, 9, 1, 10, 0, 0, 0, ict)

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	Stub *upstreamstub.Stub

	UserToken  string
	AdminToken string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stub, err := upstreamstub.New()
	require.NoError(t, err)
	t.Cleanup(stub.Close)

	client := api.NewClient(stub.URL(), cache.New())

	e := echo.New()
	Register(e, &Deps{
		Catalog: &CatalogHandler{API: client},
		Cart:    &CartHandler{API: client, Reconciler: cart.NewReconciler(client)},
		Checkout: &CheckoutHandler{
			API:         client,
			Flows:       checkout.NewManager(),
			ShippingFee: 30000,
			Location:    ict,
			Now:         func() time.Time { return fixedNow },
		},
		Order:     &OrderHandler{API: client},
		Admin:     &AdminHandler{API: client},
		JWTSecret: stub.Secret,
	})

	return &testEnv{
		T:          t,
		E:          e,
		Stub:       stub,
		UserToken:  stub.MintToken("user-1", "CUSTOMER"),
		AdminToken: stub.MintToken("admin-1", "ADMIN"),
	}
}

func (env *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoleRequired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/admin/orders", env.UserToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCartViewDisplaysServerTotals(t *testing.T) {
	env := newTestEnv(t)
	fc := env.Stub.SeedFlowerColor("Hồng đỏ", "Đỏ", 100000, 0, 5)
	env.Stub.SeedCartItem("user-1", fc, 2)

	rec := env.do(http.MethodGet, "/api/v1/cart", env.UserToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode[map[string]any](t, rec)
	require.Equal(t, "₫200.000", view["totalDisplay"])
	items := view["items"].([]any)
	require.Len(t, items, 1)
	require.Equal(t, "₫200.000", items[0].(map[string]any)["lineTotalDisplay"])
}

func TestUpdateQuantityRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	fc := env.Stub.SeedFlowerColor("Hồng đỏ", "Đỏ", 100000, 0, 5)
	item := env.Stub.SeedCartItem("user-1", fc, 2)

	rec := env.do(http.MethodPatch, "/api/v1/cart/items/"+item.ID, env.UserToken, map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[map[string]any](t, rec)
	require.EqualValues(t, 3, resp["quantity"])
	require.Nil(t, resp["warning"])

	rec = env.do(http.MethodGet, "/api/v1/cart", env.UserToken, nil)
	view := decode[map[string]any](t, rec)
	items := view["items"].([]any)
	require.EqualValues(t, 3, items[0].(map[string]any)["quantity"], "refetch shows the updated quantity")
	require.Equal(t, "₫300.000", view["totalDisplay"])
}

func TestUpdateQuantityClampWarning(t *testing.T) {
	env := newTestEnv(t)
	fc := env.Stub.SeedFlowerColor("Lan trắng", "Trắng", 150000, 0, 5)
	item := env.Stub.SeedCartItem("user-1", fc, 2)

	rec := env.do(http.MethodPatch, "/api/v1/cart/items/"+item.ID, env.UserToken, map[string]int{"quantity": 12})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[map[string]any](t, rec)
	require.EqualValues(t, 5, resp["quantity"], "clamped to stock")
	require.Contains(t, resp["warning"], "5")

	rec = env.do(http.MethodPatch, "/api/v1/cart/items/"+item.ID, env.UserToken, map[string]int{"quantity": 0})
	resp = decode[map[string]any](t, rec)
	require.EqualValues(t, 1, resp["quantity"], "clamped to one")
}

func TestUpdateQuantityFailureRevertsAndSurfacesError(t *testing.T) {
	env := newTestEnv(t)
	fc := env.Stub.SeedFlowerColor("Sen hồng", "Hồng", 80000, 0, 8)
	item := env.Stub.SeedCartItem("user-1", fc, 2)

	env.Stub.FailCartUpdate = true
	rec := env.do(http.MethodPatch, "/api/v1/cart/items/"+item.ID, env.UserToken, map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[map[string]any](t, rec)
	require.EqualValues(t, 2, resp["quantity"], "reverts to the last known server value")
	require.Equal(t, "kho đang bận, thử lại sau", resp["error"])
}

func TestRemoveCartItem(t *testing.T) {
	env := newTestEnv(t)
	fc := env.Stub.SeedFlowerColor("Cúc vàng", "Vàng", 50000, 0, 10)
	item := env.Stub.SeedCartItem("user-1", fc, 1)

	rec := env.do(http.MethodDelete, "/api/v1/cart/items/"+item.ID, env.UserToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/cart", env.UserToken, nil)
	view := decode[map[string]any](t, rec)
	require.Empty(t, view["items"])
}

func TestCheckoutViewSlotsAndRecipients(t *testing.T) {
	env := newTestEnv(t)
	env.Stub.SeedRecipient("user-1", "Nguyễn Văn A", "0901234567", "Hà Nội", true)

	rec := env.do(http.MethodGet, "/api/v1/checkout?date=2026-09-01", env.UserToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode[map[string]any](t, rec)
	require.Equal(t, "editing", view["state"])
	require.Equal(t, "₫30.000", view["shippingFeeDisplay"])

	recipients := view["recipients"].([]any)
	require.Len(t, recipients, 1)
	require.Equal(t, true, recipients[0].(map[string]any)["isDefault"])

	slots := view["timeSlots"].([]any)
	require.Equal(t, "10:30", slots[0], "today starts at now+30m")
	require.Equal(t, "21:30", slots[len(slots)-1])
}

func TestCheckoutConfirmValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/checkout/confirm", env.UserToken, map[string]string{
		"recipientPhone":   "0901234567",
		"recipientAddress": "Hà Nội",
		"deliveryDate":     "2026-09-03",
		"deliveryTime":     "10:30",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[map[string]any](t, rec)
	require.Equal(t, "Vui lòng nhập tên người nhận", resp["error"])
}

func confirmValidCheckout(t *testing.T, env *testEnv) {
	t.Helper()
	rec := env.do(http.MethodPost, "/api/v1/checkout/confirm", env.UserToken, map[string]string{
		"recipientName":    "Nguyễn Văn A",
		"recipientPhone":   "0901234567",
		"recipientAddress": "Hà Nội",
		"deliveryDate":     "2026-09-03",
		"deliveryTime":     "10:30",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]any](t, rec)
	require.Equal(t, "confirming", resp["state"])
}

func TestCheckoutCancelReturnsToEditing(t *testing.T) {
	env := newTestEnv(t)
	confirmValidCheckout(t, env)

	rec := env.do(http.MethodPost, "/api/v1/checkout/cancel", env.UserToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]any](t, rec)
	require.Equal(t, "editing", resp["state"])
}

func TestCheckoutSubmitSuccess(t *testing.T) {
	env := newTestEnv(t)
	fc := env.Stub.SeedFlowerColor("Hồng đỏ", "Đỏ", 100000, 0, 5)
	env.Stub.SeedCartItem("user-1", fc, 2)
	confirmValidCheckout(t, env)

	rec := env.do(http.MethodPost, "/api/v1/checkout/submit", env.UserToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[map[string]any](t, rec)
	require.Contains(t, resp["paymentUrl"], "https://pay.example.com/redirect/")
	require.NotEmpty(t, resp["orderId"])

	var count int64
	env.Stub.DB.Model(&upstreamstub.OrderRow{}).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestCheckoutSubmitWithEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	confirmValidCheckout(t, env)

	rec := env.do(http.MethodPost, "/api/v1/checkout/submit", env.UserToken, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutPaymentFailureLeavesOrder(t *testing.T) {
	env := newTestEnv(t)
	fc := env.Stub.SeedFlowerColor("Hồng đỏ", "Đỏ", 100000, 0, 5)
	env.Stub.SeedCartItem("user-1", fc, 2)
	confirmValidCheckout(t, env)

	env.Stub.FailPayments = true
	rec := env.do(http.MethodPost, "/api/v1/checkout/submit", env.UserToken, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	resp := decode[map[string]any](t, rec)
	require.Equal(t, "cổng thanh toán không phản hồi", resp["error"])
	require.NotEmpty(t, resp["orderId"], "order exists despite the failure")

	var count int64
	env.Stub.DB.Model(&upstreamstub.OrderRow{}).Count(&count)
	require.EqualValues(t, 1, count, "no compensating rollback")
}

func TestAdminOrderListFilters(t *testing.T) {
	env := newTestEnv(t)
	env.Stub.SeedOrder("user-1", "Nguyễn Văn A", "A1", "PENDING", 100000)
	env.Stub.SeedOrder("user-2", "Trần Thị B", "B2", "CANCELLED", 200000)

	rec := env.do(http.MethodGet, "/api/v1/admin/orders?search=a1", env.AdminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]any](t, rec)
	list := resp["orders"].([]any)
	require.Len(t, list, 1)
	require.Equal(t, "A1", list[0].(map[string]any)["orderCode"])

	rec = env.do(http.MethodGet, "/api/v1/admin/orders?status=CANCELLED", env.AdminToken, nil)
	resp = decode[map[string]any](t, rec)
	list = resp["orders"].([]any)
	require.Len(t, list, 1)
	require.Equal(t, "CANCELLED", list[0].(map[string]any)["status"])
}

func TestAdminAdvanceStatus(t *testing.T) {
	env := newTestEnv(t)
	completed := env.Stub.SeedOrder("user-1", "A", "A1", "COMPLETED", 100000)
	processing := env.Stub.SeedOrder("user-1", "B", "B2", "PROCESSING", 200000)
	pending := env.Stub.SeedOrder("user-1", "C", "C3", "PENDING", 300000)

	rec := env.do(http.MethodPost, "/api/v1/admin/orders/"+completed.ID+"/advance", env.AdminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "PROCESSING", decode[map[string]any](t, rec)["status"])

	rec = env.do(http.MethodPost, "/api/v1/admin/orders/"+processing.ID+"/advance", env.AdminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "SHIPPING", decode[map[string]any](t, rec)["status"])

	rec = env.do(http.MethodPost, "/api/v1/admin/orders/"+pending.ID+"/advance", env.AdminToken, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCustomerOrderActions(t *testing.T) {
	env := newTestEnv(t)
	shipping := env.Stub.SeedOrder("user-1", "A", "A1", "SHIPPING", 100000)

	rec := env.do(http.MethodGet, "/api/v1/orders/my", env.UserToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	require.ElementsMatch(t, []any{"cancel", "mark_received"}, list[0]["actions"])
	require.Equal(t, "Đang giao hàng", list[0]["statusLabel"])

	rec = env.do(http.MethodPost, "/api/v1/orders/"+shipping.ID+"/received", env.UserToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "DELIVERED", decode[map[string]any](t, rec)["status"])

	rec = env.do(http.MethodPost, "/api/v1/orders/"+shipping.ID+"/received", env.UserToken, nil)
	require.Equal(t, http.StatusConflict, rec.Code, "mark-received only while shipping")
}

func TestCustomerCancelOrder(t *testing.T) {
	env := newTestEnv(t)
	pending := env.Stub.SeedOrder("user-1", "A", "A1", "PENDING", 100000)

	rec := env.do(http.MethodPost, "/api/v1/orders/"+pending.ID+"/cancel", env.UserToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]any](t, rec)
	require.Equal(t, "CANCELLED", resp["status"])
	require.Empty(t, resp["actions"])

	rec = env.do(http.MethodPost, "/api/v1/orders/"+pending.ID+"/cancel", env.UserToken, nil)
	require.Equal(t, http.StatusConflict, rec.Code, "already cancelled")
}

func TestAdminFlowerColorCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/admin/flower-colors", env.AdminToken, map[string]any{
		"flowerName": "Tulip đỏ",
		"price":      120000,
		"quantity":   10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[map[string]any](t, rec)
	id := created["id"].(string)

	rec = env.do(http.MethodPut, "/api/v1/admin/flower-colors/"+id, env.AdminToken, map[string]any{
		"flowerName": "Tulip đỏ",
		"price":      90000,
		"quantity":   4,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 90000, decode[map[string]any](t, rec)["price"])

	rec = env.do(http.MethodGet, "/api/v1/flowers", env.UserToken, nil)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	require.Equal(t, "₫90.000", list[0]["priceDisplay"], "catalog view refetched after admin mutation")

	rec = env.do(http.MethodDelete, "/api/v1/admin/flower-colors/"+id, env.AdminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/flowers", env.UserToken, nil)
	require.Empty(t, decode[[]map[string]any](t, rec))
}
