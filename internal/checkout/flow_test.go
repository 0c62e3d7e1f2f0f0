package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/api"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
)

type fakePlacer struct {
	createErr  error
	paymentErr error

	created     *api.CreateOrderRequest
	orderID     uuid.UUID
	paymentURLs int
}

func (f *fakePlacer) CreateOrder(_ context.Context, _ api.Credentials, req api.CreateOrderRequest) (models.Order, error) {
	if f.createErr != nil {
		return models.Order{}, f.createErr
	}
	f.created = &req
	f.orderID = uuid.New()
	return models.Order{ID: f.orderID, Status: models.OrderStatusPending}, nil
}

func (f *fakePlacer) PaymentURL(_ context.Context, _ api.Credentials, orderID uuid.UUID) (string, error) {
	f.paymentURLs++
	if f.paymentErr != nil {
		return "", f.paymentErr
	}
	return "https://pay.example.com/redirect/" + orderID.String(), nil
}

func validForm() Form {
	return Form{
		RecipientName:    "Nguyễn Văn A",
		RecipientPhone:   "0901234567",
		RecipientAddress: "12 Lý Thường Kiệt, Hà Nội",
		DeliveryDate:     "2026-09-03",
		DeliveryTime:     "10:30",
		Note:             "gọi trước khi giao",
	}
}

func TestBeginRequiresEveryField(t *testing.T) {
	cases := []struct {
		mutate func(*Form)
		want   string
	}{
		{func(f *Form) { f.RecipientName = "" }, "Vui lòng nhập tên người nhận"},
		{func(f *Form) { f.RecipientPhone = "" }, "Vui lòng nhập số điện thoại người nhận"},
		{func(f *Form) { f.RecipientAddress = "" }, "Vui lòng nhập địa chỉ giao hàng"},
		{func(f *Form) { f.DeliveryDate = "" }, "Vui lòng chọn ngày giao hàng"},
		{func(f *Form) { f.DeliveryTime = "" }, "Vui lòng chọn giờ giao hàng"},
	}
	for _, tc := range cases {
		fl := NewFlow()
		form := validForm()
		tc.mutate(&form)

		err := fl.Begin(form)
		require.EqualError(t, err, tc.want)
		require.Equal(t, StateEditing, fl.State(), "confirming must be unreachable")
		require.Equal(t, tc.want, fl.LastError())
	}
}

func TestBeginReportsFirstFailingField(t *testing.T) {
	fl := NewFlow()
	form := validForm()
	form.RecipientPhone = ""
	form.DeliveryDate = ""

	err := fl.Begin(form)
	require.EqualError(t, err, "Vui lòng nhập số điện thoại người nhận")
}

func TestConfirmAndCancelRoundTrip(t *testing.T) {
	fl := NewFlow()
	require.NoError(t, fl.Begin(validForm()))
	require.Equal(t, StateConfirming, fl.State())
	require.Equal(t, validForm(), fl.Summary())

	fl.Cancel()
	require.Equal(t, StateEditing, fl.State())
	require.Empty(t, fl.LastError())
}

func TestSetDateResetsChosenTime(t *testing.T) {
	fl := NewFlow()
	fl.form = validForm()

	fl.SetDate("2026-09-03")
	require.Equal(t, "10:30", fl.Summary().DeliveryTime, "same date keeps the time")

	fl.SetDate("2026-09-04")
	require.Empty(t, fl.Summary().DeliveryTime)
}

func TestSubmitSuccess(t *testing.T) {
	fl := NewFlow()
	require.NoError(t, fl.Begin(validForm()))

	placer := &fakePlacer{}
	items := []uuid.UUID{uuid.New(), uuid.New()}
	sm, err := fl.Submit(context.Background(), placer, api.Credentials{}, items, 30000, ict)
	require.NoError(t, err)
	require.Equal(t, placer.orderID, sm.Order.ID)
	require.Contains(t, sm.PaymentURL, sm.Order.ID.String())

	require.Len(t, placer.created.Items, 2)
	require.Equal(t, int64(30000), placer.created.ShippingFee)
	want := time.Date(2026, 9, 3, 10, 30, 0, 0, ict)
	require.True(t, placer.created.DeliveryAt.Equal(want))
}

func TestSubmitWithoutConfirmation(t *testing.T) {
	fl := NewFlow()
	_, err := fl.Submit(context.Background(), &fakePlacer{}, api.Credentials{}, nil, 0, ict)
	require.ErrorIs(t, err, ErrNotConfirming)
}

func TestSubmitOrderCreationFailure(t *testing.T) {
	fl := NewFlow()
	require.NoError(t, fl.Begin(validForm()))

	placer := &fakePlacer{createErr: &api.Error{Status: 400, Message: "Stok không đủ"}}
	_, err := fl.Submit(context.Background(), placer, api.Credentials{}, []uuid.UUID{uuid.New()}, 30000, ict)
	require.Error(t, err)

	var created *ErrOrderCreated
	require.False(t, errors.As(err, &created), "no order must exist")
	require.Equal(t, StateEditing, fl.State())
	require.Equal(t, "Stok không đủ", fl.LastError())
	require.Zero(t, placer.paymentURLs)
}

func TestSubmitPaymentURLFailureLeavesOrderCreated(t *testing.T) {
	fl := NewFlow()
	require.NoError(t, fl.Begin(validForm()))

	placer := &fakePlacer{paymentErr: &api.Error{Status: 502, Message: "cổng thanh toán không phản hồi"}}
	_, err := fl.Submit(context.Background(), placer, api.Credentials{}, []uuid.UUID{uuid.New()}, 30000, ict)

	var created *ErrOrderCreated
	require.ErrorAs(t, err, &created)
	require.Equal(t, placer.orderID, created.OrderID)
	require.NotNil(t, placer.created, "order was created upstream")
	require.Equal(t, StateEditing, fl.State(), "user can retry")
	require.Equal(t, "cổng thanh toán không phản hồi", fl.LastError())
}

func TestManagerKeepsFlowsPerUser(t *testing.T) {
	m := NewManager()
	a := m.Flow("alice")
	b := m.Flow("bob")
	require.NotSame(t, a, b)
	require.Same(t, a, m.Flow("alice"))

	m.Reset("alice")
	require.NotSame(t, a, m.Flow("alice"))
}
