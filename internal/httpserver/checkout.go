package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/api"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/checkout"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/logging"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/money"
)

type CheckoutHandler struct {
	API         *api.Client
	Flows       *checkout.Manager
	ShippingFee int64
	Location    *time.Location

	// Now is stubbed in tests.
	Now func() time.Time
}

func (h *CheckoutHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().In(h.Location)
	}
	return time.Now().In(h.Location)
}

type checkoutViewResponse struct {
	State              checkout.State  `json:"state"`
	Form               checkout.Form   `json:"form"`
	Error              string          `json:"error,omitempty"`
	Recipients         []recipientView `json:"recipients"`
	TimeSlots          []string        `json:"timeSlots"`
	ShippingFee        int64           `json:"shippingFee"`
	ShippingFeeDisplay string          `json:"shippingFeeDisplay"`
}

type recipientView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IsDefault bool      `json:"isDefault"`
}

// View renders the editing screen: saved recipient profiles and the time
// slots of the selected date. Selecting a new date resets a chosen time.
func (h *CheckoutHandler) View(c echo.Context) error {
	ctx := c.Request().Context()
	fl := h.Flows.Flow(subject(c))

	recipients, err := h.API.ListMyRecipientInfos(ctx, credentials(c))
	if err != nil {
		return respondAPIError(c, err)
	}

	resp := checkoutViewResponse{
		ShippingFee:        h.ShippingFee,
		ShippingFeeDisplay: money.FormatVND(h.ShippingFee),
	}
	for _, r := range recipients {
		resp.Recipients = append(resp.Recipients, recipientView(r))
	}

	if raw := c.QueryParam("date"); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, h.Location)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		fl.SetDate(raw)
		resp.TimeSlots = checkout.TimeSlots(date, h.now())
	}

	resp.State = fl.State()
	resp.Form = fl.Summary()
	resp.Error = fl.LastError()
	return c.JSON(http.StatusOK, resp)
}

// Confirm validates the form and moves the flow to the confirmation step.
// The first failing field aborts the transition with its message.
func (h *CheckoutHandler) Confirm(c echo.Context) error {
	fl := h.Flows.Flow(subject(c))

	var form checkout.Form
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	if err := fl.Begin(form); err != nil {
		if errors.Is(err, checkout.ErrInFlight) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "đơn hàng đang được xử lý"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"state": fl.State(), "summary": fl.Summary()})
}

// CancelConfirm steps back from the summary dialog with no side effect.
func (h *CheckoutHandler) CancelConfirm(c echo.Context) error {
	fl := h.Flows.Flow(subject(c))
	fl.Cancel()
	return c.JSON(http.StatusOK, echo.Map{"state": fl.State()})
}

// Submit creates the order from the current cart and requests the payment
// redirect URL. A payment-URL failure leaves the order created upstream.
func (h *CheckoutHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	creds := credentials(c)
	sub := subject(c)
	fl := h.Flows.Flow(sub)

	ct, err := h.API.GetMyCart(ctx, creds)
	if err != nil {
		return respondAPIError(c, err)
	}
	if len(ct.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "giỏ hàng trống"})
	}
	items := make([]uuid.UUID, 0, len(ct.Items))
	for _, it := range ct.Items {
		items = append(items, it.ID)
	}

	sm, err := fl.Submit(ctx, h.API, creds, items, h.ShippingFee, h.Location)
	if err != nil {
		var created *checkout.ErrOrderCreated
		switch {
		case errors.Is(err, checkout.ErrInFlight):
			return c.JSON(http.StatusConflict, echo.Map{"error": "đơn hàng đang được xử lý"})
		case errors.Is(err, checkout.ErrNotConfirming):
			return c.JSON(http.StatusConflict, echo.Map{"error": "vui lòng xác nhận đơn hàng trước"})
		case errors.As(err, &created):
			// Known gap: the order exists but the payment URL failed. No
			// compensation, the user retries from the order list.
			logging.FromContext(ctx).Error("payment url failed after order creation",
				"order_id", created.OrderID, "error", created.Err)
			return c.JSON(http.StatusBadGateway, echo.Map{
				"error":   fl.LastError(),
				"orderId": created.OrderID,
			})
		default:
			return respondAPIError(c, err)
		}
	}

	h.Flows.Reset(sub)
	return c.JSON(http.StatusOK, echo.Map{
		"orderId":    sm.Order.ID,
		"paymentUrl": sm.PaymentURL,
	})
}

// Recipients CRUD used by the checkout screen.

type recipientRequest struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	IsDefault bool   `json:"isDefault"`
}

func (h *CheckoutHandler) CreateRecipient(c echo.Context) error {
	ctx := c.Request().Context()

	var req recipientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, phone and address are required"})
	}

	out, err := h.API.CreateRecipientInfo(ctx, credentials(c), api.RecipientInfoRequest(req))
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CheckoutHandler) UpdateRecipient(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req recipientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, phone and address are required"})
	}

	out, err := h.API.UpdateRecipientInfo(ctx, credentials(c), id, api.RecipientInfoRequest(req))
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
