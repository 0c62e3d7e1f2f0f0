package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/api"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/money"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/orders"
)

type OrderHandler struct {
	API *api.Client
}

type orderView struct {
	models.Order
	StatusLabel  string          `json:"statusLabel"`
	StatusColor  string          `json:"statusColor"`
	TotalDisplay string          `json:"totalDisplay"`
	Actions      []orders.Action `json:"actions"`
}

func toOrderView(o models.Order, actions []orders.Action) orderView {
	return orderView{
		Order:        o,
		StatusLabel:  orders.StatusLabel(o.Status),
		StatusColor:  orders.StatusColor(o.Status),
		TotalDisplay: money.FormatVND(o.TotalPayment),
		Actions:      actions,
	}
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.API.ListMyOrders(ctx, credentials(c))
	if err != nil {
		return respondAPIError(c, err)
	}

	views := make([]orderView, 0, len(list))
	for _, o := range list {
		views = append(views, toOrderView(o, orders.CustomerActions(o.Status)))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	o, err := h.API.GetOrder(ctx, credentials(c), id)
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderView(o, orders.CustomerActions(o.Status)))
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	o, err := h.API.CancelOrder(ctx, credentials(c), id)
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderView(o, orders.CustomerActions(o.Status)))
}

// MarkReceived confirms delivery of a shipping order.
func (h *OrderHandler) MarkReceived(c echo.Context) error {
	ctx := c.Request().Context()
	creds := credentials(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	current, err := h.API.GetOrder(ctx, creds, id)
	if err != nil {
		return respondAPIError(c, err)
	}
	if current.Status != models.OrderStatusShipping {
		return c.JSON(http.StatusConflict, echo.Map{"error": "đơn hàng chưa được giao"})
	}

	o, err := h.API.UpdateOrderStatus(ctx, creds, id, models.OrderStatusDelivered)
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderView(o, orders.CustomerActions(o.Status)))
}
