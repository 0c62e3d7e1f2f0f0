package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/api"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/cart"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/money"
)

type CartHandler struct {
	API        *api.Client
	Reconciler *cart.Reconciler
}

type cartItemView struct {
	models.CartItem
	UnitPriceDisplay string `json:"unitPriceDisplay"`
	LineTotalDisplay string `json:"lineTotalDisplay"`
}

type cartView struct {
	Items        []cartItemView `json:"items"`
	Total        int64          `json:"total"`
	TotalDisplay string         `json:"totalDisplay"`
}

func toCartView(ct models.Cart) cartView {
	v := cartView{Items: make([]cartItemView, 0, len(ct.Items))}
	for _, it := range ct.Items {
		v.Items = append(v.Items, cartItemView{
			CartItem:         it,
			UnitPriceDisplay: money.FormatVND(it.EffectiveUnitPrice()),
			LineTotalDisplay: money.FormatVND(it.LineTotal()),
		})
	}
	v.Total = ct.Total()
	v.TotalDisplay = money.FormatVND(v.Total)
	return v
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	ct, err := h.API.GetMyCart(ctx, credentials(c))
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusOK, toCartView(ct))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type updateQuantityResponse struct {
	Quantity   int    `json:"quantity"`
	Warning    string `json:"warning,omitempty"`
	Superseded bool   `json:"superseded,omitempty"`
	Error      string `json:"error,omitempty"`
}

// UpdateQuantity round-trips one quantity edit and answers with the
// server-authoritative quantity, never the requested one.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	creds := credentials(c)

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req updateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ct, err := h.API.GetMyCart(ctx, creds)
	if err != nil {
		return respondAPIError(c, err)
	}
	var item models.CartItem
	found := false
	for _, it := range ct.Items {
		if it.ID == itemID {
			item = it
			found = true
			break
		}
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
	}

	res, err := h.Reconciler.SetQuantity(ctx, creds, item, req.Quantity)
	if errors.Is(err, cart.ErrSuperseded) {
		return c.JSON(http.StatusOK, updateQuantityResponse{Quantity: res.Quantity, Superseded: true})
	}
	if err != nil {
		msg := genericErrorMessage
		if apiErr, ok := api.AsError(err); ok {
			msg = apiErr.UserMessage()
		}
		return c.JSON(http.StatusOK, updateQuantityResponse{
			Quantity: res.Quantity,
			Warning:  res.Warning,
			Error:    msg,
		})
	}
	return c.JSON(http.StatusOK, updateQuantityResponse{Quantity: res.Quantity, Warning: res.Warning})
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	if err := h.API.RemoveCartItem(ctx, credentials(c), itemID); err != nil {
		return respondAPIError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
