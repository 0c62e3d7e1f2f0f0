package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/api"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/orders"
)

type AdminHandler struct {
	API *api.Client
}

type adminOrderView struct {
	orderView
	NextStatus models.OrderStatus `json:"nextStatus,omitempty"`
}

// ListOrders renders the admin order table. Search and status are pure
// client-side predicates over the fetched set; the upstream is never asked
// to filter or paginate.
func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	all, err := h.API.ListOrders(ctx, credentials(c))
	if err != nil {
		return respondAPIError(c, err)
	}

	filtered := orders.Filter(all, c.QueryParam("search"), models.OrderStatus(c.QueryParam("status")))

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	paged := orders.Paginate(filtered, page, size)

	views := make([]adminOrderView, 0, len(paged))
	for _, o := range paged {
		v := adminOrderView{orderView: toOrderView(o, nil)}
		if next, ok := orders.AdminNextStatus(o.Status); ok {
			v.NextStatus = next
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"orders": views,
		"total":  len(filtered),
	})
}

// AdvanceStatus applies the one transition the admin view offers for the
// order's current status.
func (h *AdminHandler) AdvanceStatus(c echo.Context) error {
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
	next, ok := orders.AdminNextStatus(current.Status)
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "trạng thái không thể chuyển tiếp"})
	}

	o, err := h.API.UpdateOrderStatus(ctx, creds, id, next)
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderView(o, nil))
}

// Flower-color management.

type flowerColorRequest struct {
	FlowerName string    `json:"flowerName" validate:"required"`
	ColorID    uuid.UUID `json:"colorId"`
	Price      int64     `json:"price" validate:"gte=0"`
	Quantity   int       `json:"quantity" validate:"gte=0"`
}

func (h *AdminHandler) CreateFlowerColor(c echo.Context) error {
	ctx := c.Request().Context()

	var req flowerColorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flowerName required, price and quantity must be >= 0"})
	}

	out, err := h.API.CreateFlowerColor(ctx, credentials(c), api.FlowerColorRequest(req))
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) UpdateFlowerColor(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req flowerColorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flowerName required, price and quantity must be >= 0"})
	}

	out, err := h.API.UpdateFlowerColor(ctx, credentials(c), id, api.FlowerColorRequest(req))
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) DeleteFlowerColor(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.API.DeleteFlowerColor(ctx, credentials(c), id); err != nil {
		return respondAPIError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage forwards the multipart image to the upstream unchanged.
func (h *AdminHandler) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file unreadable"})
	}
	defer src.Close()

	out, err := h.API.UploadFlowerColorImage(ctx, credentials(c), id, fh.Filename, src)
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Color management.

type colorRequest struct {
	Name string `json:"name" validate:"required"`
	Hex  string `json:"hexCode"`
}

func (h *AdminHandler) CreateColor(c echo.Context) error {
	ctx := c.Request().Context()

	var req colorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	out, err := h.API.CreateColor(ctx, credentials(c), models.Color{Name: req.Name, Hex: req.Hex})
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) UpdateColor(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req colorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	out, err := h.API.UpdateColor(ctx, credentials(c), id, models.Color{ID: id, Name: req.Name, Hex: req.Hex})
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) DeleteColor(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.API.DeleteColor(ctx, credentials(c), id); err != nil {
		return respondAPIError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
