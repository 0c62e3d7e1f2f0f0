package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/api"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/money"
)

type CatalogHandler struct {
	API *api.Client
}

type flowerColorView struct {
	models.FlowerColor
	PriceDisplay string `json:"priceDisplay"`
}

func (h *CatalogHandler) ListFlowerColors(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.API.ListFlowerColors(ctx, credentials(c))
	if err != nil {
		return respondAPIError(c, err)
	}

	views := make([]flowerColorView, 0, len(list))
	for _, fc := range list {
		views = append(views, flowerColorView{FlowerColor: fc, PriceDisplay: money.FormatVND(fc.Price)})
	}
	return c.JSON(http.StatusOK, views)
}

func (h *CatalogHandler) GetFlowerColor(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	fc, err := h.API.GetFlowerColor(ctx, credentials(c), id)
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusOK, flowerColorView{FlowerColor: fc, PriceDisplay: money.FormatVND(fc.Price)})
}

func (h *CatalogHandler) ListColors(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.API.ListColors(ctx, credentials(c))
	if err != nil {
		return respondAPIError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
