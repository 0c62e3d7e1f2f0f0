package httpserver

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/jwtmiddleware"
)

type Deps struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Order    *OrderHandler
	Admin    *AdminHandler

	JWTSecret []byte
}

type echoValidator struct {
	v *validator.Validate
}

func (ev *echoValidator) Validate(i any) error { return ev.v.Struct(i) }

func Register(e *echo.Echo, d *Deps) {
	e.Validator = &echoValidator{v: validator.New()}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")
	v1.Use(jwtmiddleware.JWTMiddleware(d.JWTSecret))

	v1.GET("/flowers", d.Catalog.ListFlowerColors)
	v1.GET("/flowers/:id", d.Catalog.GetFlowerColor)
	v1.GET("/colors", d.Catalog.ListColors)

	v1.GET("/cart", d.Cart.GetCart)
	v1.PATCH("/cart/items/:id", d.Cart.UpdateQuantity)
	v1.DELETE("/cart/items/:id", d.Cart.RemoveItem)

	v1.GET("/checkout", d.Checkout.View)
	v1.POST("/checkout/confirm", d.Checkout.Confirm)
	v1.POST("/checkout/cancel", d.Checkout.CancelConfirm)
	v1.POST("/checkout/submit", d.Checkout.Submit)
	v1.POST("/recipients", d.Checkout.CreateRecipient)
	v1.PUT("/recipients/:id", d.Checkout.UpdateRecipient)

	v1.GET("/orders/my", d.Order.ListMine)
	v1.GET("/orders/:id", d.Order.Get)
	v1.POST("/orders/:id/cancel", d.Order.Cancel)
	v1.POST("/orders/:id/received", d.Order.MarkReceived)

	admin := v1.Group("/admin", jwtmiddleware.RequireRole("ADMIN"))

	admin.GET("/orders", d.Admin.ListOrders)
	admin.POST("/orders/:id/advance", d.Admin.AdvanceStatus)

	admin.POST("/flower-colors", d.Admin.CreateFlowerColor)
	admin.PUT("/flower-colors/:id", d.Admin.UpdateFlowerColor)
	admin.DELETE("/flower-colors/:id", d.Admin.DeleteFlowerColor)
	admin.POST("/flower-colors/:id/image", d.Admin.UploadImage)

	admin.POST("/colors", d.Admin.CreateColor)
	admin.PUT("/colors/:id", d.Admin.UpdateColor)
	admin.DELETE("/colors/:id", d.Admin.DeleteColor)
}
