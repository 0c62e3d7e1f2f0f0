package upstreamstub

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (s *Stub) routes(e *echo.Echo) {
	e.GET("/cart/my", s.getCart)
	e.PATCH("/cart/items/:id", s.updateCartItem)
	e.DELETE("/cart/items/:id", s.removeCartItem)

	e.GET("/flower-colors", s.listFlowerColors)
	e.GET("/flower-colors/:id", s.getFlowerColor)
	e.POST("/flower-colors", s.createFlowerColor)
	e.PUT("/flower-colors/:id", s.updateFlowerColor)
	e.DELETE("/flower-colors/:id", s.deleteFlowerColor)
	e.POST("/flower-colors/:id/image", s.uploadImage)

	e.GET("/colors", s.listColors)
	e.POST("/colors", s.createColor)
	e.PUT("/colors/:id", s.updateColor)
	e.DELETE("/colors/:id", s.deleteColor)

	e.GET("/recipient-infos/my", s.listRecipients)
	e.POST("/recipient-infos", s.createRecipient)
	e.PUT("/recipient-infos/:id", s.updateRecipient)

	e.GET("/orders", s.listOrders)
	e.GET("/orders/my", s.listMyOrders)
	e.GET("/orders/:id", s.getOrder)
	e.POST("/orders", s.createOrder)
	e.PATCH("/orders/:id/status", s.updateOrderStatus)
	e.PATCH("/orders/:id/cancel", s.cancelOrder)

	e.GET("/payments/:id/url", s.paymentURL)
}

func finalPrice(fc FlowerColorRow) int64 {
	if fc.SalePrice > 0 {
		return fc.SalePrice
	}
	return fc.Price
}

func (s *Stub) cartItemJSON(row CartItemRow) echo.Map {
	var fc FlowerColorRow
	s.DB.First(&fc, "id = ?", row.FlowerColorID)
	fp := finalPrice(fc)
	return echo.Map{
		"id":            row.ID,
		"flowerColorId": fc.ID,
		"flowerName":    fc.FlowerName,
		"image":         fc.Image,
		"quantity":      row.Quantity,
		"stock":         fc.Quantity,
		"unitPrice":     fc.Price,
		"finalPrice":    fp,
		"totalPrice":    fp * int64(row.Quantity),
	}
}

func (s *Stub) getCart(c echo.Context) error {
	var rows []CartItemRow
	s.DB.Where("user_id = ?", c.Get("sub")).Find(&rows)

	items := make([]echo.Map, 0, len(rows))
	var total int64
	for _, r := range rows {
		j := s.cartItemJSON(r)
		items = append(items, j)
		total += j["totalPrice"].(int64)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "totalPrice": total})
}

// updateCartItem is server-authoritative: a quantity above stock is clamped,
// a quantity below one is rejected.
func (s *Stub) updateCartItem(c echo.Context) error {
	if s.FailCartUpdate {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "kho đang bận, thử lại sau"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil || req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be >= 1"})
	}

	var row CartItemRow
	if err := s.DB.First(&row, "id = ? AND user_id = ?", c.Param("id"), c.Get("sub")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
	}
	var fc FlowerColorRow
	s.DB.First(&fc, "id = ?", row.FlowerColorID)

	qty := req.Quantity
	if fc.Quantity > 0 && qty > fc.Quantity {
		qty = fc.Quantity
	}
	row.Quantity = qty
	s.DB.Save(&row)
	return c.JSON(http.StatusOK, s.cartItemJSON(row))
}

func (s *Stub) removeCartItem(c echo.Context) error {
	s.DB.Delete(&CartItemRow{}, "id = ? AND user_id = ?", c.Param("id"), c.Get("sub"))
	return c.NoContent(http.StatusNoContent)
}

func flowerColorJSON(fc FlowerColorRow) echo.Map {
	return echo.Map{
		"id":         fc.ID,
		"flowerName": fc.FlowerName,
		"colorId":    fc.ColorID,
		"colorName":  fc.ColorName,
		"price":      fc.Price,
		"quantity":   fc.Quantity,
		"image":      fc.Image,
	}
}

func (s *Stub) listFlowerColors(c echo.Context) error {
	var rows []FlowerColorRow
	s.DB.Find(&rows)
	out := make([]echo.Map, 0, len(rows))
	for _, r := range rows {
		out = append(out, flowerColorJSON(r))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Stub) getFlowerColor(c echo.Context) error {
	var fc FlowerColorRow
	if err := s.DB.First(&fc, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "flower color not found"})
	}
	return c.JSON(http.StatusOK, flowerColorJSON(fc))
}

func (s *Stub) createFlowerColor(c echo.Context) error {
	var req struct {
		FlowerName string `json:"flowerName"`
		ColorID    string `json:"colorId"`
		Price      int64  `json:"price"`
		Quantity   int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	row := FlowerColorRow{
		ID:         uuid.NewString(),
		FlowerName: req.FlowerName,
		ColorID:    req.ColorID,
		Price:      req.Price,
		Quantity:   req.Quantity,
	}
	s.DB.Create(&row)
	return c.JSON(http.StatusCreated, flowerColorJSON(row))
}

func (s *Stub) updateFlowerColor(c echo.Context) error {
	var fc FlowerColorRow
	if err := s.DB.First(&fc, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "flower color not found"})
	}
	var req struct {
		FlowerName string `json:"flowerName"`
		Price      int64  `json:"price"`
		Quantity   int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FlowerName != "" {
		fc.FlowerName = req.FlowerName
	}
	fc.Price = req.Price
	fc.Quantity = req.Quantity
	s.DB.Save(&fc)
	return c.JSON(http.StatusOK, flowerColorJSON(fc))
}

func (s *Stub) deleteFlowerColor(c echo.Context) error {
	s.DB.Delete(&FlowerColorRow{}, "id = ?", c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (s *Stub) uploadImage(c echo.Context) error {
	var fc FlowerColorRow
	if err := s.DB.First(&fc, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "flower color not found"})
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image required"})
	}
	fc.Image = "/uploads/" + fh.Filename
	s.DB.Save(&fc)
	return c.JSON(http.StatusOK, flowerColorJSON(fc))
}

func colorJSON(r ColorRow) echo.Map {
	return echo.Map{"id": r.ID, "name": r.Name, "hexCode": r.Hex}
}

func (s *Stub) listColors(c echo.Context) error {
	var rows []ColorRow
	s.DB.Find(&rows)
	out := make([]echo.Map, 0, len(rows))
	for _, r := range rows {
		out = append(out, colorJSON(r))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Stub) createColor(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
		Hex  string `json:"hexCode"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	row := ColorRow{ID: uuid.NewString(), Name: req.Name, Hex: req.Hex}
	s.DB.Create(&row)
	return c.JSON(http.StatusCreated, colorJSON(row))
}

func (s *Stub) updateColor(c echo.Context) error {
	var row ColorRow
	if err := s.DB.First(&row, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "color not found"})
	}
	var req struct {
		Name string `json:"name"`
		Hex  string `json:"hexCode"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	row.Name = req.Name
	row.Hex = req.Hex
	s.DB.Save(&row)
	return c.JSON(http.StatusOK, colorJSON(row))
}

func (s *Stub) deleteColor(c echo.Context) error {
	s.DB.Delete(&ColorRow{}, "id = ?", c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func recipientJSON(r RecipientRow) echo.Map {
	return echo.Map{
		"id":        r.ID,
		"name":      r.Name,
		"phone":     r.Phone,
		"address":   r.Address,
		"isDefault": r.IsDefault,
	}
}

func (s *Stub) listRecipients(c echo.Context) error {
	var rows []RecipientRow
	s.DB.Where("user_id = ?", c.Get("sub")).Find(&rows)
	out := make([]echo.Map, 0, len(rows))
	for _, r := range rows {
		out = append(out, recipientJSON(r))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Stub) createRecipient(c echo.Context) error {
	var req struct {
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
		IsDefault bool   `json:"isDefault"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	sub, _ := c.Get("sub").(string)
	if req.IsDefault {
		s.DB.Model(&RecipientRow{}).Where("user_id = ?", sub).Update("is_default", false)
	}
	row := RecipientRow{
		ID:        uuid.NewString(),
		UserID:    sub,
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		IsDefault: req.IsDefault,
	}
	s.DB.Create(&row)
	return c.JSON(http.StatusCreated, recipientJSON(row))
}

func (s *Stub) updateRecipient(c echo.Context) error {
	var row RecipientRow
	if err := s.DB.First(&row, "id = ? AND user_id = ?", c.Param("id"), c.Get("sub")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "recipient not found"})
	}
	var req struct {
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
		IsDefault bool   `json:"isDefault"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.IsDefault && !row.IsDefault {
		s.DB.Model(&RecipientRow{}).Where("user_id = ?", row.UserID).Update("is_default", false)
	}
	row.Name = req.Name
	row.Phone = req.Phone
	row.Address = req.Address
	row.IsDefault = req.IsDefault
	s.DB.Save(&row)
	return c.JSON(http.StatusOK, recipientJSON(row))
}

func (s *Stub) orderJSON(row OrderRow) echo.Map {
	var details []OrderDetailRow
	s.DB.Where("order_id = ?", row.ID).Find(&details)
	ds := make([]echo.Map, 0, len(details))
	for _, d := range details {
		ds = append(ds, echo.Map{
			"flowerColorId": d.FlowerColorID,
			"flowerName":    d.FlowerName,
			"quantity":      d.Quantity,
			"unitPrice":     d.UnitPrice,
			"totalPrice":    d.TotalPrice,
		})
	}
	return echo.Map{
		"id":               row.ID,
		"orderCode":        row.Code,
		"customerName":     row.CustomerName,
		"status":           row.Status,
		"totalPayment":     row.TotalPayment,
		"shippingFee":      row.ShippingFee,
		"recipientName":    row.RecipientName,
		"recipientPhone":   row.RecipientPhone,
		"recipientAddress": row.RecipientAddress,
		"note":             row.Note,
		"deliveryAt":       row.DeliveryAt,
		"orderDate":        row.OrderDate,
		"orderDetails":     ds,
	}
}

func (s *Stub) listOrders(c echo.Context) error {
	if role, _ := c.Get("role").(string); role != "ADMIN" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin only"})
	}
	var rows []OrderRow
	s.DB.Find(&rows)
	out := make([]echo.Map, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.orderJSON(r))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Stub) listMyOrders(c echo.Context) error {
	var rows []OrderRow
	s.DB.Where("user_id = ?", c.Get("sub")).Find(&rows)
	out := make([]echo.Map, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.orderJSON(r))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Stub) getOrder(c echo.Context) error {
	var row OrderRow
	if err := s.DB.First(&row, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	return c.JSON(http.StatusOK, s.orderJSON(row))
}

func (s *Stub) createOrder(c echo.Context) error {
	var req struct {
		Items []struct {
			CartItemID string `json:"cartItemId"`
		} `json:"items"`
		RecipientName    string    `json:"recipientName"`
		RecipientPhone   string    `json:"recipientPhone"`
		RecipientAddress string    `json:"recipientAddress"`
		Note             string    `json:"note"`
		DeliveryAt       time.Time `json:"deliveryAt"`
		ShippingFee      int64     `json:"shippingFee"`
	}
	if err := c.Bind(&req); err != nil || len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items required"})
	}
	sub, _ := c.Get("sub").(string)

	order := OrderRow{
		ID:               uuid.NewString(),
		Code:             fmt.Sprintf("ORD-%d", time.Now().UnixNano()%1_000_000),
		UserID:           sub,
		CustomerName:     sub,
		Status:           "PENDING",
		ShippingFee:      req.ShippingFee,
		RecipientName:    req.RecipientName,
		RecipientPhone:   req.RecipientPhone,
		RecipientAddress: req.RecipientAddress,
		Note:             req.Note,
		DeliveryAt:       req.DeliveryAt,
		OrderDate:        time.Now(),
	}

	var total int64
	for _, it := range req.Items {
		var row CartItemRow
		if err := s.DB.First(&row, "id = ? AND user_id = ?", it.CartItemID, sub).Error; err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart item not found"})
		}
		var fc FlowerColorRow
		s.DB.First(&fc, "id = ?", row.FlowerColorID)
		fp := finalPrice(fc)
		line := fp * int64(row.Quantity)
		total += line
		s.DB.Create(&OrderDetailRow{
			OrderID:       order.ID,
			FlowerColorID: fc.ID,
			FlowerName:    fc.FlowerName,
			Quantity:      row.Quantity,
			UnitPrice:     fp,
			TotalPrice:    line,
		})
		s.DB.Delete(&CartItemRow{}, "id = ?", row.ID)
	}
	order.TotalPayment = total + req.ShippingFee
	s.DB.Create(&order)
	return c.JSON(http.StatusCreated, s.orderJSON(order))
}

func (s *Stub) updateOrderStatus(c echo.Context) error {
	var row OrderRow
	if err := s.DB.First(&row, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}
	row.Status = req.Status
	s.DB.Save(&row)
	return c.JSON(http.StatusOK, s.orderJSON(row))
}

func (s *Stub) cancelOrder(c echo.Context) error {
	var row OrderRow
	if err := s.DB.First(&row, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	if row.Status == "CANCELLED" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "đơn hàng đã bị hủy"})
	}
	row.Status = "CANCELLED"
	s.DB.Save(&row)
	return c.JSON(http.StatusOK, s.orderJSON(row))
}

func (s *Stub) paymentURL(c echo.Context) error {
	if s.FailPayments {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "cổng thanh toán không phản hồi"})
	}
	var row OrderRow
	if err := s.DB.First(&row, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"paymentUrl": "https://pay.example.com/redirect/" + row.ID,
	})
}
