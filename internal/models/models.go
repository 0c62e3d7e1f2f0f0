package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipping   OrderStatus = "SHIPPING"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Order is the server-owned order record. The client never mutates it
// directly, only through status actions.
type Order struct {
	ID               uuid.UUID     `json:"id"`
	Code             string        `json:"orderCode"`
	CustomerName     string        `json:"customerName"`
	Status           OrderStatus   `json:"status"`
	TotalPayment     int64         `json:"totalPayment"`
	ShippingFee      int64         `json:"shippingFee"`
	RecipientName    string        `json:"recipientName"`
	RecipientPhone   string        `json:"recipientPhone"`
	RecipientAddress string        `json:"recipientAddress"`
	Note             string        `json:"note"`
	DeliveryAt       time.Time     `json:"deliveryAt"`
	OrderDate        time.Time     `json:"orderDate"`
	Details          []OrderDetail `json:"orderDetails"`
}

type OrderDetail struct {
	FlowerColorID uuid.UUID `json:"flowerColorId"`
	FlowerName    string    `json:"flowerName"`
	Quantity      int       `json:"quantity"`
	UnitPrice     int64     `json:"unitPrice"`
	TotalPrice    int64     `json:"totalPrice"`
}

// LineTotal prefers the server-computed total and falls back to a local
// product only when the server omitted it.
func (d OrderDetail) LineTotal() int64 {
	if d.TotalPrice > 0 {
		return d.TotalPrice
	}
	return d.UnitPrice * int64(d.Quantity)
}

// CartItem mirrors one cart line as the server reports it. Stock <= 0 means
// the server did not report availability and the quantity is unbounded above.
type CartItem struct {
	ID            uuid.UUID `json:"id"`
	FlowerColorID uuid.UUID `json:"flowerColorId"`
	FlowerName    string    `json:"flowerName"`
	Image         string    `json:"image"`
	Quantity      int       `json:"quantity"`
	Stock         int       `json:"stock"`
	UnitPrice     int64     `json:"unitPrice"`
	FinalPrice    int64     `json:"finalPrice"`
	TotalPrice    int64     `json:"totalPrice"`
}

// EffectiveUnitPrice prefers the promotion-adjusted price over the list price.
func (i CartItem) EffectiveUnitPrice() int64 {
	if i.FinalPrice > 0 {
		return i.FinalPrice
	}
	return i.UnitPrice
}

func (i CartItem) LineTotal() int64 {
	if i.TotalPrice > 0 {
		return i.TotalPrice
	}
	return i.EffectiveUnitPrice() * int64(i.Quantity)
}

type Cart struct {
	Items      []CartItem `json:"items"`
	TotalPrice int64      `json:"totalPrice"`
}

// Total prefers the server-computed cart total.
func (c Cart) Total() int64 {
	if c.TotalPrice > 0 {
		return c.TotalPrice
	}
	var sum int64
	for _, i := range c.Items {
		sum += i.LineTotal()
	}
	return sum
}

// RecipientInfo is a saved shipping profile. At most one is marked default.
type RecipientInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IsDefault bool      `json:"isDefault"`
}

// FlowerColor is a purchasable variant pairing a flower with a color,
// carrying its own price and stock.
type FlowerColor struct {
	ID         uuid.UUID `json:"id"`
	FlowerName string    `json:"flowerName"`
	ColorID    uuid.UUID `json:"colorId"`
	ColorName  string    `json:"colorName"`
	Price      int64     `json:"price"`
	Quantity   int       `json:"quantity"`
	Image      string    `json:"image"`
}

type Color struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Hex  string    `json:"hexCode"`
}
