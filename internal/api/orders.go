package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/cache"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
)

type CreateOrderItem struct {
	CartItemID uuid.UUID `json:"cartItemId"`
}

type CreateOrderRequest struct {
	Items            []CreateOrderItem `json:"items"`
	RecipientName    string            `json:"recipientName"`
	RecipientPhone   string            `json:"recipientPhone"`
	RecipientAddress string            `json:"recipientAddress"`
	Note             string            `json:"note"`
	DeliveryAt       time.Time         `json:"deliveryAt"`
	ShippingFee      int64             `json:"shippingFee"`
}

// ListOrders returns every order. Admin only upstream.
func (c *Client) ListOrders(ctx context.Context, creds Credentials) ([]models.Order, error) {
	return query[[]models.Order](ctx, c, cache.TagOrder, RequestSpec{
		Method: http.MethodGet,
		Path:   "/orders",
	}, creds)
}

func (c *Client) GetOrder(ctx context.Context, creds Credentials, id uuid.UUID) (models.Order, error) {
	return query[models.Order](ctx, c, cache.TagOrder, RequestSpec{
		Method: http.MethodGet,
		Path:   "/orders/" + id.String(),
	}, creds)
}

func (c *Client) ListMyOrders(ctx context.Context, creds Credentials) ([]models.Order, error) {
	return query[[]models.Order](ctx, c, cache.TagOrder, RequestSpec{
		Method: http.MethodGet,
		Path:   "/orders/my",
	}, creds)
}

// CreateOrder submits the checkout. It consumes cart lines, so both Order and
// Cart go stale.
func (c *Client) CreateOrder(ctx context.Context, creds Credentials, req CreateOrderRequest) (models.Order, error) {
	var out models.Order
	err := c.mutate(ctx, RequestSpec{
		Method: http.MethodPost,
		Path:   "/orders",
		Body:   req,
	}, creds, &out, cache.TagOrder, cache.TagCart)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, creds Credentials, id uuid.UUID, status models.OrderStatus) (models.Order, error) {
	var out models.Order
	err := c.mutate(ctx, RequestSpec{
		Method: http.MethodPatch,
		Path:   "/orders/" + id.String() + "/status",
		Body:   map[string]models.OrderStatus{"status": status},
	}, creds, &out, cache.TagOrder)
	return out, err
}

func (c *Client) CancelOrder(ctx context.Context, creds Credentials, id uuid.UUID) (models.Order, error) {
	var out models.Order
	err := c.mutate(ctx, RequestSpec{
		Method: http.MethodPatch,
		Path:   "/orders/" + id.String() + "/cancel",
	}, creds, &out, cache.TagOrder)
	return out, err
}
