package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/cache"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
)

func (c *Client) GetMyCart(ctx context.Context, creds Credentials) (models.Cart, error) {
	return query[models.Cart](ctx, c, cache.TagCart, RequestSpec{
		Method: http.MethodGet,
		Path:   "/cart/my",
	}, creds)
}

// UpdateCartItemQuantity round-trips a quantity edit. The server recomputes
// prices and totals; callers must refetch rather than trust the request.
func (c *Client) UpdateCartItemQuantity(ctx context.Context, creds Credentials, itemID uuid.UUID, quantity int) (models.CartItem, error) {
	var out models.CartItem
	err := c.mutate(ctx, RequestSpec{
		Method: http.MethodPatch,
		Path:   "/cart/items/" + itemID.String(),
		Body:   map[string]int{"quantity": quantity},
	}, creds, &out, cache.TagCart)
	return out, err
}

func (c *Client) RemoveCartItem(ctx context.Context, creds Credentials, itemID uuid.UUID) error {
	return c.mutate(ctx, RequestSpec{
		Method: http.MethodDelete,
		Path:   "/cart/items/" + itemID.String(),
	}, creds, nil, cache.TagCart)
}
