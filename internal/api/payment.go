package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// PaymentURL asks the upstream for the gateway redirect URL of an order. Not
// cached: the gateway signs each URL for one use.
func (c *Client) PaymentURL(ctx context.Context, creds Credentials, orderID uuid.UUID) (string, error) {
	var out struct {
		PaymentURL string `json:"paymentUrl"`
	}
	err := c.do(ctx, RequestSpec{
		Method: http.MethodGet,
		Path:   "/payments/" + orderID.String() + "/url",
	}, creds, &out)
	if err != nil {
		return "", err
	}
	return out.PaymentURL, nil
}
