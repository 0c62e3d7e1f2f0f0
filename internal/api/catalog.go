package api

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/cache"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
)

type FlowerColorRequest struct {
	FlowerName string    `json:"flowerName"`
	ColorID    uuid.UUID `json:"colorId"`
	Price      int64     `json:"price"`
	Quantity   int       `json:"quantity"`
}

func (c *Client) ListFlowerColors(ctx context.Context, creds Credentials) ([]models.FlowerColor, error) {
	return query[[]models.FlowerColor](ctx, c, cache.TagFlowerColor, RequestSpec{
		Method: http.MethodGet,
		Path:   "/flower-colors",
	}, creds)
}

func (c *Client) GetFlowerColor(ctx context.Context, creds Credentials, id uuid.UUID) (models.FlowerColor, error) {
	return query[models.FlowerColor](ctx, c, cache.TagFlowerColor, RequestSpec{
		Method: http.MethodGet,
		Path:   "/flower-colors/" + id.String(),
	}, creds)
}

func (c *Client) CreateFlowerColor(ctx context.Context, creds Credentials, req FlowerColorRequest) (models.FlowerColor, error) {
	var out models.FlowerColor
	err := c.mutate(ctx, RequestSpec{
		Method: http.MethodPost,
		Path:   "/flower-colors",
		Body:   req,
	}, creds, &out, cache.TagFlowerColor)
	return out, err
}

// UpdateFlowerColor changes price/quantity of a variant.
func (c *Client) UpdateFlowerColor(ctx context.Context, creds Credentials, id uuid.UUID, req FlowerColorRequest) (models.FlowerColor, error) {
	var out models.FlowerColor
	err := c.mutate(ctx, RequestSpec{
		Method: http.MethodPut,
		Path:   "/flower-colors/" + id.String(),
		Body:   req,
	}, creds, &out, cache.TagFlowerColor)
	return out, err
}

func (c *Client) DeleteFlowerColor(ctx context.Context, creds Credentials, id uuid.UUID) error {
	return c.mutate(ctx, RequestSpec{
		Method: http.MethodDelete,
		Path:   "/flower-colors/" + id.String(),
	}, creds, nil, cache.TagFlowerColor)
}

func (c *Client) UploadFlowerColorImage(ctx context.Context, creds Credentials, id uuid.UUID, filename string, content io.Reader) (models.FlowerColor, error) {
	var out models.FlowerColor
	err := c.mutate(ctx, RequestSpec{
		Method: http.MethodPost,
		Path:   "/flower-colors/" + id.String() + "/image",
		Multipart: &MultipartPayload{
			Field:    "image",
			Filename: filename,
			Content:  content,
		},
	}, creds, &out, cache.TagFlowerColor)
	return out, err
}

func (c *Client) ListColors(ctx context.Context, creds Credentials) ([]models.Color, error) {
	return query[[]models.Color](ctx, c, cache.TagColor, RequestSpec{
		Method: http.MethodGet,
		Path:   "/colors",
	}, creds)
}

func (c *Client) GetColor(ctx context.Context, creds Credentials, id uuid.UUID) (models.Color, error) {
	return query[models.Color](ctx, c, cache.TagColor, RequestSpec{
		Method: http.MethodGet,
		Path:   "/colors/" + id.String(),
	}, creds)
}

func (c *Client) CreateColor(ctx context.Context, creds Credentials, color models.Color) (models.Color, error) {
	var out models.Color
	err := c.mutate(ctx, RequestSpec{
		Method: http.MethodPost,
		Path:   "/colors",
		Body:   color,
	}, creds, &out, cache.TagColor)
	return out, err
}

func (c *Client) UpdateColor(ctx context.Context, creds Credentials, id uuid.UUID, color models.Color) (models.Color, error) {
	var out models.Color
	err := c.mutate(ctx, RequestSpec{
		Method: http.MethodPut,
		Path:   "/colors/" + id.String(),
		Body:   color,
	}, creds, &out, cache.TagColor)
	return out, err
}

func (c *Client) DeleteColor(ctx context.Context, creds Credentials, id uuid.UUID) error {
	return c.mutate(ctx, RequestSpec{
		Method: http.MethodDelete,
		Path:   "/colors/" + id.String(),
	}, creds, nil, cache.TagColor)
}
