package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/cache"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
)

type RecipientInfoRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	IsDefault bool   `json:"isDefault"`
}

func (c *Client) ListMyRecipientInfos(ctx context.Context, creds Credentials) ([]models.RecipientInfo, error) {
	return query[[]models.RecipientInfo](ctx, c, cache.TagRecipientInfo, RequestSpec{
		Method: http.MethodGet,
		Path:   "/recipient-infos/my",
	}, creds)
}

func (c *Client) CreateRecipientInfo(ctx context.Context, creds Credentials, req RecipientInfoRequest) (models.RecipientInfo, error) {
	var out models.RecipientInfo
	err := c.mutate(ctx, RequestSpec{
		Method: http.MethodPost,
		Path:   "/recipient-infos",
		Body:   req,
	}, creds, &out, cache.TagRecipientInfo)
	return out, err
}

func (c *Client) UpdateRecipientInfo(ctx context.Context, creds Credentials, id uuid.UUID, req RecipientInfoRequest) (models.RecipientInfo, error) {
	var out models.RecipientInfo
	err := c.mutate(ctx, RequestSpec{
		Method: http.MethodPut,
		Path:   "/recipient-infos/" + id.String(),
		Body:   req,
	}, creds, &out, cache.TagRecipientInfo)
	return out, err
}
