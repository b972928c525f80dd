package api

import (
	"context"
	"net/http"

	"github.com/avento/storefront/internal/models"
)

func (c *Client) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := c.do(ctx, http.MethodGet, "/settings", nil, nil, &settings,
		"Unable to fetch settings.")
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSetting sends a single-key patch. The backend merges it into the
// stored record.
func (c *Client) UpdateSetting(ctx context.Context, key string, value any) error {
	return c.do(ctx, http.MethodPut, "/settings", nil, map[string]any{key: value}, nil,
		"Failed to update user setting")
}
