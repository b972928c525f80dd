package api

import (
	"context"
	"net/http"

	"github.com/avento/storefront/internal/models"
)

type listPayload struct {
	Name string `json:"name"`
}

func (c *Client) GetLists(ctx context.Context) ([]models.List, error) {
	var lists []models.List
	err := c.do(ctx, http.MethodGet, "/lists", nil, nil, &lists,
		"Unable to fetch lists.")
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (c *Client) CreateList(ctx context.Context, name string) (*models.List, error) {
	var list models.List
	err := c.do(ctx, http.MethodPost, "/lists", nil, listPayload{Name: name}, &list,
		"Unable to create list.")
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) UpdateList(ctx context.Context, listID, name string) (*models.List, error) {
	var list models.List
	err := c.do(ctx, http.MethodPut, "/lists/"+listID, nil, listPayload{Name: name}, &list,
		"Unable to update list.")
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// AddProductToList returns the authoritative post-mutation list.
func (c *Client) AddProductToList(ctx context.Context, listID, productID string) (*models.List, error) {
	var list models.List
	err := c.do(ctx, http.MethodPost, "/lists/"+listID+"/product/"+productID, nil, nil, &list,
		"Unable to add product to list.")
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) RemoveProductFromList(ctx context.Context, listID, productID string) (*models.List, error) {
	var list models.List
	err := c.do(ctx, http.MethodDelete, "/lists/"+listID+"/product/"+productID, nil, nil, &list,
		"Unable to remove product from list.")
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) DeleteList(ctx context.Context, listID string) error {
	return c.do(ctx, http.MethodDelete, "/lists/"+listID, nil, nil, nil,
		"Unable to delete list.")
}
