package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/avento/storefront/internal/models"
)

// SearchProducts runs a free-text query. An empty query returns the
// unfiltered catalog. limit <= 0 leaves the server default in place.
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	q := url.Values{}
	if query != "" {
		q.Set("query", query)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var products []models.Product
	err := c.do(ctx, http.MethodGet, "/products", q, nil, &products,
		"Unable to fetch products.")
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductsByIDs fetches a batch of products in one request.
func (c *Client) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))

	var products []models.Product
	err := c.do(ctx, http.MethodGet, "/products", q, nil, &products,
		"Unable to fetch products.")
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := c.do(ctx, http.MethodGet, "/products/"+id, nil, nil, &product,
		"Unable to fetch product.")
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) GetProductReviews(ctx context.Context, id string) ([]models.Review, error) {
	var reviews []models.Review
	err := c.do(ctx, http.MethodGet, "/products/"+id+"/reviews", nil, nil, &reviews,
		"Unable to fetch product reviews.")
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

type CreateProductPayload struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price"`
	Currency    string         `json:"currency"`
	Inventory   int            `json:"inventory,omitempty"`
	Category    string         `json:"category,omitempty"`
	Images      []string       `json:"images,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// CreateProduct is the administrative write path, used by the seed script.
func (c *Client) CreateProduct(ctx context.Context, payload CreateProductPayload) (*models.Product, error) {
	var product models.Product
	err := c.do(ctx, http.MethodPost, "/products", nil, payload, &product,
		"Unable to create product.")
	if err != nil {
		return nil, err
	}
	return &product, nil
}
