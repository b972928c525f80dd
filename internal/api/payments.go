package api

import (
	"context"
	"net/http"

	"github.com/avento/storefront/internal/models"
)

type CheckoutItem struct {
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
	Quantity    int     `json:"quantity"`
	Currency    string  `json:"currency"`
}

type checkoutSessionPayload struct {
	Items []CheckoutItem `json:"items"`
}

// CheckoutSession is the server-issued redirect target for completing
// payment externally.
type CheckoutSession struct {
	URL string `json:"url"`
}

func checkoutItems(items []models.CartItem) []CheckoutItem {
	out := make([]CheckoutItem, 0, len(items))
	for _, item := range items {
		out = append(out, CheckoutItem{
			ProductName: item.Name,
			Amount:      item.Price.InexactFloat64(),
			Quantity:    item.Quantity,
			Currency:    item.Currency,
		})
	}
	return out
}

// CreateCheckoutSession exchanges the cart lines for a payment redirect URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, items []models.CartItem) (*CheckoutSession, error) {
	payload := checkoutSessionPayload{Items: checkoutItems(items)}

	var session CheckoutSession
	err := c.do(ctx, http.MethodPost, "/payments/create-checkout-session", nil, payload, &session,
		"Unable to create checkout session.")
	if err != nil {
		return nil, err
	}
	return &session, nil
}
