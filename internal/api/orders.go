package api

import (
	"context"
	"net/http"

	"github.com/avento/storefront/internal/models"
)

type orderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
	Quantity    int     `json:"quantity"`
	Currency    string  `json:"currency"`
}

type createOrderPayload struct {
	Items   []orderItem `json:"items"`
	Name    string      `json:"name"`
	Address string      `json:"address"`
}

// OrderPayment is the result of creating an order together with its payment
// session.
type OrderPayment struct {
	OrderID string `json:"order_id"`
	URL     string `json:"url"`
}

func (c *Client) GetOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &orders,
		"Unable to fetch orders.")
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder records an order with delivery details and starts its payment
// flow in one call.
func (c *Client) CreateOrder(ctx context.Context, items []models.CartItem, name, address string) (*OrderPayment, error) {
	payload := createOrderPayload{
		Items:   make([]orderItem, 0, len(items)),
		Name:    name,
		Address: address,
	}
	for _, item := range items {
		payload.Items = append(payload.Items, orderItem{
			ProductID:   item.ID,
			ProductName: item.Name,
			Amount:      item.Price.InexactFloat64(),
			Quantity:    item.Quantity,
			Currency:    item.Currency,
		})
	}

	var result OrderPayment
	err := c.do(ctx, http.MethodPost, "/orders", nil, payload, &result,
		"Unable to create order and start payment.")
	if err != nil {
		return nil, err
	}
	return &result, nil
}
