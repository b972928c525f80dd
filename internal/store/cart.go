package store

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/avento/storefront/internal/api"
	"github.com/avento/storefront/internal/models"
	"github.com/avento/storefront/internal/storage"
	"github.com/avento/storefront/internal/toast"
)

// MaxLineQuantity caps a single cart line.
const MaxLineQuantity = 50

// Navigate sends the user to an external URL, typically the payment page.
type Navigate func(url string) error

type DeliveryDetails struct {
	FullName string
	Address  string
	Lat      float64
	Lng      float64
}

// Cart is the client-local collection of items pending checkout. It is
// fully optimistic: every mutation applies in memory first and is then
// persisted, with no backend involvement until checkout.
type Cart struct {
	mu       sync.Mutex
	items    []models.CartItem
	lastErr  error
	storage  *storage.Store
	client   *api.Client
	toasts   *toast.Dispatcher
	navigate Navigate
}

func NewCart(st *storage.Store, client *api.Client, toasts *toast.Dispatcher, navigate Navigate) *Cart {
	c := &Cart{
		storage:  st,
		client:   client,
		toasts:   toasts,
		navigate: navigate,
	}
	// Malformed or missing stored state hydrates as an empty cart.
	st.Load(storage.KeyCart, &c.items)
	return c
}

// AddItem merges by product id: an existing line grows by the incoming
// quantity, otherwise the item is appended.
func (c *Cart) AddItem(item models.CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item.Quantity < 1 {
		return c.fail(ErrInvalidQuantity)
	}

	merged := false
	for i := range c.items {
		if c.items[i].ID == item.ID {
			if c.items[i].Quantity+item.Quantity > MaxLineQuantity {
				return c.fail(ErrQuantityLimit)
			}
			c.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		if item.Quantity > MaxLineQuantity {
			return c.fail(ErrQuantityLimit)
		}
		c.items = append(c.items, item)
	}

	if err := c.persist(); err != nil {
		return err
	}
	c.toasts.Show(toast.Message{
		Title:       "Item added",
		Description: fmt.Sprintf("%s added to cart.", item.Name),
	})
	return nil
}

// RemoveItem deletes the line with the given id. A missing id is a no-op.
func (c *Cart) RemoveItem(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	found := false
	var name string
	kept := c.items[:0]
	for _, line := range c.items {
		if line.ID == id {
			found = true
			name = line.Name
			continue
		}
		kept = append(kept, line)
	}
	if !found {
		return nil
	}
	c.items = kept

	if err := c.persist(); err != nil {
		return err
	}
	c.toasts.Show(toast.Message{
		Title:       "Item removed",
		Description: fmt.Sprintf("%s removed from cart.", name),
	})
	return nil
}

// UpdateQuantity sets a line's quantity directly. Zero or less removes the
// line; anything above MaxLineQuantity is rejected. An unknown id is a
// no-op.
func (c *Cart) UpdateQuantity(id string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity > MaxLineQuantity {
		return c.fail(ErrQuantityLimit)
	}

	if quantity <= 0 {
		kept := c.items[:0]
		found := false
		for i := range c.items {
			if c.items[i].ID == id {
				found = true
				continue
			}
			kept = append(kept, c.items[i])
		}
		if !found {
			return nil
		}
		c.items = kept
		return c.persist()
	}

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = quantity
			return c.persist()
		}
	}
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	if err := c.persist(); err != nil {
		return err
	}
	c.toasts.Show(toast.Message{
		Title:       "Cart cleared",
		Description: "All items have been removed from the cart.",
	})
	return nil
}

// Checkout exchanges the current cart for a payment redirect and navigates
// to it. The cart itself is untouched: it is cleared only when the return
// URL signals completion, via CompleteCheckout.
func (c *Cart) Checkout(ctx context.Context, delivery DeliveryDetails) error {
	if delivery.FullName == "" || delivery.Address == "" {
		c.recordErr(ErrMissingDelivery)
		return ErrMissingDelivery
	}

	c.mu.Lock()
	if len(c.items) == 0 {
		defer c.mu.Unlock()
		return c.fail(ErrEmptyCart)
	}
	items := append([]models.CartItem(nil), c.items...)
	c.mu.Unlock()

	session, err := c.client.CreateCheckoutSession(ctx, items)
	if err != nil {
		c.recordErr(err)
		c.toasts.Show(toast.Message{
			Title:       "Checkout error",
			Description: err.Error(),
			Variant:     toast.VariantDestructive,
		})
		return err
	}
	if session.URL == "" {
		c.recordErr(ErrNoCheckoutURL)
		return ErrNoCheckoutURL
	}

	if err := c.navigate(session.URL); err != nil {
		err = fmt.Errorf("open checkout page: %w", err)
		c.recordErr(err)
		return err
	}
	return nil
}

// CompleteCheckout inspects the parameters of the payment return URL and
// clears the cart when the external flow reports success.
func (c *Cart) CompleteCheckout(params url.Values) error {
	if params.Get("checkout_complete") != "true" {
		return nil
	}
	return c.Clear()
}

// Items returns a copy of the current cart lines.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CartItem(nil), c.items...)
}

// TotalItems is the sum of quantities over all lines.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of price times quantity over all lines.
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Err is the last recorded error, if any.
func (c *Cart) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Cart) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = nil
}

func (c *Cart) persist() error {
	if err := c.storage.Save(storage.KeyCart, c.items); err != nil {
		c.lastErr = err
		return err
	}
	return nil
}

// fail records and returns err; callers must hold the lock.
func (c *Cart) fail(err error) error {
	c.lastErr = err
	return err
}

func (c *Cart) recordErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
