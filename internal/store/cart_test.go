package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avento/storefront/internal/api"
	"github.com/avento/storefront/internal/models"
	"github.com/avento/storefront/internal/storage"
	"github.com/avento/storefront/internal/toast"
)

func newTestDispatcher(t *testing.T) *toast.Dispatcher {
	t.Helper()
	d := toast.NewDispatcher(toast.Options{Limit: 1, RemoveDelay: time.Minute})
	t.Cleanup(d.Close)
	return d
}

func newTestStorage(t *testing.T) *storage.Store {
	t.Helper()
	st, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return st
}

func item(id string, price int64, quantity int) models.CartItem {
	return models.CartItem{
		ID:       id,
		Name:     "Item " + id,
		Price:    decimal.NewFromInt(price),
		Currency: "USD",
		Quantity: quantity,
	}
}

func TestAddItemMergesByID(t *testing.T) {
	cart := NewCart(newTestStorage(t), nil, newTestDispatcher(t), nil)

	require.NoError(t, cart.AddItem(item("p1", 10, 1)))
	require.NoError(t, cart.AddItem(item("p1", 10, 2)))

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, cart.TotalPrice().Equal(decimal.NewFromInt(30)))
}

func TestRemoveNonexistentIsNoOp(t *testing.T) {
	toasts := newTestDispatcher(t)
	cart := NewCart(newTestStorage(t), nil, toasts, nil)
	require.NoError(t, cart.AddItem(item("p1", 10, 1)))

	require.NoError(t, cart.RemoveItem("missing"))
	assert.Len(t, cart.Items(), 1)
	// No removal toast either: the last toast is still the add.
	assert.Equal(t, "Item added", toasts.Messages()[0].Title)
}

func TestTotalsTrackAnyMutationSequence(t *testing.T) {
	cart := NewCart(newTestStorage(t), nil, newTestDispatcher(t), nil)

	require.NoError(t, cart.AddItem(item("a", 5, 2)))
	require.NoError(t, cart.AddItem(item("b", 7, 1)))
	require.NoError(t, cart.UpdateQuantity("a", 4))
	require.NoError(t, cart.RemoveItem("b"))
	require.NoError(t, cart.AddItem(item("c", 3, 10)))
	require.NoError(t, cart.UpdateQuantity("c", 0))

	wantItems := 0
	wantPrice := decimal.Zero
	for _, it := range cart.Items() {
		wantItems += it.Quantity
		wantPrice = wantPrice.Add(it.Subtotal())
	}
	assert.Equal(t, wantItems, cart.TotalItems())
	assert.True(t, cart.TotalPrice().Equal(wantPrice))
	assert.Equal(t, 4, cart.TotalItems())
	assert.True(t, cart.TotalPrice().Equal(decimal.NewFromInt(20)))
}

func TestQuantityZeroRemovesLine(t *testing.T) {
	cart := NewCart(newTestStorage(t), nil, newTestDispatcher(t), nil)
	require.NoError(t, cart.AddItem(item("p1", 10, 2)))

	require.NoError(t, cart.UpdateQuantity("p1", 0))
	assert.Empty(t, cart.Items())
}

func TestQuantityLimitRejected(t *testing.T) {
	cart := NewCart(newTestStorage(t), nil, newTestDispatcher(t), nil)
	require.NoError(t, cart.AddItem(item("p1", 10, 2)))

	assert.ErrorIs(t, cart.UpdateQuantity("p1", MaxLineQuantity+1), ErrQuantityLimit)
	assert.ErrorIs(t, cart.AddItem(item("p1", 10, MaxLineQuantity)), ErrQuantityLimit)
	assert.Equal(t, 2, cart.Items()[0].Quantity)
	assert.ErrorIs(t, cart.Err(), ErrQuantityLimit)

	cart.ClearError()
	assert.NoError(t, cart.Err())
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	cart := NewCart(newTestStorage(t), nil, newTestDispatcher(t), nil)
	assert.ErrorIs(t, cart.AddItem(item("p1", 10, 0)), ErrInvalidQuantity)
	assert.Empty(t, cart.Items())
}

func TestCartHydratesFromStorage(t *testing.T) {
	st := newTestStorage(t)
	first := NewCart(st, nil, newTestDispatcher(t), nil)
	require.NoError(t, first.AddItem(item("p1", 10, 3)))

	second := NewCart(st, nil, newTestDispatcher(t), nil)
	require.Len(t, second.Items(), 1)
	assert.Equal(t, 3, second.Items()[0].Quantity)
}

func TestCheckoutNavigatesAndKeepsCart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/create-checkout-session", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"url": "https://pay.example/s/42"})
	}))
	defer server.Close()

	var navigated string
	cart := NewCart(newTestStorage(t), api.New(server.URL, nil), newTestDispatcher(t), func(u string) error {
		navigated = u
		return nil
	})
	require.NoError(t, cart.AddItem(item("p1", 10, 1)))

	err := cart.Checkout(context.Background(), DeliveryDetails{FullName: "Ada", Address: "1 Main St"})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/s/42", navigated)
	// Cleared only by the payment return flow, not by checkout itself.
	assert.Len(t, cart.Items(), 1)
}

func TestCheckoutFailureLeavesCartAndRecordsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "stripe_error"})
	}))
	defer server.Close()

	cart := NewCart(newTestStorage(t), api.New(server.URL, nil), newTestDispatcher(t), nil)
	require.NoError(t, cart.AddItem(item("p1", 10, 1)))

	err := cart.Checkout(context.Background(), DeliveryDetails{FullName: "Ada", Address: "1 Main St"})
	require.EqualError(t, err, "stripe_error")
	assert.Len(t, cart.Items(), 1)
	assert.EqualError(t, cart.Err(), "stripe_error")
}

func TestCheckoutMissingURLIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	cart := NewCart(newTestStorage(t), api.New(server.URL, nil), newTestDispatcher(t), nil)
	require.NoError(t, cart.AddItem(item("p1", 10, 1)))

	assert.ErrorIs(t, cart.Checkout(context.Background(), DeliveryDetails{FullName: "Ada", Address: "1 Main St"}), ErrNoCheckoutURL)
	assert.Len(t, cart.Items(), 1)
}

func TestCheckoutEmptyCart(t *testing.T) {
	cart := NewCart(newTestStorage(t), nil, newTestDispatcher(t), nil)
	assert.ErrorIs(t, cart.Checkout(context.Background(), DeliveryDetails{FullName: "Ada", Address: "1 Main St"}), ErrEmptyCart)
}

func TestCheckoutRequiresDelivery(t *testing.T) {
	cart := NewCart(newTestStorage(t), nil, newTestDispatcher(t), nil)
	require.NoError(t, cart.AddItem(item("p1", 10, 1)))
	assert.ErrorIs(t, cart.Checkout(context.Background(), DeliveryDetails{}), ErrMissingDelivery)
}

func TestCompleteCheckoutClearsOnSuccessParam(t *testing.T) {
	cart := NewCart(newTestStorage(t), nil, newTestDispatcher(t), nil)
	require.NoError(t, cart.AddItem(item("p1", 10, 1)))

	require.NoError(t, cart.CompleteCheckout(url.Values{"other": {"x"}}))
	assert.Len(t, cart.Items(), 1)

	require.NoError(t, cart.CompleteCheckout(url.Values{"checkout_complete": {"true"}}))
	assert.Empty(t, cart.Items())
}
