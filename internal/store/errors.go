package store

import "errors"

var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrQuantityLimit     = errors.New("quantity limit exceeded")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMissingDelivery   = errors.New("delivery name and address are required")
	ErrNoCheckoutURL     = errors.New("checkout session did not include a redirect URL")
	ErrWishlistProtected = errors.New("the Wishlist list cannot be changed")
	ErrListNotFound      = errors.New("list not found")
)

// Confirm gates a destructive operation. A false return means the user
// declined; the operation becomes a silent no-op, not an error.
type Confirm func(prompt string) bool

// ConfirmAlways is the non-interactive default.
func ConfirmAlways(string) bool { return true }
