package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session is the authenticated identity persisted across runs. A non-nil
// session means the client is authenticated.
type Session struct {
	User      User   `json:"user"`
	Token     string `json:"token,omitempty"`
	TokenType string `json:"token_type,omitempty"`
}

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	Inventory     int             `json:"inventory"`
	Category      string          `json:"category,omitempty"`
	Images        []string        `json:"images,omitempty"`
	Attributes    map[string]any  `json:"attributes,omitempty"`
	AverageReview float64         `json:"average_review,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitzero"`
	UpdatedAt     time.Time       `json:"updated_at,omitzero"`
}

type Review struct {
	ID        string    `json:"id"`
	Author    string    `json:"author,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type CartItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Quantity int             `json:"quantity"`
	Images   []string        `json:"images,omitempty"`
}

// Subtotal is price times quantity for this line.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type List struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ProductIDs []string  `json:"product_ids"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	UpdatedAt  time.Time `json:"updated_at,omitzero"`
}

// WishlistName is the distinguished list every account owns. The backend
// refuses to rename or delete it and this client does not try.
const WishlistName = "Wishlist"

type Order struct {
	ID         string   `json:"id"`
	ProductIDs []string `json:"product_ids"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
}

// Settings is the per-user preference record. DarkMode is tri-state: nil
// defers to the OS preference, resolved when the theme is applied.
type Settings struct {
	LoginAlerts                 bool  `json:"loginAlerts"`
	TrustedDevices              bool  `json:"trustedDevices"`
	AnalyticsTracking           bool  `json:"analyticsTracking"`
	PersonalizedRecommendations bool  `json:"personalizedRecommendations"`
	CompactProductLayout        bool  `json:"compactProductLayout"`
	DarkMode                    *bool `json:"darkMode"`
}

func DefaultSettings() Settings {
	return Settings{
		LoginAlerts:    true,
		TrustedDevices: true,
	}
}

// Place is one address candidate returned by the geocoder.
type Place struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}
