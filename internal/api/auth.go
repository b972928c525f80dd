package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/avento/storefront/internal/models"
)

type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

func (r sessionResponse) session() *models.Session {
	return &models.Session{
		User:      r.User,
		Token:     r.AccessToken,
		TokenType: r.TokenType,
	}
}

// Register creates an account. The backend returns a full session inline on
// success, so no follow-up login call is needed.
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (*models.Session, error) {
	if err := payload.validate(); err != nil {
		return nil, err
	}

	var resp sessionResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, payload, &resp,
		"Unable to register. Please check your input.")
	if err != nil {
		return nil, err
	}
	return resp.session(), nil
}

func (c *Client) Login(ctx context.Context, payload LoginPayload) (*models.Session, error) {
	var resp sessionResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, payload, &resp,
		"Unable to login. Please check your credentials.")
	if err != nil {
		return nil, err
	}
	return resp.session(), nil
}

// DeleteAccount permanently removes the authenticated account server-side.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/auth/deleteAccount", nil, nil, nil,
		"Unable to delete account.")
}

// validate mirrors the backend's registration schema so obvious mistakes
// fail before a round trip.
func (p RegisterPayload) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(p.Email) == "" {
		return ErrInvalidEmail
	}
	if len(p.Password) < 8 {
		return ErrPasswordTooWeak
	}
	return nil
}
