package store

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avento/storefront/internal/api"
	"github.com/avento/storefront/internal/models"
	"github.com/avento/storefront/internal/storage"
	"github.com/avento/storefront/internal/toast"
)

// Auth owns the session lifecycle: created by login or register, destroyed
// by logout or account deletion, persisted across runs.
type Auth struct {
	mu      sync.Mutex
	session *models.Session
	lastErr error
	storage *storage.Store
	client  *api.Client
	toasts  *toast.Dispatcher
	confirm Confirm
}

func NewAuth(st *storage.Store, client *api.Client, toasts *toast.Dispatcher, confirm Confirm) *Auth {
	if confirm == nil {
		confirm = ConfirmAlways
	}
	a := &Auth{
		storage: st,
		client:  client,
		toasts:  toasts,
		confirm: confirm,
	}

	var stored models.Session
	if st.Load(storage.KeyAuth, &stored) {
		if tokenExpired(stored.Token) {
			st.Delete(storage.KeyAuth)
		} else {
			a.session = &stored
		}
	}
	return a
}

func (a *Auth) Register(ctx context.Context, name, email, password string) error {
	session, err := a.client.Register(ctx, api.RegisterPayload{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		a.clearSession()
		a.recordErr(err)
		a.toasts.Show(toast.Message{
			Title:       "Registration error",
			Description: err.Error(),
			Variant:     toast.VariantDestructive,
		})
		return err
	}

	a.setSession(session)
	a.toasts.Show(toast.Message{
		Title:       "Registration successful",
		Description: "Your account has been created.",
	})
	return nil
}

func (a *Auth) Login(ctx context.Context, email, password string) error {
	session, err := a.client.Login(ctx, api.LoginPayload{Email: email, Password: password})
	if err != nil {
		a.clearSession()
		a.recordErr(err)
		a.toasts.Show(toast.Message{
			Title:       "Login error",
			Description: err.Error(),
			Variant:     toast.VariantDestructive,
		})
		return err
	}

	a.setSession(session)
	a.toasts.Show(toast.Message{
		Title:       "Login successful",
		Description: "You are now signed in.",
	})
	return nil
}

// Logout is purely local: it clears the in-memory and persisted session.
// The prompt may be declined, in which case nothing happens.
func (a *Auth) Logout() {
	if !a.confirm("Are you sure you want to sign out of this account?") {
		return
	}

	a.clearSession()
	a.toasts.Show(toast.Message{
		Title:       "Signed out",
		Description: "You have been signed out of your account.",
	})
}

// DeleteAccount removes the account server-side, then signs out locally
// whether or not the backend call succeeded. A backend error is surfaced
// but never leaves the client signed in.
func (a *Auth) DeleteAccount(ctx context.Context) error {
	if !a.confirm("Are you sure you want to delete your account? This action cannot be undone and will permanently remove all account data.") {
		return nil
	}

	err := a.client.DeleteAccount(ctx)
	a.clearSession()

	if err != nil {
		a.recordErr(err)
		a.toasts.Show(toast.Message{
			Title:       "Delete account error",
			Description: err.Error(),
			Variant:     toast.VariantDestructive,
		})
		return err
	}

	a.toasts.Show(toast.Message{
		Title:       "Account deleted",
		Description: "Your account has been permanently deleted.",
	})
	return nil
}

// Session returns a copy of the current session, or nil when signed out.
func (a *Auth) Session() *models.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil
	}
	session := *a.session
	return &session
}

func (a *Auth) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session != nil
}

// Token returns the bearer token for API calls, or "".
func (a *Auth) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return ""
	}
	return a.session.Token
}

func (a *Auth) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *Auth) ClearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastErr = nil
}

func (a *Auth) setSession(session *models.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = session
	if err := a.storage.Save(storage.KeyAuth, session); err != nil {
		a.lastErr = err
	}
}

func (a *Auth) clearSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = nil
	if err := a.storage.Delete(storage.KeyAuth); err != nil {
		a.lastErr = err
	}
}

func (a *Auth) recordErr(err error) {
	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()
}

// tokenExpired checks the JWT exp claim without verifying the signature;
// the client has no signing key and only needs to know whether presenting
// the token is pointless. Unparseable tokens are treated as live and left
// for the backend to reject.
func tokenExpired(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
