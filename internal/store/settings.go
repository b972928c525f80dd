package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/avento/storefront/internal/api"
	"github.com/avento/storefront/internal/models"
	"github.com/avento/storefront/internal/storage"
)

// ThemeApplier switches the visual theme. SystemDark probes the OS-level
// preference; it is consulted each time the theme is applied with DarkMode
// unset, never cached.
type (
	ThemeApplier func(dark bool)
	SystemDark   func() bool
)

// Settings applies preference changes optimistically: memory and cache are
// updated immediately, then the backend is told. A backend failure records
// the error but does not roll the local value back.
type Settings struct {
	mu         sync.Mutex
	settings   models.Settings
	lastErr    error
	storage    *storage.Store
	client     *api.Client
	auth       *Auth
	applyTheme ThemeApplier
	systemDark SystemDark
}

func NewSettings(st *storage.Store, client *api.Client, auth *Auth, applyTheme ThemeApplier, systemDark SystemDark) *Settings {
	if applyTheme == nil {
		applyTheme = func(bool) {}
	}
	if systemDark == nil {
		systemDark = func() bool { return false }
	}
	s := &Settings{
		settings:   models.DefaultSettings(),
		storage:    st,
		client:     client,
		auth:       auth,
		applyTheme: applyTheme,
		systemDark: systemDark,
	}
	st.Load(storage.KeySettings, &s.settings)
	return s
}

// Load replaces local state with the backend's record for the signed-in
// user. Signed-out clients keep their local defaults.
func (s *Settings) Load(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		return nil
	}

	remote, err := s.client.GetSettings(ctx)
	if err != nil {
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	s.settings = *remote
	if err := s.storage.Save(storage.KeySettings, s.settings); err != nil {
		s.lastErr = err
	}
	s.mu.Unlock()

	s.applyDarkMode()
	return nil
}

// Update sets one preference key. The local value is applied and cached
// before the backend call, and stays applied even if that call fails.
func (s *Settings) Update(ctx context.Context, key string, value any) error {
	if !s.auth.IsAuthenticated() {
		return nil
	}

	s.mu.Lock()
	if err := s.set(key, value); err != nil {
		s.lastErr = err
		s.mu.Unlock()
		return err
	}
	if err := s.storage.Save(storage.KeySettings, s.settings); err != nil {
		s.lastErr = err
	}
	s.mu.Unlock()

	if key == "darkMode" {
		s.applyDarkMode()
	}

	if err := s.client.UpdateSetting(ctx, key, value); err != nil {
		s.recordErr(err)
		return err
	}
	return nil
}

// Settings returns a copy of the current record.
func (s *Settings) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Settings) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Settings) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// applyDarkMode resolves the tri-state preference: an explicit true/false
// wins, nil falls through to the OS preference probed right now.
func (s *Settings) applyDarkMode() {
	s.mu.Lock()
	pref := s.settings.DarkMode
	s.mu.Unlock()

	if pref != nil {
		s.applyTheme(*pref)
		return
	}
	s.applyTheme(s.systemDark())
}

// set mutates one field by its wire key; callers must hold the lock.
func (s *Settings) set(key string, value any) error {
	if key == "darkMode" {
		switch v := value.(type) {
		case nil:
			s.settings.DarkMode = nil
		case bool:
			s.settings.DarkMode = &v
		case *bool:
			s.settings.DarkMode = v
		default:
			return fmt.Errorf("setting %q takes a bool or nil", key)
		}
		return nil
	}

	flag, ok := value.(bool)
	if !ok {
		return fmt.Errorf("setting %q takes a bool", key)
	}
	switch key {
	case "loginAlerts":
		s.settings.LoginAlerts = flag
	case "trustedDevices":
		s.settings.TrustedDevices = flag
	case "analyticsTracking":
		s.settings.AnalyticsTracking = flag
	case "personalizedRecommendations":
		s.settings.PersonalizedRecommendations = flag
	case "compactProductLayout":
		s.settings.CompactProductLayout = flag
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func (s *Settings) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
