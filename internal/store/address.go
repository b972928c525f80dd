package store

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/avento/storefront/internal/api"
	"github.com/avento/storefront/internal/models"
	"github.com/avento/storefront/internal/toast"
)

type AddressOptions struct {
	Debounce  time.Duration
	MinLength int
	Limit     int
}

// Address drives delivery-address autocomplete. Input is debounced, an
// in-flight lookup is cancelled before a new one starts, and a lookup that
// loses the race never overwrites fresher results.
type Address struct {
	mu      sync.Mutex
	query   string
	address string
	lat     float64
	lng     float64
	results []models.Place

	geo    *api.Geocoder
	toasts *toast.Dispatcher
	opts   AddressOptions

	timer  *time.Timer
	cancel context.CancelFunc
	gen    uint64
}

func NewAddress(geo *api.Geocoder, toasts *toast.Dispatcher, opts AddressOptions) *Address {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.MinLength <= 0 {
		opts.MinLength = 3
	}
	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	return &Address{
		geo:    geo,
		toasts: toasts,
		opts:   opts,
		// Initial map position before any address is chosen.
		lat: 41.8781,
		lng: -87.6298,
	}
}

// Search records the query and schedules a debounced lookup. Queries under
// the minimum length clear the candidate list without a network call.
func (a *Address) Search(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.query = text
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.opts.Debounce, func() {
		a.lookup(text)
	})
}

func (a *Address) lookup(text string) {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}

	if len(text) < a.opts.MinLength {
		a.results = nil
		a.mu.Unlock()
		return
	}

	a.gen++
	gen := a.gen
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.mu.Unlock()

	places, err := a.geo.Search(ctx, text, a.opts.Limit)

	a.mu.Lock()
	if gen != a.gen {
		// A newer lookup superseded this one while it was in flight.
		a.mu.Unlock()
		return
	}
	a.cancel = nil
	if err != nil {
		a.mu.Unlock()
		if errors.Is(err, context.Canceled) {
			return
		}
		a.toasts.Show(toast.Message{
			Title:       "Address error",
			Description: err.Error(),
			Variant:     toast.VariantDestructive,
		})
		return
	}

	sort.Slice(places, func(i, j int) bool {
		return places[i].PlaceID > places[j].PlaceID
	})
	a.results = places
	a.mu.Unlock()
}

// Select collapses the candidate list and sets address and coordinates
// atomically.
func (a *Address) Select(place models.Place) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.query = place.DisplayName
	a.address = place.DisplayName
	if lat, err := strconv.ParseFloat(place.Lat, 64); err == nil {
		a.lat = lat
	}
	if lng, err := strconv.ParseFloat(place.Lon, 64); err == nil {
		a.lng = lng
	}
	a.results = nil
}

// SetAddress sets the free-text address without touching coordinates.
func (a *Address) SetAddress(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.address = text
}

func (a *Address) Query() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.query
}

func (a *Address) Address() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.address
}

func (a *Address) Coordinates() (lat, lng float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lat, a.lng
}

func (a *Address) Results() []models.Place {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Place(nil), a.results...)
}

// Close stops the pending debounce timer and cancels any in-flight lookup.
func (a *Address) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.gen++
}
