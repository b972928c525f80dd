package store

import (
	"context"
	"errors"
	"sync"

	"github.com/avento/storefront/internal/api"
	"github.com/avento/storefront/internal/models"
)

// Search is the search-as-you-type product container. Each new query
// cancels the lookup still in flight, so only the latest result set is
// ever applied.
type Search struct {
	mu      sync.Mutex
	query   string
	results []models.Product
	lastErr error

	client *api.Client
	limit  int
	cancel context.CancelFunc
	gen    uint64
}

func NewSearch(client *api.Client, limit int) *Search {
	return &Search{client: client, limit: limit}
}

func (s *Search) Search(query string) error {
	s.mu.Lock()
	s.query = query
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	products, err := s.client.SearchProducts(ctx, query, s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil
	}
	s.cancel = nil
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		s.lastErr = err
		return err
	}
	s.results = products
	return nil
}

func (s *Search) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *Search) Results() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.results...)
}

func (s *Search) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Search) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// Close cancels any in-flight lookup.
func (s *Search) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}
