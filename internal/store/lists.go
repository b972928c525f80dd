package store

import (
	"context"
	"sync"

	"github.com/avento/storefront/internal/api"
	"github.com/avento/storefront/internal/models"
	"github.com/avento/storefront/internal/storage"
)

// Lists caches the user's server-owned lists. Unlike the cart it is never
// optimistic: every mutation goes to the backend first and the affected
// list is replaced with the server's authoritative copy, so the client
// never shows a state the server has not confirmed. A failed call leaves
// the cached collection exactly as it was.
type Lists struct {
	mu      sync.Mutex
	lists   []models.List
	lastErr error
	storage *storage.Store
	client  *api.Client
	confirm Confirm
}

func NewLists(st *storage.Store, client *api.Client, confirm Confirm) *Lists {
	if confirm == nil {
		confirm = ConfirmAlways
	}
	l := &Lists{
		storage: st,
		client:  client,
		confirm: confirm,
	}
	st.Load(storage.KeyLists, &l.lists)
	return l
}

func (l *Lists) Fetch(ctx context.Context) error {
	lists, err := l.client.GetLists(ctx)
	if err != nil {
		l.recordErr(err)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lists = lists
	l.persist()
	return nil
}

func (l *Lists) Create(ctx context.Context, name string) (*models.List, error) {
	created, err := l.client.CreateList(ctx, name)
	if err != nil {
		l.recordErr(err)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lists = append(l.lists, *created)
	l.persist()
	return created, nil
}

func (l *Lists) Rename(ctx context.Context, id, name string) (*models.List, error) {
	if l.isWishlist(id) {
		l.recordErr(ErrWishlistProtected)
		return nil, ErrWishlistProtected
	}

	updated, err := l.client.UpdateList(ctx, id, name)
	if err != nil {
		l.recordErr(err)
		return nil, err
	}

	l.replace(id, *updated)
	return updated, nil
}

func (l *Lists) AddProduct(ctx context.Context, listID, productID string) (*models.List, error) {
	updated, err := l.client.AddProductToList(ctx, listID, productID)
	if err != nil {
		l.recordErr(err)
		return nil, err
	}

	l.replace(listID, *updated)
	return updated, nil
}

// RemoveProduct is destructive and asks for confirmation first. A declined
// prompt is a silent no-op.
func (l *Lists) RemoveProduct(ctx context.Context, listID, productID string) (*models.List, error) {
	if !l.confirm("Are you sure you want to remove product from this list? This action cannot be undone.") {
		return nil, nil
	}

	updated, err := l.client.RemoveProductFromList(ctx, listID, productID)
	if err != nil {
		l.recordErr(err)
		return nil, err
	}

	l.replace(listID, *updated)
	return updated, nil
}

func (l *Lists) Delete(ctx context.Context, id string) error {
	if l.isWishlist(id) {
		l.recordErr(ErrWishlistProtected)
		return ErrWishlistProtected
	}
	if !l.confirm("Are you sure you want to delete this list? This action cannot be undone and will permanently remove all of the list data.") {
		return nil
	}

	if err := l.client.DeleteList(ctx, id); err != nil {
		l.recordErr(err)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.lists[:0]
	for _, list := range l.lists {
		if list.ID != id {
			kept = append(kept, list)
		}
	}
	l.lists = kept
	l.persist()
	return nil
}

// Products resolves a cached list's product ids into full product records
// with a single batch fetch. An empty list never reaches the network.
func (l *Lists) Products(ctx context.Context, listID string) ([]models.Product, error) {
	l.mu.Lock()
	var ids []string
	found := false
	for _, list := range l.lists {
		if list.ID == listID {
			ids = append([]string(nil), list.ProductIDs...)
			found = true
			break
		}
	}
	l.mu.Unlock()

	if !found {
		l.recordErr(ErrListNotFound)
		return nil, ErrListNotFound
	}
	if len(ids) == 0 {
		return nil, nil
	}

	products, err := l.client.GetProductsByIDs(ctx, ids)
	if err != nil {
		l.recordErr(err)
		return nil, err
	}
	return products, nil
}

// Lists returns a copy of the cached collection.
func (l *Lists) Lists() []models.List {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.List(nil), l.lists...)
}

func (l *Lists) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *Lists) ClearError() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastErr = nil
}

func (l *Lists) replace(id string, updated models.List) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.lists {
		if l.lists[i].ID == id {
			l.lists[i] = updated
		}
	}
	l.persist()
}

func (l *Lists) isWishlist(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, list := range l.lists {
		if list.ID == id {
			return list.Name == models.WishlistName
		}
	}
	return false
}

// persist caches the full collection; callers must hold the lock. A cache
// write failure is recorded but does not undo the confirmed mutation.
func (l *Lists) persist() {
	if err := l.storage.Save(storage.KeyLists, l.lists); err != nil {
		l.lastErr = err
	}
}

func (l *Lists) recordErr(err error) {
	l.mu.Lock()
	l.lastErr = err
	l.mu.Unlock()
}
