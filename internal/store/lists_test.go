package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avento/storefront/internal/api"
	"github.com/avento/storefront/internal/models"
)

// fakeListsBackend is a minimal in-memory /lists implementation.
type fakeListsBackend struct {
	lists    map[string]*models.List
	requests int
	failAll  bool
}

func newFakeListsBackend() *fakeListsBackend {
	return &fakeListsBackend{lists: map[string]*models.List{
		"l1": {ID: "l1", Name: models.WishlistName, ProductIDs: []string{}},
		"l2": {ID: "l2", Name: "Gift ideas", ProductIDs: []string{"p9"}},
	}}
}

func (f *fakeListsBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests++
		if f.failAll {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "database_error"})
			return
		}

		switch {
		case r.URL.Path == "/products" && r.Method == http.MethodGet:
			out := []models.Product{}
			for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
				out = append(out, models.Product{ID: id, Name: "Product " + id})
			}
			json.NewEncoder(w).Encode(out)
		case r.URL.Path == "/lists" && r.Method == http.MethodGet:
			out := make([]models.List, 0, len(f.lists))
			for _, l := range f.lists {
				out = append(out, *l)
			}
			json.NewEncoder(w).Encode(out)
		case r.URL.Path == "/lists" && r.Method == http.MethodPost:
			var payload struct {
				Name string `json:"name"`
			}
			json.NewDecoder(r.Body).Decode(&payload)
			list := &models.List{ID: "l3", Name: payload.Name, ProductIDs: []string{}}
			f.lists[list.ID] = list
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(list)
		case r.Method == http.MethodPut:
			id := r.URL.Path[len("/lists/"):]
			var payload struct {
				Name string `json:"name"`
			}
			json.NewDecoder(r.Body).Decode(&payload)
			list, ok := f.lists[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"error": "list_not_found"})
				return
			}
			list.Name = payload.Name
			json.NewEncoder(w).Encode(list)
		default:
			http.NotFound(w, r)
		}
	})
}

func newListsContainer(t *testing.T, backend *fakeListsBackend, confirm Confirm) *Lists {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return NewLists(newTestStorage(t), api.New(server.URL, nil), confirm)
}

func TestFetchReplacesAndCaches(t *testing.T) {
	lists := newListsContainer(t, newFakeListsBackend(), nil)

	require.NoError(t, lists.Fetch(context.Background()))
	assert.Len(t, lists.Lists(), 2)
}

func TestCreateAppendsServerCopy(t *testing.T) {
	lists := newListsContainer(t, newFakeListsBackend(), nil)
	require.NoError(t, lists.Fetch(context.Background()))

	created, err := lists.Create(context.Background(), "Birthday")
	require.NoError(t, err)
	assert.Equal(t, "l3", created.ID)
	assert.Len(t, lists.Lists(), 3)
}

func TestFailedMutationLeavesStateUntouched(t *testing.T) {
	backend := newFakeListsBackend()
	lists := newListsContainer(t, backend, nil)
	require.NoError(t, lists.Fetch(context.Background()))
	before := lists.Lists()

	backend.failAll = true
	_, err := lists.Rename(context.Background(), "l2", "Renamed")
	require.EqualError(t, err, "database_error")

	assert.Equal(t, before, lists.Lists())
	assert.EqualError(t, lists.Err(), "database_error")
}

func TestRenameReplacesWithServerResponse(t *testing.T) {
	lists := newListsContainer(t, newFakeListsBackend(), nil)
	require.NoError(t, lists.Fetch(context.Background()))

	updated, err := lists.Rename(context.Background(), "l2", "Presents")
	require.NoError(t, err)
	assert.Equal(t, "Presents", updated.Name)

	for _, l := range lists.Lists() {
		if l.ID == "l2" {
			assert.Equal(t, "Presents", l.Name)
		}
	}
}

func TestDeclinedConfirmationIsSilentNoOp(t *testing.T) {
	backend := newFakeListsBackend()
	lists := newListsContainer(t, backend, func(string) bool { return false })
	require.NoError(t, lists.Fetch(context.Background()))
	requestsAfterFetch := backend.requests

	require.NoError(t, lists.Delete(context.Background(), "l2"))
	updated, err := lists.RemoveProduct(context.Background(), "l2", "p9")
	require.NoError(t, err)
	assert.Nil(t, updated)

	// Declined prompts never reach the network.
	assert.Equal(t, requestsAfterFetch, backend.requests)
	assert.Len(t, lists.Lists(), 2)
}

func TestWishlistCannotBeRenamedOrDeleted(t *testing.T) {
	backend := newFakeListsBackend()
	lists := newListsContainer(t, backend, nil)
	require.NoError(t, lists.Fetch(context.Background()))
	requestsAfterFetch := backend.requests

	_, err := lists.Rename(context.Background(), "l1", "Other")
	assert.ErrorIs(t, err, ErrWishlistProtected)
	assert.ErrorIs(t, lists.Delete(context.Background(), "l1"), ErrWishlistProtected)
	assert.Equal(t, requestsAfterFetch, backend.requests)
}

func TestProductsResolvesListIDs(t *testing.T) {
	backend := newFakeListsBackend()
	lists := newListsContainer(t, backend, nil)
	require.NoError(t, lists.Fetch(context.Background()))

	products, err := lists.Products(context.Background(), "l2")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p9", products[0].ID)
}

func TestProductsEmptyAndUnknownLists(t *testing.T) {
	backend := newFakeListsBackend()
	lists := newListsContainer(t, backend, nil)
	require.NoError(t, lists.Fetch(context.Background()))
	requestsAfterFetch := backend.requests

	empty, err := lists.Products(context.Background(), "l1")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = lists.Products(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrListNotFound)

	assert.Equal(t, requestsAfterFetch, backend.requests)
}

func TestListsHydrateFromCache(t *testing.T) {
	st := newTestStorage(t)
	backend := newFakeListsBackend()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	first := NewLists(st, api.New(server.URL, nil), nil)
	require.NoError(t, first.Fetch(context.Background()))

	second := NewLists(st, api.New(server.URL, nil), nil)
	assert.Len(t, second.Lists(), 2)
}
