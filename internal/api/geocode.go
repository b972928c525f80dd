package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avento/storefront/internal/models"
)

// Geocoder looks up address candidates against a Nominatim-style endpoint.
// It is a separate client because the geocoder is not part of the storefront
// backend and carries no auth.
type Geocoder struct {
	url  string
	http *http.Client
}

func NewGeocoder(endpoint string) *Geocoder {
	return &Geocoder{url: endpoint, http: http.DefaultClient}
}

func NewGeocoderWithHTTPClient(endpoint string, hc *http.Client) *Geocoder {
	return &Geocoder{url: endpoint, http: hc}
}

func (g *Geocoder) Search(ctx context.Context, query string, limit int) ([]models.Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search address: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Status: resp.StatusCode, Message: "Unable to search for address"}
	}

	var places []models.Place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode places: %w", err)
	}
	return places, nil
}
