package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// TokenSource returns the current bearer token, or "" when the client is
// not authenticated. It is consulted on every request so a login or logout
// between calls takes effect immediately.
type TokenSource func() string

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

func New(baseURL string, token TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		token:   token,
	}
}

// NewWithHTTPClient is used by tests to swap the transport.
func NewWithHTTPClient(baseURL string, token TokenSource, hc *http.Client) *Client {
	c := New(baseURL, token)
	c.http = hc
	return c
}

// do issues a JSON request and decodes the response into out (which may be
// nil). Non-2xx responses are returned as *Error with the server's message,
// falling back to defaultMsg.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, defaultMsg string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, defaultMsg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError extracts the {"error": "..."} body the backend uses for all
// failures. A missing or malformed body falls back to the route default.
func decodeError(resp *http.Response, defaultMsg string) error {
	apiErr := &Error{Status: resp.StatusCode, Message: defaultMsg}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}
