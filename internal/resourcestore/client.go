// Package resourcestore is a client for a generic REST document store
// (json-server shape): flat collections of JSON entities supporting
// get-all, get-by-id, create, partial update and delete. The store offers
// no transactions, locking or uniqueness constraints; callers enforce
// whatever consistency they need.
package resourcestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotFound is returned when the store answers 404 for an entity.
var ErrNotFound = errors.New("resource not found")

// Client talks to one resource-store base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the store at baseURL. A zero timeout defaults
// to 10 seconds; the legacy frontend had no timeout at all, which meant a
// hung call stalled the flow indefinitely.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// List fetches every entity in a collection into out (a pointer to a slice).
func (c *Client) List(ctx context.Context, collection string, out interface{}) error {
	return c.do(ctx, http.MethodGet, c.baseURL+"/"+collection, nil, out)
}

// Get fetches a single entity by ID into out.
func (c *Client) Get(ctx context.Context, collection, id string, out interface{}) error {
	return c.do(ctx, http.MethodGet, c.baseURL+"/"+collection+"/"+id, nil, out)
}

// Create posts a new entity and decodes the created representation into out
// (out may be nil).
func (c *Client) Create(ctx context.Context, collection string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, c.baseURL+"/"+collection, in, out)
}

// Patch partially updates the named fields of an entity.
func (c *Client) Patch(ctx context.Context, collection, id string, fields map[string]interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPatch, c.baseURL+"/"+collection+"/"+id, fields, out)
}

// Delete removes an entity.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	return c.do(ctx, http.MethodDelete, c.baseURL+"/"+collection+"/"+id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, url string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("resource store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resource store returned %d: %s", resp.StatusCode, payload)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
