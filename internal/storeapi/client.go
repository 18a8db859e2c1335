// Package storeapi is the consumer side of the invoice-store HTTP API.
package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/webappproject/geninvoico/internal/model"
)

// Client talks JSON to an invoice-store. Any non-success response status is
// treated as failure.
type Client interface {
	List(ctx context.Context) ([]model.Invoice, error)
	Get(ctx context.Context, id string) (model.Invoice, error)
	Save(ctx context.Context, inv model.Invoice) (model.Invoice, error)
	Delete(ctx context.Context, id string) error
}

// SaveError reports a store call the store rejected or that never reached it.
// The invoice data stays intact for retry.
type SaveError struct {
	Op     string // "list", "get", "save" or "delete"
	Status int    // HTTP status when the store answered, zero on transport failure
	Body   string // short response excerpt for diagnostics
	Err    error
}

func (e *SaveError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("invoice store %s: status %d %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("invoice store %s: %v", e.Op, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// HTTPClient is the production Client over net/http.
type HTTPClient struct {
	BaseURL string // e.g. http://localhost:8080/api
	HTTP    *http.Client
}

func New(baseURL string) *HTTPClient {
	return &HTTPClient{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: http.DefaultClient}
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &SaveError{Op: op, Err: err}
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, &SaveError{Op: op, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &SaveError{Op: op, Err: err}
	}
	return resp, nil
}

func failure(op string, resp *http.Response) error {
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return &SaveError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
}

func (c *HTTPClient) List(ctx context.Context) ([]model.Invoice, error) {
	resp, err := c.do(ctx, "list", http.MethodGet, "/invoices", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, failure("list", resp)
	}
	var out []model.Invoice
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &SaveError{Op: "list", Err: err}
	}
	return out, nil
}

func (c *HTTPClient) Get(ctx context.Context, id string) (model.Invoice, error) {
	resp, err := c.do(ctx, "get", http.MethodGet, "/invoices/"+url.PathEscape(id), nil)
	if err != nil {
		return model.Invoice{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.Invoice{}, failure("get", resp)
	}
	var out model.Invoice
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.Invoice{}, &SaveError{Op: "get", Err: err}
	}
	return out, nil
}

// Save submits the full record; the store answers with the stored form,
// including the assigned id and timestamps.
func (c *HTTPClient) Save(ctx context.Context, inv model.Invoice) (model.Invoice, error) {
	resp, err := c.do(ctx, "save", http.MethodPost, "/invoices", inv)
	if err != nil {
		return model.Invoice{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return model.Invoice{}, failure("save", resp)
	}
	var out model.Invoice
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.Invoice{}, &SaveError{Op: "save", Err: err}
	}
	return out, nil
}

// Delete removes a persisted invoice. Success requires the store to
// acknowledge with 204 (or 200).
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, "delete", http.MethodDelete, "/invoices/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return failure("delete", resp)
	}
	return nil
}
