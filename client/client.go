// Package client is the Go consumer of the catalog API. It carries the pieces
// the presentation layer builds on: a REST client, the submit-blocking field
// validation, the visible product list with client-side search, and the
// optimistic delete controller with its bounded undo window.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mrops-br/catalog-api/pkg/catalog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	// ErrNotFound reports a 404 from the server. For update and delete this
	// is a normal (if unsuccessful) outcome, not a transport failure.
	ErrNotFound = errors.New("product not found")
)

// ValidationError blocks a submission that failed client-side field
// validation. Nothing is sent to the server when it is returned.
type ValidationError struct {
	Fields catalog.FieldErrors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Client talks to the catalog API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a catalog API client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List retrieves all products in store order.
func (c *Client) List(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get retrieves a single product, or ErrNotFound.
func (c *Client) Get(ctx context.Context, id int64) (catalog.Product, error) {
	var product catalog.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return catalog.Product{}, err
	}
	return product, nil
}

// Create validates the payload and submits it. A *ValidationError blocks the
// submission entirely. On success the server responds with the FULL updated
// collection; the newly created record, with its server-assigned ID, is the
// collection's last element.
func (c *Client) Create(ctx context.Context, payload catalog.ProductPayload) ([]catalog.Product, error) {
	if errs := catalog.Validate(payload); !errs.Valid() {
		return nil, &ValidationError{Fields: errs}
	}

	var products []catalog.Product
	if err := c.do(ctx, http.MethodPost, "/products", payload, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Update submits a partial payload to be merged over the stored product.
// Absent fields are retained server-side and any payload ID is ignored, so
// full field validation does not apply here; callers editing a whole record
// run catalog.Validate on the form before submitting.
func (c *Client) Update(ctx context.Context, id int64, payload catalog.ProductPayload) (catalog.Product, error) {
	var product catalog.Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), payload, &product); err != nil {
		return catalog.Product{}, err
	}
	return product, nil
}

// Delete removes a product, or reports ErrNotFound.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, serverMessage(resp.Body))
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// serverMessage pulls the `{"message": ...}` body off an error response.
func serverMessage(body io.Reader) string {
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&msg); err != nil || msg.Message == "" {
		return "no message"
	}
	return msg.Message
}
