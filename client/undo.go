package client

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/catalog-api/pkg/catalog"
)

// DefaultGracePeriod is how long the undo affordance stays reachable after a
// confirmed delete.
const DefaultGracePeriod = 5 * time.Second

var (
	// ErrNoPendingUndo reports an undo attempted with no live grace window;
	// by then the affordance is gone and the call is a no-op.
	ErrNoPendingUndo = errors.New("no pending undo")

	// ErrUnknownProduct reports a delete requested for a product that is not
	// in the visible list.
	ErrUnknownProduct = errors.New("product not in visible list")

	// ErrRequestResolved reports a DeleteRequest that was already confirmed
	// or cancelled.
	ErrRequestResolved = errors.New("delete request already resolved")
)

// ListController owns the locally rendered product list and coordinates it
// with the server on deletes: the record disappears from the list the moment
// the delete is confirmed, while a shadow copy is held for the grace period in
// case of undo. Undo is "recreate", not "unerase": the restored record comes
// back from the server under a fresh ID.
type ListController struct {
	api    *Client
	grace  time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	products []catalog.Product
	pending  *pendingDelete
}

// pendingDelete is one confirmed delete's shadow and its grace timer. The
// token ties the timer to its own shadow, so a superseded timer can never
// clear a newer pending delete.
type pendingDelete struct {
	token  string
	shadow catalog.Product
	timer  *time.Timer
}

// NewListController creates a controller over the given API client. A
// non-positive grace duration selects DefaultGracePeriod.
func NewListController(api *Client, grace time.Duration, logger *slog.Logger) *ListController {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListController{
		api:    api,
		grace:  grace,
		logger: logger,
	}
}

// Refresh replaces the visible list with server truth. It is also the
// reconciliation path after a reported failure left the view inconsistent.
func (c *ListController) Refresh(ctx context.Context) error {
	products, err := c.api.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.products = products
	c.mu.Unlock()
	return nil
}

// Products returns a snapshot of the visible list.
func (c *ListController) Products() []catalog.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]catalog.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Search filters the visible list by case-insensitive substring match on the
// title. Filtering is purely client-side.
func (c *ListController) Search(query string) []catalog.Product {
	query = strings.ToLower(query)

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]catalog.Product, 0, len(c.products))
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Title), query) {
			out = append(out, p)
		}
	}
	return out
}

// RequestDelete starts the confirmation step for a visible product. Nothing
// is issued to the server until the returned request is confirmed.
func (c *ListController) RequestDelete(id int64) (*DeleteRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.products {
		if p.ID == id {
			return &DeleteRequest{ctrl: c, product: p}, nil
		}
	}
	return nil, ErrUnknownProduct
}

// UndoAvailable reports whether an undo affordance is currently surfaced.
func (c *ListController) UndoAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Undo restores the most recently deleted product while its grace window is
// live: the shadow is re-created server-side without its original ID and the
// re-identified record is appended to the visible list. After the window has
// elapsed the shadow is gone and Undo reports ErrNoPendingUndo without
// touching anything.
func (c *ListController) Undo(ctx context.Context) (catalog.Product, error) {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return catalog.Product{}, ErrNoPendingUndo
	}
	pending := c.pending
	pending.timer.Stop()
	c.pending = nil
	c.mu.Unlock()

	collection, err := c.api.Create(ctx, catalog.PayloadFrom(pending.shadow))
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to restore product",
			slog.Int64("original_id", pending.shadow.ID),
			slog.String("error", err.Error()),
		)
		return catalog.Product{}, err
	}
	if len(collection) == 0 {
		return catalog.Product{}, errors.New("empty collection in create response")
	}
	restored := collection[len(collection)-1]

	c.mu.Lock()
	c.products = append(c.products, restored)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "Product restored",
		slog.Int64("original_id", pending.shadow.ID),
		slog.Int64("product_id", restored.ID),
	)
	return restored, nil
}

// expire discards the shadow when its grace timer fires unanswered. The token
// check keeps a stale timer from touching a newer pending delete.
func (c *ListController) expire(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil || c.pending.token != token {
		return
	}
	c.logger.Info("Undo window elapsed, deletion is final",
		slog.Int64("product_id", c.pending.shadow.ID),
	)
	c.pending = nil
}

// DeleteRequest is a staged delete awaiting confirmation.
type DeleteRequest struct {
	ctrl     *ListController
	product  catalog.Product
	resolved bool
}

// Product returns the record the confirmation concerns.
func (r *DeleteRequest) Product() catalog.Product {
	return r.product
}

// Cancel drops the request without any effect.
func (r *DeleteRequest) Cancel() {
	r.resolved = true
}

// Confirm performs the optimistic delete: the shadow is captured, the record
// leaves the visible list, the grace timer starts, and the server delete is
// issued. Confirming while an earlier undo is still pending replaces that
// shadow; the earlier record is unrecoverable via undo (it was durably
// deleted either way). A server failure is returned as-is with the local list
// left as mutated; the caller reconciles with Refresh.
func (r *DeleteRequest) Confirm(ctx context.Context) error {
	if r.resolved {
		return ErrRequestResolved
	}
	r.resolved = true

	c := r.ctrl
	c.mu.Lock()
	for i, p := range c.products {
		if p.ID == r.product.ID {
			c.products = append(c.products[:i], c.products[i+1:]...)
			break
		}
	}
	if c.pending != nil {
		c.pending.timer.Stop()
	}
	pending := &pendingDelete{
		token:  uuid.NewString(),
		shadow: r.product,
	}
	pending.timer = time.AfterFunc(c.grace, func() { c.expire(pending.token) })
	c.pending = pending
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "Product delete confirmed",
		slog.Int64("product_id", r.product.ID),
		slog.Duration("grace_period", c.grace),
	)

	return c.api.Delete(ctx, r.product.ID)
}
