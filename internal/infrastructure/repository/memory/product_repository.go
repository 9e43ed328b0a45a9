package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/mrops-br/catalog-api/internal/domain"
	"github.com/mrops-br/catalog-api/pkg/catalog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProductRepository is an in-memory implementation of domain.ProductRepository.
// Products are kept in insertion order and keyed by ID; identifiers come from
// a repository-owned monotonic counter, so uniqueness does not depend on
// clock resolution even under rapid successive inserts.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]catalog.Product
	order    []int64
	nextID   int64
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates an empty in-memory product repository.
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make(map[int64]catalog.Product),
		nextID:   1,
		tracer:   tracer,
		logger:   logger,
	}
}

// LoadSnapshot reads a persisted JSON array of products. Mutations made after
// seeding are never flushed back to the file.
func LoadSnapshot(path string) ([]catalog.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var products []catalog.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return products, nil
}

// Seed installs a snapshot, replacing any current contents, and primes the ID
// counter past the highest seeded ID.
func (r *ProductRepository) Seed(products []catalog.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = make(map[int64]catalog.Product, len(products))
	r.order = make([]int64, 0, len(products))
	r.nextID = 1
	for _, p := range products {
		if _, dup := r.products[p.ID]; dup {
			continue
		}
		r.products[p.ID] = p
		r.order = append(r.order, p.ID)
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}

	r.logger.Info("Product repository seeded",
		slog.Int("count", len(r.order)),
		slog.Int64("next_id", r.nextID),
	)
}

// FindAll retrieves all products in insertion order.
func (r *ProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]catalog.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id])
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// FindByID retrieves a product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (catalog.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.Int64("product_id", id),
		)
		return catalog.Product{}, domain.ErrProductNotFound
	}

	span.SetStatus(codes.Ok, "Product found")
	return product, nil
}

// Insert stores a new product under a freshly assigned ID and returns it.
// Any ID on the passed product is ignored.
func (r *ProductRepository) Insert(ctx context.Context, product catalog.Product) (catalog.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Insert")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = product
	r.order = append(r.order, product.ID)

	span.SetAttributes(
		attribute.Int64("product.id", product.ID),
		attribute.String("product.title", product.Title),
	)

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.Int64("product_id", product.ID),
		slog.String("product_title", product.Title),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return product, nil
}

// Replace swaps the stored product carrying the same ID, keeping its position
// in enumeration order.
func (r *ProductRepository) Replace(ctx context.Context, product catalog.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Replace")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", product.ID))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		return domain.ErrProductNotFound
	}
	r.products[product.ID] = product

	r.logger.InfoContext(ctx, "Product replaced in repository",
		slog.Int64("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product replaced successfully")
	return nil
}

// Remove deletes a product by ID. The store is left untouched when the ID is
// absent.
func (r *ProductRepository) Remove(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Remove")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.Int64("product_id", id),
		)
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.logger.InfoContext(ctx, "Product removed from repository",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product removed successfully")
	return nil
}
