package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/catalog-api/internal/domain"
	"github.com/mrops-br/catalog-api/pkg/catalog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CatalogService handles product catalog use cases over a ProductRepository.
//
// Payloads reaching Create are expected to have passed client-side validation
// (see catalog.Validate); the service does not re-validate and degrades absent
// fields to their zero values instead.
type CatalogService struct {
	repo                  domain.ProductRepository
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productDeletedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	// Initialize metrics
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productDeletedCounter, _ := meter.Int64Counter(
		"products.deleted.total",
		metric.WithDescription("Total number of products deleted"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &CatalogService{
		repo:                  repo,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productDeletedCounter: productDeletedCounter,
		productOperations:     productOperations,
	}
}

func (s *CatalogService) recordOperation(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// ListProducts retrieves all products in store order.
func (s *CatalogService) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve products")
		s.logger.ErrorContext(ctx, "Failed to list products",
			slog.String("error", err.Error()),
		)
		s.recordOperation(ctx, "list", "failure")
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.recordOperation(ctx, "list", "success")

	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return products, nil
}

// GetProduct retrieves a product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		s.recordOperation(ctx, "read", "not_found")
		return catalog.Product{}, err
	}

	s.recordOperation(ctx, "read", "success")
	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return product, nil
}

// CreateProduct inserts a new product built from the payload. The store
// assigns the ID; any payload ID is discarded.
func (s *CatalogService) CreateProduct(ctx context.Context, payload catalog.ProductPayload) (catalog.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct")
	defer span.End()

	product := catalog.Product{
		Title:       deref(payload.Title),
		Description: deref(payload.Description),
		Image:       deref(payload.Image),
		Price:       deref(payload.Price),
	}
	if payload.Rating != nil {
		product.Rating = catalog.Rating{
			Rate:  deref(payload.Rating.Rate),
			Count: deref(payload.Rating.Count),
		}
	}

	span.SetAttributes(
		attribute.String("product.title", product.Title),
		attribute.Float64("product.price", product.Price),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("title", product.Title),
		slog.Float64("price", product.Price),
	)

	created, err := s.repo.Insert(ctx, product)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store product")
		s.logger.ErrorContext(ctx, "Failed to store product",
			slog.String("error", err.Error()),
		)
		s.recordOperation(ctx, "create", "failure")
		return catalog.Product{}, err
	}

	span.SetAttributes(attribute.Int64("product.id", created.ID))
	s.productCreatedCounter.Add(ctx, 1)
	s.recordOperation(ctx, "create", "success")

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.Int64("product_id", created.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return created, nil
}

// UpdateProduct merges the payload over the stored product field by field:
// present fields overwrite, absent fields are retained, and the stored ID is
// kept no matter what the payload carries.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, payload catalog.ProductPayload) (catalog.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		s.recordOperation(ctx, "update", "not_found")
		return catalog.Product{}, err
	}

	merged := mergePayload(existing, payload)
	merged.ID = existing.ID

	if err := s.repo.Replace(ctx, merged); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to replace product")
		s.logger.ErrorContext(ctx, "Failed to replace product",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
		s.recordOperation(ctx, "update", "failure")
		return catalog.Product{}, err
	}

	s.recordOperation(ctx, "update", "success")

	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.Int64("product_id", merged.ID),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return merged, nil
}

// DeleteProduct removes a product by ID. Deletion is a plain store mutation:
// the only way back is a fresh create, which assigns a new ID.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	if err := s.repo.Remove(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		s.recordOperation(ctx, "delete", "not_found")
		return err
	}

	s.productDeletedCounter.Add(ctx, 1)
	s.recordOperation(ctx, "delete", "success")

	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

func mergePayload(existing catalog.Product, payload catalog.ProductPayload) catalog.Product {
	merged := existing
	if payload.Title != nil {
		merged.Title = *payload.Title
	}
	if payload.Description != nil {
		merged.Description = *payload.Description
	}
	if payload.Image != nil {
		merged.Image = *payload.Image
	}
	if payload.Price != nil {
		merged.Price = *payload.Price
	}
	if payload.Rating != nil {
		if payload.Rating.Rate != nil {
			merged.Rating.Rate = *payload.Rating.Rate
		}
		if payload.Rating.Count != nil {
			merged.Rating.Count = *payload.Rating.Count
		}
	}
	return merged
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
