package domain

import (
	"context"
	"errors"

	"github.com/mrops-br/catalog-api/pkg/catalog"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the contract for product storage. The store owns
// identifier assignment: Insert returns the stored product with its new ID.
// Enumeration order is insertion order; Replace keeps a product's position.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]catalog.Product, error)
	FindByID(ctx context.Context, id int64) (catalog.Product, error)
	Insert(ctx context.Context, product catalog.Product) (catalog.Product, error)
	Replace(ctx context.Context, product catalog.Product) error
	Remove(ctx context.Context, id int64) error
}
