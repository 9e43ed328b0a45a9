package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/catalog-api/internal/domain"
	"github.com/mrops-br/catalog-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/catalog-api/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newTestService() (*CatalogService, *memory.ProductRepository) {
	tracer := sdktrace.NewTracerProvider().Tracer("test")
	meter := sdkmetric.NewMeterProvider().Meter("test")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewProductRepository(tracer, logger)
	return NewCatalogService(repo, tracer, meter, logger), repo
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func int64Ptr(i int64) *int64 { return &i }

func penPayload() catalog.ProductPayload {
	return catalog.ProductPayload{
		Title:       strPtr("Pen"),
		Description: strPtr("A fine pen"),
		Image:       strPtr("pen.jpg"),
		Price:       floatPtr(2),
		Rating:      &catalog.RatingPayload{Rate: floatPtr(4), Count: intPtr(10)},
	}
}

func TestCreateProductAssignsFreshIDs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	seen := make(map[int64]bool)
	for i := 0; i < 50; i++ {
		created, err := svc.CreateProduct(ctx, penPayload())
		require.NoError(t, err)
		assert.False(t, seen[created.ID])
		seen[created.ID] = true
	}
}

func TestCreateProductIgnoresPayloadID(t *testing.T) {
	svc, _ := newTestService()

	payload := penPayload()
	payload.ID = int64Ptr(12345)
	created, err := svc.CreateProduct(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
}

func TestCreateProductDegradesAbsentFieldsToZero(t *testing.T) {
	// The service trusts client-validated payloads; a hole in that contract
	// must not panic the server.
	svc, _ := newTestService()

	created, err := svc.CreateProduct(context.Background(), catalog.ProductPayload{})
	require.NoError(t, err)
	assert.Zero(t, created.Title)
	assert.Zero(t, created.Price)
	assert.Zero(t, created.Rating)
}

func TestUpdateProductMergesPartialPayload(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, penPayload())
	require.NoError(t, err)

	merged, err := svc.UpdateProduct(ctx, created.ID, catalog.ProductPayload{
		Price:  floatPtr(3.5),
		Rating: &catalog.RatingPayload{Count: intPtr(11)},
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, merged.ID)
	assert.Equal(t, 3.5, merged.Price)
	assert.Equal(t, 11, merged.Rating.Count)
	// Omitted fields are retained.
	assert.Equal(t, "Pen", merged.Title)
	assert.Equal(t, "A fine pen", merged.Description)
	assert.Equal(t, 4.0, merged.Rating.Rate)

	stored, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, merged, stored)
}

func TestUpdateProductPreservesStoredID(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, penPayload())
	require.NoError(t, err)

	payload := catalog.ProductPayload{
		ID:    int64Ptr(created.ID + 40),
		Title: strPtr("Renamed"),
	}
	merged, err := svc.UpdateProduct(ctx, created.ID, payload)
	require.NoError(t, err)

	assert.Equal(t, created.ID, merged.ID)
	assert.Equal(t, "Renamed", merged.Title)

	_, err = svc.GetProduct(ctx, created.ID+40)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.UpdateProduct(context.Background(), 42, penPayload())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestDeleteProductThenGetNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, penPayload())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))

	_, err = svc.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestDeleteAbsentProductLeavesStoreUnchanged(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, penPayload())
	require.NoError(t, err)

	err = svc.DeleteProduct(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestRecreateAfterDeleteAssignsNewID(t *testing.T) {
	// Undo is "recreate", not "unerase": the original identity is gone.
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, penPayload())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(ctx, created.ID))

	restored, err := svc.CreateProduct(ctx, catalog.PayloadFrom(created))
	require.NoError(t, err)

	assert.NotEqual(t, created.ID, restored.ID)
	assert.Equal(t, created.Title, restored.Title)
	assert.Equal(t, created.Rating, restored.Rating)
}

func TestListProductsStoreOrder(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	repo.Seed([]catalog.Product{
		{ID: 1, Title: "Pen", Price: 2, Rating: catalog.Rating{Rate: 4, Count: 10}},
		{ID: 2, Title: "Mug", Price: 8, Rating: catalog.Rating{Rate: 5, Count: 3}},
	})

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Pen", products[0].Title)
	assert.Equal(t, "Mug", products[1].Title)
}
