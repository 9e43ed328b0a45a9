package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mrops-br/catalog-api/internal/app/service"
	"github.com/mrops-br/catalog-api/internal/infrastructure/config"
	cataloghttp "github.com/mrops-br/catalog-api/internal/infrastructure/http"
	"github.com/mrops-br/catalog-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/catalog-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/catalog-api/internal/infrastructure/telemetry"
	"github.com/mrops-br/catalog-api/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, seed []catalog.Product) http.Handler {
	t.Helper()

	cfg := config.OTLPConfig{ServiceName: "catalog-api-test", Environment: "test"}
	telem := telemetry.NewNoOpTelemetry(&cfg)
	telem.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	tracer := telem.TracerProvider.Tracer("test")
	meter := telem.MeterProvider.Meter("test")

	repo := memory.NewProductRepository(tracer, telem.Logger)
	repo.Seed(seed)

	svc := service.NewCatalogService(repo, tracer, meter, telem.Logger)
	h := handler.NewProductHandler(svc, telem.Logger)
	srv := cataloghttp.NewServer(&config.ServerConfig{Host: "127.0.0.1", Port: "0"}, h, tracer, telem.Logger, telem)
	return srv.Handler()
}

func penSeed() []catalog.Product {
	return []catalog.Product{
		{
			ID:          1,
			Title:       "Pen",
			Description: "A fine pen",
			Image:       "pen.jpg",
			Price:       2,
			Rating:      catalog.Rating{Rate: 4, Count: 10},
		},
	}
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var msg struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
	return msg.Message
}

func TestListProducts(t *testing.T) {
	h := newTestHandler(t, penSeed())

	rr := doRequest(t, h, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var products []catalog.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)
}

func TestListProductsEmptyStoreIsEmptyArray(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := doRequest(t, h, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestGetProduct(t *testing.T) {
	h := newTestHandler(t, penSeed())

	rr := doRequest(t, h, http.MethodGet, "/products/1", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var product catalog.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &product))
	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, "Pen", product.Title)
	assert.Equal(t, 4.0, product.Rating.Rate)
}

func TestGetProductNotFound(t *testing.T) {
	h := newTestHandler(t, penSeed())

	rr := doRequest(t, h, http.MethodGet, "/products/99", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Not found", decodeMessage(t, rr))
}

func TestGetProductNonNumericID(t *testing.T) {
	h := newTestHandler(t, penSeed())

	rr := doRequest(t, h, http.MethodGet, "/products/pen", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Not found", decodeMessage(t, rr))
}

func TestCreateProductReturnsFullCollection(t *testing.T) {
	h := newTestHandler(t, penSeed())

	body := `{"title":"Mug","description":"A mug","image":"mug.jpg","price":8,"rating":{"rate":5,"count":3}}`
	rr := doRequest(t, h, http.MethodPost, "/products", body)
	require.Equal(t, http.StatusOK, rr.Code)

	var products []catalog.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	require.Len(t, products, 2)

	created := products[len(products)-1]
	assert.Equal(t, int64(2), created.ID)
	assert.Equal(t, "Mug", created.Title)
}

func TestCreateProductIgnoresBodyID(t *testing.T) {
	h := newTestHandler(t, penSeed())

	rr := doRequest(t, h, http.MethodPost, "/products", `{"id":500,"title":"Mug"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var products []catalog.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	assert.Equal(t, int64(2), products[len(products)-1].ID)
}

func TestCreateProductMalformedBody(t *testing.T) {
	h := newTestHandler(t, penSeed())

	rr := doRequest(t, h, http.MethodPost, "/products", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateProductMergesAndPreservesID(t *testing.T) {
	h := newTestHandler(t, penSeed())

	rr := doRequest(t, h, http.MethodPut, "/products/1", `{"id":77,"price":3.5}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var product catalog.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &product))
	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, 3.5, product.Price)
	assert.Equal(t, "Pen", product.Title)
	assert.Equal(t, 10, product.Rating.Count)
}

func TestUpdateProductNotFound(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := doRequest(t, h, http.MethodPut, "/products/1", `{"price":3.5}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Product not found", decodeMessage(t, rr))
}

func TestUpdateProductMalformedBody(t *testing.T) {
	h := newTestHandler(t, penSeed())

	rr := doRequest(t, h, http.MethodPut, "/products/1", `{not json`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Error updating product", decodeMessage(t, rr))
}

func TestDeleteProductLifecycle(t *testing.T) {
	h := newTestHandler(t, penSeed())

	rr := doRequest(t, h, http.MethodDelete, "/products/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Product deleted successfully", decodeMessage(t, rr))

	rr = doRequest(t, h, http.MethodGet, "/products/1", "")
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, h, http.MethodDelete, "/products/1", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Product not found", decodeMessage(t, rr))

	rr = doRequest(t, h, http.MethodPut, "/products/1", `{"price":3}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Product not found", decodeMessage(t, rr))
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := doRequest(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := doRequest(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}
