package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/catalog-api/internal/app/service"
	"github.com/mrops-br/catalog-api/internal/domain"
	"github.com/mrops-br/catalog-api/internal/infrastructure/http/response"
	"github.com/mrops-br/catalog-api/pkg/catalog"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// productID parses the {id} URL parameter. A non-numeric id is reported as
// ok=false and handled by the caller exactly like an absent one.
func productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		response.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}

	response.JSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.Message(w, http.StatusNotFound, "Not found")
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Message(w, http.StatusNotFound, "Not found")
		} else {
			response.Message(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /products. The response body is the full updated
// collection rather than the new record alone; the list client consumes that
// shape, so it is part of the wire contract.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload catalog.ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.service.CreateProduct(r.Context(), payload); err != nil {
		response.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		response.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// UpdateProduct handles PUT /products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.Message(w, http.StatusNotFound, "Product not found")
		return
	}

	var payload catalog.ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Message(w, http.StatusInternalServerError, "Error updating product")
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, payload)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Message(w, http.StatusNotFound, "Product not found")
		} else {
			response.Message(w, http.StatusInternalServerError, "Error updating product")
		}
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.Message(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Message(w, http.StatusNotFound, "Product not found")
		} else {
			response.Message(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	response.Message(w, http.StatusOK, "Product deleted successfully")
}
