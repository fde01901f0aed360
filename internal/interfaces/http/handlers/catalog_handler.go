package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/interfaces/http/response"
	"agro-market.backend/pkg/utils"
)

type CatalogService interface {
	CreateCategory(ctx context.Context, input *entities.CreateCategoryInput) (*entities.Category, error)
	ListCategories(ctx context.Context) ([]*entities.Category, error)
	CreateProduct(ctx context.Context, input *entities.CreateProductInput) (*entities.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entities.Product, error)
	ListProducts(ctx context.Context, filter entities.ProductFilter, pagination utils.PaginationParams) ([]*entities.Product, int64, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input *entities.UpdateProductInput) (*entities.Product, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
}

// CatalogHandler serves categories and products
type CatalogHandler struct {
	catalog CatalogService
}

func NewCatalogHandler(catalog CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// POST /api/v1/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var input entities.CreateCategoryInput
	if !bindJSON(c, &input) {
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, category)
}

// ListProducts lists active products, optionally filtered by ?search= and
// ?categoria=.
// GET /api/v1/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := entities.ProductFilter{Search: c.Query("search")}
	if raw := c.Query("categoria"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("categoría inválida"))
			return
		}
		filter.CategoryID = &id
	}

	p := paginationFromQuery(c)
	products, total, err := h.catalog.ListProducts(c.Request.Context(), filter, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPage(c, products, total, p)
}

// GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

// POST /api/v1/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var input entities.CreateProductInput
	if !bindJSON(c, &input) {
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, product)
}

// PUT /api/v1/products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var input entities.UpdateProductInput
	if !bindJSON(c, &input) {
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

// DELETE /api/v1/products/:id
func (h *CatalogHandler) DeactivateProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeactivateProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "producto desactivado", nil)
}
