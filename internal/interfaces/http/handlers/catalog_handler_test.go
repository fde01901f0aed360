package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/pkg/utils"
)

type catalogServiceStub struct {
	createCategoryFn func(ctx context.Context, input *entities.CreateCategoryInput) (*entities.Category, error)
	listCategoriesFn func(ctx context.Context) ([]*entities.Category, error)
	createProductFn  func(ctx context.Context, input *entities.CreateProductInput) (*entities.Product, error)
	getProductFn     func(ctx context.Context, id uuid.UUID) (*entities.Product, error)
	listProductsFn   func(ctx context.Context, filter entities.ProductFilter, p utils.PaginationParams) ([]*entities.Product, int64, error)
	updateProductFn  func(ctx context.Context, id uuid.UUID, input *entities.UpdateProductInput) (*entities.Product, error)
	deactivateFn     func(ctx context.Context, id uuid.UUID) error
}

func (s catalogServiceStub) CreateCategory(ctx context.Context, input *entities.CreateCategoryInput) (*entities.Category, error) {
	return s.createCategoryFn(ctx, input)
}

func (s catalogServiceStub) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	return s.listCategoriesFn(ctx)
}

func (s catalogServiceStub) CreateProduct(ctx context.Context, input *entities.CreateProductInput) (*entities.Product, error) {
	return s.createProductFn(ctx, input)
}

func (s catalogServiceStub) GetProduct(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	return s.getProductFn(ctx, id)
}

func (s catalogServiceStub) ListProducts(ctx context.Context, filter entities.ProductFilter, p utils.PaginationParams) ([]*entities.Product, int64, error) {
	return s.listProductsFn(ctx, filter, p)
}

func (s catalogServiceStub) UpdateProduct(ctx context.Context, id uuid.UUID, input *entities.UpdateProductInput) (*entities.Product, error) {
	return s.updateProductFn(ctx, id, input)
}

func (s catalogServiceStub) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	return s.deactivateFn(ctx, id)
}

func TestCatalogHandler_Categories(t *testing.T) {
	r := newTestRouter()
	h := NewCatalogHandler(catalogServiceStub{
		listCategoriesFn: func(context.Context) ([]*entities.Category, error) {
			return []*entities.Category{{ID: uuid.New(), Name: "Granos"}}, nil
		},
		createCategoryFn: func(_ context.Context, input *entities.CreateCategoryInput) (*entities.Category, error) {
			if input.Name == "Granos" {
				return nil, domainerrors.AlreadyExists("la categoría ya existe")
			}
			return &entities.Category{ID: uuid.New(), Name: input.Name}, nil
		},
	})
	r.GET("/categories", h.ListCategories)
	r.POST("/categories", h.CreateCategory)

	w := doRequest(r, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Granos")

	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPost, "/categories", `{"nombre":""}`).Code)
	assert.Equal(t, http.StatusConflict, doRequest(r, http.MethodPost, "/categories", `{"nombre":"Granos"}`).Code)
	assert.Equal(t, http.StatusCreated, doRequest(r, http.MethodPost, "/categories", `{"nombre":"Frutas"}`).Code)
}

func TestCatalogHandler_ListProducts(t *testing.T) {
	categoryID := uuid.New()
	r := newTestRouter()
	h := NewCatalogHandler(catalogServiceStub{
		listProductsFn: func(_ context.Context, filter entities.ProductFilter, p utils.PaginationParams) ([]*entities.Product, int64, error) {
			assert.Equal(t, "papa", filter.Search)
			require.NotNil(t, filter.CategoryID)
			assert.Equal(t, categoryID, *filter.CategoryID)
			assert.Equal(t, 2, p.Page)
			return []*entities.Product{{ID: uuid.New(), Name: "Papa", ReferencePrice: decimal.NewFromInt(5)}}, 11, nil
		},
	})
	r.GET("/products", h.ListProducts)

	w := doRequest(r, http.MethodGet, "/products?search=papa&categoria=bad", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/products?search=papa&categoria="+categoryID.String()+"&page=2&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	assert.EqualValues(t, 11, env.Pagination["total"])
}

func TestCatalogHandler_ProductCRUD(t *testing.T) {
	id := uuid.New()
	r := newTestRouter()
	h := NewCatalogHandler(catalogServiceStub{
		getProductFn: func(_ context.Context, got uuid.UUID) (*entities.Product, error) {
			if got != id {
				return nil, domainerrors.NotFound("producto no encontrado")
			}
			return &entities.Product{ID: id, Name: "Quinua"}, nil
		},
		createProductFn: func(_ context.Context, input *entities.CreateProductInput) (*entities.Product, error) {
			assert.True(t, input.ReferencePrice.Equal(decimal.RequireFromString("12.50")))
			return &entities.Product{ID: id, Name: input.Name}, nil
		},
		deactivateFn: func(context.Context, uuid.UUID) error { return nil },
	})
	r.GET("/products/:id", h.GetProduct)
	r.POST("/products", h.CreateProduct)
	r.DELETE("/products/:id", h.DeactivateProduct)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/products/"+id.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodGet, "/products/"+uuid.NewString(), "").Code)

	w := doRequest(r, http.MethodPost, "/products", `{"nombre":"Quinua","unidad_medida":"kg","precio_referencial":"12.50"}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodDelete, "/products/"+id.String(), "").Code)
}

func TestCatalogHandler_UpdateProduct(t *testing.T) {
	known := uuid.New()
	r := newTestRouter()
	h := NewCatalogHandler(catalogServiceStub{
		updateProductFn: func(_ context.Context, id uuid.UUID, input *entities.UpdateProductInput) (*entities.Product, error) {
			if id != known {
				return nil, domainerrors.NotFound("producto no encontrado")
			}
			p := &entities.Product{ID: id, Name: "Quinua", Unit: "qq"}
			if input.Name != nil {
				p.Name = *input.Name
			}
			if input.ReferencePrice != nil {
				p.ReferencePrice = *input.ReferencePrice
			}
			assert.Nil(t, input.Unit)
			return p, nil
		},
	})
	r.PUT("/products/:id", h.UpdateProduct)

	w := doRequest(r, http.MethodPut, "/products/"+known.String(), `{"nombre":"Quinua real","precio_referencial":"910.5"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var product entities.Product
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &product))
	assert.Equal(t, "Quinua real", product.Name)
	assert.True(t, decimal.RequireFromString("910.5").Equal(product.ReferencePrice))

	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodPut, "/products/"+uuid.NewString(), `{"nombre":"Papa"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPut, "/products/"+known.String(), `{"nombre":"P"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPut, "/products/"+known.String(), `{"imagen_url":"no es url"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPut, "/products/xyz", `{}`).Code)
}
