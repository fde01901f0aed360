package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/interfaces/http/response"
	"agro-market.backend/pkg/utils"
)

type ListingService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input *entities.CreateListingInput) (*entities.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Listing, error)
	List(ctx context.Context, filter entities.ListingFilter, pagination utils.PaginationParams) ([]*entities.Listing, int64, error)
	ListMine(ctx context.Context, ownerID uuid.UUID, listingType entities.ListingType, pagination utils.PaginationParams) ([]*entities.Listing, int64, error)
	UpdateStatus(ctx context.Context, ownerID, listingID uuid.UUID, status entities.ListingStatus) (*entities.Listing, error)
	Report(ctx context.Context, listingID uuid.UUID) error
	Moderate(ctx context.Context, listingID uuid.UUID) error
}

// ListingHandler handles buy/sell offer endpoints
type ListingHandler struct {
	listings ListingService
}

func NewListingHandler(listings ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// POST /api/v1/listings
func (h *ListingHandler) Create(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input entities.CreateListingInput
	if !bindJSON(c, &input) {
		return
	}

	listing, err := h.listings.Create(c.Request.Context(), ownerID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, listing)
}

// GET /api/v1/listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	listing, err := h.listings.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, listing)
}

// List searches listings. Query: tipo, estado, producto, search, precio_min,
// precio_max.
// GET /api/v1/listings
func (h *ListingHandler) List(c *gin.Context) {
	filter, err := listingFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	p := paginationFromQuery(c)
	listings, total, err := h.listings.List(c.Request.Context(), filter, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPage(c, listings, total, p)
}

// GET /api/v1/listings/mine
func (h *ListingHandler) ListMine(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	listingType := entities.ListingType(c.Query("tipo"))
	if listingType != "" && !listingType.IsValid() {
		response.Error(c, domainerrors.BadRequest("tipo de anuncio inválido"))
		return
	}

	p := paginationFromQuery(c)
	listings, total, err := h.listings.ListMine(c.Request.Context(), ownerID, listingType, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPage(c, listings, total, p)
}

// PATCH /api/v1/listings/:id/status
func (h *ListingHandler) UpdateStatus(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var input entities.UpdateListingStatusInput
	if !bindJSON(c, &input) {
		return
	}

	listing, err := h.listings.UpdateStatus(c.Request.Context(), ownerID, id, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, listing)
}

// POST /api/v1/listings/:id/report
func (h *ListingHandler) Report(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.listings.Report(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "anuncio reportado", nil)
}

// PATCH /api/v1/listings/:id/moderate
func (h *ListingHandler) Moderate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.listings.Moderate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "anuncio moderado", nil)
}

func listingFilterFromQuery(c *gin.Context) (entities.ListingFilter, error) {
	filter := entities.ListingFilter{
		Type:   entities.ListingType(c.Query("tipo")),
		Status: entities.ListingStatus(c.Query("estado")),
		Search: c.Query("search"),
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		return filter, domainerrors.BadRequest("tipo de anuncio inválido")
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return filter, domainerrors.BadRequest("estado de anuncio inválido")
	}
	if raw := c.Query("producto"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, domainerrors.BadRequest("producto inválido")
		}
		filter.ProductID = &id
	}

	var err error
	if filter.MinPrice, err = decimalQuery(c, "precio_min"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = decimalQuery(c, "precio_max"); err != nil {
		return filter, err
	}
	return filter, nil
}

func decimalQuery(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domainerrors.BadRequest(key + " inválido")
	}
	return &d, nil
}
