package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/interfaces/http/response"
)

type FavoriteService interface {
	AddFavorite(ctx context.Context, userID, productID uuid.UUID) (*entities.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, productID uuid.UUID) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]*entities.Favorite, error)
	CheckFavorite(ctx context.Context, userID, productID uuid.UUID) (*entities.FavoriteCheck, error)
	PopularProducts(ctx context.Context, limit int) ([]*entities.PopularProduct, error)
	FavoriteStats(ctx context.Context, userID uuid.UUID) (*entities.FavoriteStats, error)
}

type FavoriteHandler struct {
	favorites FavoriteService
}

func NewFavoriteHandler(favorites FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// GET /api/v1/favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	favorites, err := h.favorites.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, favorites)
}

// POST /api/v1/favorites
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input struct {
		ProductID uuid.UUID `json:"id_producto" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	favorite, err := h.favorites.AddFavorite(c.Request.Context(), userID, input.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, favorite)
}

// DELETE /api/v1/favorites/:productId
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}

	if err := h.favorites.RemoveFavorite(c.Request.Context(), userID, productID); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "favorito eliminado", nil)
}

// GET /api/v1/favorites/check?id_producto=
func (h *FavoriteHandler) Check(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Query("id_producto"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("id_producto es obligatorio"))
		return
	}

	check, err := h.favorites.CheckFavorite(c.Request.Context(), userID, productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, check)
}

// GET /api/v1/favorites/popular?limit=
func (h *FavoriteHandler) Popular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	ranked, err := h.favorites.PopularProducts(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, ranked)
}

// GET /api/v1/favorites/stats
func (h *FavoriteHandler) Stats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.favorites.FavoriteStats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
