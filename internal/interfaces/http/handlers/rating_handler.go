package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
	"agro-market.backend/internal/interfaces/http/response"
	"agro-market.backend/internal/usecases"
	"agro-market.backend/pkg/utils"
)

const defaultRankingLimit = 10

type ReputationService interface {
	SubmitRating(ctx context.Context, raterID uuid.UUID, input *entities.SubmitRatingInput) (*entities.Rating, error)
	GetUserReputation(ctx context.Context, userID uuid.UUID, pagination utils.PaginationParams) (*entities.UserReputation, int64, error)
	ListGiven(ctx context.Context, raterID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Rating, int64, error)
	Ranking(ctx context.Context, limit int) ([]*entities.RankingEntry, error)
	UpdateRating(ctx context.Context, actor usecases.Actor, id uuid.UUID, input *entities.UpdateRatingInput) (*entities.Rating, error)
	DeleteRating(ctx context.Context, actor usecases.Actor, id uuid.UUID) error
	Stats(ctx context.Context) (*entities.RatingStats, error)
}

// RatingHandler handles reputation endpoints
type RatingHandler struct {
	reputation ReputationService
}

func NewRatingHandler(reputation ReputationService) *RatingHandler {
	return &RatingHandler{reputation: reputation}
}

// POST /api/v1/ratings
func (h *RatingHandler) Submit(c *gin.Context) {
	raterID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input entities.SubmitRatingInput
	if !bindJSON(c, &input) {
		return
	}

	rating, err := h.reputation.SubmitRating(c.Request.Context(), raterID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rating)
}

// GetUserReputation returns the summary plus a page of received ratings.
// GET /api/v1/ratings/user/:userId
func (h *RatingHandler) GetUserReputation(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}

	p := paginationFromQuery(c)
	reputation, total, err := h.reputation.GetUserReputation(c.Request.Context(), userID, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"reputacion": reputation,
		"meta":       utils.CalculateMeta(total, p.Page, p.Limit),
	})
}

// GET /api/v1/ratings/given/:userId
func (h *RatingHandler) ListGiven(c *gin.Context) {
	raterID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}

	p := paginationFromQuery(c)
	ratings, total, err := h.reputation.ListGiven(c.Request.Context(), raterID, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPage(c, ratings, total, p)
}

// GET /api/v1/ratings/ranking
func (h *RatingHandler) Ranking(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultRankingLimit)))
	if err != nil || limit < 1 {
		limit = defaultRankingLimit
	}

	ranking, err := h.reputation.Ranking(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, ranking)
}

// GET /api/v1/ratings/stats
func (h *RatingHandler) Stats(c *gin.Context) {
	stats, err := h.reputation.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// PUT /api/v1/ratings/:id
func (h *RatingHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var input entities.UpdateRatingInput
	if !bindJSON(c, &input) {
		return
	}

	rating, err := h.reputation.UpdateRating(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, rating)
}

// DELETE /api/v1/ratings/:id
func (h *RatingHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.reputation.DeleteRating(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "calificación eliminada", nil)
}
