package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
	"agro-market.backend/internal/interfaces/http/response"
	"agro-market.backend/internal/usecases"
	"agro-market.backend/pkg/utils"
)

const (
	defaultCommentPageLimit = 10
	defaultAdminCommentPage = 20
)

type CommentService interface {
	CreateComment(ctx context.Context, authorID uuid.UUID, input *entities.CreateCommentInput) (*entities.Comment, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Comment, int64, error)
	ListByListing(ctx context.Context, listingID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Comment, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Comment, int64, error)
	ListAll(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Comment, int64, error)
	UpdateComment(ctx context.Context, actor usecases.Actor, id uuid.UUID, input *entities.UpdateCommentInput) (*entities.Comment, error)
	DeleteComment(ctx context.Context, actor usecases.Actor, id uuid.UUID) error
	Stats(ctx context.Context) (*entities.CommentStats, error)
}

// CommentHandler serves comments on products and listings
type CommentHandler struct {
	comments CommentService
}

func NewCommentHandler(comments CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// POST /api/v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	authorID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input entities.CreateCommentInput
	if !bindJSON(c, &input) {
		return
	}

	comment, err := h.comments.CreateComment(c.Request.Context(), authorID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "comentario creado", comment)
}

// GET /api/v1/comments/product/:productId
func (h *CommentHandler) ListByProduct(c *gin.Context) {
	h.listBy(c, "productId", h.comments.ListByProduct)
}

// GET /api/v1/comments/listing/:listingId
func (h *CommentHandler) ListByListing(c *gin.Context) {
	h.listBy(c, "listingId", h.comments.ListByListing)
}

// GET /api/v1/comments/user/:userId
func (h *CommentHandler) ListByUser(c *gin.Context) {
	h.listBy(c, "userId", h.comments.ListByUser)
}

// GET /api/v1/comments
func (h *CommentHandler) ListAll(c *gin.Context) {
	p := paginationWithDefault(c, defaultAdminCommentPage)
	comments, total, err := h.comments.ListAll(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPage(c, comments, total, p)
}

// PUT /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var input entities.UpdateCommentInput
	if !bindJSON(c, &input) {
		return
	}

	comment, err := h.comments.UpdateComment(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, comment)
}

// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.comments.DeleteComment(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "comentario eliminado", nil)
}

// GET /api/v1/comments/stats
func (h *CommentHandler) Stats(c *gin.Context) {
	stats, err := h.comments.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

type commentLister func(ctx context.Context, id uuid.UUID, pagination utils.PaginationParams) ([]*entities.Comment, int64, error)

func (h *CommentHandler) listBy(c *gin.Context, param string, list commentLister) {
	id, ok := uuidParam(c, param)
	if !ok {
		return
	}

	p := paginationWithDefault(c, defaultCommentPageLimit)
	comments, total, err := list(c.Request.Context(), id, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPage(c, comments, total, p)
}
