package usecases

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/domain/repositories"
	"agro-market.backend/pkg/logger"
	"agro-market.backend/pkg/metrics"
	"agro-market.backend/pkg/utils"
)

// CommentUsecase manages free-text comments on products and listings.
type CommentUsecase struct {
	commentRepo repositories.CommentRepository
	productRepo repositories.ProductRepository
	listingRepo repositories.ListingRepository
	userRepo    repositories.UserRepository
	now         func() time.Time
}

func NewCommentUsecase(
	commentRepo repositories.CommentRepository,
	productRepo repositories.ProductRepository,
	listingRepo repositories.ListingRepository,
	userRepo repositories.UserRepository,
) *CommentUsecase {
	return &CommentUsecase{
		commentRepo: commentRepo,
		productRepo: productRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		now:         utcNow,
	}
}

func (u *CommentUsecase) SetClock(now func() time.Time) { u.now = now }

// CreateComment requires at least one target. Every named target must exist.
func (u *CommentUsecase) CreateComment(ctx context.Context, authorID uuid.UUID, input *entities.CreateCommentInput) (*entities.Comment, error) {
	if input.ProductID == nil && input.ListingID == nil {
		return nil, domainerrors.BadRequest("debe especificar un producto o anuncio para comentar")
	}
	text, err := commentText(input.Text)
	if err != nil {
		return nil, err
	}

	if input.ProductID != nil {
		if _, err := u.productRepo.GetByID(ctx, *input.ProductID); err != nil {
			return nil, notFoundAs(err, "producto no encontrado")
		}
	}
	if input.ListingID != nil {
		if _, err := u.listingRepo.GetByID(ctx, *input.ListingID); err != nil {
			return nil, notFoundAs(err, "anuncio no encontrado")
		}
	}

	now := u.now()
	c := &entities.Comment{
		ID:        utils.GenerateUUIDv7(),
		UserID:    authorID,
		ProductID: input.ProductID,
		ListingID: input.ListingID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	if err := u.attachAuthorNames(ctx, []*entities.Comment{c}); err != nil {
		return nil, err
	}

	metrics.CommentsPosted.Inc()
	logger.Info(ctx, "Comment posted",
		zap.String("comment_id", c.ID.String()),
		zap.String("user_id", authorID.String()),
	)
	return c, nil
}

func (u *CommentUsecase) ListByProduct(ctx context.Context, productID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Comment, int64, error) {
	return u.list(ctx, entities.CommentFilter{ProductID: &productID}, pagination)
}

func (u *CommentUsecase) ListByListing(ctx context.Context, listingID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Comment, int64, error) {
	return u.list(ctx, entities.CommentFilter{ListingID: &listingID}, pagination)
}

func (u *CommentUsecase) ListByUser(ctx context.Context, userID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Comment, int64, error) {
	return u.list(ctx, entities.CommentFilter{UserID: &userID}, pagination)
}

func (u *CommentUsecase) ListAll(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Comment, int64, error) {
	return u.list(ctx, entities.CommentFilter{}, pagination)
}

// UpdateComment is restricted to the author.
func (u *CommentUsecase) UpdateComment(ctx context.Context, actor Actor, id uuid.UUID, input *entities.UpdateCommentInput) (*entities.Comment, error) {
	c, err := u.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "comentario no encontrado")
	}
	if c.UserID != actor.UserID {
		return nil, domainerrors.Forbidden("no tiene permisos para editar este comentario")
	}
	text, err := commentText(input.Text)
	if err != nil {
		return nil, err
	}

	now := u.now()
	if err := u.commentRepo.UpdateText(ctx, id, text, now); err != nil {
		return nil, notFoundAs(err, "comentario no encontrado")
	}
	c.Text = text
	c.UpdatedAt = now
	if err := u.attachAuthorNames(ctx, []*entities.Comment{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment is allowed to the author and to admins.
func (u *CommentUsecase) DeleteComment(ctx context.Context, actor Actor, id uuid.UUID) error {
	c, err := u.commentRepo.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "comentario no encontrado")
	}
	if c.UserID != actor.UserID && !actor.Admin {
		return domainerrors.Forbidden("no tiene permisos para eliminar este comentario")
	}
	if err := u.commentRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, "comentario no encontrado")
	}
	logger.Info(ctx, "Comment deleted",
		zap.String("comment_id", id.String()),
		zap.Bool("by_admin", c.UserID != actor.UserID),
	)
	return nil
}

// Stats counts comments overall, per target kind and over the last month.
func (u *CommentUsecase) Stats(ctx context.Context) (*entities.CommentStats, error) {
	stats, err := u.commentRepo.Stats(ctx, u.now().AddDate(0, -1, 0))
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (u *CommentUsecase) list(ctx context.Context, filter entities.CommentFilter, pagination utils.PaginationParams) ([]*entities.Comment, int64, error) {
	comments, total, err := u.commentRepo.List(ctx, filter, pagination.Limit, pagination.CalculateOffset())
	if err != nil {
		return nil, 0, err
	}
	if err := u.attachAuthorNames(ctx, comments); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (u *CommentUsecase) attachAuthorNames(ctx context.Context, comments []*entities.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	names, err := u.userRepo.GetNames(ctx, uniqueIDs(ids))
	if err != nil {
		return err
	}
	for _, c := range comments {
		c.AuthorName = names[c.UserID]
	}
	return nil
}

// commentText trims raw and checks it holds 1 to MaxCommentLength characters.
func commentText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", domainerrors.BadRequest("el comentario no puede estar vacío")
	}
	if utf8.RuneCountInString(text) > entities.MaxCommentLength {
		return "", domainerrors.BadRequest("el comentario debe tener entre 1 y 1000 caracteres")
	}
	return text, nil
}
