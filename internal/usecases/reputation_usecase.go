package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/domain/repositories"
	"agro-market.backend/pkg/logger"
	"agro-market.backend/pkg/metrics"
	"agro-market.backend/pkg/utils"
)

const (
	DefaultRankingLimit      = 10
	MaxRankingLimit          = 100
	DefaultRankingMinRatings = 3
)

// ReputationUsecase records order-backed ratings and aggregates them.
type ReputationUsecase struct {
	ratingRepo repositories.RatingRepository
	orderRepo  repositories.OrderRepository
	userRepo   repositories.UserRepository
	minRatings int
	now        func() time.Time
}

func NewReputationUsecase(
	ratingRepo repositories.RatingRepository,
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	minRatings int,
) *ReputationUsecase {
	if minRatings <= 0 {
		minRatings = DefaultRankingMinRatings
	}
	return &ReputationUsecase{
		ratingRepo: ratingRepo,
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		minRatings: minRatings,
		now:        utcNow,
	}
}

func (u *ReputationUsecase) SetClock(now func() time.Time) { u.now = now }

// SubmitRating lets one party of a delivered or completed order rate the
// other, once per order.
func (u *ReputationUsecase) SubmitRating(ctx context.Context, raterID uuid.UUID, input *entities.SubmitRatingInput) (*entities.Rating, error) {
	if !entities.ValidScore(input.Score) {
		return nil, domainerrors.InvalidScore("la calificación debe estar entre 1 y 5")
	}
	if raterID == input.RateeID {
		return nil, domainerrors.BadRequest("no puede calificarse a sí mismo")
	}

	order, err := u.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, notFoundAs(err, "pedido no encontrado")
	}
	if !order.IsParty(raterID) {
		return nil, domainerrors.Forbidden("no participa en este pedido")
	}
	if !order.IsParty(input.RateeID) {
		return nil, domainerrors.BadRequest("el usuario calificado no participa en el pedido")
	}
	if !order.Status.IsRateable() {
		return nil, domainerrors.Conflict("solo se pueden calificar pedidos entregados o completados")
	}

	exists, err := u.ratingRepo.Exists(ctx, raterID, input.RateeID, input.OrderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainerrors.Conflict("ya calificó este pedido")
	}

	now := u.now()
	rating := &entities.Rating{
		ID:        utils.GenerateUUIDv7(),
		RaterID:   raterID,
		RateeID:   input.RateeID,
		OrderID:   input.OrderID,
		Score:     input.Score,
		Comment:   optionalString(input.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	metrics.RatingsSubmitted.Inc()
	logger.Info(ctx, "Rating submitted",
		zap.String("rating_id", rating.ID.String()),
		zap.String("ratee_id", rating.RateeID.String()),
		zap.Int("score", rating.Score),
	)
	return rating, nil
}

// GetUserReputation returns the ratings userID received plus the average,
// rounded to one decimal, and the per-score histogram.
func (u *ReputationUsecase) GetUserReputation(ctx context.Context, userID uuid.UUID, pagination utils.PaginationParams) (*entities.UserReputation, int64, error) {
	ratings, total, err := u.ratingRepo.ListByRatee(ctx, userID, pagination.Limit, pagination.CalculateOffset())
	if err != nil {
		return nil, 0, err
	}
	agg, err := u.ratingRepo.Aggregate(ctx, &userID)
	if err != nil {
		return nil, 0, err
	}
	dist, err := u.ratingRepo.Distribution(ctx, &userID)
	if err != nil {
		return nil, 0, err
	}
	if err := u.attachRaterNames(ctx, ratings); err != nil {
		return nil, 0, err
	}

	rep := &entities.UserReputation{
		UserID:       userID,
		Average:      roundOneDecimal(agg.Average),
		Count:        agg.Count,
		Distribution: dist,
		Ratings:      make([]entities.Rating, 0, len(ratings)),
	}
	for _, r := range ratings {
		rep.Ratings = append(rep.Ratings, *r)
	}
	return rep, total, nil
}

func (u *ReputationUsecase) ListGiven(ctx context.Context, raterID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Rating, int64, error) {
	return u.ratingRepo.ListByRater(ctx, raterID, pagination.Limit, pagination.CalculateOffset())
}

// Ranking lists users with enough ratings, best average first.
func (u *ReputationUsecase) Ranking(ctx context.Context, limit int) ([]*entities.RankingEntry, error) {
	limit = clampLimit(limit, DefaultRankingLimit, MaxRankingLimit)
	entries, err := u.ratingRepo.Ranking(ctx, u.minRatings, limit)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		e.Average = roundOneDecimal(e.Average)
	}
	return entries, nil
}

// UpdateRating is restricted to the author of the rating.
func (u *ReputationUsecase) UpdateRating(ctx context.Context, actor Actor, id uuid.UUID, input *entities.UpdateRatingInput) (*entities.Rating, error) {
	rating, err := u.ratingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "calificación no encontrada")
	}
	if rating.RaterID != actor.UserID {
		return nil, domainerrors.Forbidden("solo el autor puede editar la calificación")
	}
	if input.Score != nil {
		if !entities.ValidScore(*input.Score) {
			return nil, domainerrors.InvalidScore("la calificación debe estar entre 1 y 5")
		}
		rating.Score = *input.Score
	}
	if input.Comment != nil {
		rating.Comment = optionalString(strings.TrimSpace(*input.Comment))
	}
	rating.UpdatedAt = u.now()

	if err := u.ratingRepo.Update(ctx, rating); err != nil {
		return nil, notFoundAs(err, "calificación no encontrada")
	}
	return rating, nil
}

// DeleteRating is allowed to the author and to admins.
func (u *ReputationUsecase) DeleteRating(ctx context.Context, actor Actor, id uuid.UUID) error {
	rating, err := u.ratingRepo.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "calificación no encontrada")
	}
	if rating.RaterID != actor.UserID && !actor.Admin {
		return domainerrors.Forbidden("no puede eliminar esta calificación")
	}
	if err := u.ratingRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, "calificación no encontrada")
	}
	return nil
}

func (u *ReputationUsecase) Stats(ctx context.Context) (*entities.RatingStats, error) {
	agg, err := u.ratingRepo.Aggregate(ctx, nil)
	if err != nil {
		return nil, err
	}
	dist, err := u.ratingRepo.Distribution(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &entities.RatingStats{
		Total:        agg.Count,
		Average:      roundOneDecimal(agg.Average),
		Distribution: dist,
	}, nil
}

func (u *ReputationUsecase) attachRaterNames(ctx context.Context, ratings []*entities.Rating) error {
	if len(ratings) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(ratings))
	for _, r := range ratings {
		ids = append(ids, r.RaterID)
	}
	names, err := u.userRepo.GetNames(ctx, uniqueIDs(ids))
	if err != nil {
		return err
	}
	for _, r := range ratings {
		r.RaterName = names[r.RaterID]
	}
	return nil
}
