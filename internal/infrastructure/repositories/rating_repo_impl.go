package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/infrastructure/models"
)

type RatingRepositoryImpl struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepositoryImpl {
	return &RatingRepositoryImpl{db: db}
}

func (r *RatingRepositoryImpl) Create(ctx context.Context, rt *entities.Rating) error {
	return GetDB(ctx, r.db).Create(&models.Rating{
		ID:        rt.ID,
		RaterID:   rt.RaterID,
		RateeID:   rt.RateeID,
		OrderID:   rt.OrderID,
		Score:     rt.Score,
		Comment:   rt.Comment,
		CreatedAt: rt.CreatedAt,
		UpdatedAt: rt.UpdatedAt,
	}).Error
}

func (r *RatingRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Rating, error) {
	var m models.Rating
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return ratingToEntity(&m), nil
}

func (r *RatingRepositoryImpl) Exists(ctx context.Context, raterID, rateeID, orderID uuid.UUID) (bool, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&models.Rating{}).
		Where("id_usuario_que_califica = ? AND id_usuario_valorado = ? AND id_pedido = ?", raterID, rateeID, orderID).
		Count(&n).Error
	return n > 0, err
}

func (r *RatingRepositoryImpl) ListByRatee(ctx context.Context, rateeID uuid.UUID, limit, offset int) ([]*entities.Rating, int64, error) {
	return r.page(ctx, "id_usuario_valorado = ?", rateeID, limit, offset)
}

func (r *RatingRepositoryImpl) ListByRater(ctx context.Context, raterID uuid.UUID, limit, offset int) ([]*entities.Rating, int64, error) {
	return r.page(ctx, "id_usuario_que_califica = ?", raterID, limit, offset)
}

func (r *RatingRepositoryImpl) page(ctx context.Context, cond string, id uuid.UUID, limit, offset int) ([]*entities.Rating, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&models.Rating{}).Where(cond, id).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Rating
	if err := db.Where(cond, id).Order("fecha DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*entities.Rating, 0, len(ms))
	for i := range ms {
		out = append(out, ratingToEntity(&ms[i]))
	}
	return out, total, nil
}

type scoreCount struct {
	Score int
	Total int64
}

func (r *RatingRepositoryImpl) Distribution(ctx context.Context, rateeID *uuid.UUID) (entities.ScoreHistogram, error) {
	q := GetDB(ctx, r.db).Model(&models.Rating{}).
		Select("calificacion AS score, COUNT(*) AS total").
		Group("calificacion")
	if rateeID != nil {
		q = q.Where("id_usuario_valorado = ?", *rateeID)
	}
	var rows []scoreCount
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	h := entities.NewScoreHistogram()
	for _, row := range rows {
		h.Add(row.Score, row.Total)
	}
	return h, nil
}

type aggregateRow struct {
	Average float64
	Total   int64
}

// Aggregate returns the raw average; rounding is left to the caller.
func (r *RatingRepositoryImpl) Aggregate(ctx context.Context, rateeID *uuid.UUID) (entities.RatingAggregate, error) {
	q := GetDB(ctx, r.db).Model(&models.Rating{}).
		Select("COALESCE(AVG(calificacion), 0) AS average, COUNT(*) AS total")
	if rateeID != nil {
		q = q.Where("id_usuario_valorado = ?", *rateeID)
	}
	var row aggregateRow
	if err := q.Scan(&row).Error; err != nil {
		return entities.RatingAggregate{}, err
	}
	return entities.RatingAggregate{Average: row.Average, Count: row.Total}, nil
}

type rankingRow struct {
	UserID  uuid.UUID
	Name    string
	Average float64
	Total   int64
}

// Ranking orders users with at least minCount received ratings by average
// then by count, both descending.
func (r *RatingRepositoryImpl) Ranking(ctx context.Context, minCount, limit int) ([]*entities.RankingEntry, error) {
	var rows []rankingRow
	err := GetDB(ctx, r.db).Table("calificaciones AS c").
		Select("c.id_usuario_valorado AS user_id, u.nombre AS name, AVG(c.calificacion) AS average, COUNT(*) AS total").
		Joins("JOIN usuarios u ON u.id = c.id_usuario_valorado").
		Group("c.id_usuario_valorado, u.nombre").
		Having("COUNT(*) >= ?", minCount).
		Order("average DESC, total DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entities.RankingEntry, 0, len(rows))
	for i, row := range rows {
		out = append(out, &entities.RankingEntry{
			Position: i + 1,
			UserID:   row.UserID,
			Name:     row.Name,
			Average:  row.Average,
			Count:    row.Total,
		})
	}
	return out, nil
}

func (r *RatingRepositoryImpl) Update(ctx context.Context, rt *entities.Rating) error {
	res := GetDB(ctx, r.db).Model(&models.Rating{}).Where("id = ?", rt.ID).
		Updates(map[string]interface{}{
			"calificacion":        rt.Score,
			"comentario":          rt.Comment,
			"fecha_actualizacion": nowFunc(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *RatingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&models.Rating{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func ratingToEntity(m *models.Rating) *entities.Rating {
	return &entities.Rating{
		ID:        m.ID,
		RaterID:   m.RaterID,
		RateeID:   m.RateeID,
		OrderID:   m.OrderID,
		Score:     m.Score,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
