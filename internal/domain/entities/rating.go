package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// ValidScore reports whether score lies in [MinRatingScore, MaxRatingScore].
func ValidScore(score int) bool {
	return score >= MinRatingScore && score <= MaxRatingScore
}

// Rating is one user's score of another, justified by an order.
type Rating struct {
	ID        uuid.UUID   `json:"id"`
	RaterID   uuid.UUID   `json:"id_usuario_que_califica"`
	RateeID   uuid.UUID   `json:"id_usuario_valorado"`
	OrderID   uuid.UUID   `json:"id_pedido"`
	Score     int         `json:"calificacion"`
	Comment   null.String `json:"comentario"`
	RaterName string      `json:"nombre_calificador,omitempty"`
	CreatedAt time.Time   `json:"fecha"`
	UpdatedAt time.Time   `json:"fecha_actualizacion"`
}

type SubmitRatingInput struct {
	RateeID uuid.UUID `json:"id_usuario_valorado" binding:"required"`
	OrderID uuid.UUID `json:"id_pedido" binding:"required"`
	Score   int       `json:"calificacion"`
	Comment string    `json:"comentario" binding:"max=1000"`
}

type UpdateRatingInput struct {
	Score   *int    `json:"calificacion"`
	Comment *string `json:"comentario" binding:"omitempty,max=1000"`
}

// ScoreHistogram counts ratings per score, keyed "1".."5".
type ScoreHistogram map[string]int64

// NewScoreHistogram returns a histogram with every score present at zero.
func NewScoreHistogram() ScoreHistogram {
	h := make(ScoreHistogram, MaxRatingScore)
	for s := MinRatingScore; s <= MaxRatingScore; s++ {
		h[scoreKey(s)] = 0
	}
	return h
}

func (h ScoreHistogram) Add(score int, count int64) {
	if ValidScore(score) {
		h[scoreKey(score)] += count
	}
}

func scoreKey(score int) string {
	return string(rune('0' + score))
}

// RatingAggregate is the average and count of a set of ratings.
type RatingAggregate struct {
	Average float64 `json:"promedio"`
	Count   int64   `json:"total_calificaciones"`
}

type UserReputation struct {
	UserID       uuid.UUID      `json:"id_usuario"`
	Average      float64        `json:"promedio"`
	Count        int64          `json:"total_calificaciones"`
	Distribution ScoreHistogram `json:"distribucion"`
	Ratings      []Rating       `json:"calificaciones"`
}

type RankingEntry struct {
	Position int       `json:"posicion"`
	UserID   uuid.UUID `json:"id_usuario"`
	Name     string    `json:"nombre"`
	Average  float64   `json:"promedio"`
	Count    int64     `json:"total_calificaciones"`
}

type RatingStats struct {
	Total        int64          `json:"total_calificaciones"`
	Average      float64        `json:"promedio_general"`
	Distribution ScoreHistogram `json:"distribucion"`
}
