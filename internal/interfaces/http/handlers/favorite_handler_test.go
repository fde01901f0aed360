package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
)

type favoriteServiceStub struct {
	addFn    func(ctx context.Context, userID, productID uuid.UUID) (*entities.Favorite, error)
	removeFn func(ctx context.Context, userID, productID uuid.UUID) error
	listFn   func(ctx context.Context, userID uuid.UUID) ([]*entities.Favorite, error)
	checkFn  func(ctx context.Context, userID, productID uuid.UUID) (*entities.FavoriteCheck, error)
	topFn    func(ctx context.Context, limit int) ([]*entities.PopularProduct, error)
	statsFn  func(ctx context.Context, userID uuid.UUID) (*entities.FavoriteStats, error)
}

func (s favoriteServiceStub) AddFavorite(ctx context.Context, userID, productID uuid.UUID) (*entities.Favorite, error) {
	return s.addFn(ctx, userID, productID)
}

func (s favoriteServiceStub) RemoveFavorite(ctx context.Context, userID, productID uuid.UUID) error {
	return s.removeFn(ctx, userID, productID)
}

func (s favoriteServiceStub) ListFavorites(ctx context.Context, userID uuid.UUID) ([]*entities.Favorite, error) {
	return s.listFn(ctx, userID)
}

func (s favoriteServiceStub) CheckFavorite(ctx context.Context, userID, productID uuid.UUID) (*entities.FavoriteCheck, error) {
	return s.checkFn(ctx, userID, productID)
}

func (s favoriteServiceStub) PopularProducts(ctx context.Context, limit int) ([]*entities.PopularProduct, error) {
	return s.topFn(ctx, limit)
}

func (s favoriteServiceStub) FavoriteStats(ctx context.Context, userID uuid.UUID) (*entities.FavoriteStats, error) {
	return s.statsFn(ctx, userID)
}

func TestFavoriteHandler(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	r := newTestRouter()
	h := NewFavoriteHandler(favoriteServiceStub{
		addFn: func(_ context.Context, uid, pid uuid.UUID) (*entities.Favorite, error) {
			assert.Equal(t, userID, uid)
			if pid != productID {
				return nil, domainerrors.AlreadyExists("ya está en favoritos")
			}
			return &entities.Favorite{UserID: uid, ProductID: pid}, nil
		},
		removeFn: func(context.Context, uuid.UUID, uuid.UUID) error {
			return domainerrors.NotFound("favorito no encontrado")
		},
		listFn: func(_ context.Context, uid uuid.UUID) ([]*entities.Favorite, error) {
			return []*entities.Favorite{{UserID: uid, ProductID: productID}}, nil
		},
	})
	auth := asUser(userID, entities.UserRoleBuyer)
	r.GET("/favorites", auth, h.List)
	r.POST("/favorites", auth, h.Add)
	r.DELETE("/favorites/:productId", auth, h.Remove)

	w := doRequest(r, http.MethodPost, "/favorites", `{"id_producto":"`+productID.String()+`"}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = doRequest(r, http.MethodPost, "/favorites", `{"id_producto":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPost, "/favorites", `{}`).Code)

	w = doRequest(r, http.MethodGet, "/favorites", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), productID.String())

	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodDelete, "/favorites/"+productID.String(), "").Code)
}

func TestFavoriteHandler_CheckPopularStats(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	var askedLimit int
	r := newTestRouter()
	h := NewFavoriteHandler(favoriteServiceStub{
		checkFn: func(_ context.Context, uid, pid uuid.UUID) (*entities.FavoriteCheck, error) {
			assert.Equal(t, userID, uid)
			return &entities.FavoriteCheck{ProductID: pid, IsFavorite: pid == productID}, nil
		},
		topFn: func(_ context.Context, limit int) ([]*entities.PopularProduct, error) {
			askedLimit = limit
			return []*entities.PopularProduct{{Product: &entities.Product{ID: productID, Name: "Maíz"}, TotalFavorites: 3}}, nil
		},
		statsFn: func(_ context.Context, uid uuid.UUID) (*entities.FavoriteStats, error) {
			assert.Equal(t, userID, uid)
			return &entities.FavoriteStats{Total: 5, LastMonth: 2}, nil
		},
	})
	auth := asUser(userID, entities.UserRoleBuyer)
	r.GET("/favorites/popular", h.Popular)
	r.GET("/favorites/check", auth, h.Check)
	r.GET("/favorites/stats", auth, h.Stats)

	w := doRequest(r, http.MethodGet, "/favorites/check?id_producto="+productID.String(), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id_producto":"`+productID.String()+`","es_favorito":true}`, string(decodeEnvelope(t, w).Data))

	w = doRequest(r, http.MethodGet, "/favorites/check?id_producto="+uuid.NewString(), "")
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"es_favorito":false`)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodGet, "/favorites/check", "").Code)

	w = doRequest(r, http.MethodGet, "/favorites/popular?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, askedLimit)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"total_favoritos":3`)

	doRequest(r, http.MethodGet, "/favorites/popular", "")
	assert.Equal(t, 0, askedLimit)

	w = doRequest(r, http.MethodGet, "/favorites/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_favoritos":5,"favoritos_ultimo_mes":2}`, string(decodeEnvelope(t, w).Data))
}
