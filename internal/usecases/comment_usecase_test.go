package usecases_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/usecases"
	"agro-market.backend/pkg/utils"
)

var commentNow = time.Date(2026, 7, 20, 10, 0, 0, 0, time.UTC)

type commentMocks struct {
	comments *MockCommentRepository
	products *MockProductRepository
	listings *MockListingRepository
	users    *MockUserRepository
}

func newCommentUsecase() (*usecases.CommentUsecase, commentMocks) {
	m := commentMocks{
		comments: new(MockCommentRepository),
		products: new(MockProductRepository),
		listings: new(MockListingRepository),
		users:    new(MockUserRepository),
	}
	uc := usecases.NewCommentUsecase(m.comments, m.products, m.listings, m.users)
	uc.SetClock(func() time.Time { return commentNow })
	return uc, m
}

func TestCommentUsecase_CreateComment(t *testing.T) {
	uc, m := newCommentUsecase()
	authorID := uuid.New()
	product := &entities.Product{ID: uuid.New(), Name: "Quinua"}
	listing := &entities.Listing{ID: uuid.New()}
	m.products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	m.listings.On("GetByID", mock.Anything, listing.ID).Return(listing, nil)
	m.comments.On("Create", mock.Anything, mock.AnythingOfType("*entities.Comment")).Return(nil).Once()
	m.users.On("GetNames", mock.Anything, []uuid.UUID{authorID}).Return(map[uuid.UUID]string{authorID: "Ana"}, nil)

	c, err := uc.CreateComment(context.Background(), authorID, &entities.CreateCommentInput{
		ProductID: &product.ID,
		ListingID: &listing.ID,
		Text:      "  ¿Entregan en El Alto?  ",
	})
	require.NoError(t, err)
	assert.Equal(t, authorID, c.UserID)
	assert.Equal(t, "¿Entregan en El Alto?", c.Text)
	assert.Equal(t, "Ana", c.AuthorName)
	assert.Equal(t, commentNow, c.CreatedAt)
	require.NotNil(t, c.ListingID)
	assert.Equal(t, listing.ID, *c.ListingID)
	m.comments.AssertExpectations(t)
}

func TestCommentUsecase_CreateComment_Rejects(t *testing.T) {
	uc, m := newCommentUsecase()
	missingProduct, missingListing := uuid.New(), uuid.New()
	known := uuid.New()
	m.products.On("GetByID", mock.Anything, missingProduct).Return(nil, domainerrors.ErrNotFound)
	m.products.On("GetByID", mock.Anything, known).Return(&entities.Product{ID: known}, nil)
	m.listings.On("GetByID", mock.Anything, missingListing).Return(nil, domainerrors.ErrNotFound)

	cases := []struct {
		name  string
		input entities.CreateCommentInput
		want  error
		code  int
	}{
		{"no target", entities.CreateCommentInput{Text: "hola"}, domainerrors.ErrInvalidInput, 400},
		{"blank text", entities.CreateCommentInput{ProductID: &known, Text: "   "}, domainerrors.ErrInvalidInput, 400},
		{"too long", entities.CreateCommentInput{ProductID: &known, Text: strings.Repeat("ñ", 1001)}, domainerrors.ErrInvalidInput, 400},
		{"unknown product", entities.CreateCommentInput{ProductID: &missingProduct, Text: "hola"}, domainerrors.ErrNotFound, 404},
		{"unknown listing", entities.CreateCommentInput{ProductID: &known, ListingID: &missingListing, Text: "hola"}, domainerrors.ErrNotFound, 404},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := tc.input
			_, err := uc.CreateComment(context.Background(), uuid.New(), &input)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, tc.code, domainerrors.AsAppError(err).Code)
		})
	}
	m.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentUsecase_Lists(t *testing.T) {
	uc, m := newCommentUsecase()
	productID, listingID, userID := uuid.New(), uuid.New(), uuid.New()
	authorA, authorB := uuid.New(), uuid.New()
	page := utils.GetPaginationParams(2, 10)

	byProduct := []*entities.Comment{{UserID: authorA}, {UserID: authorB}, {UserID: authorA}}
	m.comments.On("List", mock.Anything, entities.CommentFilter{ProductID: &productID}, 10, 10).Return(byProduct, int64(13), nil).Once()
	m.users.On("GetNames", mock.Anything, []uuid.UUID{authorA, authorB}).
		Return(map[uuid.UUID]string{authorA: "Ana", authorB: "Luis"}, nil).Once()

	items, total, err := uc.ListByProduct(context.Background(), productID, page)
	require.NoError(t, err)
	assert.Equal(t, int64(13), total)
	assert.Equal(t, "Ana", items[0].AuthorName)
	assert.Equal(t, "Luis", items[1].AuthorName)

	empty := []*entities.Comment{}
	m.comments.On("List", mock.Anything, entities.CommentFilter{ListingID: &listingID}, 10, 10).Return(empty, int64(0), nil).Once()
	m.comments.On("List", mock.Anything, entities.CommentFilter{UserID: &userID}, 10, 10).Return(empty, int64(0), nil).Once()
	m.comments.On("List", mock.Anything, entities.CommentFilter{}, 10, 10).Return(empty, int64(0), nil).Once()

	_, _, err = uc.ListByListing(context.Background(), listingID, page)
	require.NoError(t, err)
	_, _, err = uc.ListByUser(context.Background(), userID, page)
	require.NoError(t, err)
	_, _, err = uc.ListAll(context.Background(), page)
	require.NoError(t, err)

	m.comments.AssertExpectations(t)
	m.users.AssertExpectations(t)
}

func TestCommentUsecase_UpdateComment(t *testing.T) {
	uc, m := newCommentUsecase()
	author := uuid.New()
	existing := &entities.Comment{ID: uuid.New(), UserID: author, Text: "viejo"}
	m.comments.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	m.comments.On("UpdateText", mock.Anything, existing.ID, "nuevo texto", commentNow).Return(nil).Once()
	m.users.On("GetNames", mock.Anything, []uuid.UUID{author}).Return(map[uuid.UUID]string{author: "Ana"}, nil)

	_, err := uc.UpdateComment(context.Background(), usecases.Actor{UserID: uuid.New(), Admin: true}, existing.ID, &entities.UpdateCommentInput{Text: "otro"})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = uc.UpdateComment(context.Background(), usecases.Actor{UserID: author}, existing.ID, &entities.UpdateCommentInput{Text: " "})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	c, err := uc.UpdateComment(context.Background(), usecases.Actor{UserID: author}, existing.ID, &entities.UpdateCommentInput{Text: " nuevo texto "})
	require.NoError(t, err)
	assert.Equal(t, "nuevo texto", c.Text)
	assert.Equal(t, commentNow, c.UpdatedAt)
	assert.Equal(t, "Ana", c.AuthorName)
	m.comments.AssertExpectations(t)
}

func TestCommentUsecase_DeleteComment(t *testing.T) {
	uc, m := newCommentUsecase()
	author := uuid.New()
	existing := &entities.Comment{ID: uuid.New(), UserID: author}
	missing := uuid.New()
	m.comments.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	m.comments.On("GetByID", mock.Anything, missing).Return(nil, domainerrors.ErrNotFound)
	m.comments.On("Delete", mock.Anything, existing.ID).Return(nil).Twice()

	err := uc.DeleteComment(context.Background(), usecases.Actor{UserID: uuid.New()}, existing.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	assert.NoError(t, uc.DeleteComment(context.Background(), usecases.Actor{UserID: author}, existing.ID))
	assert.NoError(t, uc.DeleteComment(context.Background(), usecases.Actor{UserID: uuid.New(), Admin: true}, existing.ID))

	err = uc.DeleteComment(context.Background(), usecases.Actor{UserID: author}, missing)
	assert.Equal(t, 404, domainerrors.AsAppError(err).Code)
	m.comments.AssertExpectations(t)
}

func TestCommentUsecase_Stats(t *testing.T) {
	uc, m := newCommentUsecase()
	since := time.Date(2026, 6, 20, 10, 0, 0, 0, time.UTC)
	want := entities.CommentStats{Total: 9, OnProducts: 6, OnListings: 4, LastMonth: 3}
	m.comments.On("Stats", mock.Anything, since).Return(want, nil).Once()

	stats, err := uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, *stats)
	m.comments.AssertExpectations(t)
}
