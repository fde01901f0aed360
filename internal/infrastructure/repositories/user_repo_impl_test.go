package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
)

func TestUserRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "Rosa")

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rosa", got.Name)
	assert.True(t, got.Active)
	assert.Equal(t, 5, got.DailyListingLimit)

	byEmail, err := repo.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	got.Phone = null.StringFrom("+59170000000")
	got.ResetToken = null.StringFrom("tok123")
	got.ResetTokenExpiresAt = null.TimeFrom(time.Now().UTC().Add(time.Hour))
	require.NoError(t, repo.Update(ctx, got))

	byToken, err := repo.GetByResetToken(ctx, "tok123")
	require.NoError(t, err)
	assert.Equal(t, "+59170000000", byToken.Phone.String)

	require.NoError(t, repo.SetActive(ctx, u.ID, false))
	require.NoError(t, repo.SetVerified(ctx, u.ID))
	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetListingCounter(ctx, u.ID, 3, at))

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.True(t, got.Verified)
	assert.Equal(t, 3, got.ListingsToday)
	assert.True(t, got.LastListingAt.Time.Equal(at))

	names, err := repo.GetNames(ctx, []uuid.UUID{u.ID})
	require.NoError(t, err)
	assert.Equal(t, "Rosa", names[u.ID])
}

func TestUserRepository_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = repo.GetByEmail(ctx, "nadie@agro.test")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = repo.GetByResetToken(ctx, "nope")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.ErrorIs(t, repo.SetActive(ctx, uuid.New(), false), domainerrors.ErrNotFound)

	names, err := repo.GetNames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	u := seedUser(t, db, "Ana")

	dup := *u
	dup.ID = uuid.New()
	assert.Error(t, repo.Create(context.Background(), &dup))
}

func TestUserRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	rosa := seedUser(t, db, "Rosa")
	juan := seedUser(t, db, "Juan")
	eva := seedUser(t, db, "Eva")
	mustExec(t, db, "UPDATE usuarios SET fecha_registro = ? WHERE id = ?", base, rosa.ID)
	mustExec(t, db, "UPDATE usuarios SET fecha_registro = ?, rol = ? WHERE id = ?", base.Add(time.Hour), string(entities.UserRoleSeller), juan.ID)
	mustExec(t, db, "UPDATE usuarios SET fecha_registro = ? WHERE id = ?", base.Add(2*time.Hour), eva.ID)
	require.NoError(t, repo.SetActive(ctx, eva.ID, false))

	all, total, err := repo.List(ctx, entities.UserFilter{}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 2)
	assert.Equal(t, eva.ID, all[0].ID)
	assert.Equal(t, juan.ID, all[1].ID)

	sellers, total, err := repo.List(ctx, entities.UserFilter{Role: entities.UserRoleSeller}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, sellers, 1)
	assert.Equal(t, "Juan", sellers[0].Name)

	active := true
	actives, total, err := repo.List(ctx, entities.UserFilter{Active: &active}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, u := range actives {
		assert.NotEqual(t, eva.ID, u.ID)
	}
}
