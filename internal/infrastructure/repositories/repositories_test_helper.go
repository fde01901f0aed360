package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agro-market.backend/internal/domain/entities"
	"agro-market.backend/internal/infrastructure/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(models.All()...), "migrate")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func seedUser(t *testing.T, db *gorm.DB, name string) *entities.User {
	t.Helper()
	now := time.Now().UTC()
	u := &entities.User{
		ID:                uuid.New(),
		Email:             strings.ToLower(name) + "_" + uuid.NewString()[:8] + "@agro.test",
		Name:              name,
		PasswordHash:      "hash",
		Role:              entities.UserRoleBuyer,
		Active:            true,
		DailyListingLimit: entities.DefaultDailyListingLimit,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedOrder(t *testing.T, db *gorm.DB, buyer, seller uuid.UUID, total string, status entities.OrderStatus) *entities.Order {
	t.Helper()
	now := time.Now().UTC()
	o := &entities.Order{
		ID:        uuid.New(),
		BuyerID:   buyer,
		SellerID:  seller,
		Total:     decimal.RequireFromString(total),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, NewOrderRepository(db).Create(context.Background(), o))
	return o
}

func seedUserInTx(t *testing.T, ctx context.Context, repo *UserRepository, name string) *entities.User {
	t.Helper()
	now := time.Now().UTC()
	u := &entities.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(name) + "_" + uuid.NewString()[:8] + "@agro.test",
		Name:         name,
		PasswordHash: "hash",
		Role:         entities.UserRoleSeller,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(ctx, u))
	return u
}
