package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"agro-market.backend/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	args := m.Called(ctx)
	return args.Get(0).(context.Context)
}

// passThroughUOW expects any number of Do/WithLock calls and runs f inline.
func passThroughUOW() *MockUnitOfWork {
	uow := new(MockUnitOfWork)
	uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	uow.On("WithLock", mock.Anything).Return(context.Background())
	return uow
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByResetToken(ctx context.Context, token string) (*entities.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockUserRepository) SetVerified(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) SetListingCounter(ctx context.Context, id uuid.UUID, count int, at time.Time) error {
	return m.Called(ctx, id, count, at).Error(0)
}

func (m *MockUserRepository) GetNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter entities.UserFilter, limit, offset int) ([]*entities.User, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]*entities.User), args.Get(1).(int64), args.Error(2)
}

// Mock CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *entities.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*entities.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Category, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Category), args.Error(1)
}

// Mock ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *entities.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter entities.ProductFilter, limit, offset int) ([]*entities.Product, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]*entities.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *entities.Product) error {
	return m.Called(ctx, p).Error(0)
}

// Mock FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Create(ctx context.Context, f *entities.Favorite) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *MockFavoriteRepository) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Favorite, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*entities.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) CountByUser(ctx context.Context, userID uuid.UUID, since *time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFavoriteRepository) Popular(ctx context.Context, limit int) ([]*entities.PopularProduct, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*entities.PopularProduct), args.Error(1)
}

// Mock ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, l *entities.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Listing), args.Error(1)
}

func (m *MockListingRepository) List(ctx context.Context, filter entities.ListingFilter, limit, offset int) ([]*entities.Listing, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]*entities.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ListingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockListingRepository) IncrementReports(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockListingRepository) MarkModerated(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

// Mock OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *entities.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, status entities.OrderStatus, limit, offset int) ([]*entities.Order, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*entities.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, role entities.OrderRole, limit, offset int) ([]*entities.Order, int64, error) {
	args := m.Called(ctx, userID, role, limit, offset)
	return args.Get(0).([]*entities.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) MarkVerified(ctx context.Context, id uuid.UUID, notes string) error {
	return m.Called(ctx, id, notes).Error(0)
}

// Mock PaymentIntentRepository
type MockPaymentIntentRepository struct {
	mock.Mock
}

func (m *MockPaymentIntentRepository) Create(ctx context.Context, p *entities.PaymentIntent) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentIntentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentIntent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentIntent), args.Error(1)
}

func (m *MockPaymentIntentRepository) GetByCode(ctx context.Context, code string) (*entities.PaymentIntent, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentIntent), args.Error(1)
}

func (m *MockPaymentIntentRepository) List(ctx context.Context, status entities.PaymentIntentStatus, limit, offset int) ([]*entities.PaymentIntent, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*entities.PaymentIntent), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentIntentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entities.PaymentIntent, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*entities.PaymentIntent), args.Error(1)
}

func (m *MockPaymentIntentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PaymentIntentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockPaymentIntentRepository) MarkCompleted(ctx context.Context, id uuid.UUID, paidAt time.Time, input entities.ConfirmPaymentInput) error {
	return m.Called(ctx, id, paidAt, input).Error(0)
}

func (m *MockPaymentIntentRepository) ExpireIfDue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentIntentRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// Mock RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(ctx context.Context, r *entities.Rating) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRatingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Rating), args.Error(1)
}

func (m *MockRatingRepository) Exists(ctx context.Context, raterID, rateeID, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, raterID, rateeID, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingRepository) ListByRatee(ctx context.Context, rateeID uuid.UUID, limit, offset int) ([]*entities.Rating, int64, error) {
	args := m.Called(ctx, rateeID, limit, offset)
	return args.Get(0).([]*entities.Rating), args.Get(1).(int64), args.Error(2)
}

func (m *MockRatingRepository) ListByRater(ctx context.Context, raterID uuid.UUID, limit, offset int) ([]*entities.Rating, int64, error) {
	args := m.Called(ctx, raterID, limit, offset)
	return args.Get(0).([]*entities.Rating), args.Get(1).(int64), args.Error(2)
}

func (m *MockRatingRepository) Distribution(ctx context.Context, rateeID *uuid.UUID) (entities.ScoreHistogram, error) {
	args := m.Called(ctx, rateeID)
	return args.Get(0).(entities.ScoreHistogram), args.Error(1)
}

func (m *MockRatingRepository) Aggregate(ctx context.Context, rateeID *uuid.UUID) (entities.RatingAggregate, error) {
	args := m.Called(ctx, rateeID)
	return args.Get(0).(entities.RatingAggregate), args.Error(1)
}

func (m *MockRatingRepository) Ranking(ctx context.Context, minCount, limit int) ([]*entities.RankingEntry, error) {
	args := m.Called(ctx, minCount, limit)
	return args.Get(0).([]*entities.RankingEntry), args.Error(1)
}

func (m *MockRatingRepository) Update(ctx context.Context, r *entities.Rating) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRatingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// Mock CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, c *entities.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Comment), args.Error(1)
}

func (m *MockCommentRepository) List(ctx context.Context, filter entities.CommentFilter, limit, offset int) ([]*entities.Comment, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]*entities.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentRepository) UpdateText(ctx context.Context, id uuid.UUID, text string, at time.Time) error {
	return m.Called(ctx, id, text, at).Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCommentRepository) Stats(ctx context.Context, since time.Time) (entities.CommentStats, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(entities.CommentStats), args.Error(1)
}

// Mock MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, ms *entities.Membership) error {
	return m.Called(ctx, ms).Error(0)
}

func (m *MockMembershipRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Membership), args.Error(1)
}

func (m *MockMembershipRepository) List(ctx context.Context, active *bool) ([]*entities.Membership, error) {
	args := m.Called(ctx, active)
	return args.Get(0).([]*entities.Membership), args.Error(1)
}

func (m *MockMembershipRepository) Update(ctx context.Context, ms *entities.Membership) error {
	return m.Called(ctx, ms).Error(0)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMembershipRepository) Count(ctx context.Context, active *bool) (int64, error) {
	args := m.Called(ctx, active)
	return args.Get(0).(int64), args.Error(1)
}

// Mock MembershipAssignmentRepository
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, a *entities.MembershipAssignment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.MembershipAssignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MembershipAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entities.MembershipAssignment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MembershipAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.MembershipAssignment, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*entities.MembershipAssignment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssignmentRepository) DeactivateForUser(ctx context.Context, userID uuid.UUID, keepID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, keepID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignmentRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAssignmentRepository) Reactivate(ctx context.Context, id uuid.UUID, startsAt, expiresAt time.Time) error {
	return m.Called(ctx, id, startsAt, expiresAt).Error(0)
}

func (m *MockAssignmentRepository) ExpireIfDue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignmentRepository) CountActiveByMembership(ctx context.Context, membershipID uuid.UUID) (int64, error) {
	args := m.Called(ctx, membershipID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignmentRepository) CountUsersWithActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignmentRepository) TopMemberships(ctx context.Context, limit int) ([]entities.MembershipUsage, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]entities.MembershipUsage), args.Error(1)
}

// Mock PaymentVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, intent *entities.PaymentIntent, input entities.ConfirmPaymentInput) (bool, error) {
	args := m.Called(ctx, intent, input)
	return args.Bool(0), args.Error(1)
}

// Mock TokenBlocklist
type MockBlocklist struct {
	mock.Mock
}

func (m *MockBlocklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	return m.Called(ctx, token, ttl).Error(0)
}

func (m *MockBlocklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}
