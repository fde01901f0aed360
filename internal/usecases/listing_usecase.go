package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/domain/repositories"
	"agro-market.backend/pkg/logger"
	"agro-market.backend/pkg/utils"
)

// ListingUsecase publishes and queries buy/sell listings. Publishing is
// limited per user per calendar day.
type ListingUsecase struct {
	listingRepo repositories.ListingRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	uow         repositories.UnitOfWork
	now         func() time.Time
}

func NewListingUsecase(
	listingRepo repositories.ListingRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
) *ListingUsecase {
	return &ListingUsecase{
		listingRepo: listingRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		uow:         uow,
		now:         utcNow,
	}
}

func (u *ListingUsecase) SetClock(now func() time.Time) { u.now = now }

// Create publishes a listing. The owner row is locked for the duration of
// the transaction so two concurrent posts cannot both pass the quota check.
func (u *ListingUsecase) Create(ctx context.Context, ownerID uuid.UUID, input *entities.CreateListingInput) (*entities.Listing, error) {
	if !input.Type.IsValid() {
		return nil, domainerrors.BadRequest("tipo de anuncio inválido")
	}
	if !input.Quantity.IsPositive() {
		return nil, domainerrors.BadRequest("la cantidad debe ser mayor a cero")
	}
	if input.Price.IsNegative() {
		return nil, domainerrors.InvalidAmount("el precio no puede ser negativo")
	}

	product, err := u.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, notFoundAs(err, "producto no encontrado")
	}
	if !product.Active {
		return nil, domainerrors.NotFound("producto no encontrado")
	}

	var listing *entities.Listing
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		owner, err := u.userRepo.GetByID(u.uow.WithLock(txCtx), ownerID)
		if err != nil {
			return notFoundAs(err, "usuario no encontrado")
		}

		now := u.now()
		if !owner.CanPublish(now) {
			return domainerrors.QuotaExceeded("límite diario de anuncios alcanzado")
		}
		published := owner.ListingsPublishedOn(now)

		listing = &entities.Listing{
			ID:          utils.GenerateUUIDv7(),
			Type:        input.Type,
			OwnerID:     ownerID,
			ProductID:   product.ID,
			Quantity:    input.Quantity,
			Unit:        strings.TrimSpace(input.Unit),
			Price:       input.Price,
			Description: strings.TrimSpace(input.Description),
			Location:    optionalString(input.Location),
			Status:      entities.ListingStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if input.Latitude != nil {
			listing.Latitude = null.Float64From(*input.Latitude)
		}
		if input.Longitude != nil {
			listing.Longitude = null.Float64From(*input.Longitude)
		}
		if err := u.listingRepo.Create(txCtx, listing); err != nil {
			return err
		}
		return u.userRepo.SetListingCounter(txCtx, ownerID, published+1, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Listing published",
		zap.String("listing_id", listing.ID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.String("type", string(listing.Type)),
	)
	return listing, nil
}

func (u *ListingUsecase) Get(ctx context.Context, id uuid.UUID) (*entities.Listing, error) {
	l, err := u.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "anuncio no encontrado")
	}
	return l, nil
}

func (u *ListingUsecase) List(ctx context.Context, filter entities.ListingFilter, pagination utils.PaginationParams) ([]*entities.Listing, int64, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, 0, domainerrors.BadRequest("tipo de anuncio inválido")
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, domainerrors.BadRequest("estado de anuncio inválido")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, 0, domainerrors.BadRequest("precio_min mayor que precio_max")
	}
	return u.listingRepo.List(ctx, filter, pagination.Limit, pagination.CalculateOffset())
}

// ListMine returns the owner's listings in every status.
func (u *ListingUsecase) ListMine(ctx context.Context, ownerID uuid.UUID, listingType entities.ListingType, pagination utils.PaginationParams) ([]*entities.Listing, int64, error) {
	filter := entities.ListingFilter{Type: listingType, OwnerID: &ownerID, AnyStatus: true}
	return u.List(ctx, filter, pagination)
}

// UpdateStatus changes a listing the caller owns. Listings of other users
// are reported as not found.
func (u *ListingUsecase) UpdateStatus(ctx context.Context, ownerID, listingID uuid.UUID, status entities.ListingStatus) (*entities.Listing, error) {
	if !status.IsValid() {
		return nil, domainerrors.BadRequest("estado de anuncio inválido")
	}
	l, err := u.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, notFoundAs(err, "anuncio no encontrado")
	}
	if l.OwnerID != ownerID {
		return nil, domainerrors.NotFound("anuncio no encontrado")
	}
	if err := u.listingRepo.UpdateStatus(ctx, listingID, status); err != nil {
		return nil, notFoundAs(err, "anuncio no encontrado")
	}
	l.Status = status
	l.UpdatedAt = u.now()
	return l, nil
}

func (u *ListingUsecase) Report(ctx context.Context, listingID uuid.UUID) error {
	if err := u.listingRepo.IncrementReports(ctx, listingID); err != nil {
		return notFoundAs(err, "anuncio no encontrado")
	}
	logger.Warn(ctx, "Listing reported", zap.String("listing_id", listingID.String()))
	return nil
}

func (u *ListingUsecase) Moderate(ctx context.Context, listingID uuid.UUID) error {
	if err := u.listingRepo.MarkModerated(ctx, listingID, u.now()); err != nil {
		return notFoundAs(err, "anuncio no encontrado")
	}
	return nil
}
