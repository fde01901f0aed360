package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/domain/repositories"
	"agro-market.backend/pkg/utils"
)

// CatalogUsecase manages categories, products and user favorites.
type CatalogUsecase struct {
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	favoriteRepo repositories.FavoriteRepository
	now          func() time.Time
}

func NewCatalogUsecase(
	categoryRepo repositories.CategoryRepository,
	productRepo repositories.ProductRepository,
	favoriteRepo repositories.FavoriteRepository,
) *CatalogUsecase {
	return &CatalogUsecase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		favoriteRepo: favoriteRepo,
		now:          utcNow,
	}
}

func (u *CatalogUsecase) SetClock(now func() time.Time) { u.now = now }

func (u *CatalogUsecase) CreateCategory(ctx context.Context, input *entities.CreateCategoryInput) (*entities.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.BadRequest("el nombre es obligatorio")
	}
	c := &entities.Category{
		ID:          utils.GenerateUUIDv7(),
		Name:        name,
		Description: optionalString(input.Description),
		CreatedAt:   u.now(),
	}
	if err := u.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	return u.categoryRepo.List(ctx)
}

// CreateProduct rejects unknown category ids.
func (u *CatalogUsecase) CreateProduct(ctx context.Context, input *entities.CreateProductInput) (*entities.Product, error) {
	if input.ReferencePrice.IsNegative() {
		return nil, domainerrors.InvalidAmount("el precio referencial no puede ser negativo")
	}

	var cats []entities.Category
	if len(input.CategoryIDs) > 0 {
		found, err := u.categoryRepo.GetByIDs(ctx, input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if len(found) != len(uniqueIDs(input.CategoryIDs)) {
			return nil, domainerrors.NotFound("categoría no encontrada")
		}
		for _, c := range found {
			cats = append(cats, *c)
		}
	}

	now := u.now()
	p := &entities.Product{
		ID:             utils.GenerateUUIDv7(),
		Name:           strings.TrimSpace(input.Name),
		Description:    optionalString(input.Description),
		Unit:           strings.TrimSpace(input.Unit),
		ReferencePrice: input.ReferencePrice,
		ImageURL:       optionalString(input.ImageURL),
		Active:         true,
		Categories:     cats,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	p, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "producto no encontrado")
	}
	return p, nil
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, filter entities.ProductFilter, pagination utils.PaginationParams) ([]*entities.Product, int64, error) {
	return u.productRepo.List(ctx, filter, pagination.Limit, pagination.CalculateOffset())
}

// UpdateProduct edits the scalar product fields present in input. Categories
// are left as they are.
func (u *CatalogUsecase) UpdateProduct(ctx context.Context, id uuid.UUID, input *entities.UpdateProductInput) (*entities.Product, error) {
	p, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "producto no encontrado")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domainerrors.BadRequest("el nombre no puede estar vacío")
		}
		p.Name = name
	}
	if input.Description != nil {
		p.Description = optionalString(*input.Description)
	}
	if input.Unit != nil {
		unit := strings.TrimSpace(*input.Unit)
		if unit == "" {
			return nil, domainerrors.BadRequest("la unidad de medida no puede estar vacía")
		}
		p.Unit = unit
	}
	if input.ReferencePrice != nil {
		if input.ReferencePrice.IsNegative() {
			return nil, domainerrors.InvalidAmount("el precio referencial no puede ser negativo")
		}
		p.ReferencePrice = *input.ReferencePrice
	}
	if input.ImageURL != nil {
		p.ImageURL = optionalString(*input.ImageURL)
	}
	p.UpdatedAt = u.now()

	if err := u.productRepo.Update(ctx, p); err != nil {
		return nil, notFoundAs(err, "producto no encontrado")
	}
	return p, nil
}

func (u *CatalogUsecase) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	if err := u.productRepo.SetActive(ctx, id, false); err != nil {
		return notFoundAs(err, "producto no encontrado")
	}
	return nil
}

func (u *CatalogUsecase) AddFavorite(ctx context.Context, userID, productID uuid.UUID) (*entities.Favorite, error) {
	product, err := u.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, notFoundAs(err, "producto no encontrado")
	}

	exists, err := u.favoriteRepo.Exists(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainerrors.Conflict("el producto ya está en favoritos")
	}

	f := &entities.Favorite{UserID: userID, ProductID: productID, Product: product, CreatedAt: u.now()}
	if err := u.favoriteRepo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (u *CatalogUsecase) RemoveFavorite(ctx context.Context, userID, productID uuid.UUID) error {
	if err := u.favoriteRepo.Delete(ctx, userID, productID); err != nil {
		return notFoundAs(err, "favorito no encontrado")
	}
	return nil
}

func (u *CatalogUsecase) ListFavorites(ctx context.Context, userID uuid.UUID) ([]*entities.Favorite, error) {
	return u.favoriteRepo.ListByUser(ctx, userID)
}

func (u *CatalogUsecase) CheckFavorite(ctx context.Context, userID, productID uuid.UUID) (*entities.FavoriteCheck, error) {
	exists, err := u.favoriteRepo.Exists(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	return &entities.FavoriteCheck{ProductID: productID, IsFavorite: exists}, nil
}

// PopularProducts ranks active products by favorite count.
func (u *CatalogUsecase) PopularProducts(ctx context.Context, limit int) ([]*entities.PopularProduct, error) {
	return u.favoriteRepo.Popular(ctx, clampLimit(limit, 10, 100))
}

func (u *CatalogUsecase) FavoriteStats(ctx context.Context, userID uuid.UUID) (*entities.FavoriteStats, error) {
	total, err := u.favoriteRepo.CountByUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	since := u.now().AddDate(0, -1, 0)
	lastMonth, err := u.favoriteRepo.CountByUser(ctx, userID, &since)
	if err != nil {
		return nil, err
	}
	return &entities.FavoriteStats{Total: total, LastMonth: lastMonth}, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
