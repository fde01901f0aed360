package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/infrastructure/models"
	"agro-market.backend/pkg/textutil"
)

type CategoryRepositoryImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepositoryImpl {
	return &CategoryRepositoryImpl{db: db}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, c *entities.Category) error {
	return GetDB(ctx, r.db).Create(&models.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}).Error
}

func (r *CategoryRepositoryImpl) List(ctx context.Context) ([]*entities.Category, error) {
	var ms []models.Category
	if err := GetDB(ctx, r.db).Order("nombre ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Category, 0, len(ms))
	for i := range ms {
		out = append(out, categoryToEntity(&ms[i]))
	}
	return out, nil
}

func (r *CategoryRepositoryImpl) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ms []models.Category
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Category, 0, len(ms))
	for i := range ms {
		out = append(out, categoryToEntity(&ms[i]))
	}
	return out, nil
}

func categoryToEntity(m *models.Category) *entities.Category {
	return &entities.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

type ProductRepositoryImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepositoryImpl {
	return &ProductRepositoryImpl{db: db}
}

// Create inserts the product and links it to the already existing
// categories in p.Categories.
func (r *ProductRepositoryImpl) Create(ctx context.Context, p *entities.Product) error {
	m := &models.Product{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Unit:           p.Unit,
		ReferencePrice: p.ReferencePrice,
		ImageURL:       p.ImageURL,
		Active:         p.Active,
		SearchKey:      textutil.SearchKey(p.Name, p.Description.String),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for _, c := range p.Categories {
		m.Categories = append(m.Categories, models.Category{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	return GetDB(ctx, r.db).Omit("Categories.*").Create(m).Error
}

func (r *ProductRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	var m models.Product
	if err := GetDB(ctx, r.db).Preload("Categories").Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return productToEntity(&m), nil
}

// List returns active products matching filter. Search is accent and case
// insensitive.
func (r *ProductRepositoryImpl) List(ctx context.Context, filter entities.ProductFilter, limit, offset int) ([]*entities.Product, int64, error) {
	db := GetDB(ctx, r.db)
	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Where("activo = ?", true)
		if s := textutil.Fold(filter.Search); s != "" {
			q = q.Where("search_key LIKE ?", "%"+s+"%")
		}
		if filter.CategoryID != nil {
			q = q.Where("id IN (?)", db.Table("producto_categorias").
				Select("id_producto").Where("id_categoria = ?", *filter.CategoryID))
		}
		return q
	}

	var total int64
	if err := db.Model(&models.Product{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Product
	if err := db.Scopes(scope).Preload("Categories").Order("nombre ASC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*entities.Product, 0, len(ms))
	for i := range ms {
		out = append(out, productToEntity(&ms[i]))
	}
	return out, total, nil
}

func (r *ProductRepositoryImpl) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := GetDB(ctx, r.db).Model(&models.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{"activo": active, "fecha_actualizacion": nowFunc()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Update writes the editable product columns and refreshes the search key.
func (r *ProductRepositoryImpl) Update(ctx context.Context, p *entities.Product) error {
	res := GetDB(ctx, r.db).Model(&models.Product{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"nombre":              p.Name,
			"descripcion":         p.Description,
			"unidad_medida":       p.Unit,
			"precio_referencial":  p.ReferencePrice,
			"imagen_url":          p.ImageURL,
			"search_key":          textutil.SearchKey(p.Name, p.Description.String),
			"fecha_actualizacion": p.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func productToEntity(m *models.Product) *entities.Product {
	p := &entities.Product{
		ID:             m.ID,
		Name:           m.Name,
		Description:    m.Description,
		Unit:           m.Unit,
		ReferencePrice: m.ReferencePrice,
		ImageURL:       m.ImageURL,
		Active:         m.Active,
		Categories:     make([]entities.Category, 0, len(m.Categories)),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	for i := range m.Categories {
		p.Categories = append(p.Categories, *categoryToEntity(&m.Categories[i]))
	}
	return p
}

type FavoriteRepositoryImpl struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepositoryImpl {
	return &FavoriteRepositoryImpl{db: db}
}

func (r *FavoriteRepositoryImpl) Create(ctx context.Context, f *entities.Favorite) error {
	return GetDB(ctx, r.db).Create(&models.Favorite{
		UserID:    f.UserID,
		ProductID: f.ProductID,
		CreatedAt: f.CreatedAt,
	}).Error
}

func (r *FavoriteRepositoryImpl) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id_usuario = ? AND id_producto = ?", userID, productID).Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepositoryImpl) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&models.Favorite{}).
		Where("id_usuario = ? AND id_producto = ?", userID, productID).Count(&n).Error
	return n > 0, err
}

func (r *FavoriteRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Favorite, error) {
	var ms []models.Favorite
	if err := GetDB(ctx, r.db).Preload("Product").Preload("Product.Categories").
		Where("id_usuario = ?", userID).Order("fecha_creacion DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Favorite, 0, len(ms))
	for i := range ms {
		f := &entities.Favorite{UserID: ms[i].UserID, ProductID: ms[i].ProductID, CreatedAt: ms[i].CreatedAt}
		if ms[i].Product != nil {
			f.Product = productToEntity(ms[i].Product)
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *FavoriteRepositoryImpl) CountByUser(ctx context.Context, userID uuid.UUID, since *time.Time) (int64, error) {
	q := GetDB(ctx, r.db).Model(&models.Favorite{}).Where("id_usuario = ?", userID)
	if since != nil {
		q = q.Where("fecha_creacion >= ?", *since)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

type popularRow struct {
	ProductID uuid.UUID
	Total     int64
}

func (r *FavoriteRepositoryImpl) Popular(ctx context.Context, limit int) ([]*entities.PopularProduct, error) {
	db := GetDB(ctx, r.db)

	var rows []popularRow
	err := db.Table("favoritos AS f").
		Select("f.id_producto AS product_id, COUNT(*) AS total").
		Joins("JOIN productos p ON p.id = f.id_producto").
		Where("p.activo = ?", true).
		Group("f.id_producto").
		Order("total DESC, f.id_producto ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*entities.PopularProduct{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	var ms []models.Product
	if err := db.Preload("Categories").Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Product, len(ms))
	for i := range ms {
		byID[ms[i].ID] = &ms[i]
	}

	out := make([]*entities.PopularProduct, 0, len(rows))
	for _, row := range rows {
		m, ok := byID[row.ProductID]
		if !ok {
			continue
		}
		out = append(out, &entities.PopularProduct{Product: productToEntity(m), TotalFavorites: row.Total})
	}
	return out, nil
}
