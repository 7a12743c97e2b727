package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository implements catalog.CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	if err := r.db.WithContext(ctx).Save(models.CategoryModelFromDomain(category)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists.WithCause(err)
		}
		return err
	}
	return nil
}

// FindByTitle finds a category by exact title
func (r *GormCategoryRepository) FindByTitle(ctx context.Context, title string) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "title = ?", title).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// GormVendorRepository implements catalog.VendorRepository
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// Save creates or updates a vendor
func (r *GormVendorRepository) Save(ctx context.Context, vendor *catalog.Vendor) error {
	if err := r.db.WithContext(ctx).Save(models.VendorModelFromDomain(vendor)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists.WithCause(err)
		}
		return err
	}
	return nil
}

// FindByName finds a vendor by exact name
func (r *GormVendorRepository) FindByName(ctx context.Context, name string) (*catalog.Vendor, error) {
	var model models.VendorModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// GormReviewRepository implements catalog.ReviewRepository
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create inserts a review. The (product, user) unique index rejects duplicates.
func (r *GormReviewRepository) Create(ctx context.Context, review *catalog.ProductReview) error {
	if err := r.db.WithContext(ctx).Create(models.ProductReviewModelFromDomain(review)).Error; err != nil {
		if isUniqueViolation(err) {
			return catalog.ErrAlreadyReviewed.WithCause(err)
		}
		return err
	}
	return nil
}

// Exists reports whether the user already reviewed the product
func (r *GormReviewRepository) Exists(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductReviewModel{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}

// AverageRating returns the mean rating across all reviews of a product
func (r *GormReviewRepository) AverageRating(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var agg struct {
		Total int64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ProductReviewModel{}).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return decimal.Zero, err
	}
	if agg.Count == 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromInt(agg.Total).Div(decimal.NewFromInt(agg.Count)), nil
}

// GormWishlistRepository implements catalog.WishlistRepository
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new GormWishlistRepository
func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// Add inserts the membership unless it already exists
func (r *GormWishlistRepository) Add(ctx context.Context, item *catalog.WishlistItem) error {
	model := &models.WishlistItemModel{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		AddedAt:   item.AddedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error
}

// Remove deletes the membership if present
func (r *GormWishlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItemModel{}).Error
}

// ListByUser returns the user's wishlist, newest first
func (r *GormWishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]catalog.WishlistItem, error) {
	var rows []models.WishlistItemModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("added_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]catalog.WishlistItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

var (
	_ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
	_ catalog.VendorRepository   = (*GormVendorRepository)(nil)
	_ catalog.ReviewRepository   = (*GormReviewRepository)(nil)
	_ catalog.WishlistRepository = (*GormWishlistRepository)(nil)
)
