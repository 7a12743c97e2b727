package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for catalog.Product
type ProductModel struct {
	AggregateModel
	PID           string                `gorm:"column:pid;type:varchar(20);not null;uniqueIndex"`
	SKU           string                `gorm:"column:sku;type:varchar(20);not null;uniqueIndex"`
	Slug          string                `gorm:"type:varchar(150);not null;uniqueIndex"`
	Title         string                `gorm:"type:varchar(200);not null"`
	Description   string                `gorm:"type:text"`
	VendorID      *uuid.UUID            `gorm:"type:uuid;index"`
	CategoryID    *uuid.UUID            `gorm:"type:uuid;index"`
	Price         decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	OldPrice      *decimal.Decimal      `gorm:"type:decimal(12,2)"`
	StockQuantity int                   `gorm:"not null;default:0"`
	ItemsSold     int                   `gorm:"not null;default:0"`
	Rating        decimal.Decimal       `gorm:"type:decimal(3,2);not null;default:0"`
	Status        catalog.ProductStatus `gorm:"type:varchar(20);not null;index"`
	IsDiscounted  bool                  `gorm:"not null;default:false"`
	IsFeatured    bool                  `gorm:"not null;default:false"`
	Digital       bool                  `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		PID:               m.PID,
		SKU:               m.SKU,
		Slug:              m.Slug,
		Title:             m.Title,
		Description:       m.Description,
		VendorID:          m.VendorID,
		CategoryID:        m.CategoryID,
		Price:             m.Price,
		OldPrice:          m.OldPrice,
		StockQuantity:     m.StockQuantity,
		ItemsSold:         m.ItemsSold,
		Rating:            m.Rating,
		Status:            m.Status,
		IsDiscounted:      m.IsDiscounted,
		IsFeatured:        m.IsFeatured,
		Digital:           m.Digital,
	}
}

// FromDomain populates the model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.PID = p.PID
	m.SKU = p.SKU
	m.Slug = p.Slug
	m.Title = p.Title
	m.Description = p.Description
	m.VendorID = p.VendorID
	m.CategoryID = p.CategoryID
	m.Price = p.Price
	m.OldPrice = p.OldPrice
	m.StockQuantity = p.StockQuantity
	m.ItemsSold = p.ItemsSold
	m.Rating = p.Rating
	m.Status = p.Status
	m.IsDiscounted = p.IsDiscounted
	m.IsFeatured = p.IsFeatured
	m.Digital = p.Digital
}

// ProductModelFromDomain creates a model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CategoryModel is the persistence model for catalog.Category
type CategoryModel struct {
	BaseModel
	CID      string `gorm:"column:cid;type:varchar(20);not null;uniqueIndex"`
	Title    string `gorm:"type:varchar(100);not null;uniqueIndex"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{BaseEntity: m.BaseModel.ToDomain(), CID: m.CID, Title: m.Title, IsActive: m.IsActive}
}

// CategoryModelFromDomain creates a model from a domain Category
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{CID: c.CID, Title: c.Title, IsActive: c.IsActive}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// VendorModel is the persistence model for catalog.Vendor
type VendorModel struct {
	BaseModel
	VID        string `gorm:"column:vid;type:varchar(20);not null;uniqueIndex"`
	Name       string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email      string `gorm:"type:varchar(254)"`
	Slug       string `gorm:"type:varchar(150);not null"`
	IsVerified bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (VendorModel) TableName() string {
	return "vendors"
}

// ToDomain converts the model to a domain Vendor
func (m *VendorModel) ToDomain() *catalog.Vendor {
	return &catalog.Vendor{
		BaseEntity: m.BaseModel.ToDomain(),
		VID:        m.VID,
		Name:       m.Name,
		Email:      m.Email,
		Slug:       m.Slug,
		IsVerified: m.IsVerified,
	}
}

// VendorModelFromDomain creates a model from a domain Vendor
func VendorModelFromDomain(v *catalog.Vendor) *VendorModel {
	m := &VendorModel{VID: v.VID, Name: v.Name, Email: v.Email, Slug: v.Slug, IsVerified: v.IsVerified}
	m.FromDomainBaseEntity(v.BaseEntity)
	return m
}

// ProductReviewModel is the persistence model for catalog.ProductReview
type ProductReviewModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_product_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_product_user,priority:2"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductReviewModel) TableName() string {
	return "product_reviews"
}

// ToDomain converts the model to a domain ProductReview
func (m *ProductReviewModel) ToDomain() *catalog.ProductReview {
	return &catalog.ProductReview{
		ID:        m.ID,
		ProductID: m.ProductID,
		UserID:    m.UserID,
		Rating:    m.Rating,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
	}
}

// ProductReviewModelFromDomain creates a model from a domain ProductReview
func ProductReviewModelFromDomain(r *catalog.ProductReview) *ProductReviewModel {
	return &ProductReviewModel{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// WishlistItemModel is the persistence model for catalog.WishlistItem
type WishlistItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product,priority:2"`
	AddedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WishlistItemModel) TableName() string {
	return "wishlist_items"
}

// ToDomain converts the model to a domain WishlistItem
func (m *WishlistItemModel) ToDomain() catalog.WishlistItem {
	return catalog.WishlistItem{ID: m.ID, UserID: m.UserID, ProductID: m.ProductID, AddedAt: m.AddedAt}
}

