package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Title         string           `json:"title" binding:"required,min=1,max=200"`
	Description   string           `json:"description" binding:"max=5000"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	OldPrice      *decimal.Decimal `json:"old_price"`
	StockQuantity int              `json:"stock_quantity" binding:"min=0"`
	CategoryTitle string           `json:"category"`
	VendorName    string           `json:"vendor"`
	VendorEmail   string           `json:"vendor_email" binding:"omitempty,email"`
	Featured      bool             `json:"featured"`
	Digital       bool             `json:"digital"`
	Publish       bool             `json:"publish"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                 uuid.UUID        `json:"id"`
	PID                string           `json:"pid"`
	SKU                string           `json:"sku"`
	Slug               string           `json:"slug"`
	Title              string           `json:"title"`
	Description        string           `json:"description,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	OldPrice           *decimal.Decimal `json:"old_price,omitempty"`
	PercentageDiscount decimal.Decimal  `json:"percentage_discount"`
	IsDiscounted       bool             `json:"is_discounted"`
	StockQuantity      int              `json:"stock_quantity"`
	ItemsSold          int              `json:"items_sold"`
	Rating             decimal.Decimal  `json:"rating"`
	Status             string           `json:"status"`
	IsFeatured         bool             `json:"is_featured"`
	CategoryID         *uuid.UUID       `json:"category_id,omitempty"`
	VendorID           *uuid.UUID       `json:"vendor_id,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                 p.ID,
		PID:                p.PID,
		SKU:                p.SKU,
		Slug:               p.Slug,
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		OldPrice:           p.OldPrice,
		PercentageDiscount: p.PercentageDiscount(),
		IsDiscounted:       p.IsDiscounted,
		StockQuantity:      p.StockQuantity,
		ItemsSold:          p.ItemsSold,
		Rating:             p.Rating,
		Status:             string(p.Status),
		IsFeatured:         p.IsFeatured,
		CategoryID:         p.CategoryID,
		VendorID:           p.VendorID,
		CreatedAt:          p.CreatedAt,
	}
}

// AddReviewRequest is a submitted product review
type AddReviewRequest struct {
	Rating  int    `json:"rating" form:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" form:"comment" binding:"max=2000"`
}

// ReviewResponse is returned after a review was accepted
type ReviewResponse struct {
	Message       string          `json:"message"`
	ReviewID      uuid.UUID       `json:"review_id"`
	ProductRating decimal.Decimal `json:"product_rating"`
}

// WishlistItemResponse is one saved product
type WishlistItemResponse struct {
	ProductPID string          `json:"product_pid"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	InStock    bool            `json:"in_stock"`
	AddedAt    time.Time       `json:"added_at"`
}

// WishlistResponse lists a user's saved products
type WishlistResponse struct {
	Items []WishlistItemResponse `json:"items"`
	Count int                    `json:"count"`
}
