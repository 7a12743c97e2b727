package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Rating bounds accepted on a review
const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// ErrAlreadyReviewed is returned when a user reviews the same product twice
var ErrAlreadyReviewed = shared.NewDomainError(shared.CodeAlreadyExists, "You have already reviewed this product")

// ProductReview is the single rating and comment a user leaves on a product
type ProductReview struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// NewProductReview validates and creates a review
func NewProductReview(productID, userID uuid.UUID, rating int, comment string) (*ProductReview, error) {
	if rating < MinReviewRating || rating > MaxReviewRating {
		return nil, shared.NewValidationError("Rating must be between 1 and 5")
	}
	return &ProductReview{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now(),
	}, nil
}

// WishlistItem records that a user saved a product for later
type WishlistItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	AddedAt   time.Time
}

// NewWishlistItem creates a wishlist membership
func NewWishlistItem(userID, productID uuid.UUID) *WishlistItem {
	return &WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		AddedAt:   time.Now(),
	}
}
