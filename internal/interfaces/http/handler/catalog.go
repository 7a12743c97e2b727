package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// ReviewService accepts product reviews
type ReviewService interface {
	AddReview(ctx context.Context, userID uuid.UUID, pid string, req catalogapp.AddReviewRequest) (*catalogapp.ReviewResponse, error)
}

// WishlistService manages saved products
type WishlistService interface {
	Add(ctx context.Context, userID uuid.UUID, pid string) error
	Remove(ctx context.Context, userID uuid.UUID, pid string) error
	List(ctx context.Context, userID uuid.UUID) (*catalogapp.WishlistResponse, error)
}

type reviewBody struct {
	Success bool `json:"success"`
	*catalogapp.ReviewResponse
}

type wishlistBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CatalogHandler serves reviews and the wishlist
type CatalogHandler struct {
	BaseHandler
	reviews  ReviewService
	wishlist WishlistService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(reviews ReviewService, wishlist WishlistService) *CatalogHandler {
	return &CatalogHandler{reviews: reviews, wishlist: wishlist}
}

// AddReview handles POST /products/:pid/add-review.
// A second review of the same product by the same customer is a 409.
func (h *CatalogHandler) AddReview(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}
	var req catalogapp.AddReviewRequest
	if !h.Bind(c, &req) {
		return
	}
	resp, err := h.reviews.AddReview(c.Request.Context(), identity.UserID, c.Param("pid"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reviewBody{Success: true, ReviewResponse: resp})
}

// AddToWishlist handles POST /wishlist/add/:product_id
func (h *CatalogHandler) AddToWishlist(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}
	if err := h.wishlist.Add(c.Request.Context(), identity.UserID, c.Param("product_id")); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, wishlistBody{Success: true, Message: "Added to your wishlist"})
}

// RemoveFromWishlist handles POST /wishlist/remove/:product_id
func (h *CatalogHandler) RemoveFromWishlist(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}
	if err := h.wishlist.Remove(c.Request.Context(), identity.UserID, c.Param("product_id")); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, wishlistBody{Success: true, Message: "Removed from your wishlist"})
}

// Wishlist handles GET /wishlist
func (h *CatalogHandler) Wishlist(c *gin.Context) {
	identity, ok := h.Identity(c)
	if !ok {
		return
	}
	resp, err := h.wishlist.List(c.Request.Context(), identity.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
