package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// ReviewService accepts product reviews and keeps the product rating aggregate current
type ReviewService struct {
	productRepo catalog.ProductRepository
	reviewRepo  catalog.ReviewRepository
	logger      *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(productRepo catalog.ProductRepository, reviewRepo catalog.ReviewRepository, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{productRepo: productRepo, reviewRepo: reviewRepo, logger: logger}
}

// AddReview stores the user's single review of a product and recomputes its rating.
// A second review by the same user fails with catalog.ErrAlreadyReviewed and leaves the rating unchanged.
func (s *ReviewService) AddReview(ctx context.Context, userID uuid.UUID, pid string, req AddReviewRequest) (*ReviewResponse, error) {
	product, err := s.productRepo.FindByPID(ctx, pid)
	if err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.Exists(ctx, product.ID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, catalog.ErrAlreadyReviewed
	}

	review, err := catalog.NewProductReview(product.ID, userID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	// the unique index still decides when two submissions race past Exists
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	avg, err := s.reviewRepo.AverageRating(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	product.ApplyAverageRating(avg)
	if err := s.productRepo.UpdateRating(ctx, product.ID, product.Rating); err != nil {
		return nil, err
	}

	s.logger.Info("Review added",
		zap.String("product_pid", product.PID),
		zap.String("user_id", userID.String()),
		zap.Int("rating", review.Rating))

	return &ReviewResponse{
		Message:       "Thanks for your review",
		ReviewID:      review.ID,
		ProductRating: product.Rating,
	}, nil
}
