package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
)

// WishlistService manages saved products
type WishlistService struct {
	productRepo  catalog.ProductRepository
	wishlistRepo catalog.WishlistRepository
}

// NewWishlistService creates a new WishlistService
func NewWishlistService(productRepo catalog.ProductRepository, wishlistRepo catalog.WishlistRepository) *WishlistService {
	return &WishlistService{productRepo: productRepo, wishlistRepo: wishlistRepo}
}

// Add saves the product; adding it twice keeps one entry
func (s *WishlistService) Add(ctx context.Context, userID uuid.UUID, pid string) error {
	product, err := s.productRepo.FindByPID(ctx, pid)
	if err != nil {
		return err
	}
	return s.wishlistRepo.Add(ctx, catalog.NewWishlistItem(userID, product.ID))
}

// Remove drops the product if it was saved
func (s *WishlistService) Remove(ctx context.Context, userID uuid.UUID, pid string) error {
	product, err := s.productRepo.FindByPID(ctx, pid)
	if err != nil {
		return err
	}
	return s.wishlistRepo.Remove(ctx, userID, product.ID)
}

// List returns the user's wishlist, newest first. Products deleted since are skipped.
func (s *WishlistService) List(ctx context.Context, userID uuid.UUID) (*WishlistResponse, error) {
	items, err := s.wishlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &WishlistResponse{Items: make([]WishlistItemResponse, 0, len(items))}
	if len(items) == 0 {
		return resp, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		resp.Items = append(resp.Items, WishlistItemResponse{
			ProductPID: p.PID,
			Title:      p.Title,
			Price:      p.Price,
			InStock:    p.StockQuantity > 0,
			AddedAt:    item.AddedAt,
		})
	}
	resp.Count = len(resp.Items)
	return resp, nil
}
