// Package catalog manages products, their reviews and customer wishlists.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	vendorRepo   catalog.VendorRepository
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	vendorRepo catalog.VendorRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		vendorRepo:   vendorRepo,
	}
}

// Create creates a new product.
// The slug is derived from the title and suffixed until unique; the discount flag follows the old price.
// Category and vendor are looked up by name and created when missing.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Title, req.Price, req.StockQuantity)
	if err != nil {
		return nil, err
	}
	product.Description = strings.TrimSpace(req.Description)
	product.IsFeatured = req.Featured
	product.Digital = req.Digital

	if err := product.SetOldPrice(req.OldPrice); err != nil {
		return nil, err
	}

	slug, err := catalog.UniqueSlug(catalog.Slugify(product.Title), func(candidate string) (bool, error) {
		return s.productRepo.ExistsBySlug(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}
	product.Slug = slug

	if title := strings.TrimSpace(req.CategoryTitle); title != "" {
		category, err := s.ensureCategory(ctx, title)
		if err != nil {
			return nil, err
		}
		product.CategoryID = &category.ID
	}

	if name := strings.TrimSpace(req.VendorName); name != "" {
		vendor, err := s.ensureVendor(ctx, name, req.VendorEmail)
		if err != nil {
			return nil, err
		}
		product.VendorID = &vendor.ID
	}

	if req.Publish {
		product.Publish()
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByPID retrieves a product by its public id
func (s *ProductService) GetByPID(ctx context.Context, pid string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByPID(ctx, pid)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) ensureCategory(ctx context.Context, title string) (*catalog.Category, error) {
	category, err := s.categoryRepo.FindByTitle(ctx, title)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	category, err = catalog.NewCategory(title)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *ProductService) ensureVendor(ctx context.Context, name, email string) (*catalog.Vendor, error) {
	vendor, err := s.vendorRepo.FindByName(ctx, name)
	if err == nil {
		return vendor, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if email == "" {
		email = catalog.Slugify(name) + "@vendors.local"
	}
	vendor, err = catalog.NewVendor(name, email)
	if err != nil {
		return nil, err
	}
	vendor.Slug = catalog.Slugify(name)
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}
