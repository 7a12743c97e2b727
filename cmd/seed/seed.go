package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/coupon"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductCreator creates catalog products
type ProductCreator interface {
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
}

// Options controls how much demo data is generated
type Options struct {
	Products int
	Shipping decimal.Decimal
	Seed     uint64
}

// Summary counts what a run created
type Summary struct {
	Products int
	Coupons  int
}

// demoCoupons are stable codes so a tester can type them at checkout
var demoCoupons = []struct {
	code  string
	kind  coupon.DiscountKind
	value string
	min   string
}{
	{"WELCOME10", coupon.KindPercent, "10", "0"},
	{"SAVE5", coupon.KindFixed, "5.00", "25.00"},
	{"BIGSPENDER", coupon.KindPercent, "20", "200.00"},
}

// Seeder fills an empty storefront with fake products, demo coupons and the shipping price
type Seeder struct {
	products ProductCreator
	coupons  coupon.CouponRepository
	settings pricing.SettingsRepository
	logger   *zap.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(products ProductCreator, coupons coupon.CouponRepository, settings pricing.SettingsRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{products: products, coupons: coupons, settings: settings, logger: logger}
}

// Run generates the data. Coupons that already exist are left alone, so reruns only add products.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var summary Summary
	faker := gofakeit.New(opts.Seed)

	if err := s.settings.SetShippingPrice(ctx, opts.Shipping); err != nil {
		return summary, fmt.Errorf("set shipping price: %w", err)
	}

	for i := 0; i < opts.Products; i++ {
		req := fakeProduct(faker)
		if _, err := s.products.Create(ctx, req); err != nil {
			return summary, fmt.Errorf("create product %q: %w", req.Title, err)
		}
		summary.Products++
	}

	for _, dc := range demoCoupons {
		c, err := coupon.NewCoupon(dc.code, dc.kind, decimal.RequireFromString(dc.value))
		if err != nil {
			return summary, err
		}
		c.MinCartTotal = decimal.RequireFromString(dc.min)
		if _, err := s.coupons.FindByCode(ctx, c.Code); err == nil {
			continue
		} else if !errors.Is(err, shared.ErrNotFound) {
			return summary, fmt.Errorf("look up coupon %s: %w", c.Code, err)
		}
		if err := s.coupons.Save(ctx, c); err != nil {
			return summary, fmt.Errorf("save coupon %s: %w", c.Code, err)
		}
		summary.Coupons++
	}

	s.logger.Info("Seed complete",
		zap.Int("products", summary.Products),
		zap.Int("coupons", summary.Coupons),
		zap.String("shipping", opts.Shipping.StringFixed(2)))
	return summary, nil
}

func fakeProduct(f *gofakeit.Faker) catalogapp.CreateProductRequest {
	price := decimal.NewFromFloat(f.Price(5, 250)).Round(2)
	req := catalogapp.CreateProductRequest{
		Title:         f.ProductName(),
		Description:   f.ProductDescription(),
		Price:         price,
		StockQuantity: f.IntRange(0, 40),
		CategoryTitle: f.ProductCategory(),
		VendorName:    f.Company(),
		VendorEmail:   f.Email(),
		Featured:      f.IntRange(0, 9) == 0,
		Publish:       true,
	}
	// roughly a quarter of the catalog is on sale
	if f.IntRange(0, 3) == 0 {
		old := price.Mul(decimal.NewFromFloat(1.25)).Round(2)
		req.OldPrice = &old
	}
	return req
}
