package main

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSeeder(t *testing.T) (*Seeder, *persistence.Database) {
	t.Helper()
	db, err := persistence.NewSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	products := catalogapp.NewProductService(
		persistence.NewGormProductRepository(db.DB),
		persistence.NewGormCategoryRepository(db.DB),
		persistence.NewGormVendorRepository(db.DB),
	)
	return NewSeeder(products,
		persistence.NewGormCouponRepository(db.DB),
		persistence.NewGormSettingsRepository(db.DB),
		nil), db
}

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	seeder, db := newTestSeeder(t)
	opts := Options{Products: 8, Shipping: decimal.RequireFromString("7.50"), Seed: 42}

	summary, err := seeder.Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 8, summary.Products)
	assert.Equal(t, len(demoCoupons), summary.Coupons)

	shipping, err := persistence.NewGormSettingsRepository(db.DB).ShippingPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7.50", shipping.StringFixed(2))

	save5, err := persistence.NewGormCouponRepository(db.DB).FindByCode(ctx, "SAVE5")
	require.NoError(t, err)
	assert.Equal(t, "25.00", save5.MinCartTotal.StringFixed(2))

	t.Run("rerun keeps existing coupons", func(t *testing.T) {
		again, err := seeder.Run(ctx, Options{Products: 2, Shipping: opts.Shipping, Seed: 7})
		require.NoError(t, err)
		assert.Equal(t, 2, again.Products)
		assert.Zero(t, again.Coupons)
	})
}

func TestFakeProduct_IsValid(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		req := fakeProduct(gofakeit.New(seed))
		assert.NotEmpty(t, req.Title)
		assert.True(t, req.Price.IsPositive())
		assert.GreaterOrEqual(t, req.StockQuantity, 0)
		if req.OldPrice != nil {
			assert.True(t, req.OldPrice.GreaterThan(req.Price))
		}
	}
}
