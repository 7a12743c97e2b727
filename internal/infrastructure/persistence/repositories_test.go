package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/coupon"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, db *gorm.DB, title, price string, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(title, decimal.RequireFromString(price), stock)
	require.NoError(t, err)
	p.Slug = catalog.Slugify(title) + "-" + p.PID
	p.Publish()
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func TestGormCartRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t).DB
	repo := NewGormCartRepository(db)
	customerID := uuid.New()
	product := seedProduct(t, db, "Linen Shirt", "10.00", 5)

	first, err := repo.GetOrCreateOpen(ctx, customerID)
	require.NoError(t, err)
	second, err := repo.GetOrCreateOpen(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "only one open cart per customer")

	item, err := first.AddItem(product.ID, 2, product.Price, cart.Variant{ColorName: "Red", ColorHex: "#FF0000"})
	require.NoError(t, err)
	require.NoError(t, repo.SaveItem(ctx, item))

	t.Run("open cart loads its items", func(t *testing.T) {
		loaded, err := repo.FindOpenByCustomer(ctx, customerID)
		require.NoError(t, err)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, 2, loaded.Items[0].Quantity)
		assert.Equal(t, "#FF0000", loaded.Items[0].Variant.ColorHex)
		assert.Equal(t, "20.00", loaded.Subtotal().StringFixed(2))
	})

	t.Run("items of other customers are not found", func(t *testing.T) {
		_, err := repo.FindByItem(ctx, uuid.New(), item.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		owned, err := repo.FindByItem(ctx, customerID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, owned.ID)
	})

	t.Run("saving an updated quantity", func(t *testing.T) {
		loaded, err := repo.FindByItem(ctx, customerID, item.ID)
		require.NoError(t, err)
		updated, err := loaded.UpdateQuantity(item.ID, 4, product.StockQuantity)
		require.NoError(t, err)
		require.NoError(t, repo.SaveItem(ctx, updated))

		reloaded, err := repo.FindOpenByCustomer(ctx, customerID)
		require.NoError(t, err)
		assert.Equal(t, 4, reloaded.Items[0].Quantity)
	})

	t.Run("completion is version checked", func(t *testing.T) {
		stale, err := repo.FindOpenByCustomer(ctx, customerID)
		require.NoError(t, err)
		live, err := repo.FindOpenByCustomer(ctx, customerID)
		require.NoError(t, err)

		require.NoError(t, live.Complete(uuid.New()))
		require.NoError(t, repo.MarkCompleted(ctx, live))

		require.NoError(t, stale.Complete(uuid.New()))
		assert.ErrorIs(t, repo.MarkCompleted(ctx, stale), shared.ErrConcurrencyConflict)

		_, err = repo.FindOpenByCustomer(ctx, customerID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		next, err := repo.GetOrCreateOpen(ctx, customerID)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, next.ID, "a new open cart can exist next to a completed one")
	})
}

func TestGormCouponRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t).DB
	repo := NewGormCouponRepository(db)

	limited, err := coupon.NewCoupon("Save10", coupon.KindPercent, decimal.NewFromInt(10))
	require.NoError(t, err)
	limit := 1
	limited.UsageLimit = &limit
	require.NoError(t, repo.Save(ctx, limited))

	unlimited, err := coupon.NewCoupon("FREE5", coupon.KindFixed, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, unlimited))

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "  save10 ")
		require.NoError(t, err)
		assert.Equal(t, limited.ID, found.ID)
		assert.Equal(t, "10", found.Value.String())

		_, err = repo.FindByCode(ctx, "NOPE")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("duplicate code", func(t *testing.T) {
		dup, err := coupon.NewCoupon("save10", coupon.KindFixed, decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("redeem stops at the usage limit", func(t *testing.T) {
		require.NoError(t, repo.Redeem(ctx, limited.ID))
		err := repo.Redeem(ctx, limited.ID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrCouponInvalid))

		found, err := repo.FindByCode(ctx, "SAVE10")
		require.NoError(t, err)
		assert.Equal(t, 1, found.UsedCount)
	})

	t.Run("unlimited coupons keep counting", func(t *testing.T) {
		for range 3 {
			require.NoError(t, repo.Redeem(ctx, unlimited.ID))
		}
		found, err := repo.FindByCode(ctx, "free5")
		require.NoError(t, err)
		assert.Equal(t, 3, found.UsedCount)
	})
}

func TestGormOrderRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t).DB
	repo := NewGormOrderRepository(db)
	customerID := uuid.New()
	product := seedProduct(t, db, "Mug", "4.50", 10)

	o, err := order.NewCartOrder(order.PlaceOrderParams{
		CustomerID: customerID,
		Totals: pricing.Price(pricing.Input{
			Subtotal: decimal.RequireFromString("9.00"),
			TaxRate:  pricing.DefaultTaxRate,
			Shipping: decimal.RequireFromString("5"),
		}),
		PaymentMethod: "cash_on_delivery",
		Paid:          true,
	})
	require.NoError(t, err)
	o.AddLine(cart.CartItem{ProductID: product.ID, Quantity: 2, UnitPrice: product.Price, Variant: cart.Variant{Size: "L"}}, product.Title)
	require.NoError(t, repo.Create(ctx, o))

	t.Run("found by public id for its owner only", func(t *testing.T) {
		found, err := repo.FindByOrderID(ctx, customerID, o.OrderID)
		require.NoError(t, err)
		assert.Equal(t, o.InvoiceNo, found.InvoiceNo)
		require.Len(t, found.Lines, 1)
		assert.Equal(t, "L", found.Lines[0].Variant.Size)
		assert.True(t, found.Balances())
		assert.NotNil(t, found.PaymentDate)

		_, err = repo.FindByOrderID(ctx, uuid.New(), o.OrderID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("lines", func(t *testing.T) {
		lines, err := repo.FindLines(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "9.00", lines[0].LineTotal().StringFixed(2))
	})

	t.Run("update totals is version checked", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		stale, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)

		loaded.RecomputeTotals()
		require.NoError(t, repo.UpdateTotals(ctx, loaded))

		stale.RecomputeTotals()
		assert.ErrorIs(t, repo.UpdateTotals(ctx, stale), shared.ErrConcurrencyConflict)
	})
}

func TestGormAddressRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAddressRepository(newTestDatabase(t).DB)
	userID := uuid.New()

	require.NoError(t, repo.EnsureDefault(ctx, userID))
	require.NoError(t, repo.EnsureDefault(ctx, userID))

	all, err := repo.ListByUser(ctx, userID, "")
	require.NoError(t, err)
	require.Len(t, all, 1, "ensure-exists creates the placeholder once")
	assert.Equal(t, order.PlaceholderCity, all[0].City)
	assert.True(t, all[0].IsDefault)

	other := uuid.New()
	addr, err := order.NewShippingAddress(other, order.AddressInput{Line1: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, addr))
	require.NoError(t, repo.EnsureDefault(ctx, other))

	shipping, err := repo.ListByUser(ctx, other, order.AddressTypeShipping)
	require.NoError(t, err)
	require.Len(t, shipping, 1, "no placeholder once an address exists")
	assert.False(t, shipping[0].IsDefault)

	found, err := repo.FindByID(ctx, addr.ID)
	require.NoError(t, err)
	assert.Equal(t, "1 Main St, Springfield, IL, US, 62701", found.OneLine())
}

func TestGormCustomerRepository_Ensure(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCustomerRepository(newTestDatabase(t).DB)
	identity := customer.Identity{UserID: uuid.New(), Username: "amal", Email: "amal@example.com"}

	first, err := repo.Ensure(ctx, identity)
	require.NoError(t, err)
	identity.Email = "changed@example.com"
	second, err := repo.Ensure(ctx, identity)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "amal@example.com", second.Email, "an existing profile is left untouched")
}

func TestGormSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSettingsRepository(newTestDatabase(t).DB)

	price, err := repo.ShippingPrice(ctx)
	require.NoError(t, err)
	assert.True(t, price.IsZero())

	require.NoError(t, repo.SetShippingPrice(ctx, decimal.RequireFromString("5.00")))
	require.NoError(t, repo.SetShippingPrice(ctx, decimal.RequireFromString("7.50")))

	price, err = repo.ShippingPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7.50", price.StringFixed(2))
}

func TestGormProductRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t).DB
	repo := NewGormProductRepository(db)
	product := seedProduct(t, db, "Ceramic Vase", "25.00", 3)

	t.Run("decrement moves units to items sold", func(t *testing.T) {
		require.NoError(t, repo.DecrementStock(ctx, product.ID, 2))
		loaded, err := repo.FindByPID(ctx, product.PID)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.StockQuantity)
		assert.Equal(t, 2, loaded.ItemsSold)
	})

	t.Run("decrement never goes negative", func(t *testing.T) {
		err := repo.DecrementStock(ctx, product.ID, 2)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrOutOfStock))

		loaded, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.StockQuantity)
	})

	t.Run("vanished product is a validation error", func(t *testing.T) {
		err := repo.DecrementStock(ctx, uuid.New(), 1)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("find by ids", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, []uuid.UUID{product.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, found, 1)
		assert.Equal(t, "Ceramic Vase", found[product.ID].Title)
	})

	t.Run("slug existence", func(t *testing.T) {
		exists, err := repo.ExistsBySlug(ctx, product.Slug)
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestGormReviewAndWishlistRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t).DB
	product := seedProduct(t, db, "Desk Lamp", "40.00", 2)
	reviews := NewGormReviewRepository(db)
	wishlist := NewGormWishlistRepository(db)
	userID := uuid.New()

	review, err := catalog.NewProductReview(product.ID, userID, 4, "Bright")
	require.NoError(t, err)
	require.NoError(t, reviews.Create(ctx, review))

	dup, err := catalog.NewProductReview(product.ID, userID, 1, "Changed my mind")
	require.NoError(t, err)
	assert.ErrorIs(t, reviews.Create(ctx, dup), catalog.ErrAlreadyReviewed)

	other, err := catalog.NewProductReview(product.ID, uuid.New(), 5, "")
	require.NoError(t, err)
	require.NoError(t, reviews.Create(ctx, other))

	avg, err := reviews.AverageRating(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.50", avg.StringFixed(2))

	require.NoError(t, wishlist.Add(ctx, catalog.NewWishlistItem(userID, product.ID)))
	require.NoError(t, wishlist.Add(ctx, catalog.NewWishlistItem(userID, product.ID)))
	items, err := wishlist.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, wishlist.Remove(ctx, userID, product.ID))
	require.NoError(t, wishlist.Remove(ctx, userID, product.ID))
	items, err = wishlist.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
