package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates drafted product with public ids", func(t *testing.T) {
		p, err := NewProduct("  Linen Shirt ", decimal.NewFromInt(10), 5)
		require.NoError(t, err)

		assert.Equal(t, "Linen Shirt", p.Title)
		assert.True(t, strings.HasPrefix(p.PID, ProductIDPrefix))
		assert.True(t, strings.HasPrefix(p.SKU, SKUPrefix))
		assert.Equal(t, 5, p.StockQuantity)
		assert.Zero(t, p.ItemsSold)
		assert.True(t, p.Rating.IsZero())
		assert.Equal(t, ProductStatusDrafted, p.Status)
		assert.Equal(t, 1, p.GetVersion())
	})

	tests := []struct {
		name  string
		title string
		price decimal.Decimal
		stock int
	}{
		{"empty title", " ", decimal.NewFromInt(1), 1},
		{"zero price", "Cap", decimal.Zero, 1},
		{"negative price", "Cap", decimal.NewFromInt(-1), 1},
		{"negative stock", "Cap", decimal.NewFromInt(1), -1},
		{"title too long", strings.Repeat("x", 201), decimal.NewFromInt(1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.title, tt.price, tt.stock)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		})
	}
}

func TestProduct_DiscountFlag(t *testing.T) {
	p, err := NewProduct("Sneakers", decimal.RequireFromString("80.00"), 3)
	require.NoError(t, err)

	old := decimal.RequireFromString("100.00")
	require.NoError(t, p.SetOldPrice(&old))
	assert.True(t, p.IsDiscounted)
	assert.True(t, p.PercentageDiscount().Equal(decimal.NewFromInt(20)))

	lower := decimal.RequireFromString("70.00")
	require.NoError(t, p.SetOldPrice(&lower))
	assert.False(t, p.IsDiscounted)

	require.NoError(t, p.SetOldPrice(nil))
	assert.False(t, p.IsDiscounted)
	assert.True(t, p.PercentageDiscount().IsZero())

	bad := decimal.Zero
	assert.Error(t, p.SetOldPrice(&bad))
}

func TestProduct_ApplyAverageRating(t *testing.T) {
	p, err := NewProduct("Mug", decimal.NewFromInt(4), 1)
	require.NoError(t, err)

	p.ApplyAverageRating(decimal.RequireFromString("4.333333"))
	assert.Equal(t, "4.33", p.Rating.StringFixed(2))

	p.ApplyAverageRating(decimal.NewFromInt(9))
	assert.True(t, p.Rating.Equal(MaxRating))

	p.ApplyAverageRating(decimal.NewFromInt(-1))
	assert.True(t, p.Rating.IsZero())
}

func TestProduct_HasStock(t *testing.T) {
	p, err := NewProduct("Mug", decimal.NewFromInt(4), 2)
	require.NoError(t, err)

	assert.True(t, p.HasStock(2))
	assert.False(t, p.HasStock(3))
}

func TestNewProductReview(t *testing.T) {
	p, err := NewProduct("Mug", decimal.NewFromInt(4), 2)
	require.NoError(t, err)

	for _, rating := range []int{0, 6, -3} {
		_, err := NewProductReview(p.ID, p.ID, rating, "")
		assert.Error(t, err, "rating %d", rating)
	}

	r, err := NewProductReview(p.ID, p.ID, 5, "  great  ")
	require.NoError(t, err)
	assert.Equal(t, "great", r.Comment)
}
