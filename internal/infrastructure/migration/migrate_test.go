package migration

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/storefront/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_Paired(t *testing.T) {
	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	defer src.Close()

	count := 0
	v, err := src.First()
	for err == nil {
		count++

		up, ident, upErr := src.ReadUp(v)
		require.NoError(t, upErr, "version %d has no up migration", v)
		body, readErr := io.ReadAll(up)
		require.NoError(t, readErr)
		_ = up.Close()
		assert.NotEmpty(t, strings.TrimSpace(string(body)), ident)

		down, _, downErr := src.ReadDown(v)
		require.NoError(t, downErr, "version %d has no down migration", v)
		_ = down.Close()

		v, err = src.Next(v)
	}
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.GreaterOrEqual(t, count, 1)
}

func TestEmbeddedMigrations_OpenCartIndex(t *testing.T) {
	body, err := fs.ReadFile(migrations.FS, "000001_storefront_schema.up.sql")
	require.NoError(t, err)

	schema := string(body)
	assert.Contains(t, schema, "idx_carts_open_customer ON carts(customer_id) WHERE completed = false")
	assert.Contains(t, schema, "idx_review_product_user ON product_reviews(product_id, user_id)")
	assert.Contains(t, schema, "chk_products_stock CHECK (stock_quantity >= 0)")
}

func TestStatus_UpToDate(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"fresh database", Status{Latest: 1, Pending: 1}, false},
		{"applied", Status{Version: 1, Latest: 1}, true},
		{"dirty", Status{Version: 1, Latest: 1, Dirty: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.UpToDate())
		})
	}
}
