package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB, Driver: "postgres"}, mock, mockDB
}

// newTestDatabase opens a migrated in-memory SQLite database
func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()
	assert.NoError(t, err)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
}

func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()
	assert.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSQLiteMemory_CreatesTables(t *testing.T) {
	db := newTestDatabase(t)

	for _, table := range []string{"products", "carts", "cart_items", "coupons", "cart_orders", "order_lines", "addresses", "customers", "site_settings", "outbox_entries"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}
}

func TestGormProductRepository_DecrementStock_SQL(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("conditional update succeeds", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "products" SET .*stock_quantity - .* WHERE id = \$\d+ AND stock_quantity >= \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewGormProductRepository(db.DB).DecrementStock(ctx, id, 2)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row updated reports the remaining stock", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT "id","title","stock_quantity" FROM "products"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "stock_quantity"}).AddRow(id.String(), "Mug", 1))

		err := NewGormProductRepository(db.DB).DecrementStock(ctx, id, 2)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrOutOfStock))

		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 1, de.Details["available"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive quantity never reaches the database", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		err := NewGormProductRepository(db.DB).DecrementStock(ctx, id, 0)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCouponRepository_Redeem_SQL(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("increments within the limit", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "coupons" SET "used_count"=used_count \+ 1.* WHERE .*used_count < usage_limit`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewGormCouponRepository(db.DB).Redeem(ctx, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("limit reached when no row matched", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "coupons" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewGormCouponRepository(db.DB).Redeem(ctx, id)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrCouponInvalid))

		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "limit_reached", de.Details["reason"])
	})
}
