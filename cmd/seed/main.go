// Command seed fills a storefront database with fake products, demo coupons
// and the flat shipping price.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		products int
		shipping string
		seed     uint64
		dryRun   bool
	)
	flag.IntVar(&products, "products", 25, "Number of fake products to create")
	flag.StringVar(&shipping, "shipping", "5.00", "Flat shipping price")
	flag.Uint64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	flag.BoolVar(&dryRun, "dry-run", false, "Seed a throwaway in-memory SQLite database")
	flag.Parse()

	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	shippingPrice, err := decimal.NewFromString(shipping)
	if err != nil || shippingPrice.IsNegative() {
		log.Error("Invalid shipping price", zap.String("shipping", shipping))
		os.Exit(2)
	}

	db, err := openDatabase(dryRun, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	productService := catalogapp.NewProductService(
		persistence.NewGormProductRepository(db.DB),
		persistence.NewGormCategoryRepository(db.DB),
		persistence.NewGormVendorRepository(db.DB),
	)
	seeder := NewSeeder(productService,
		persistence.NewGormCouponRepository(db.DB),
		persistence.NewGormSettingsRepository(db.DB),
		log)

	if _, err := seeder.Run(context.Background(), Options{
		Products: products,
		Shipping: shippingPrice,
		Seed:     seed,
	}); err != nil {
		log.Fatal("Seed failed", zap.Error(err))
	}
}

func openDatabase(dryRun bool, log *zap.Logger) (*persistence.Database, error) {
	if dryRun {
		log.Info("Dry run: seeding an in-memory database")
		return persistence.NewSQLiteMemory()
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if db.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}
