// Package testutil opens throwaway SQLite databases and seeds fixtures for tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/infrastructure/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Dec parses a decimal literal and panics on malformed input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// NewDB returns a migrated in-memory database private to the test
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.NewSQLiteDB(dsn)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixture is a shop with one cashier
type Fixture struct {
	DB      *gorm.DB
	Shop    entity.Shop
	Cashier entity.User
}

// NewFixture creates a database holding one shop and its cashier
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	f := &Fixture{DB: NewDB(t)}
	f.Shop, f.Cashier = f.AddShop(t, "shop-"+uuid.NewString()[:8])
	return f
}

// AddShop creates another shop with its own cashier
func (f *Fixture) AddShop(t *testing.T, slug string) (entity.Shop, entity.User) {
	t.Helper()

	shop := entity.Shop{Name: slug, Slug: slug, Settings: entity.DefaultShopSettings()}
	require.NoError(t, f.DB.Create(&shop).Error)

	cashier := entity.User{ShopID: shop.ID, FirstName: "Test", LastName: "Cashier", Username: "cashier-" + slug, Role: entity.RoleCashier}
	require.NoError(t, f.DB.Omit("Shop").Create(&cashier).Error)
	return shop, cashier
}

// ProductOption customises a product before it is inserted
type ProductOption func(*entity.Product)

// WithCombo sells size units together for price
func WithCombo(size int64, price string) ProductOption {
	return func(p *entity.Product) {
		cp := Dec(price)
		p.CombinationSize = size
		p.CombinationPrice = &cp
	}
}

// WithShop places the product in another shop
func WithShop(shopID uuid.UUID) ProductOption {
	return func(p *entity.Product) {
		p.ShopID = shopID
	}
}

// AddProduct inserts a product priced at price with the given cost and stock
func (f *Fixture) AddProduct(t *testing.T, name, price, cost, stock string, opts ...ProductOption) entity.Product {
	t.Helper()

	p := entity.Product{
		ShopID:       f.Shop.ID,
		Name:         name,
		Code:         "C-" + uuid.NewString()[:8],
		SellingPrice: Dec(price),
		CostPrice:    Dec(cost),
		Stock:        Dec(stock),
	}
	for _, opt := range opts {
		opt(&p)
	}
	require.NoError(t, f.DB.Omit("Shop").Create(&p).Error)
	return p
}

// Deactivate flags a product inactive
func (f *Fixture) Deactivate(t *testing.T, productID uuid.UUID) {
	t.Helper()
	require.NoError(t, f.DB.Model(&entity.Product{}).Where("id = ?", productID).Update("is_active", false).Error)
}

// AddTaxRate inserts an active tax rate for the fixture shop
func (f *Fixture) AddTaxRate(t *testing.T, rate string) entity.TaxRate {
	t.Helper()

	tr := entity.TaxRate{ShopID: f.Shop.ID, Name: "VAT", Rate: Dec(rate)}
	require.NoError(t, f.DB.Omit("Shop").Create(&tr).Error)
	return tr
}

// Stock reads the current stock of a product
func (f *Fixture) Stock(t *testing.T, productID uuid.UUID) decimal.Decimal {
	t.Helper()

	var p entity.Product
	require.NoError(t, f.DB.First(&p, "id = ?", productID).Error)
	return p.Stock
}

// Count returns the number of live rows of model matching the condition
func (f *Fixture) Count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.DB.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
