package database

import (
	"context"
	"fmt"

	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/domain/repository"
	"github.com/sangkips/duka-pos/internal/logger"
	"github.com/shopspring/decimal"
)

// DemoShopSlug identifies the shop created by SeedDemoData
const DemoShopSlug = "demo-shop"

// SeedRepos are the repositories SeedDemoData writes through
type SeedRepos struct {
	Tx       repository.Transactor
	Shops    repository.ShopRepository
	Users    repository.UserRepository
	Products repository.ProductRepository
	TaxRates repository.TaxRateRepository
}

// SeedResult holds the identities created or found by SeedDemoData
type SeedResult struct {
	Shop     entity.Shop
	Cashier  entity.User
	Products []entity.Product
}

var demoCodes = []string{"P-001", "P-002", "P-003"}

// SeedDemoData seeds one shop with a cashier, a small catalog and a 16% VAT rate.
// Running it again returns the existing rows.
func SeedDemoData(ctx context.Context, repos SeedRepos) (*SeedResult, error) {
	log := logger.WithComponent("seed")
	res := &SeedResult{}

	err := repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := repos.Shops.GetBySlug(ctx, DemoShopSlug)
		if err != nil {
			return err
		}
		if existing != nil {
			log.Info().Str("shop_id", existing.ID.String()).Msg("demo shop already exists")
			return loadDemoData(ctx, repos, existing, res)
		}

		res.Shop = entity.Shop{
			Name:     "Duka Demo",
			Slug:     DemoShopSlug,
			Address:  "Moi Avenue, Nairobi",
			Phone:    "+254 700 000 000",
			TaxPIN:   "P000000000A",
			Settings: entity.DefaultShopSettings(),
		}
		if err := repos.Shops.Create(ctx, &res.Shop); err != nil {
			return fmt.Errorf("create shop: %w", err)
		}

		res.Cashier = entity.User{
			ShopID:    res.Shop.ID,
			FirstName: "Demo",
			LastName:  "Cashier",
			Username:  "cashier",
			Role:      entity.RoleCashier,
		}
		if err := repos.Users.Create(ctx, &res.Cashier); err != nil {
			return fmt.Errorf("create cashier: %w", err)
		}

		comboPrice := decimal.NewFromInt(90)
		res.Products = []entity.Product{
			{ShopID: res.Shop.ID, Name: "Maize Flour 2kg", Code: demoCodes[0], CostPrice: decimal.NewFromInt(40), SellingPrice: decimal.NewFromInt(50), Stock: decimal.NewFromInt(100)},
			{ShopID: res.Shop.ID, Name: "Soda 500ml", Code: demoCodes[1], CostPrice: decimal.NewFromInt(25), SellingPrice: decimal.NewFromInt(35), Stock: decimal.NewFromInt(240), CombinationSize: 3, CombinationPrice: &comboPrice},
			{ShopID: res.Shop.ID, Name: "Sugar (kg)", Code: demoCodes[2], CostPrice: decimal.NewFromInt(130), SellingPrice: decimal.NewFromInt(160), Stock: decimal.RequireFromString("50.500")},
		}
		if err := repos.Products.CreateBatch(ctx, res.Products); err != nil {
			return fmt.Errorf("create products: %w", err)
		}

		vat := entity.TaxRate{
			ShopID:      res.Shop.ID,
			Name:        "VAT",
			Rate:        decimal.RequireFromString("0.16"),
			Description: "Standard VAT",
			KRACode:     "A",
		}
		if err := repos.TaxRates.Create(ctx, &vat); err != nil {
			return fmt.Errorf("create tax rate: %w", err)
		}

		log.Info().Str("shop_id", res.Shop.ID.String()).Int("products", len(res.Products)).Msg("demo data seeded")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func loadDemoData(ctx context.Context, repos SeedRepos, shop *entity.Shop, res *SeedResult) error {
	res.Shop = *shop

	cashier, err := repos.Users.GetByUsername(ctx, "cashier")
	if err != nil {
		return err
	}
	if cashier == nil || cashier.ShopID != shop.ID {
		return fmt.Errorf("demo shop %s has no cashier", shop.ID)
	}
	res.Cashier = *cashier

	for _, code := range demoCodes {
		product, err := repos.Products.GetByCode(ctx, shop.ID, code)
		if err != nil {
			return err
		}
		if product != nil {
			res.Products = append(res.Products, *product)
		}
	}
	return nil
}
