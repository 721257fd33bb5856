package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/domain/repository"
	"github.com/sangkips/duka-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CatalogService resolves the products and tax rate a checkout prices against
type CatalogService struct {
	productRepo repository.ProductRepository
	taxRateRepo repository.TaxRateRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(productRepo repository.ProductRepository, taxRateRepo repository.TaxRateRepository) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		taxRateRepo: taxRateRepo,
	}
}

// CatalogSnapshot is a read-only view of part of a shop's catalog
type CatalogSnapshot struct {
	Products map[uuid.UUID]*entity.Product
	// TaxRate is a fraction, zero when the shop charges no tax
	TaxRate decimal.Decimal
}

// Product returns the snapshot entry for id or a ProductNotFound error
func (c *CatalogSnapshot) Product(id uuid.UUID) (*entity.Product, error) {
	p, ok := c.Products[id]
	if !ok {
		return nil, apperror.NewProductNotFoundError(id)
	}
	return p, nil
}

// Snapshot loads the active products among ids in one query, plus the shop's active tax rate.
// A product that is missing, inactive, deleted or owned by another shop is reported as not found.
func (s *CatalogService) Snapshot(ctx context.Context, shopID uuid.UUID, ids []uuid.UUID) (*CatalogSnapshot, error) {
	products, err := s.productRepo.GetByIDs(ctx, shopID, ids)
	if err != nil {
		return nil, apperror.NewPersistenceError("load products", err)
	}

	snap := &CatalogSnapshot{Products: make(map[uuid.UUID]*entity.Product, len(products))}
	for i := range products {
		snap.Products[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		if _, ok := snap.Products[id]; !ok {
			return nil, apperror.NewProductNotFoundError(id)
		}
	}

	rate, err := s.TaxRate(ctx, shopID)
	if err != nil {
		return nil, err
	}
	snap.TaxRate = rate
	return snap, nil
}

// TaxRate returns the shop's active tax fraction, or zero when none is configured
func (s *CatalogService) TaxRate(ctx context.Context, shopID uuid.UUID) (decimal.Decimal, error) {
	rate, err := s.taxRateRepo.GetActive(ctx, shopID)
	if err != nil {
		return decimal.Zero, apperror.NewPersistenceError("load tax rate", err)
	}
	if rate == nil {
		return decimal.Zero, nil
	}
	return rate.Rate, nil
}
