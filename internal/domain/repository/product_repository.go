package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data operations.
// Every read is scoped to one shop and skips soft-deleted rows.
type ProductRepository interface {
	// CreateBatch inserts products in one statement
	CreateBatch(ctx context.Context, products []entity.Product) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*entity.Product, error)
	// GetByIDs returns the active products among ids in a single query
	GetByIDs(ctx context.Context, shopID uuid.UUID, ids []uuid.UUID) ([]entity.Product, error)
	GetByCode(ctx context.Context, shopID uuid.UUID, code string) (*entity.Product, error)
	// AtomicDecrementStock subtracts quantity only while enough stock remains.
	// It reports false when the guard rejected the update.
	AtomicDecrementStock(ctx context.Context, shopID, id uuid.UUID, quantity decimal.Decimal) (bool, error)
}

// TaxRateRepository defines the interface for tax rate data operations
type TaxRateRepository interface {
	Create(ctx context.Context, rate *entity.TaxRate) error
	// GetActive returns the shop's active rate, or nil when it has none
	GetActive(ctx context.Context, shopID uuid.UUID) (*entity.TaxRate, error)
}
