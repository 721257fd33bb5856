package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/domain/enum"
	"github.com/sangkips/duka-pos/pkg/pagination"
	"github.com/shopspring/decimal"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	// Create inserts the sale row only; line items go through SaleLineItemRepository
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*entity.Sale, error)
	GetWithItems(ctx context.Context, shopID, id uuid.UUID) (*entity.Sale, error)
	List(ctx context.Context, shopID uuid.UUID, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// TotalsByPaymentMethod sums sale totals of a session grouped by payment method
	TotalsByPaymentMethod(ctx context.Context, shopID, sessionID uuid.UUID) ([]PaymentMethodTotal, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination        *pagination.PaginationParams
	RegisterSessionID *uuid.UUID
	PaymentMethod     *enum.PaymentMethod
	StartDate         *time.Time
	EndDate           *time.Time
}

// PaymentMethodTotal is one row of a per-method aggregation
type PaymentMethodTotal struct {
	PaymentMethod enum.PaymentMethod
	Total         decimal.Decimal
	Count         int64
}

// SaleLineItemRepository defines the interface for sale line item data operations
type SaleLineItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.SaleLineItem) error
}
