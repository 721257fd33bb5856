package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/duka-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := conn(ctx, r.db).
		Scopes(ShopScope(shopID)).
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithItems(ctx context.Context, shopID, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := conn(ctx, r.db).
		Scopes(ShopScope(shopID)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("User").
		Preload("Shop").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) List(ctx context.Context, shopID uuid.UUID, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := conn(ctx, r.db).Model(&entity.Sale{}).Scopes(ShopScope(shopID))

	if params.RegisterSessionID != nil {
		query = query.Where("register_session_id = ?", *params.RegisterSessionID)
	}

	if params.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *params.PaymentMethod)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&sales).Error

	return sales, total, err
}

type paymentMethodRow struct {
	PaymentMethod string
	Total         decimal.NullDecimal
	Count         int64
}

// TotalsByPaymentMethod aggregates a session's sales in one GROUP BY query
func (r *saleRepository) TotalsByPaymentMethod(ctx context.Context, shopID, sessionID uuid.UUID) ([]domainRepo.PaymentMethodTotal, error) {
	var rows []paymentMethodRow
	err := conn(ctx, r.db).Model(&entity.Sale{}).
		Scopes(ShopScope(shopID)).
		Select("payment_method, COALESCE(SUM(total), 0) AS total, COUNT(id) AS count").
		Where("register_session_id = ?", sessionID).
		Group("payment_method").
		Order("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]domainRepo.PaymentMethodTotal, 0, len(rows))
	for _, row := range rows {
		total := decimal.Zero
		if row.Total.Valid {
			total = row.Total.Decimal
		}
		totals = append(totals, domainRepo.PaymentMethodTotal{
			PaymentMethod: enum.PaymentMethod(row.PaymentMethod),
			Total:         total.Round(2),
			Count:         row.Count,
		})
	}
	return totals, nil
}

type saleLineItemRepository struct {
	db *gorm.DB
}

// NewSaleLineItemRepository creates a new sale line item repository
func NewSaleLineItemRepository(db *gorm.DB) domainRepo.SaleLineItemRepository {
	return &saleLineItemRepository{db: db}
}

// CreateBatch inserts all line items of a sale in one statement
func (r *saleLineItemRepository) CreateBatch(ctx context.Context, items []entity.SaleLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return conn(ctx, r.db).Omit(clause.Associations).Create(&items).Error
}
