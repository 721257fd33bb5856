package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/duka-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return conn(ctx, r.db).Omit(clause.Associations).Create(&products).Error
}

func (r *productRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).
		Scopes(ShopScope(shopID)).
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves the active products among ids in a single query
func (r *productRepository) GetByIDs(ctx context.Context, shopID uuid.UUID, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := conn(ctx, r.db).
		Scopes(ShopScope(shopID)).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetByCode(ctx context.Context, shopID uuid.UUID, code string) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).
		Scopes(ShopScope(shopID)).
		First(&product, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// AtomicDecrementStock decrements stock only if sufficient quantity exists.
// Uses: UPDATE products SET stock = stock - q WHERE id = ? AND shop_id = ? AND stock >= q
func (r *productRepository) AtomicDecrementStock(ctx context.Context, shopID, id uuid.UUID, quantity decimal.Decimal) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Product{}).
		Scopes(ShopScope(shopID)).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		return false, result.Error
	}

	// No rows affected means the guard rejected the decrement
	return result.RowsAffected > 0, nil
}

type taxRateRepository struct {
	db *gorm.DB
}

// NewTaxRateRepository creates a new tax rate repository
func NewTaxRateRepository(db *gorm.DB) domainRepo.TaxRateRepository {
	return &taxRateRepository{db: db}
}

func (r *taxRateRepository) Create(ctx context.Context, rate *entity.TaxRate) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(rate).Error
}

func (r *taxRateRepository) GetActive(ctx context.Context, shopID uuid.UUID) (*entity.TaxRate, error) {
	var rate entity.TaxRate
	err := conn(ctx, r.db).
		Scopes(ShopScope(shopID)).
		Where("is_active = ?", true).
		Order("created_at DESC").
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rate, err
}
