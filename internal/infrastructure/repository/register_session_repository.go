package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/duka-pos/internal/domain/repository"
	"github.com/sangkips/duka-pos/pkg/pagination"
	"gorm.io/gorm"
)

type registerSessionRepository struct {
	db *gorm.DB
}

// NewRegisterSessionRepository creates a new register session repository
func NewRegisterSessionRepository(db *gorm.DB) domainRepo.RegisterSessionRepository {
	return &registerSessionRepository{db: db}
}

func (r *registerSessionRepository) Create(ctx context.Context, session *entity.RegisterSession) error {
	err := conn(ctx, r.db).Omit("Shop", "Opener").Create(session).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", domainRepo.ErrOpenSessionExists, err)
	}
	return err
}

func (r *registerSessionRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*entity.RegisterSession, error) {
	var session entity.RegisterSession
	err := conn(ctx, r.db).
		Scopes(ShopScope(shopID)).
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *registerSessionRepository) GetOpen(ctx context.Context, shopID uuid.UUID) (*entity.RegisterSession, error) {
	var session entity.RegisterSession
	err := conn(ctx, r.db).
		Scopes(ShopScope(shopID)).
		Where("closed_at IS NULL").
		Order("opened_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *registerSessionRepository) TouchOpen(ctx context.Context, shopID, id uuid.UUID) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.RegisterSession{}).
		Scopes(ShopScope(shopID)).
		Where("id = ? AND closed_at IS NULL", id).
		Update("updated_at", time.Now())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *registerSessionRepository) MarkClosed(ctx context.Context, shopID, id, closedBy uuid.UUID, closedAt time.Time) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.RegisterSession{}).
		Scopes(ShopScope(shopID)).
		Where("id = ? AND closed_at IS NULL", id).
		Updates(map[string]interface{}{
			"closed_at": closedAt,
			"closed_by": closedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *registerSessionRepository) SaveReconciliation(ctx context.Context, session *entity.RegisterSession) error {
	return conn(ctx, r.db).Model(&entity.RegisterSession{}).
		Scopes(ShopScope(session.ShopID)).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"closing_cash":  session.ClosingCash,
			"expected_cash": session.ExpectedCash,
			"discrepancy":   session.Discrepancy,
			"notes":         session.Notes,
		}).Error
}

func (r *registerSessionRepository) List(ctx context.Context, shopID uuid.UUID, params *pagination.PaginationParams) ([]entity.RegisterSession, int64, error) {
	var sessions []entity.RegisterSession
	var total int64

	query := conn(ctx, r.db).Model(&entity.RegisterSession{}).Scopes(ShopScope(shopID))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("opened_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}
