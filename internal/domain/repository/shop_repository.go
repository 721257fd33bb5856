package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/domain/entity"
)

// ShopRepository defines the interface for shop data operations
type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Shop, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, settings entity.ShopSettings) error
}
