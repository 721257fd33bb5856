package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/duka-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return conn(ctx, r.db).Omit("Shop").Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := conn(ctx, r.db).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := conn(ctx, r.db).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

type shopRepository struct {
	db *gorm.DB
}

// NewShopRepository creates a new shop repository
func NewShopRepository(db *gorm.DB) domainRepo.ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Create(ctx context.Context, shop *entity.Shop) error {
	return conn(ctx, r.db).Create(shop).Error
}

func (r *shopRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	var shop entity.Shop
	err := conn(ctx, r.db).First(&shop, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shop, err
}

func (r *shopRepository) GetBySlug(ctx context.Context, slug string) (*entity.Shop, error) {
	var shop entity.Shop
	err := conn(ctx, r.db).First(&shop, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shop, err
}

// UpdateSettings replaces the shop's settings document
func (r *shopRepository) UpdateSettings(ctx context.Context, id uuid.UUID, settings entity.ShopSettings) error {
	return conn(ctx, r.db).Model(&entity.Shop{}).
		Where("id = ?", id).
		Update("settings", settings).Error
}
