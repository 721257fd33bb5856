package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/domain/repository"
	"github.com/sangkips/duka-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// SettingsService reads and updates per-shop POS settings
type SettingsService struct {
	shopRepo repository.ShopRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(shopRepo repository.ShopRepository) *SettingsService {
	return &SettingsService{
		shopRepo: shopRepo,
	}
}

// GetSettings returns the shop's settings with defaults filled in
func (s *SettingsService) GetSettings(ctx context.Context, shopID uuid.UUID) (*entity.ShopSettings, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, apperror.NewPersistenceError("load shop", err)
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}

	settings := shop.Settings
	defaults := entity.DefaultShopSettings()
	if settings.Currency == "" {
		settings.Currency = defaults.Currency
	}
	if settings.Timezone == "" {
		settings.Timezone = defaults.Timezone
	}
	if settings.ReceiptFooter == "" {
		settings.ReceiptFooter = defaults.ReceiptFooter
	}
	return &settings, nil
}

// UpdateSettingsInput represents the input for updating settings.
// Nil fields are left unchanged.
type UpdateSettingsInput struct {
	ShopID            uuid.UUID
	Currency          *string
	Timezone          *string
	ReceiptFooter     *string
	ComboRoundingStep *decimal.Decimal
	// ResetComboRoundingStep drops the shop override so the process default applies again
	ResetComboRoundingStep bool
}

// UpdateSettings applies the given changes to the shop's settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.ShopSettings, error) {
	var fieldErrors []apperror.FieldError
	if input.Currency != nil && len(strings.TrimSpace(*input.Currency)) != 3 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "currency", Message: "must be a three letter code"})
	}
	if input.Timezone != nil {
		if _, err := time.LoadLocation(*input.Timezone); err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "timezone", Message: "unknown time zone"})
		}
	}
	if input.ComboRoundingStep != nil && input.ComboRoundingStep.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "combo_rounding_step", Message: "must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	shop, err := s.shopRepo.GetByID(ctx, input.ShopID)
	if err != nil {
		return nil, apperror.NewPersistenceError("load shop", err)
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}

	settings := shop.Settings
	if input.Currency != nil {
		settings.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	if input.Timezone != nil {
		settings.Timezone = *input.Timezone
	}
	if input.ReceiptFooter != nil {
		settings.ReceiptFooter = strings.TrimSpace(*input.ReceiptFooter)
	}
	switch {
	case input.ResetComboRoundingStep:
		settings.ComboRoundingStep = nil
	case input.ComboRoundingStep != nil:
		step := *input.ComboRoundingStep
		settings.ComboRoundingStep = &step
	}

	if err := s.shopRepo.UpdateSettings(ctx, shop.ID, settings); err != nil {
		return nil, apperror.NewPersistenceError("update shop settings", err)
	}
	return &settings, nil
}
