package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Shop represents a single point-of-sale location. It owns its products, tax rates,
// register sessions and sales.
type Shop struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	Address   string         `gorm:"size:255" json:"address,omitempty"`
	Phone     string         `gorm:"size:50" json:"phone,omitempty"`
	TaxPIN    string         `gorm:"size:50" json:"tax_pin,omitempty"`
	Settings  ShopSettings   `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new shop
func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Shop model
func (Shop) TableName() string {
	return "shops"
}

// ShopSettings holds per-shop POS options
type ShopSettings struct {
	Currency      string `json:"currency,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
	ReceiptFooter string `json:"receipt_footer,omitempty"`

	// ComboRoundingStep is the promotional "round combo lines up to nearest N" rule.
	// Nil falls back to the process-wide default; zero disables rounding for the shop.
	ComboRoundingStep *decimal.Decimal `json:"combo_rounding_step,omitempty"`
}

// Scan implements the sql.Scanner interface for ShopSettings
func (ss *ShopSettings) Scan(value interface{}) error {
	if value == nil {
		*ss = ShopSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ShopSettings: unsupported type")
	}

	return json.Unmarshal(bytes, ss)
}

// Value implements the driver.Valuer interface for ShopSettings
func (ss ShopSettings) Value() (driver.Value, error) {
	return json.Marshal(ss)
}

// DefaultShopSettings returns default settings for new shops
func DefaultShopSettings() ShopSettings {
	return ShopSettings{
		Currency:      "KES",
		Timezone:      "Africa/Nairobi",
		ReceiptFooter: "Thank you for shopping with us!",
	}
}
