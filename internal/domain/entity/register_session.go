package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterSession is one open/close cycle of a shop's cash drawer.
// ClosingCash, ExpectedCash and Discrepancy stay nil until the session is closed.
type RegisterSession struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	ShopID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"shop_id"`
	OpenedBy     uuid.UUID        `gorm:"type:uuid;not null" json:"opened_by"`
	ClosedBy     *uuid.UUID       `gorm:"type:uuid" json:"closed_by,omitempty"`
	OpenedAt     time.Time        `gorm:"not null" json:"opened_at"`
	ClosedAt     *time.Time       `gorm:"index" json:"closed_at,omitempty"`
	OpeningCash  decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"opening_cash"`
	ClosingCash  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"closing_cash,omitempty"`
	ExpectedCash *decimal.Decimal `gorm:"type:decimal(12,2)" json:"expected_cash,omitempty"`
	Discrepancy  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"discrepancy,omitempty"`
	Notes        *string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`

	Shop   Shop `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"-"`
	Opener User `gorm:"foreignKey:OpenedBy" json:"-"`
}

// BeforeCreate generates a UUID before creating a new register session
func (rs *RegisterSession) BeforeCreate(tx *gorm.DB) error {
	if rs.ID == uuid.Nil {
		rs.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RegisterSession model
func (RegisterSession) TableName() string {
	return "register_sessions"
}

// IsOpen reports whether the drawer is still open
func (rs *RegisterSession) IsOpen() bool {
	return rs.ClosedAt == nil
}
