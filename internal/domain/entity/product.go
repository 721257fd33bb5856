package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/pkg/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item owned by a shop
type Product struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	ShopID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"shop_id"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	Code             string           `gorm:"size:100;not null;index" json:"code"`
	CostPrice        decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"cost_price"`
	SellingPrice     decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"selling_price"`
	Stock            decimal.Decimal  `gorm:"type:decimal(12,3);not null;default:0" json:"stock"`
	CombinationSize  int64            `gorm:"default:0" json:"combination_size,omitempty"`
	CombinationPrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"combination_price,omitempty"`
	IsActive         bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`

	Shop Shop `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ComboTerms returns the bundle terms, or nil when the product is not sold as a combo
func (p *Product) ComboTerms() *pricing.Combo {
	if p.CombinationPrice == nil {
		return nil
	}
	combo := &pricing.Combo{Size: p.CombinationSize, Price: *p.CombinationPrice}
	if !combo.Active() {
		return nil
	}
	return combo
}

// TaxRate is the rate a shop charges on the sale subtotal. Rate is a fraction, 0.16 for 16%.
type TaxRate struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ShopID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"shop_id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Rate        decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"rate"`
	Description string          `gorm:"size:255" json:"description,omitempty"`
	KRACode     string          `gorm:"size:20" json:"kra_code,omitempty"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	Shop Shop `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tax rate
func (t *TaxRate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TaxRate model
func (TaxRate) TableName() string {
	return "tax_rates"
}
