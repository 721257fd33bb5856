package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a committed checkout. Its totals are a frozen snapshot of its line items.
type Sale struct {
	ID                uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ShopID            uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_sales_shop_receipt" json:"shop_id"`
	UserID            uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	RegisterSessionID uuid.UUID          `gorm:"type:uuid;not null;index" json:"register_session_id"`
	ReceiptNo         string             `gorm:"size:50;not null;uniqueIndex:idx_sales_shop_receipt" json:"receipt_no"`
	Subtotal          decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax               decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total             decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"total"`
	Profit            decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"profit"`
	PaymentMethod     enum.PaymentMethod `gorm:"size:30;not null;index" json:"payment_method"`
	CustomerName      *string            `gorm:"size:100" json:"customer_name,omitempty"`
	CustomerPhone     *string            `gorm:"size:20" json:"customer_phone,omitempty"`
	CreatedAt         time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	DeletedAt         gorm.DeletedAt     `gorm:"index" json:"-"`

	Shop            Shop            `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"-"`
	User            User            `gorm:"foreignKey:UserID" json:"-"`
	RegisterSession RegisterSession `gorm:"foreignKey:RegisterSessionID" json:"-"`
	Items           []SaleLineItem  `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleLineItem is one immutable line of a sale. UnitPrice and TotalPrice are the
// prices at the time of sale, not a reference to the live product row.
type SaleLineItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ShopID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"shop_id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName     string          `gorm:"size:255" json:"product_name"`
	Quantity        decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cost_price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	ComboApplied    bool            `gorm:"not null;default:false" json:"combo_applied"`
	CreatedAt       time.Time       `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new line item
func (li *SaleLineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleLineItem model
func (SaleLineItem) TableName() string {
	return "cart_items"
}

// SaleCompletedEvent is broadcast to a shop's listeners once a sale commits
type SaleCompletedEvent struct {
	SaleID     uuid.UUID       `json:"sale_id"`
	ShopID     uuid.UUID       `json:"shop_id"`
	ReceiptNo  string          `json:"receipt_no"`
	Total      decimal.Decimal `json:"total"`
	ItemCount  int             `json:"item_count"`
	OccurredAt time.Time       `json:"occurred_at"`
}
