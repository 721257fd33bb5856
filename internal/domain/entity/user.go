package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleCashier = "cashier"
	RoleManager = "manager"
)

// User represents a shop staff member who opens registers and rings up sales
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ShopID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"shop_id"`
	FirstName string         `gorm:"size:255;not null" json:"first_name"`
	LastName  string         `gorm:"size:255" json:"last_name"`
	Username  string         `gorm:"size:100;unique;not null" json:"username"`
	Role      string         `gorm:"size:50;default:'cashier'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Shop Shop `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
