package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

// txKey is the context key for the transaction handle opened by the Transactor
const txKey ctxKey = "gorm_tx"

// ShopScope returns a GORM scope that filters by shop.
// A nil shop ID matches nothing instead of every shop.
func ShopScope(shopID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if shopID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("shop_id = ?", shopID)
	}
}

// withTx stores a transaction handle in the context
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// txFrom extracts the transaction handle from the context
func txFrom(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	return tx, ok
}

// conn returns the transaction bound to ctx, or db when there is none
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := txFrom(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
