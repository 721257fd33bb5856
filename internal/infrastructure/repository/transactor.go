package repository

import (
	"context"

	domainRepo "github.com/sangkips/duka-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor backed by gorm transactions
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &transactor{db: db}
}

// WithinTransaction runs fn in a transaction. Nested calls reuse the outer transaction.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
