package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/application/service"
	"github.com/sangkips/duka-pos/internal/infrastructure/repository"
	"github.com/sangkips/duka-pos/internal/testutil"
	"github.com/sangkips/duka-pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSnapshot(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	catalog := service.NewCatalogService(repository.NewProductRepository(f.DB), repository.NewTaxRateRepository(f.DB))

	bread := f.AddProduct(t, "Bread", "50", "30", "10")
	soda := f.AddProduct(t, "Soda", "35", "20", "24", testutil.WithCombo(3, "90"))

	snap, err := catalog.Snapshot(ctx, f.Shop.ID, []uuid.UUID{bread.ID, soda.ID})
	require.NoError(t, err)
	assert.Len(t, snap.Products, 2)
	assert.True(t, snap.TaxRate.IsZero())

	combo := snap.Products[soda.ID].ComboTerms()
	require.NotNil(t, combo)
	assert.Equal(t, int64(3), combo.Size)
	assert.Nil(t, snap.Products[bread.ID].ComboTerms())

	f.AddTaxRate(t, "0.16")
	snap, err = catalog.Snapshot(ctx, f.Shop.ID, []uuid.UUID{bread.ID})
	require.NoError(t, err)
	assert.Equal(t, "0.16", snap.TaxRate.String())

	_, err = snap.Product(soda.ID)
	assert.ErrorIs(t, err, apperror.ErrProductNotFound)

	_, err = catalog.Snapshot(ctx, f.Shop.ID, []uuid.UUID{bread.ID, uuid.New()})
	assert.ErrorIs(t, err, apperror.ErrProductNotFound)
}
