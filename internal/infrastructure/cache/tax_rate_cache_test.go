package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTaxRates struct {
	rates map[uuid.UUID]*entity.TaxRate
	reads int
}

func (c *countingTaxRates) Create(_ context.Context, rate *entity.TaxRate) error {
	c.rates[rate.ShopID] = rate
	return nil
}

func (c *countingTaxRates) GetActive(_ context.Context, shopID uuid.UUID) (*entity.TaxRate, error) {
	c.reads++
	return c.rates[shopID], nil
}

func newClient(t *testing.T) (*cache.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := cache.NewClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestTaxRateCacheAside(t *testing.T) {
	ctx := context.Background()
	client, mr := newClient(t)
	require.NoError(t, client.Health(ctx))

	shopID := uuid.New()
	inner := &countingTaxRates{rates: map[uuid.UUID]*entity.TaxRate{
		shopID: {ID: uuid.New(), ShopID: shopID, Name: "VAT", Rate: decimal.RequireFromString("0.16"), IsActive: true},
	}}
	repo := cache.NewTaxRateCache(inner, client, time.Minute)

	for i := 0; i < 3; i++ {
		rate, err := repo.GetActive(ctx, shopID)
		require.NoError(t, err)
		require.NotNil(t, rate)
		assert.True(t, decimal.RequireFromString("0.16").Equal(rate.Rate))
	}
	assert.Equal(t, 1, inner.reads)
	assert.True(t, mr.Exists(cache.TaxRateKey(shopID)))

	mr.FastForward(2 * time.Minute)
	_, err := repo.GetActive(ctx, shopID)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.reads)
}

func TestTaxRateCacheRemembersMissingRate(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	shopID := uuid.New()
	inner := &countingTaxRates{rates: map[uuid.UUID]*entity.TaxRate{}}
	repo := cache.NewTaxRateCache(inner, client, time.Minute)

	for i := 0; i < 2; i++ {
		rate, err := repo.GetActive(ctx, shopID)
		require.NoError(t, err)
		assert.Nil(t, rate)
	}
	assert.Equal(t, 1, inner.reads)

	// creating a rate invalidates the cached miss
	require.NoError(t, repo.Create(ctx, &entity.TaxRate{ShopID: shopID, Rate: decimal.RequireFromString("0.08")}))
	rate, err := repo.GetActive(ctx, shopID)
	require.NoError(t, err)
	require.NotNil(t, rate)
	assert.Equal(t, 2, inner.reads)
}

func TestTaxRateCacheFallsThroughWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	client, mr := newClient(t)
	mr.Close()

	shopID := uuid.New()
	inner := &countingTaxRates{rates: map[uuid.UUID]*entity.TaxRate{
		shopID: {ShopID: shopID, Rate: decimal.RequireFromString("0.16")},
	}}
	repo := cache.NewTaxRateCache(inner, client, time.Minute)

	rate, err := repo.GetActive(ctx, shopID)
	require.NoError(t, err)
	require.NotNil(t, rate)
	assert.Equal(t, 1, inner.reads)
}
