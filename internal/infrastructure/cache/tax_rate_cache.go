package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/duka-pos/internal/domain/repository"
	"github.com/sangkips/duka-pos/internal/logger"
)

// cachedTaxRate is the cache entry. Found is false when the shop has no active rate,
// so shops without tax do not hit the database on every checkout either.
type cachedTaxRate struct {
	Found bool            `json:"found"`
	Rate  *entity.TaxRate `json:"rate,omitempty"`
}

type taxRateCache struct {
	next   domainRepo.TaxRateRepository
	client *Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewTaxRateCache wraps a TaxRateRepository with a Redis cache-aside layer.
// Redis failures fall through to the wrapped repository.
func NewTaxRateCache(next domainRepo.TaxRateRepository, client *Client, ttl time.Duration) domainRepo.TaxRateRepository {
	return &taxRateCache{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    logger.WithComponent("tax_rate_cache"),
	}
}

// TaxRateKey is the cache key of a shop's active tax rate
func TaxRateKey(shopID uuid.UUID) string {
	return "pos:tax_rate:" + shopID.String()
}

func (c *taxRateCache) Create(ctx context.Context, rate *entity.TaxRate) error {
	if err := c.next.Create(ctx, rate); err != nil {
		return err
	}
	if err := c.client.Del(ctx, TaxRateKey(rate.ShopID)); err != nil {
		c.log.Warn().Err(err).Str("shop_id", rate.ShopID.String()).Msg("failed to invalidate tax rate cache")
	}
	return nil
}

func (c *taxRateCache) GetActive(ctx context.Context, shopID uuid.UUID) (*entity.TaxRate, error) {
	key := TaxRateKey(shopID)

	var entry cachedTaxRate
	hit, err := c.client.GetJSON(ctx, key, &entry)
	if err != nil {
		c.log.Warn().Err(err).Str("shop_id", shopID.String()).Msg("tax rate cache read failed")
	}
	if hit {
		return entry.Rate, nil
	}

	rate, err := c.next.GetActive(ctx, shopID)
	if err != nil {
		return nil, err
	}

	entry = cachedTaxRate{Found: rate != nil, Rate: rate}
	if err := c.client.SetJSON(ctx, key, entry, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("shop_id", shopID.String()).Msg("tax rate cache write failed")
	}
	return rate, nil
}
