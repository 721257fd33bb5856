package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/application/service"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/duka-pos/internal/domain/repository"
	"github.com/sangkips/duka-pos/internal/infrastructure/repository"
	"github.com/sangkips/duka-pos/internal/testutil"
	"github.com/sangkips/duka-pos/pkg/pricing"
	"github.com/sangkips/duka-pos/pkg/printer"
	"github.com/stretchr/testify/require"
)

type harness struct {
	*testutil.Fixture
	checkout *service.CheckoutService
	register *service.RegisterService
	receipts *service.ReceiptService
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	policy    pricing.Policy
	followUps service.FollowUps
	printer   printer.Printer
	// wrapSessions decorates the session repository seen by checkout only
	wrapSessions func(domainRepo.RegisterSessionRepository) domainRepo.RegisterSessionRepository
}

func withPolicy(p pricing.Policy) harnessOption {
	return func(c *harnessConfig) { c.policy = p }
}

func withFollowUps(f service.FollowUps) harnessOption {
	return func(c *harnessConfig) { c.followUps = f }
}

func withPrinter(p printer.Printer) harnessOption {
	return func(c *harnessConfig) { c.printer = p }
}

func withCheckoutSessions(wrap func(domainRepo.RegisterSessionRepository) domainRepo.RegisterSessionRepository) harnessOption {
	return func(c *harnessConfig) { c.wrapSessions = wrap }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	cfg := harnessConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.printer == nil {
		p, err := printer.New(printer.Options{Type: printer.TypeNone})
		require.NoError(t, err)
		cfg.printer = p
	}

	f := testutil.NewFixture(t)
	tx := repository.NewTransactor(f.DB)
	products := repository.NewProductRepository(f.DB)
	sessions := repository.NewRegisterSessionRepository(f.DB)
	sales := repository.NewSaleRepository(f.DB)
	checkoutSessions := sessions
	if cfg.wrapSessions != nil {
		checkoutSessions = cfg.wrapSessions(sessions)
	}

	catalog := service.NewCatalogService(products, repository.NewTaxRateRepository(f.DB))
	return &harness{
		Fixture: f,
		checkout: service.NewCheckoutService(
			tx, catalog,
			repository.NewShopRepository(f.DB),
			checkoutSessions, products, sales,
			repository.NewSaleLineItemRepository(f.DB),
			cfg.policy, cfg.followUps,
		),
		register: service.NewRegisterService(tx, sessions, sales),
		receipts: service.NewReceiptService(cfg.printer, sales, service.ReceiptOptions{PrinterType: printer.TypeNone, Width: 32}),
	}
}

func (h *harness) open(t *testing.T, cash string) *entity.RegisterSession {
	t.Helper()

	session, err := h.register.Open(context.Background(), &service.OpenRegisterInput{
		ShopID:      h.Shop.ID,
		UserID:      h.Cashier.ID,
		OpeningCash: testutil.Dec(cash),
	})
	require.NoError(t, err)
	return session
}

func line(id uuid.UUID, qty string) service.CartLineInput {
	return service.CartLineInput{ProductID: id, Quantity: testutil.Dec(qty)}
}

func (h *harness) sell(method string, lines ...service.CartLineInput) (*entity.Sale, error) {
	return h.checkout.Checkout(context.Background(), &service.CheckoutInput{
		ShopID:        h.Shop.ID,
		UserID:        h.Cashier.ID,
		Items:         lines,
		PaymentMethod: method,
	})
}
