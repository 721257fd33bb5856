package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/application/service"
	"github.com/sangkips/duka-pos/internal/config"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/duka-pos/internal/domain/repository"
	"github.com/sangkips/duka-pos/internal/infrastructure/broadcast"
	"github.com/sangkips/duka-pos/internal/infrastructure/cache"
	"github.com/sangkips/duka-pos/internal/infrastructure/database"
	"github.com/sangkips/duka-pos/internal/infrastructure/repository"
	"github.com/sangkips/duka-pos/internal/logger"
	"github.com/sangkips/duka-pos/pkg/apperror"
	"github.com/sangkips/duka-pos/pkg/dispatch"
	"github.com/sangkips/duka-pos/pkg/pricing"
	"github.com/sangkips/duka-pos/pkg/printer"
	"github.com/sangkips/duka-pos/pkg/utils"
	"gorm.io/gorm"
)

// App holds the wired services a command runs against
type App struct {
	cfg        *config.Config
	db         *gorm.DB
	redis      *cache.Client
	dispatcher *dispatch.Dispatcher

	tx       domainRepo.Transactor
	shops    domainRepo.ShopRepository
	users    domainRepo.UserRepository
	products domainRepo.ProductRepository
	taxRates domainRepo.TaxRateRepository

	checkout *service.CheckoutService
	register *service.RegisterService
	receipts *service.ReceiptService
	settings *service.SettingsService
}

// NewApp connects to the database (and Redis when enabled) and wires every service
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.WithComponent("app")

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, err
	}
	app := &App{cfg: cfg, db: db}

	// Initialize repositories
	app.tx = repository.NewTransactor(db)
	app.shops = repository.NewShopRepository(db)
	app.users = repository.NewUserRepository(db)
	app.products = repository.NewProductRepository(db)
	sessionRepo := repository.NewRegisterSessionRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	lineItemRepo := repository.NewSaleLineItemRepository(db)
	taxRateRepo := repository.NewTaxRateRepository(db)

	// Redis backs the tax rate cache and the sale broadcast; without it events are only logged
	var publisher service.SalePublisher = broadcast.NewLogPublisher()
	if cfg.Redis.Enabled {
		client, err := cache.NewConnection(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr()).Msg("redis unavailable, continuing without cache and broadcast")
		} else {
			app.redis = client
			taxRateRepo = cache.NewTaxRateCache(taxRateRepo, client, cfg.Catalog.TaxRateCacheTTL)
			publisher = broadcast.NewRedisPublisher(client.Redis)
		}
	}

	// Initialize thermal printer
	thermal, err := printer.New(printer.Options{
		Type:    cfg.Printer.Type,
		Path:    cfg.Printer.Path,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize printer, receipts will not be printed")
		thermal, _ = printer.New(printer.Options{Type: printer.TypeNone})
	}

	app.dispatcher = dispatch.New(dispatch.Options{
		Workers:     cfg.Dispatch.Workers,
		QueueSize:   cfg.Dispatch.QueueSize,
		TaskTimeout: cfg.Dispatch.TaskTimeout,
	}, logger.WithComponent("dispatch"))

	// Initialize services
	app.receipts = service.NewReceiptService(thermal, saleRepo, service.ReceiptOptions{
		PrinterType: cfg.Printer.Type,
		Width:       cfg.Printer.Width,
		StoreName:   cfg.Printer.StoreName,
	})
	app.taxRates = taxRateRepo
	catalog := service.NewCatalogService(app.products, app.taxRates)
	app.checkout = service.NewCheckoutService(
		app.tx, catalog, app.shops, sessionRepo, app.products, saleRepo, lineItemRepo,
		pricing.Policy{ComboRoundingStep: cfg.Pricing.ComboRoundingStep},
		service.FollowUps{
			Dispatcher: app.dispatcher,
			Receipts:   app.receipts,
			Publisher:  publisher,
		},
	)
	app.register = service.NewRegisterService(app.tx, sessionRepo, saleRepo)
	app.settings = service.NewSettingsService(app.shops)

	return app, nil
}

// Close drains queued background tasks, then releases Redis and the database
func (a *App) Close(ctx context.Context) error {
	err := a.dispatcher.Shutdown(ctx)
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, dbErr := a.db.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	return err
}

// seed creates the demo shop through the same repositories checkout reads from
func (a *App) seed(ctx context.Context) (*database.SeedResult, error) {
	return database.SeedDemoData(ctx, database.SeedRepos{
		Tx:       a.tx,
		Shops:    a.shops,
		Users:    a.users,
		Products: a.products,
		TaxRates: a.taxRates,
	})
}

// shop resolves a shop by id or slug. A shop name is accepted in place of its slug.
func (a *App) shop(ctx context.Context, ref string) (*entity.Shop, error) {
	var (
		shop *entity.Shop
		err  error
	)
	if id, parseErr := utils.ParseUUID(ref); parseErr == nil {
		shop, err = a.shops.GetByID(ctx, id)
	} else {
		shop, err = a.shops.GetBySlug(ctx, utils.Slugify(ref))
	}
	if err != nil {
		return nil, apperror.NewPersistenceError("load shop", err)
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Shop %q", ref))
	}
	return shop, nil
}

// user resolves a staff member of shop by id or username
func (a *App) user(ctx context.Context, shop *entity.Shop, ref string) (*entity.User, error) {
	var (
		user *entity.User
		err  error
	)
	if id, parseErr := utils.ParseUUID(ref); parseErr == nil {
		user, err = a.users.GetByID(ctx, id)
	} else {
		user, err = a.users.GetByUsername(ctx, ref)
	}
	if err != nil {
		return nil, apperror.NewPersistenceError("load user", err)
	}
	if user == nil || user.ShopID != shop.ID {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("User %q", ref))
	}
	return user, nil
}

// productID resolves a product id or product code within a shop
func (a *App) productID(ctx context.Context, shopID uuid.UUID, ref string) (uuid.UUID, error) {
	if id, err := utils.ParseUUID(ref); err == nil {
		return id, nil
	}
	product, err := a.products.GetByCode(ctx, shopID, ref)
	if err != nil {
		return uuid.Nil, apperror.NewPersistenceError("load product", err)
	}
	if product == nil {
		return uuid.Nil, apperror.NewNotFoundError(fmt.Sprintf("Product %q", ref))
	}
	return product.ID, nil
}
