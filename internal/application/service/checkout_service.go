package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/domain/enum"
	"github.com/sangkips/duka-pos/internal/domain/repository"
	"github.com/sangkips/duka-pos/internal/logger"
	"github.com/sangkips/duka-pos/pkg/apperror"
	"github.com/sangkips/duka-pos/pkg/dispatch"
	"github.com/sangkips/duka-pos/pkg/pricing"
	"github.com/sangkips/duka-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

const (
	maxCustomerNameLen  = 100
	maxCustomerPhoneLen = 20

	// quantityPlaces and discountPlaces match the stored column scales, so the
	// persisted line and the stock decrement equal what was priced
	quantityPlaces = 3
	discountPlaces = 2
)

// TaskSubmitter queues background work without blocking
type TaskSubmitter interface {
	Submit(task dispatch.Task) bool
}

// SalePublisher announces committed sales to a shop's listeners
type SalePublisher interface {
	PublishSaleCompleted(ctx context.Context, event entity.SaleCompletedEvent) error
}

// ReceiptPrinter renders and prints the receipt of a committed sale
type ReceiptPrinter interface {
	PrintSale(ctx context.Context, shopID, saleID uuid.UUID) (*entity.Receipt, error)
}

// FollowUps are the best-effort tasks queued once a sale commits.
// A nil Dispatcher disables them.
type FollowUps struct {
	Dispatcher TaskSubmitter
	Receipts   ReceiptPrinter
	Publisher  SalePublisher
}

// CheckoutService turns a cart into a committed sale
type CheckoutService struct {
	tx           repository.Transactor
	catalog      *CatalogService
	shopRepo     repository.ShopRepository
	sessionRepo  repository.RegisterSessionRepository
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	lineItemRepo repository.SaleLineItemRepository
	policy       pricing.Policy
	followUps    FollowUps
	log          zerolog.Logger
}

// NewCheckoutService creates a new checkout service. policy is the default used
// for shops that do not override it in their settings.
func NewCheckoutService(
	tx repository.Transactor,
	catalog *CatalogService,
	shopRepo repository.ShopRepository,
	sessionRepo repository.RegisterSessionRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	lineItemRepo repository.SaleLineItemRepository,
	policy pricing.Policy,
	followUps FollowUps,
) *CheckoutService {
	return &CheckoutService{
		tx:           tx,
		catalog:      catalog,
		shopRepo:     shopRepo,
		sessionRepo:  sessionRepo,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		lineItemRepo: lineItemRepo,
		policy:       policy,
		followUps:    followUps,
		log:          logger.WithComponent("checkout"),
	}
}

// CartLineInput represents one line of the cart as entered
type CartLineInput struct {
	ProductID       uuid.UUID
	Quantity        decimal.Decimal
	DiscountPercent decimal.Decimal
}

// CheckoutInput represents the checkout input
type CheckoutInput struct {
	ShopID uuid.UUID
	UserID uuid.UUID
	// RegisterSessionID, when set, must name the shop's open session
	RegisterSessionID *uuid.UUID
	Items             []CartLineInput
	PaymentMethod     string
	CustomerName      string
	CustomerPhone     string
}

// Checkout validates the cart, prices it and commits the sale, its line items and
// the stock decrements in one transaction. Each call creates a new sale.
func (s *CheckoutService) Checkout(ctx context.Context, input *CheckoutInput) (*entity.Sale, error) {
	method, lines, err := validateCheckout(input)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetOpen(ctx, input.ShopID)
	if err != nil {
		return nil, apperror.NewPersistenceError("load open register", err)
	}
	if session == nil {
		return nil, apperror.NewNoOpenRegisterError(input.ShopID)
	}
	if input.RegisterSessionID != nil && *input.RegisterSessionID != session.ID {
		return nil, apperror.NewSessionMismatchError(*input.RegisterSessionID, session.ID)
	}

	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	snap, err := s.catalog.Snapshot(ctx, input.ShopID, ids)
	if err != nil {
		return nil, err
	}

	priced := make([]pricing.Line, len(lines))
	for i, line := range lines {
		product, err := snap.Product(line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.Quantity.GreaterThan(product.Stock) {
			return nil, apperror.NewInsufficientStockError(product.ID, product.Name, line.Quantity, product.Stock)
		}
		priced[i] = pricing.Line{
			Quantity:        line.Quantity,
			UnitPrice:       product.SellingPrice,
			CostPrice:       product.CostPrice,
			Combo:           product.ComboTerms(),
			DiscountPercent: line.DiscountPercent,
		}
	}

	policy, err := s.policyFor(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}

	breakdown, err := pricing.Price(priced, snap.TaxRate, policy)
	if err != nil {
		return nil, apperror.NewInvalidInputError(err.Error())
	}

	sale := &entity.Sale{
		ShopID:            input.ShopID,
		UserID:            input.UserID,
		RegisterSessionID: session.ID,
		ReceiptNo:         utils.GenerateReceiptNo(),
		Subtotal:          breakdown.Subtotal,
		Tax:               breakdown.Tax,
		Total:             breakdown.Total,
		Profit:            breakdown.Profit,
		PaymentMethod:     method,
		CustomerName:      clip(input.CustomerName, maxCustomerNameLen),
		CustomerPhone:     clip(input.CustomerPhone, maxCustomerPhoneLen),
	}

	items := make([]entity.SaleLineItem, len(lines))
	for i, res := range breakdown.Lines {
		product := snap.Products[lines[i].ProductID]
		items[i] = entity.SaleLineItem{
			ShopID:          input.ShopID,
			ProductID:       product.ID,
			ProductName:     product.Name,
			Quantity:        res.Quantity,
			UnitPrice:       res.UnitPrice,
			CostPrice:       product.CostPrice,
			DiscountPercent: res.DiscountPercent,
			TotalPrice:      res.Total,
			ComboApplied:    res.ComboApplied,
		}
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := s.sessionRepo.TouchOpen(ctx, input.ShopID, session.ID)
		if err != nil {
			return apperror.NewPersistenceError("lock register session", err)
		}
		if !open {
			return apperror.NewNoOpenRegisterError(input.ShopID)
		}

		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return apperror.NewPersistenceError("create sale", err)
		}

		for i := range items {
			items[i].SaleID = sale.ID
		}
		if err := s.lineItemRepo.CreateBatch(ctx, items); err != nil {
			return apperror.NewPersistenceError("create sale items", err)
		}

		for _, item := range items {
			ok, err := s.productRepo.AtomicDecrementStock(ctx, input.ShopID, item.ProductID, item.Quantity)
			if err != nil {
				return apperror.NewPersistenceError("decrement stock", err)
			}
			if !ok {
				return s.stockRace(ctx, input.ShopID, item)
			}
		}
		return nil
	})
	if err != nil {
		if !apperror.IsAppError(err) {
			err = apperror.NewPersistenceError("commit sale", err)
		}
		return nil, err
	}

	sale.Items = items
	s.log.Info().
		Str("sale_id", sale.ID.String()).
		Str("shop_id", sale.ShopID.String()).
		Str("receipt_no", sale.ReceiptNo).
		Str("total", sale.Total.StringFixed(2)).
		Str("payment_method", method.String()).
		Msg("sale committed")

	s.afterCommit(sale)
	return sale, nil
}

// stockRace reports a decrement that lost to a concurrent checkout
func (s *CheckoutService) stockRace(ctx context.Context, shopID uuid.UUID, item entity.SaleLineItem) error {
	available := decimal.Zero
	if current, err := s.productRepo.GetByID(ctx, shopID, item.ProductID); err == nil && current != nil {
		available = current.Stock
	}
	return apperror.NewInsufficientStockError(item.ProductID, item.ProductName, item.Quantity, available)
}

// policyFor applies the shop's own rounding step over the process default
func (s *CheckoutService) policyFor(ctx context.Context, shopID uuid.UUID) (pricing.Policy, error) {
	policy := s.policy
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return policy, apperror.NewPersistenceError("load shop", err)
	}
	if shop != nil && shop.Settings.ComboRoundingStep != nil {
		policy.ComboRoundingStep = *shop.Settings.ComboRoundingStep
	}
	return policy, nil
}

// afterCommit queues the receipt and the broadcast. Nothing here can fail the sale.
func (s *CheckoutService) afterCommit(sale *entity.Sale) {
	if s.followUps.Dispatcher == nil {
		return
	}
	fields := map[string]string{
		"sale_id": sale.ID.String(),
		"shop_id": sale.ShopID.String(),
	}

	if receipts := s.followUps.Receipts; receipts != nil {
		shopID, saleID := sale.ShopID, sale.ID
		s.followUps.Dispatcher.Submit(dispatch.Task{
			Name:   "print_receipt",
			Fields: fields,
			Run: func(ctx context.Context) error {
				_, err := receipts.PrintSale(ctx, shopID, saleID)
				return err
			},
		})
	}

	if publisher := s.followUps.Publisher; publisher != nil {
		event := entity.SaleCompletedEvent{
			SaleID:     sale.ID,
			ShopID:     sale.ShopID,
			ReceiptNo:  sale.ReceiptNo,
			Total:      sale.Total,
			ItemCount:  len(sale.Items),
			OccurredAt: time.Now(),
		}
		s.followUps.Dispatcher.Submit(dispatch.Task{
			Name:   "broadcast_sale",
			Fields: fields,
			Run: func(ctx context.Context) error {
				return publisher.PublishSaleCompleted(ctx, event)
			},
		})
	}
}

// validateCheckout checks the request shape and merges lines for the same product
func validateCheckout(input *CheckoutInput) (enum.PaymentMethod, []CartLineInput, error) {
	var fieldErrors []apperror.FieldError

	if input.ShopID == uuid.Nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "shop_id", Message: "is required"})
	}
	if input.UserID == uuid.Nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "user_id", Message: "is required"})
	}
	if len(input.Items) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "items", Message: "cart is empty"})
	}

	method, err := enum.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_method", Message: err.Error()})
	}

	merged := make([]CartLineInput, 0, len(input.Items))
	index := make(map[uuid.UUID]int, len(input.Items))
	hundred := decimal.NewFromInt(100)
	for i, item := range input.Items {
		field := fmt.Sprintf("items[%d]", i)
		if item.ProductID == uuid.Nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".product_id", Message: "is required"})
			continue
		}
		if !item.Quantity.IsPositive() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".quantity", Message: "must be greater than zero"})
			continue
		}
		if !item.Quantity.Equal(item.Quantity.Truncate(quantityPlaces)) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".quantity", Message: fmt.Sprintf("must have at most %d decimal places", quantityPlaces)})
			continue
		}
		if item.DiscountPercent.IsNegative() || item.DiscountPercent.GreaterThan(hundred) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".discount_percent", Message: "must be between 0 and 100"})
			continue
		}
		if !item.DiscountPercent.Equal(item.DiscountPercent.Truncate(discountPlaces)) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".discount_percent", Message: fmt.Sprintf("must have at most %d decimal places", discountPlaces)})
			continue
		}

		if at, seen := index[item.ProductID]; seen {
			if !merged[at].DiscountPercent.Equal(item.DiscountPercent) {
				fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".discount_percent", Message: "conflicts with an earlier line for the same product"})
				continue
			}
			merged[at].Quantity = merged[at].Quantity.Add(item.Quantity)
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	if len(fieldErrors) > 0 {
		return "", nil, apperror.NewValidationError(fieldErrors)
	}
	return method, merged, nil
}

// clip trims s and cuts it to limit runes; blank input yields nil
func clip(s string, limit int) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if r := []rune(s); len(r) > limit {
		s = strings.TrimSpace(string(r[:limit]))
	}
	return &s
}
