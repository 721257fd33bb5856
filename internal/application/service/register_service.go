package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/domain/enum"
	"github.com/sangkips/duka-pos/internal/domain/repository"
	"github.com/sangkips/duka-pos/internal/logger"
	"github.com/sangkips/duka-pos/pkg/apperror"
	"github.com/sangkips/duka-pos/pkg/pagination"
	"github.com/sangkips/duka-pos/pkg/pricing"
	"github.com/shopspring/decimal"
)

// RegisterService opens, closes and reconciles register sessions
type RegisterService struct {
	tx          repository.Transactor
	sessionRepo repository.RegisterSessionRepository
	saleRepo    repository.SaleRepository
	log         zerolog.Logger
}

// NewRegisterService creates a new register service
func NewRegisterService(
	tx repository.Transactor,
	sessionRepo repository.RegisterSessionRepository,
	saleRepo repository.SaleRepository,
) *RegisterService {
	return &RegisterService{
		tx:          tx,
		sessionRepo: sessionRepo,
		saleRepo:    saleRepo,
		log:         logger.WithComponent("register"),
	}
}

// OpenRegisterInput represents the open register input
type OpenRegisterInput struct {
	ShopID      uuid.UUID
	UserID      uuid.UUID
	OpeningCash decimal.Decimal
	Notes       string
}

// CloseRegisterInput represents the close register input
type CloseRegisterInput struct {
	ShopID      uuid.UUID
	SessionID   uuid.UUID
	UserID      uuid.UUID
	ClosingCash decimal.Decimal
	Notes       string
}

// MethodTotal is the takings of one payment method
type MethodTotal struct {
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Total         decimal.Decimal    `json:"total"`
	Count         int64              `json:"count"`
}

// RegisterSummary aggregates the sales of one session
type RegisterSummary struct {
	Session      *entity.RegisterSession `json:"session"`
	IsOpen       bool                    `json:"is_open"`
	OpeningCash  decimal.Decimal         `json:"opening_cash"`
	TotalSales   decimal.Decimal         `json:"total_sales"`
	SaleCount    int64                   `json:"sale_count"`
	CashSales    decimal.Decimal         `json:"cash_sales"`
	NonCashSales decimal.Decimal         `json:"non_cash_sales"`
	ExpectedCash decimal.Decimal         `json:"expected_cash"`
	ByMethod     []MethodTotal           `json:"by_method"`
}

// Open starts a new session. It fails with AlreadyOpen while the shop has an open session.
func (s *RegisterService) Open(ctx context.Context, input *OpenRegisterInput) (*entity.RegisterSession, error) {
	var fieldErrors []apperror.FieldError
	if input.ShopID == uuid.Nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "shop_id", Message: "is required"})
	}
	if input.UserID == uuid.Nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "user_id", Message: "is required"})
	}
	if input.OpeningCash.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "opening_cash", Message: "must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	session := &entity.RegisterSession{
		ShopID:      input.ShopID,
		OpenedBy:    input.UserID,
		OpenedAt:    time.Now(),
		OpeningCash: pricing.Round(input.OpeningCash),
		Notes:       notes(input.Notes),
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := s.sessionRepo.GetOpen(ctx, input.ShopID)
		if err != nil {
			return apperror.NewPersistenceError("load open register", err)
		}
		if open != nil {
			return apperror.NewAlreadyOpenError(open.ID)
		}
		return s.sessionRepo.Create(ctx, session)
	})
	if errors.Is(err, repository.ErrOpenSessionExists) {
		// lost the race to a concurrent open
		open, lookupErr := s.sessionRepo.GetOpen(ctx, input.ShopID)
		if lookupErr == nil && open != nil {
			return nil, apperror.NewAlreadyOpenError(open.ID)
		}
		return nil, apperror.NewAlreadyOpenError(uuid.Nil)
	}
	if err != nil {
		if !apperror.IsAppError(err) {
			err = apperror.NewPersistenceError("open register", err)
		}
		return nil, err
	}

	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("shop_id", session.ShopID.String()).
		Str("opening_cash", session.OpeningCash.StringFixed(2)).
		Msg("register opened")
	return session, nil
}

// Close reconciles and closes an open session. Sales committed before Close claims the
// session are counted; later checkouts see the register closed.
func (s *RegisterService) Close(ctx context.Context, input *CloseRegisterInput) (*entity.RegisterSession, error) {
	if input.ClosingCash.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "closing_cash", Message: "must not be negative"},
		})
	}
	if input.UserID == uuid.Nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "user_id", Message: "is required"},
		})
	}

	var closed *entity.RegisterSession
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.sessionRepo.MarkClosed(ctx, input.ShopID, input.SessionID, input.UserID, time.Now())
		if err != nil {
			return apperror.NewPersistenceError("close register", err)
		}
		if !ok {
			return apperror.NewNotOpenError(input.SessionID)
		}

		session, err := s.sessionRepo.GetByID(ctx, input.ShopID, input.SessionID)
		if err != nil {
			return apperror.NewPersistenceError("load register session", err)
		}
		if session == nil {
			return apperror.NewNotOpenError(input.SessionID)
		}

		totals, err := s.saleRepo.TotalsByPaymentMethod(ctx, input.ShopID, session.ID)
		if err != nil {
			return apperror.NewPersistenceError("sum session sales", err)
		}

		summary := summarize(session, totals)
		closingCash := pricing.Round(input.ClosingCash)
		discrepancy := closingCash.Sub(summary.ExpectedCash)

		session.ClosingCash = &closingCash
		session.ExpectedCash = &summary.ExpectedCash
		session.Discrepancy = &discrepancy
		if n := notes(input.Notes); n != nil {
			session.Notes = n
		}
		if err := s.sessionRepo.SaveReconciliation(ctx, session); err != nil {
			return apperror.NewPersistenceError("save reconciliation", err)
		}
		closed = session
		return nil
	})
	if err != nil {
		if !apperror.IsAppError(err) {
			err = apperror.NewPersistenceError("close register", err)
		}
		return nil, err
	}

	ev := s.log.Info()
	if !closed.Discrepancy.IsZero() {
		ev = s.log.Warn()
	}
	ev.Str("session_id", closed.ID.String()).
		Str("shop_id", closed.ShopID.String()).
		Str("expected_cash", closed.ExpectedCash.StringFixed(2)).
		Str("closing_cash", closed.ClosingCash.StringFixed(2)).
		Str("discrepancy", closed.Discrepancy.StringFixed(2)).
		Msg("register closed")
	return closed, nil
}

// Current returns the shop's open session
func (s *RegisterService) Current(ctx context.Context, shopID uuid.UUID) (*entity.RegisterSession, error) {
	session, err := s.sessionRepo.GetOpen(ctx, shopID)
	if err != nil {
		return nil, apperror.NewPersistenceError("load open register", err)
	}
	if session == nil {
		return nil, apperror.NewNotOpenError(shopID)
	}
	return session, nil
}

// Summary aggregates a session's sales by payment method. It works for open and closed sessions.
func (s *RegisterService) Summary(ctx context.Context, shopID, sessionID uuid.UUID) (*RegisterSummary, error) {
	session, err := s.sessionRepo.GetByID(ctx, shopID, sessionID)
	if err != nil {
		return nil, apperror.NewPersistenceError("load register session", err)
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Register session")
	}

	totals, err := s.saleRepo.TotalsByPaymentMethod(ctx, shopID, sessionID)
	if err != nil {
		return nil, apperror.NewPersistenceError("sum session sales", err)
	}
	return summarize(session, totals), nil
}

// ListSessions returns the shop's sessions, newest first
func (s *RegisterService) ListSessions(ctx context.Context, shopID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.RegisterSession], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	sessions, total, err := s.sessionRepo.List(ctx, shopID, params)
	if err != nil {
		return nil, apperror.NewPersistenceError("list register sessions", err)
	}
	return pagination.NewPaginatedResult(sessions, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// SaleFilter narrows a session's sale listing. Zero fields match every sale.
type SaleFilter struct {
	PaymentMethod string
	From          *time.Time
	To            *time.Time
	Pagination    *pagination.PaginationParams
}

// ListSales returns the sales of one session, newest first
func (s *RegisterService) ListSales(ctx context.Context, shopID, sessionID uuid.UUID, filter *SaleFilter) (*pagination.PaginatedResult[entity.Sale], error) {
	if filter == nil {
		filter = &SaleFilter{}
	}
	params := filter.Pagination
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	query := &repository.SaleFilterParams{
		Pagination:        params,
		RegisterSessionID: &sessionID,
		StartDate:         filter.From,
		EndDate:           filter.To,
	}
	var fieldErrors []apperror.FieldError
	if filter.PaymentMethod != "" {
		method, err := enum.ParsePaymentMethod(filter.PaymentMethod)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_method", Message: err.Error()})
		} else {
			query.PaymentMethod = &method
		}
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "from", Message: "must not be after to"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	session, err := s.sessionRepo.GetByID(ctx, shopID, sessionID)
	if err != nil {
		return nil, apperror.NewPersistenceError("load register session", err)
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Register session")
	}

	sales, total, err := s.saleRepo.List(ctx, shopID, query)
	if err != nil {
		return nil, apperror.NewPersistenceError("list session sales", err)
	}
	return pagination.NewPaginatedResult(sales, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// summarize folds per-method totals into a summary. Only cash tender counts towards the drawer.
func summarize(session *entity.RegisterSession, totals []repository.PaymentMethodTotal) *RegisterSummary {
	summary := &RegisterSummary{
		Session:     session,
		IsOpen:      session.IsOpen(),
		OpeningCash: session.OpeningCash,
	}

	byMethod := make(map[enum.PaymentMethod]repository.PaymentMethodTotal, len(totals))
	for _, t := range totals {
		byMethod[t.PaymentMethod] = t
		summary.TotalSales = summary.TotalSales.Add(t.Total)
		summary.SaleCount += t.Count
		if t.PaymentMethod.IsCash() {
			summary.CashSales = summary.CashSales.Add(t.Total)
		} else {
			summary.NonCashSales = summary.NonCashSales.Add(t.Total)
		}
	}

	for _, m := range enum.PaymentMethods {
		t := byMethod[m]
		summary.ByMethod = append(summary.ByMethod, MethodTotal{PaymentMethod: m, Total: t.Total, Count: t.Count})
		delete(byMethod, m)
	}
	// methods recorded before they were retired from the enum
	for m, t := range byMethod {
		summary.ByMethod = append(summary.ByMethod, MethodTotal{PaymentMethod: m, Total: t.Total, Count: t.Count})
	}

	summary.ExpectedCash = pricing.Round(summary.OpeningCash.Add(summary.CashSales))
	return summary
}

func notes(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
