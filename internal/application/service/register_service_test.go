package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/application/service"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/domain/enum"
	"github.com/sangkips/duka-pos/internal/testutil"
	"github.com/sangkips/duka-pos/pkg/apperror"
	"github.com/sangkips/duka-pos/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRejectsSecondSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	first := h.open(t, "250.005")
	assertMoney(t, "250.01", first.OpeningCash)

	_, err := h.register.Open(ctx, &service.OpenRegisterInput{ShopID: h.Shop.ID, UserID: h.Cashier.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrAlreadyOpen)
	assert.Equal(t, first.ID.String(), apperror.GetAppError(err).Details["session_id"])

	_, err = h.register.Open(ctx, &service.OpenRegisterInput{ShopID: h.Shop.ID, UserID: h.Cashier.ID, OpeningCash: testutil.Dec("-1")})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	current, err := h.register.Current(ctx, h.Shop.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)
}

func TestConcurrentOpensYieldOneSession(t *testing.T) {
	h := newHarness(t)

	const callers = 6
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		opened      int
		alreadyOpen int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.register.Open(context.Background(), &service.OpenRegisterInput{
				ShopID:      h.Shop.ID,
				UserID:      h.Cashier.ID,
				OpeningCash: testutil.Dec("100"),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				opened++
			case errors.Is(err, apperror.ErrAlreadyOpen):
				alreadyOpen++
			default:
				t.Errorf("unexpected open error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, opened)
	assert.Equal(t, callers-1, alreadyOpen)
	assert.Equal(t, int64(1), h.Count(t, &entity.RegisterSession{}, "shop_id = ? AND closed_at IS NULL", h.Shop.ID))
}

func TestCloseReconcilesCashOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.AddProduct(t, "Gas refill", "500", "420", "100")
	session := h.open(t, "1000")

	_, err := h.sell("cash", line(p.ID, "2"))
	require.NoError(t, err)
	_, err = h.sell("cash", line(p.ID, "3"))
	require.NoError(t, err)
	_, err = h.sell("mpesa", line(p.ID, "1"))
	require.NoError(t, err)

	summary, err := h.register.Summary(ctx, h.Shop.ID, session.ID)
	require.NoError(t, err)
	assert.True(t, summary.IsOpen)
	assert.Equal(t, int64(3), summary.SaleCount)
	assertMoney(t, "3000.00", summary.TotalSales)
	assertMoney(t, "2500.00", summary.CashSales)
	assertMoney(t, "500.00", summary.NonCashSales)
	assertMoney(t, "3500.00", summary.ExpectedCash)
	require.Len(t, summary.ByMethod, len(enum.PaymentMethods))
	for _, m := range summary.ByMethod {
		switch m.PaymentMethod {
		case enum.PaymentMethodCash:
			assert.Equal(t, int64(2), m.Count)
		case enum.PaymentMethodMpesa:
			assert.Equal(t, int64(1), m.Count)
		default:
			assert.True(t, m.Total.IsZero())
		}
	}

	closed, err := h.register.Close(ctx, &service.CloseRegisterInput{
		ShopID:      h.Shop.ID,
		SessionID:   session.ID,
		UserID:      h.Cashier.ID,
		ClosingCash: testutil.Dec("3450"),
		Notes:       "short by fifty",
	})
	require.NoError(t, err)
	assertMoney(t, "3500.00", *closed.ExpectedCash)
	assertMoney(t, "3450.00", *closed.ClosingCash)
	assertMoney(t, "-50.00", *closed.Discrepancy)
	require.NotNil(t, closed.ClosedBy)
	assert.Equal(t, h.Cashier.ID, *closed.ClosedBy)

	var stored entity.RegisterSession
	require.NoError(t, h.DB.First(&stored, "id = ?", session.ID).Error)
	require.NotNil(t, stored.Discrepancy)
	assertMoney(t, "-50.00", *stored.Discrepancy)
	require.NotNil(t, stored.Notes)
	assert.Equal(t, "short by fifty", *stored.Notes)

	summary, err = h.register.Summary(ctx, h.Shop.ID, session.ID)
	require.NoError(t, err)
	assert.False(t, summary.IsOpen)
	assertMoney(t, "3500.00", summary.ExpectedCash)
}

func TestClosedSessionIsFinal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.AddProduct(t, "Bread", "50", "30", "10")
	session := h.open(t, "0")

	closeInput := &service.CloseRegisterInput{
		ShopID:      h.Shop.ID,
		SessionID:   session.ID,
		UserID:      h.Cashier.ID,
		ClosingCash: testutil.Dec("0"),
	}
	_, err := h.register.Close(ctx, closeInput)
	require.NoError(t, err)

	_, err = h.register.Close(ctx, closeInput)
	assert.ErrorIs(t, err, apperror.ErrNotOpen)

	_, err = h.sell("cash", line(p.ID, "1"))
	assert.ErrorIs(t, err, apperror.ErrNoOpenRegister)

	_, err = h.register.Current(ctx, h.Shop.ID)
	assert.ErrorIs(t, err, apperror.ErrNotOpen)

	// a new cycle can start once the previous one is closed
	next := h.open(t, "200")
	assert.NotEqual(t, session.ID, next.ID)
}

func TestCloseChecksOwnershipAndInput(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.open(t, "0")
	other, otherCashier := h.AddShop(t, "rival")

	_, err := h.register.Close(ctx, &service.CloseRegisterInput{
		ShopID:      other.ID,
		SessionID:   session.ID,
		UserID:      otherCashier.ID,
		ClosingCash: testutil.Dec("0"),
	})
	assert.ErrorIs(t, err, apperror.ErrNotOpen)

	_, err = h.register.Close(ctx, &service.CloseRegisterInput{
		ShopID:      h.Shop.ID,
		SessionID:   uuid.New(),
		UserID:      h.Cashier.ID,
		ClosingCash: testutil.Dec("0"),
	})
	assert.ErrorIs(t, err, apperror.ErrNotOpen)

	_, err = h.register.Close(ctx, &service.CloseRegisterInput{
		ShopID:      h.Shop.ID,
		SessionID:   session.ID,
		UserID:      h.Cashier.ID,
		ClosingCash: testutil.Dec("-5"),
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	current, err := h.register.Current(ctx, h.Shop.ID)
	require.NoError(t, err)
	assert.Nil(t, current.ClosingCash)
	assert.Nil(t, current.ExpectedCash)
	assert.Nil(t, current.Discrepancy)
}

func TestListSessionsAndSales(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.AddProduct(t, "Bread", "50", "30", "100")
	session := h.open(t, "0")

	for i := 0; i < 5; i++ {
		_, err := h.sell("cash", line(p.ID, "1"))
		require.NoError(t, err)
	}

	page, err := h.register.ListSales(ctx, h.Shop.ID, session.ID, &service.SaleFilter{Pagination: &pagination.PaginationParams{Page: 2, PerPage: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(5), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)

	_, err = h.register.ListSales(ctx, h.Shop.ID, uuid.New(), nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	sessions, err := h.register.ListSessions(ctx, h.Shop.ID, nil)
	require.NoError(t, err)
	require.Len(t, sessions.Items, 1)
	assert.Equal(t, session.ID, sessions.Items[0].ID)
}

func TestListSalesFilters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.AddProduct(t, "Bread", "50", "30", "100")
	session := h.open(t, "0")

	for _, method := range []string{"cash", "mpesa", "cash", "card"} {
		_, err := h.sell(method, line(p.ID, "1"))
		require.NoError(t, err)
	}

	page, err := h.register.ListSales(ctx, h.Shop.ID, session.ID, &service.SaleFilter{PaymentMethod: "CASH"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)
	for _, sale := range page.Items {
		assert.Equal(t, enum.PaymentMethodCash, sale.PaymentMethod)
	}

	hourAgo := time.Now().Add(-time.Hour)
	inHour := time.Now().Add(time.Hour)
	page, err = h.register.ListSales(ctx, h.Shop.ID, session.ID, &service.SaleFilter{From: &hourAgo, To: &inHour})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Pagination.Total)

	page, err = h.register.ListSales(ctx, h.Shop.ID, session.ID, &service.SaleFilter{PaymentMethod: "mpesa", From: &inHour})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Pagination.Total)
	assert.Empty(t, page.Items)

	_, err = h.register.ListSales(ctx, h.Shop.ID, session.ID, &service.SaleFilter{PaymentMethod: "cheque"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = h.register.ListSales(ctx, h.Shop.ID, session.ID, &service.SaleFilter{From: &inHour, To: &hourAgo})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "from", appErr.Errors[0].Field)
}
