package apperror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelMatchingByKind(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	err := apperror.NewInsufficientStockError(id, "Soda", decimal.NewFromInt(5), decimal.NewFromInt(2))

	assert.True(t, errors.Is(err, apperror.ErrInsufficientStock))
	assert.False(t, errors.Is(err, apperror.ErrProductNotFound))
	assert.Equal(t, id.String(), err.Details["product_id"])
	assert.Equal(t, "5", err.Details["requested"])
	assert.Equal(t, "2", err.Details["available"])
	assert.Contains(t, err.Error(), "Soda")
}

func TestWrappedErrorsKeepKind(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("checkout: %w", apperror.NewNoOpenRegisterError(uuid.New()))
	assert.True(t, errors.Is(wrapped, apperror.ErrNoOpenRegister))
	assert.Equal(t, apperror.KindNoOpenRegister, apperror.KindOf(wrapped))
}

func TestPersistenceErrorUnwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := apperror.NewPersistenceError("insert sale", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, apperror.ErrPersistence)
	assert.Equal(t, "failed to insert sale: connection reset", err.Error())
}

func TestGetAppErrorForPlainError(t *testing.T) {
	t.Parallel()

	appErr := apperror.GetAppError(errors.New("boom"))
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.KindPersistence, appErr.Kind)
	assert.False(t, apperror.IsAppError(errors.New("boom")))
	assert.Equal(t, apperror.Kind(""), apperror.KindOf(nil))
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := apperror.NewValidationError([]apperror.FieldError{{Field: "items", Message: "cart is empty"}})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	require.Len(t, err.Errors, 1)
	assert.Equal(t, "items", err.Errors[0].Field)
}
