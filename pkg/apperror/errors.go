package apperror

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies an application error so callers can map it to a response.
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindNoOpenRegister    Kind = "no_open_register"
	KindProductNotFound   Kind = "product_not_found"
	KindInsufficientStock Kind = "insufficient_stock"
	KindAlreadyOpen       Kind = "already_open"
	KindNotOpen           Kind = "not_open"
	KindSessionMismatch   Kind = "session_mismatch"
	KindNotFound          Kind = "not_found"
	KindPersistence       Kind = "persistence"
)

// AppError represents an application error with a kind and optional details
type AppError struct {
	Kind    Kind                   `json:"kind"`
	Message string                 `json:"message"`
	Errors  []FieldError           `json:"errors,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError of the same kind, so the sentinels below work with errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Common errors
var (
	ErrInvalidInput      = &AppError{Kind: KindInvalidInput, Message: "Invalid input"}
	ErrNoOpenRegister    = &AppError{Kind: KindNoOpenRegister, Message: "No open register for this shop"}
	ErrProductNotFound   = &AppError{Kind: KindProductNotFound, Message: "Product not found"}
	ErrInsufficientStock = &AppError{Kind: KindInsufficientStock, Message: "Insufficient stock"}
	ErrAlreadyOpen       = &AppError{Kind: KindAlreadyOpen, Message: "Register is already open"}
	ErrNotOpen           = &AppError{Kind: KindNotOpen, Message: "Register is not open"}
	ErrSessionMismatch   = &AppError{Kind: KindSessionMismatch, Message: "Register session does not match the open session"}
	ErrNotFound          = &AppError{Kind: KindNotFound, Message: "Resource not found"}
	ErrPersistence       = &AppError{Kind: KindPersistence, Message: "Persistence failure"}
)

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Kind:    KindInvalidInput,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewInvalidInputError creates an invalid input error with a custom message
func NewInvalidInputError(message string) *AppError {
	return &AppError{
		Kind:    KindInvalidInput,
		Message: message,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewProductNotFoundError names the product that could not be resolved in the shop catalog
func NewProductNotFoundError(productID uuid.UUID) *AppError {
	return &AppError{
		Kind:    KindProductNotFound,
		Message: fmt.Sprintf("Product %s not found", productID),
		Details: map[string]interface{}{"product_id": productID.String()},
	}
}

// NewInsufficientStockError names the product and the quantities involved
func NewInsufficientStockError(productID uuid.UUID, name string, requested, available decimal.Decimal) *AppError {
	return &AppError{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for %s: requested %s, available %s", name, requested.String(), available.String()),
		Details: map[string]interface{}{
			"product_id": productID.String(),
			"product":    name,
			"requested":  requested.String(),
			"available":  available.String(),
		},
	}
}

// NewNoOpenRegisterError creates a no open register error for a shop
func NewNoOpenRegisterError(shopID uuid.UUID) *AppError {
	return &AppError{
		Kind:    KindNoOpenRegister,
		Message: ErrNoOpenRegister.Message,
		Details: map[string]interface{}{"shop_id": shopID.String()},
	}
}

// NewAlreadyOpenError creates an already open error naming the open session
func NewAlreadyOpenError(sessionID uuid.UUID) *AppError {
	return &AppError{
		Kind:    KindAlreadyOpen,
		Message: ErrAlreadyOpen.Message,
		Details: map[string]interface{}{"session_id": sessionID.String()},
	}
}

// NewNotOpenError creates a not open error for a session or shop
func NewNotOpenError(id uuid.UUID) *AppError {
	return &AppError{
		Kind:    KindNotOpen,
		Message: ErrNotOpen.Message,
		Details: map[string]interface{}{"id": id.String()},
	}
}

// NewSessionMismatchError reports the supplied and the actual open session
func NewSessionMismatchError(supplied, open uuid.UUID) *AppError {
	return &AppError{
		Kind:    KindSessionMismatch,
		Message: ErrSessionMismatch.Message,
		Details: map[string]interface{}{
			"supplied_session_id": supplied.String(),
			"open_session_id":     open.String(),
		},
	}
}

// NewPersistenceError wraps a storage failure
func NewPersistenceError(op string, err error) *AppError {
	return &AppError{
		Kind:    KindPersistence,
		Message: "failed to " + op,
		Err:     err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Kind:    KindPersistence,
		Message: err.Error(),
		Err:     err,
	}
}

// KindOf returns the kind of err, or an empty kind for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return GetAppError(err).Kind
}
