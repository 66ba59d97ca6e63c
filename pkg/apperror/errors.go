package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"simple-atm/internal/core/domain"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Value      *int64 `json:"value,omitempty"` // Offending bill value for ATM_001
	Err        error  `json:"-"`               // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Inventory transactions (ATM) ----

func ErrInvalidDenomination(value int64) *AppError {
	e := Wrap("ATM_001", domain.InvalidDenomination(value).Error(), http.StatusBadRequest, domain.InvalidDenomination(value))
	e.Value = &value
	return e
}

// ErrMalformedDenomination is ATM_001 for a bill value that is not an
// integer at all. raw is the literal as sent, or empty when unknown.
func ErrMalformedDenomination(raw string) *AppError {
	msg := "Invalid bill denomination"
	if raw != "" {
		msg += ": " + raw
	}
	return Wrap("ATM_001", msg, http.StatusBadRequest, domain.ErrInvalidDenomination)
}

func ErrInvalidQuantity() *AppError {
	return Wrap("ATM_002", domain.ErrInvalidQuantity.Error(), http.StatusBadRequest, domain.ErrInvalidQuantity)
}

func ErrOverdraw() *AppError {
	return Wrap("ATM_003", domain.ErrOverdraw.Error(), http.StatusPaymentRequired, domain.ErrOverdraw)
}

// Validation returns an ATM_002-style error for malformed request bodies.
func Validation(message string) *AppError {
	return New("ATM_002", message, http.StatusBadRequest)
}

// FromDomain maps an inventory error to its AppError. Errors that are not
// inventory errors become SYS_001.
func FromDomain(err error) *AppError {
	var de *domain.Error
	if !errors.As(err, &de) {
		return InternalError(err)
	}
	switch de.Kind {
	case domain.KindInvalidDenomination:
		return ErrInvalidDenomination(de.Value)
	case domain.KindInvalidQuantity:
		return ErrInvalidQuantity()
	case domain.KindOverdraw:
		return ErrOverdraw()
	default:
		return InternalError(err)
	}
}

// ---- Idempotency (IDEM) ----

func ErrIdempotencyMismatch() *AppError {
	return New("IDEM_001", "Idempotency key was already used with a different request", http.StatusUnprocessableEntity)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrPayloadTooLarge() *AppError {
	return New("SYS_003", "Request body too large", http.StatusRequestEntityTooLarge)
}

func ErrJournalDisabled() *AppError {
	return New("SYS_002", "Transaction journal is not enabled", http.StatusServiceUnavailable)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
