package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied = new(ErrCodePermissionDenied, "permission denied")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	// Billing domain errors
	ErrPlanNotFound             = new(ErrCodePlanNotFound, "plan not found")
	ErrInvalidTransition        = new(ErrCodeInvalidTransition, "illegal subscription state transition")
	ErrInvalidPlanConfiguration = new(ErrCodeInvalidPlanConfiguration, "invalid plan configuration")
	ErrInvalidAmount            = new(ErrCodeInvalidAmount, "amount must be greater than zero")
	ErrWalletFrozen             = new(ErrCodeWalletFrozen, "wallet is frozen")
	ErrWalletClosed             = new(ErrCodeWalletClosed, "wallet is closed")
	ErrInsufficientBalance      = new(ErrCodeInsufficientBalance, "insufficient wallet balance")
	ErrDuplicateTransaction     = new(ErrCodeDuplicateTransaction, "duplicate transaction reference")
	ErrConcurrentModification   = new(ErrCodeConcurrentModification, "concurrent modification detected")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrNotFound:                 http.StatusNotFound,
		ErrAlreadyExists:            http.StatusConflict,
		ErrValidation:               http.StatusBadRequest,
		ErrInvalidOperation:         http.StatusBadRequest,
		ErrPermissionDenied:         http.StatusForbidden,
		ErrDatabase:                 http.StatusInternalServerError,
		ErrSystem:                   http.StatusInternalServerError,
		ErrPlanNotFound:             http.StatusNotFound,
		ErrInvalidTransition:        http.StatusConflict,
		ErrInvalidPlanConfiguration: http.StatusUnprocessableEntity,
		ErrInvalidAmount:            http.StatusBadRequest,
		ErrWalletFrozen:             http.StatusConflict,
		ErrWalletClosed:             http.StatusConflict,
		ErrInsufficientBalance:      http.StatusConflict,
		ErrDuplicateTransaction:     http.StatusConflict,
		ErrConcurrentModification:   http.StatusConflict,
	}
)

const (
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeDatabase         = "database_error"

	ErrCodePlanNotFound             = "plan_not_found"
	ErrCodeInvalidTransition        = "invalid_transition"
	ErrCodeInvalidPlanConfiguration = "invalid_plan_configuration"
	ErrCodeInvalidAmount            = "invalid_amount"
	ErrCodeWalletFrozen             = "wallet_frozen"
	ErrCodeWalletClosed             = "wallet_closed"
	ErrCodeInsufficientBalance      = "insufficient_balance"
	ErrCodeDuplicateTransaction     = "duplicate_transaction"
	ErrCodeConcurrentModification   = "concurrent_modification"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// new creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrPlanNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsInvalidTransition checks if an error is an illegal state transition error
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsConcurrentModification checks if an error is a lost optimistic-lock race.
// This is the only error kind a caller may safely retry automatically.
func IsConcurrentModification(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsDuplicateTransaction checks if an error is a reference collision
func IsDuplicateTransaction(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction)
}

// IsInsufficientBalance checks if an error is an insufficient balance error
func IsInsufficientBalance(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsInvalidAmount checks if an error is a non-positive amount error
func IsInvalidAmount(err error) bool {
	return errors.Is(err, ErrInvalidAmount)
}

// IsWalletFrozen checks if an error is a frozen wallet error
func IsWalletFrozen(err error) bool {
	return errors.Is(err, ErrWalletFrozen)
}

// IsWalletClosed checks if an error is a closed wallet error
func IsWalletClosed(err error) bool {
	return errors.Is(err, ErrWalletClosed)
}

// IsInvalidPlanConfiguration checks if an error is a plan configuration error
func IsInvalidPlanConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidPlanConfiguration)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
