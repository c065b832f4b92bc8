package messbill

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("messbill: not found")
	ErrAlreadyExists = errors.New("messbill: already exists")
	ErrInvalidInput  = errors.New("messbill: invalid input")
	ErrForbidden     = errors.New("messbill: forbidden")

	// Boarder errors
	ErrBoarderNotFound = errors.New("messbill: boarder not found")
	ErrBoarderDeleted  = errors.New("messbill: boarder is deleted")
	ErrBoarderInactive = errors.New("messbill: boarder is not active")

	// Meal errors
	ErrMealNotFound      = errors.New("messbill: meal entry not found")
	ErrNegativeMealCount = errors.New("messbill: negative meal count")

	// Expense errors
	ErrExpenseNotFound = errors.New("messbill: expense not found")
	ErrExpenseDeleted  = errors.New("messbill: expense is deleted")
	ErrInvalidCategory = errors.New("messbill: invalid expense category")
	ErrNegativeAmount  = errors.New("messbill: negative amount")

	// Payment errors
	ErrPaymentNotFound = errors.New("messbill: payment not found")
	ErrInvalidMethod   = errors.New("messbill: invalid payment method")

	// Closing errors
	ErrMonthLocked     = errors.New("messbill: month is locked")
	ErrAlreadyLocked   = errors.New("messbill: month is already locked")
	ErrClosingNotFound = errors.New("messbill: no closing record for month")
	ErrInvalidPeriod   = errors.New("messbill: invalid billing period")

	// Store errors
	ErrStoreNotReady     = errors.New("messbill: store not ready")
	ErrStoreClosed       = errors.New("messbill: store is closed")
	ErrTransactionFailed = errors.New("messbill: transaction failed")
	ErrMigrationFailed   = errors.New("messbill: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("messbill: validation failed for %s: %s", e.Field, e.Message)
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "messbill: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("messbill: %d errors occurred", len(e.Errors))
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBoarderNotFound) ||
		errors.Is(err, ErrMealNotFound) ||
		errors.Is(err, ErrExpenseNotFound) ||
		errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrClosingNotFound)
}

// IsLocked returns true if the error is a month-lock rejection.
func IsLocked(err error) bool {
	return errors.Is(err, ErrMonthLocked) ||
		errors.Is(err, ErrAlreadyLocked)
}

// IsConflict returns true if the error indicates a state conflict the
// caller can resolve (already exists, already locked).
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrAlreadyLocked)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed)
}
