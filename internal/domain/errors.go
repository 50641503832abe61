package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced account, category, or transaction
	// was absent at compute time.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAmount indicates a non-positive amount was supplied where a
	// positive magnitude is required.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrSameAccountTransfer indicates a transfer between an account and itself.
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")
)

// InsufficientFundsError is returned by the ledger engine when an operation
// would drive an account balance below zero. It is raised before any write
// is attempted.
type InsufficientFundsError struct {
	AccountName string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance in %s account", e.AccountName)
}

// ValidationError reports invalid user input. No write is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
