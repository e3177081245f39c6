package domain

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors below wrap one of these so callers can branch with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStorage           = errors.New("storage failure")
)

var (
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)

	ErrOrderNotOwned      = fmt.Errorf("%w: order does not belong to user", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidQuantity    = fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
	ErrAlreadyCancelled   = fmt.Errorf("%w: order already cancelled", ErrConflict)
	ErrProductExists      = fmt.Errorf("%w: product already exists in this category/subcategory", ErrConflict)
	ErrProductInUse       = fmt.Errorf("%w: product is referenced by orders", ErrConflict)
	ErrUserExists         = fmt.Errorf("%w: user id already registered", ErrConflict)
)

type InsufficientStockError struct {
	ProductID uint64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d items in stock for product %d (requested %d)", e.Available, e.ProductID, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StorageError is a failure of the underlying store. The transaction it happened in has
// been rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// IsBusinessError reports whether err belongs to the validation/business taxonomy rather
// than the store.
func IsBusinessError(err error) bool {
	for _, category := range []error{ErrNotFound, ErrUnauthorized, ErrInvalidInput, ErrConflict, ErrInsufficientStock} {
		if errors.Is(err, category) {
			return true
		}
	}
	return false
}

// Storage wraps err as a StorageError unless it is already a business or storage error.
func Storage(op string, err error) error {
	if err == nil || IsBusinessError(err) || errors.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
