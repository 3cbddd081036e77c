package service

import (
	"errors"
	"fmt"

	"github.com/Higirayn/Price/internal/core/domain"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrStorage        = errors.New("storage failure")
	ErrDuplicateBatch = errors.New("duplicate batch")
	ErrClosed         = errors.New("dispatcher closed")
)

// ValidationError describes why an update or batch was rejected. Index is -1
// when the error applies to the whole batch.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	if e.Field == "" {
		return fmt.Sprintf("validation failed: update %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("validation failed: update %d: %s %s", e.Index, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StorageError wraps a failed transaction for a single update.
type StorageError struct {
	Update domain.QuoteUpdate
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: product %d manufacturer %q: %v",
		e.Update.ProductID, e.Update.ManufacturerName, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
