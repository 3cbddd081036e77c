package service

import (
	"math"
	"strings"

	"github.com/Higirayn/Price/internal/core/domain"
)

// ValidateUpdate checks the preconditions of a single update. index is copied
// into the returned error so batch callers can point at the offending element.
func ValidateUpdate(index int, u domain.QuoteUpdate) error {
	if u.ProductID <= 0 {
		return &ValidationError{Index: index, Field: "product_id", Reason: "is required"}
	}
	if strings.TrimSpace(u.ManufacturerName) == "" {
		return &ValidationError{Index: index, Field: "manufacturer_name", Reason: "must not be blank"}
	}
	if math.IsNaN(u.Price) || math.IsInf(u.Price, 0) || u.Price <= 0 {
		return &ValidationError{Index: index, Field: "price", Reason: "must be a positive number"}
	}
	return nil
}

// ValidateBatch rejects an empty batch or the first invalid element.
func ValidateBatch(updates []domain.QuoteUpdate) error {
	if len(updates) == 0 {
		return &ValidationError{Index: -1, Reason: "batch must not be empty"}
	}
	for i, u := range updates {
		if err := ValidateUpdate(i, u); err != nil {
			return err
		}
	}
	return nil
}
