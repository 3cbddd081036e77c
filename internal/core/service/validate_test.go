package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Higirayn/Price/internal/core/domain"
)

func TestValidateBatch_Empty(t *testing.T) {
	err := ValidateBatch(nil)
	require.ErrorIs(t, err, ErrValidation)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, -1, vErr.Index)
	require.Equal(t, "validation failed: batch must not be empty", err.Error())
}

func TestValidateBatch_ReportsFirstInvalidIndex(t *testing.T) {
	updates := []domain.QuoteUpdate{
		{ProductID: 1, ManufacturerName: "A", Price: 10},
		{ProductID: 1, ManufacturerName: "B", Price: 0},
		{ProductID: 0, ManufacturerName: "C", Price: 10},
	}

	err := ValidateBatch(updates)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, 1, vErr.Index)
	require.Equal(t, "price", vErr.Field)
	require.Equal(t, "validation failed: update 1: price must be a positive number", err.Error())
}

func TestValidateBatch_Valid(t *testing.T) {
	require.NoError(t, ValidateBatch([]domain.QuoteUpdate{
		{ProductID: 1, ManufacturerName: "A", Price: 0.01},
		{ProductID: 2, ManufacturerName: " padded ", Price: 1e9},
	}))
}

func TestStorageError_Message(t *testing.T) {
	err := &StorageError{
		Update: domain.QuoteUpdate{ProductID: 4, ManufacturerName: "Acme", Price: 1},
		Err:    errors.New("timeout"),
	}
	require.Equal(t, `storage failure: product 4 manufacturer "Acme": timeout`, err.Error())
	require.False(t, errors.Is(err, ErrValidation))
}
