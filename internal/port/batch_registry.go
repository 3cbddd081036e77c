package port

import (
	"context"

	"github.com/Higirayn/Price/internal/core/domain"
)

//go:generate mockgen -package=service -destination=../core/service/mock_registry_test.go -source=batch_registry.go BatchRegistry

type BatchRegistry interface {
	// Claim reserves a batch ID, returns false if it was already claimed
	Claim(ctx context.Context, batchID string) (bool, error)

	// SaveResult stores the latest known state of a batch
	SaveResult(ctx context.Context, result domain.BatchResult) error

	// GetResult returns nil when the batch is unknown or expired
	GetResult(ctx context.Context, batchID string) (*domain.BatchResult, error)
}
