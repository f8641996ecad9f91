package repository

import (
	"context"

	"donorapi/internal/model"
)

// DistributionRepository persists ledger entries.
type DistributionRepository interface {
	// Create inserts a ledger entry and its ordered record links. An entry may carry no records.
	Create(ctx context.Context, d *model.Distribution) error

	// ListByUploadFile returns an upload's entries in recipient-processing order.
	ListByUploadFile(ctx context.Context, uploadFileID string) ([]model.Distribution, error)

	// ListByCandidate returns a candidate's entries, newest first.
	ListByCandidate(ctx context.Context, candidateID string) ([]model.Distribution, error)

	// DeleteByUploadFile removes an upload's entries and their record links.
	DeleteByUploadFile(ctx context.Context, uploadFileID string) (int64, error)
}
