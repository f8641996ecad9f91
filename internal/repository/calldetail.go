package repository

import (
	"context"

	"donorapi/internal/model"
)

type CallDetailRepository interface {
	Create(ctx context.Context, cd *model.CallDetail) (*model.CallDetail, error)

	// ListByRecord returns a record's call details, oldest first.
	ListByRecord(ctx context.Context, recordID string) ([]model.CallDetail, error)
}
