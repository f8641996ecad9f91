package repository

import (
	"context"

	"donorapi/internal/model"
)

// DataRecordRepository persists contact records extracted from uploads.
type DataRecordRepository interface {
	// CreateMany inserts records in slice order. IDs, UploadFileID, Seq and CreatedAt are
	// supplied by the caller.
	CreateMany(ctx context.Context, records []model.DataRecord) error

	// FindByID returns a record by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.DataRecord, error)

	// ListByIDs returns the records with the given IDs in the order of ids. Unknown IDs are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]model.DataRecord, error)

	// DeleteByUploadFile removes every record created by an upload and returns how many were removed.
	DeleteByUploadFile(ctx context.Context, uploadFileID string) (int64, error)
}
