package repository

import (
	"context"

	"donorapi/internal/model"
)

// UploadFileRepository persists upload manifests using SQL queries only.
type UploadFileRepository interface {
	// Create inserts a manifest and returns it with the timestamps set by the database.
	Create(ctx context.Context, u *model.UploadFile) (*model.UploadFile, error)

	// FindByID returns a manifest by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.UploadFile, error)

	// List returns manifests newest first with the total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.UploadFile], error)

	// Delete removes a manifest by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
