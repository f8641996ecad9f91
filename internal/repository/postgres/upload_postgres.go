package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"donorapi/internal/model"
	"donorapi/internal/repository"
)

const uploadColumns = `id, file_name, file_type, file_size, total_rows, total_columns, uploaded_by,
		       managers, candidates, distribution_ids, policy, storage_path, created_at, updated_at`

// UploadFilePostgres is a PostgreSQL implementation of repository.UploadFileRepository.
// It uses parameterized queries and contains no business logic.
type UploadFilePostgres struct {
	db DBTX
}

// NewUploadFilePostgres creates a new UploadFilePostgres repository.
func NewUploadFilePostgres(db DBTX) *UploadFilePostgres {
	return &UploadFilePostgres{db: db}
}

var _ repository.UploadFileRepository = (*UploadFilePostgres)(nil)

// Create inserts a new manifest row and returns the stored record.
func (r *UploadFilePostgres) Create(ctx context.Context, u *model.UploadFile) (*model.UploadFile, error) {
	managers, err := stringList(u.Managers)
	if err != nil {
		return nil, err
	}
	candidates, err := stringList(u.Candidates)
	if err != nil {
		return nil, err
	}
	distributions, err := stringList(u.DistributionIDs)
	if err != nil {
		return nil, err
	}

	const q = `
		INSERT INTO upload_files (` + uploadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + uploadColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.FileName,
		string(u.FileType),
		u.FileSize,
		u.TotalRows,
		u.TotalColumns,
		u.UploadedBy,
		managers,
		candidates,
		distributions,
		u.Policy,
		nullString(u.StoragePath),
		u.CreatedAt,
		u.UpdatedAt,
	)
	out, err := scanUpload(row)
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// FindByID fetches a single manifest by its ID.
func (r *UploadFilePostgres) FindByID(ctx context.Context, id string) (*model.UploadFile, error) {
	const q = `
		SELECT ` + uploadColumns + `
		FROM upload_files
		WHERE id = $1
	`
	return scanUpload(r.db.QueryRowContext(ctx, q, id))
}

// List returns manifests using LIMIT/OFFSET pagination and a total count.
func (r *UploadFilePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.UploadFile], error) {
	// Count total rows
	const qCount = `SELECT COUNT(*) FROM upload_files`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `
		SELECT ` + uploadColumns + `
		FROM upload_files
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.UploadFile, 0)
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.UploadFile]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a manifest by ID. It does not return an error if the row does not exist.
func (r *UploadFilePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM upload_files WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func scanUpload(s rowScanner) (*model.UploadFile, error) {
	var u model.UploadFile
	var fileType string
	var managers, candidates, distributions []byte
	var storagePath sql.NullString
	if err := s.Scan(
		&u.ID,
		&u.FileName,
		&fileType,
		&u.FileSize,
		&u.TotalRows,
		&u.TotalColumns,
		&u.UploadedBy,
		&managers,
		&candidates,
		&distributions,
		&u.Policy,
		&storagePath,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.FileType = model.FileType(fileType)
	u.StoragePath = storagePath.String

	var err error
	if u.Managers, err = decodeStringList(managers); err != nil {
		return nil, fmt.Errorf("decode managers of upload %s: %w", u.ID, err)
	}
	if u.Candidates, err = decodeStringList(candidates); err != nil {
		return nil, fmt.Errorf("decode candidates of upload %s: %w", u.ID, err)
	}
	if u.DistributionIDs, err = decodeStringList(distributions); err != nil {
		return nil, fmt.Errorf("decode distribution ids of upload %s: %w", u.ID, err)
	}
	return &u, nil
}
