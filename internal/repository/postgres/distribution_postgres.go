package postgres

import (
	"context"
	"fmt"

	"donorapi/internal/model"
	"donorapi/internal/repository"
)

// DistributionPostgres is a PostgreSQL implementation of repository.DistributionRepository.
// Record links live in distribution_records, one row per record with its position in the entry.
type DistributionPostgres struct {
	db DBTX
}

func NewDistributionPostgres(db DBTX) *DistributionPostgres {
	return &DistributionPostgres{db: db}
}

var _ repository.DistributionRepository = (*DistributionPostgres)(nil)

const distributionSelect = `
		SELECT d.id, d.upload_file_id, d.position, d.candidate_id, d.distributed_by, d.distributed_at, d.created_at,
		       COALESCE((
		           SELECT json_agg(dr.record_id ORDER BY dr.position)
		           FROM distribution_records dr
		           WHERE dr.distribution_id = d.id
		       ), '[]'::json)
		FROM distributions d
`

// Create inserts the entry row followed by its record links.
func (r *DistributionPostgres) Create(ctx context.Context, d *model.Distribution) error {
	const q = `
		INSERT INTO distributions (id, upload_file_id, position, candidate_id, distributed_by, distributed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, q,
		d.ID,
		d.UploadFileID,
		d.Position,
		d.CandidateID,
		d.DistributedBy,
		d.Time,
		d.CreatedAt,
	); err != nil {
		return classify(err)
	}

	if len(d.RecordIDs) == 0 {
		return nil
	}
	ids, err := stringList(d.RecordIDs)
	if err != nil {
		return err
	}
	const qLinks = `
		INSERT INTO distribution_records (distribution_id, record_id, position)
		SELECT $1, ids.id::uuid, ids.ord::int
		FROM jsonb_array_elements_text($2::jsonb) WITH ORDINALITY AS ids(id, ord)
	`
	if _, err := r.db.ExecContext(ctx, qLinks, d.ID, ids); err != nil {
		return fmt.Errorf("link records to distribution %s: %w", d.ID, classify(err))
	}
	return nil
}

func (r *DistributionPostgres) ListByUploadFile(ctx context.Context, uploadFileID string) ([]model.Distribution, error) {
	const q = distributionSelect + `
		WHERE d.upload_file_id = $1
		ORDER BY d.position
	`
	return r.list(ctx, q, uploadFileID)
}

func (r *DistributionPostgres) ListByCandidate(ctx context.Context, candidateID string) ([]model.Distribution, error) {
	const q = distributionSelect + `
		WHERE d.candidate_id = $1
		ORDER BY d.distributed_at DESC, d.position
	`
	return r.list(ctx, q, candidateID)
}

func (r *DistributionPostgres) list(ctx context.Context, q string, arg any) ([]model.Distribution, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Distribution, 0)
	for rows.Next() {
		var (
			d   model.Distribution
			ids []byte
		)
		if err := rows.Scan(
			&d.ID,
			&d.UploadFileID,
			&d.Position,
			&d.CandidateID,
			&d.DistributedBy,
			&d.Time,
			&d.CreatedAt,
			&ids,
		); err != nil {
			return nil, err
		}
		if d.RecordIDs, err = decodeStringList(ids); err != nil {
			return nil, fmt.Errorf("decode record ids of distribution %s: %w", d.ID, err)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteByUploadFile removes an upload's entries; record links go with them by cascade.
func (r *DistributionPostgres) DeleteByUploadFile(ctx context.Context, uploadFileID string) (int64, error) {
	const q = `DELETE FROM distributions WHERE upload_file_id = $1`
	res, err := r.db.ExecContext(ctx, q, uploadFileID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
