package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"donorapi/internal/model"
	"donorapi/internal/repository"
)

// recordBatchSize bounds the rows per multi-row INSERT.
const recordBatchSize = 500

const recordColumns = `id, upload_file_id, seq, full_name, email, phone, additional_fields, created_at`

// DataRecordPostgres is a PostgreSQL implementation of repository.DataRecordRepository.
type DataRecordPostgres struct {
	db DBTX
}

func NewDataRecordPostgres(db DBTX) *DataRecordPostgres {
	return &DataRecordPostgres{db: db}
}

var _ repository.DataRecordRepository = (*DataRecordPostgres)(nil)

// CreateMany inserts records with one multi-row INSERT per batch.
func (r *DataRecordPostgres) CreateMany(ctx context.Context, records []model.DataRecord) error {
	for start := 0; start < len(records); start += recordBatchSize {
		end := min(start+recordBatchSize, len(records))
		if err := r.insertBatch(ctx, records[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *DataRecordPostgres) insertBatch(ctx context.Context, batch []model.DataRecord) error {
	const perRow = 8
	var sb strings.Builder
	sb.WriteString(`INSERT INTO data_records (` + recordColumns + `) VALUES `)
	args := make([]any, 0, len(batch)*perRow)
	for i, rec := range batch {
		fields, err := json.Marshal(rec.AdditionalFields)
		if err != nil {
			return fmt.Errorf("encode additional fields of record %d: %w", rec.Seq, err)
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * perRow
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7, n+8)
		args = append(args,
			rec.ID,
			rec.UploadFileID,
			rec.Seq,
			nullString(rec.FullName),
			nullString(rec.Email),
			nullString(rec.Phone),
			string(fields),
			rec.CreatedAt,
		)
	}
	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return classify(err)
	}
	return nil
}

// FindByID fetches a single record by its ID.
func (r *DataRecordPostgres) FindByID(ctx context.Context, id string) (*model.DataRecord, error) {
	const q = `
		SELECT ` + recordColumns + `
		FROM data_records
		WHERE id = $1
	`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByIDs loads records in the order of ids.
func (r *DataRecordPostgres) ListByIDs(ctx context.Context, ids []string) ([]model.DataRecord, error) {
	items := make([]model.DataRecord, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	arg, err := stringList(ids)
	if err != nil {
		return nil, err
	}

	const q = `
		SELECT r.id, r.upload_file_id, r.seq, r.full_name, r.email, r.phone, r.additional_fields, r.created_at
		FROM jsonb_array_elements_text($1::jsonb) WITH ORDINALITY AS ids(id, ord)
		JOIN data_records r ON r.id = ids.id::uuid
		ORDER BY ids.ord
	`
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *DataRecordPostgres) DeleteByUploadFile(ctx context.Context, uploadFileID string) (int64, error) {
	const q = `DELETE FROM data_records WHERE upload_file_id = $1`
	res, err := r.db.ExecContext(ctx, q, uploadFileID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanRecord(s rowScanner) (*model.DataRecord, error) {
	var rec model.DataRecord
	var fullName, email, phone sql.NullString
	var fields []byte
	if err := s.Scan(
		&rec.ID,
		&rec.UploadFileID,
		&rec.Seq,
		&fullName,
		&email,
		&phone,
		&fields,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	rec.FullName = fullName.String
	rec.Email = email.String
	rec.Phone = phone.String
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &rec.AdditionalFields); err != nil {
			return nil, fmt.Errorf("decode additional fields of record %s: %w", rec.ID, err)
		}
	}
	return &rec, nil
}
