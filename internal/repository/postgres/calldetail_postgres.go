package postgres

import (
	"context"

	"donorapi/internal/model"
	"donorapi/internal/repository"
)

const callDetailColumns = `id, record_id, candidate_id, status, reason, customer_interested, is_scheduled,
		       follow_up_date, donation_amount, call_outcome, remarks, do_not_disturb, valuable_customer,
		       appointment_scheduled, call_time, created_at, updated_at`

// CallDetailPostgres is a PostgreSQL implementation of repository.CallDetailRepository.
type CallDetailPostgres struct {
	db DBTX
}

func NewCallDetailPostgres(db DBTX) *CallDetailPostgres {
	return &CallDetailPostgres{db: db}
}

var _ repository.CallDetailRepository = (*CallDetailPostgres)(nil)

func (r *CallDetailPostgres) Create(ctx context.Context, cd *model.CallDetail) (*model.CallDetail, error) {
	const q = `
		INSERT INTO call_details (` + callDetailColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + callDetailColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		cd.ID,
		cd.RecordID,
		cd.CandidateID,
		string(cd.Status),
		cd.Reason,
		cd.CustomerInterested,
		cd.IsScheduled,
		cd.FollowUpDate,
		cd.DonationAmount,
		cd.CallOutcome,
		cd.Remarks,
		cd.DoNotDisturb,
		cd.ValuableCustomer,
		cd.AppointmentScheduled,
		cd.CallTime,
		cd.CreatedAt,
		cd.UpdatedAt,
	)
	out, err := scanCallDetail(row)
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (r *CallDetailPostgres) ListByRecord(ctx context.Context, recordID string) ([]model.CallDetail, error) {
	const q = `
		SELECT ` + callDetailColumns + `
		FROM call_details
		WHERE record_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CallDetail, 0)
	for rows.Next() {
		cd, err := scanCallDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *cd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanCallDetail(s rowScanner) (*model.CallDetail, error) {
	var cd model.CallDetail
	var status string
	if err := s.Scan(
		&cd.ID,
		&cd.RecordID,
		&cd.CandidateID,
		&status,
		&cd.Reason,
		&cd.CustomerInterested,
		&cd.IsScheduled,
		&cd.FollowUpDate,
		&cd.DonationAmount,
		&cd.CallOutcome,
		&cd.Remarks,
		&cd.DoNotDisturb,
		&cd.ValuableCustomer,
		&cd.AppointmentScheduled,
		&cd.CallTime,
		&cd.CreatedAt,
		&cd.UpdatedAt,
	); err != nil {
		return nil, err
	}
	cd.Status = model.CallStatus(status)
	return &cd, nil
}
