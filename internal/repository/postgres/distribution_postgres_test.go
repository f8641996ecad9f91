package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorapi/internal/model"
	"donorapi/internal/repository"
)

var distributionRowColumns = []string{"id", "upload_file_id", "position", "candidate_id", "distributed_by", "distributed_at", "created_at", "record_ids"}

func TestDistributionPostgres_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("entry with records", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		d := &model.Distribution{
			ID: "d1", UploadFileID: "u1", Position: 0, CandidateID: "c1",
			RecordIDs: []string{"r1", "r2"}, DistributedBy: "m1", Time: now, CreatedAt: now,
		}

		mock.ExpectExec("INSERT INTO distributions").
			WithArgs("d1", "u1", 0, "c1", "m1", now, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO distribution_records").
			WithArgs("d1", `["r1","r2"]`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err = NewDistributionPostgres(db).Create(ctx, d)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty entry writes no links", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO distributions").WillReturnResult(sqlmock.NewResult(0, 1))

		err = NewDistributionPostgres(db).Create(ctx, &model.Distribution{ID: "d2", CandidateID: "c4"})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("record already distributed", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO distributions").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO distribution_records").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "distribution_records_record_id_key"})

		err = NewDistributionPostgres(db).Create(ctx, &model.Distribution{ID: "d3", RecordIDs: []string{"r1"}})

		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDistributionPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDistributionPostgres(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("by upload file", func(t *testing.T) {
		rows := sqlmock.NewRows(distributionRowColumns).
			AddRow("d1", "u1", 0, "c1", "m1", now, now, []byte(`["r1","r2"]`)).
			AddRow("d2", "u1", 1, "c2", "m1", now, now, []byte(`[]`))
		mock.ExpectQuery("FROM distributions d\\s+WHERE d.upload_file_id = \\$1\\s+ORDER BY d.position").
			WithArgs("u1").
			WillReturnRows(rows)

		got, err := repo.ListByUploadFile(ctx, "u1")

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, []string{"r1", "r2"}, got[0].RecordIDs)
		assert.Equal(t, []string{}, got[1].RecordIDs)
		assert.Equal(t, 1, got[1].Position)
	})

	t.Run("by candidate", func(t *testing.T) {
		rows := sqlmock.NewRows(distributionRowColumns).
			AddRow("d1", "u1", 0, "c1", "m1", now, now, []byte(`["r1"]`))
		mock.ExpectQuery("WHERE d.candidate_id = \\$1").
			WithArgs("c1").
			WillReturnRows(rows)

		got, err := repo.ListByCandidate(ctx, "c1")

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "c1", got[0].CandidateID)
	})

	t.Run("bad record id payload", func(t *testing.T) {
		rows := sqlmock.NewRows(distributionRowColumns).
			AddRow("d9", "u1", 0, "c1", "m1", now, now, []byte(`{`))
		mock.ExpectQuery("WHERE d.candidate_id = \\$1").
			WithArgs("c9").
			WillReturnRows(rows)

		_, err := repo.ListByCandidate(ctx, "c9")

		assert.ErrorContains(t, err, "decode record ids of distribution d9")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistributionPostgres_DeleteByUploadFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM distributions WHERE upload_file_id = ?").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewDistributionPostgres(db).DeleteByUploadFile(context.Background(), "u1")

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
