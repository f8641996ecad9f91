package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the first step; its presence means the schema is in place.
const sentinelTable = "public.upload_files"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_upload_files",
		SQL: `CREATE TABLE IF NOT EXISTS upload_files (
  id               UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  file_name        TEXT        NOT NULL,
  file_type        TEXT        NOT NULL CHECK (file_type IN ('.xlsx', '.xls', '.csv')),
  file_size        BIGINT      NOT NULL CHECK (file_size >= 0),
  total_rows       INTEGER     NOT NULL CHECK (total_rows >= 0),
  total_columns    INTEGER     NOT NULL CHECK (total_columns >= 0),
  uploaded_by      TEXT        NOT NULL,
  managers         JSONB       NOT NULL DEFAULT '[]'::jsonb,
  candidates       JSONB       NOT NULL DEFAULT '[]'::jsonb,
  distribution_ids JSONB       NOT NULL DEFAULT '[]'::jsonb,
  policy           TEXT        NOT NULL,
  storage_path     TEXT        UNIQUE,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_data_records",
		// additional_fields is json, not jsonb, so column order survives the round trip.
		SQL: `CREATE TABLE IF NOT EXISTS data_records (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  upload_file_id    UUID        NOT NULL REFERENCES upload_files (id) ON DELETE CASCADE DEFERRABLE INITIALLY DEFERRED,
  seq               INTEGER     NOT NULL CHECK (seq >= 0),
  full_name         TEXT,
  email             TEXT,
  phone             TEXT,
  additional_fields JSON        NOT NULL DEFAULT '{}'::json,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (upload_file_id, seq),
  CHECK (full_name IS NOT NULL OR email IS NOT NULL OR phone IS NOT NULL)
);`,
	},
	{
		Name: "create_table_distributions",
		SQL: `CREATE TABLE IF NOT EXISTS distributions (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  upload_file_id UUID        NOT NULL REFERENCES upload_files (id) ON DELETE CASCADE DEFERRABLE INITIALLY DEFERRED,
  position       INTEGER     NOT NULL CHECK (position >= 0),
  candidate_id   TEXT        NOT NULL,
  distributed_by TEXT        NOT NULL,
  distributed_at TIMESTAMPTZ NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (upload_file_id, position)
);`,
	},
	{
		Name: "create_table_distribution_records",
		SQL: `CREATE TABLE IF NOT EXISTS distribution_records (
  distribution_id UUID    NOT NULL REFERENCES distributions (id) ON DELETE CASCADE,
  record_id       UUID    NOT NULL UNIQUE REFERENCES data_records (id) ON DELETE CASCADE,
  position        INTEGER NOT NULL,
  PRIMARY KEY (distribution_id, position)
);`,
	},
	{
		Name: "create_table_call_details",
		SQL: `CREATE TABLE IF NOT EXISTS call_details (
  id                    UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  record_id             UUID        NOT NULL REFERENCES data_records (id) ON DELETE CASCADE,
  candidate_id          TEXT        NOT NULL,
  status                TEXT        NOT NULL CHECK (status IN ('connected', 'not-connected')),
  reason                TEXT        NOT NULL DEFAULT '',
  customer_interested   BOOLEAN     NOT NULL DEFAULT false,
  is_scheduled          BOOLEAN     NOT NULL DEFAULT false,
  follow_up_date        TEXT        NOT NULL DEFAULT '',
  donation_amount       TEXT        NOT NULL DEFAULT '',
  call_outcome          TEXT        NOT NULL DEFAULT '',
  remarks               TEXT        NOT NULL DEFAULT '',
  do_not_disturb        BOOLEAN     NOT NULL DEFAULT false,
  valuable_customer     BOOLEAN     NOT NULL DEFAULT false,
  appointment_scheduled BOOLEAN     NOT NULL DEFAULT false,
  call_time             TEXT        NOT NULL,
  created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_upload_files_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_upload_files_created_at ON upload_files (created_at);`,
	},
	{
		Name: "create_index_distributions_candidate_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_distributions_candidate_id ON distributions (candidate_id, distributed_at);`,
	},
	{
		Name: "create_index_call_details_record_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_call_details_record_id ON call_details (record_id, created_at);`,
	},
}

// EnsureMigrated checks if the upload_files table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.Info("db_migration_check", "status", "starting")

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists)
	if err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			"status", "success",
			"detail", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_start", "status", "in_progress", "steps", len(steps))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
