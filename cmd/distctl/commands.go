package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"donorapi/internal/config"
	"donorapi/internal/database"
	"donorapi/internal/database/migration"
	"donorapi/internal/logging"
	"donorapi/internal/repository"
	"donorapi/internal/repository/postgres"
	"donorapi/internal/service"
	"donorapi/internal/storage"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "distctl",
		Short:         "Operate the donor distribution pipeline from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newIngestCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			db, err := database.NewPostgres(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer db.Close()
			return migration.EnsureMigrated(cmd.Context(), db, log, cfg.Database.Host)
		},
	}
}

type ingestOptions struct {
	file        string
	distributor string
	candidates  []string
	policy      string
	apply       bool
}

func newIngestCmd() *cobra.Command {
	var opts ingestOptions

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Distribute the rows of a CSV file across candidates",
		Long: "Parses and validates the file and reports how its rows would be split. " +
			"With --apply the records, ledger entries and manifest are written to the database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "CSV file to distribute (required)")
	cmd.Flags().StringVar(&opts.distributor, "distributor", "", "Distributor ID recorded on the run (required)")
	cmd.Flags().StringSliceVar(&opts.candidates, "candidates", nil, "Comma-separated candidate IDs in distribution order (required)")
	cmd.Flags().StringVar(&opts.policy, "policy", "random", "Distribution policy: equal or random")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Write to the database (default is dry-run)")

	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("distributor")
	_ = cmd.MarkFlagRequired("candidates")

	return cmd
}

func runIngest(ctx context.Context, stdout, stderr io.Writer, opts ingestOptions) error {
	content, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("read --file: %w", err)
	}

	req := service.IngestRequest{
		FileName:      filepath.Base(opts.file),
		ContentType:   mime.TypeByExtension(filepath.Ext(opts.file)),
		Size:          int64(len(content)),
		Content:       content,
		DistributorID: opts.distributor,
		CandidateIDs:  opts.candidates,
		Policy:        opts.policy,
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	if !opts.apply {
		svc := service.NewDistributionService(nil, nil, repository.Repositories{})
		plan, err := svc.Plan(ctx, req)
		if err != nil {
			return err
		}
		return enc.Encode(plan)
	}

	cfg, log, err := loadConfig(stderr)
	if err != nil {
		return err
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	var store storage.Storage
	if cfg.MinIO.Enabled() && cfg.Ingest.ArchiveUploads {
		if store, err = storage.NewMinIO(cfg.MinIO); err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
	}

	svc := service.NewDistributionService(store, postgres.NewTxManager(db), postgres.NewRepositories(db),
		service.WithLogger(log),
		service.WithTimeout(cfg.Ingest.Timeout),
	)
	res, err := svc.Ingest(ctx, req)
	if err != nil {
		return err
	}
	return enc.Encode(res)
}

func loadConfig(logOut io.Writer) (*config.AppConfig, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(logOut, cfg.LogLevel, cfg.Location()), nil
}
