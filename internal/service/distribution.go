package service

import (
	"bytes"
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"donorapi/internal/ingest"
	"donorapi/internal/metrics"
	"donorapi/internal/model"
	"donorapi/internal/repository"
	"donorapi/internal/storage"
)

// IngestRequest is the input of one distribution run.
type IngestRequest = ingest.Request

// IngestResult summarizes a successful distribution run.
type IngestResult struct {
	UploadFileID  string `json:"upload_file_id"`
	TotalData     int    `json:"total_data"`
	DistributedTo int    `json:"distributed_to"`
}

// PlannedGroup is the number of records one candidate would receive.
type PlannedGroup struct {
	CandidateID string `json:"candidate_id"`
	Records     int    `json:"records"`
}

// PlanResult describes what Ingest would write for the same request.
type PlanResult struct {
	FileName     string            `json:"file_name"`
	TotalRows    int               `json:"total_rows"`
	TotalColumns int               `json:"total_columns"`
	HeaderMap    map[string]string `json:"header_map"`
	Policy       string            `json:"policy"`
	Groups       []PlannedGroup    `json:"groups"`
}

// UploadListResult is the service-level DTO for paginated upload manifests.
type UploadListResult struct {
	Items []model.UploadFile `json:"data"`
	Total int                `json:"total"`
}

// DistributionService defines the use cases of the distribution pipeline.
type DistributionService interface {
	// Ingest parses and validates an uploaded CSV, persists its rows as data records, splits them
	// across the candidates and records the ledger entries and the upload manifest. All database
	// writes share one transaction; the archived raw file is removed again if it fails.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)

	// Plan runs every validation stage and the partitioner without writing anything.
	Plan(ctx context.Context, req IngestRequest) (*PlanResult, error)

	// ListUploads returns manifests newest first using limit/offset and a total count.
	ListUploads(ctx context.Context, limit, offset int) (*UploadListResult, error)

	// GetUpload returns a manifest with its ledger entries and their records.
	GetUpload(ctx context.Context, id string) (*model.UploadDetail, error)

	// DeleteUpload removes a manifest together with its ledger entries, data records and archive.
	DeleteUpload(ctx context.Context, id string) error

	// ListCandidateAssignments returns every ledger entry of a candidate with its records.
	ListCandidateAssignments(ctx context.Context, candidateID string) ([]model.Assignment, error)
}

// distributionService is a concrete implementation of DistributionService.
type distributionService struct {
	store   storage.Storage
	tx      repository.Transactor
	repos   repository.Repositories
	aliases ingest.AliasTable
	log     *slog.Logger
	metrics *metrics.IngestMetrics
	now     func() time.Time
	rng     ingest.Shuffler
	timeout time.Duration
	newID   func() string
}

// NewDistributionService constructs a DistributionService. store may be nil, in which case raw
// uploads are not archived. repos serves reads outside of transactions.
func NewDistributionService(store storage.Storage, tx repository.Transactor, repos repository.Repositories, opts ...Option) DistributionService {
	s := defaultService()
	s.store = store
	s.tx = tx
	s.repos = repos
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *distributionService) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	began := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	policy := string(ingest.ParsePolicy(req.Policy))
	ctx, span := tracer.Start(ctx, "DistributionService.Ingest", trace.WithAttributes(
		attribute.String("ingest.file_name", req.FileName),
		attribute.String("ingest.policy", policy),
		attribute.Int("ingest.candidates", len(req.CandidateIDs)),
	))
	defer span.End()

	s.stage(ctx, "received", "file_name", req.FileName, "size", uploadSize(req))
	batch, err := ingest.Prepare(s.aliases, req)
	if err != nil {
		kind := ingest.KindOf(err)
		s.log.WarnContext(ctx, "ingest_rejected",
			"kind", string(kind),
			"error_message", err.Error(),
			"file_name", req.FileName,
			"distributor_id", req.DistributorID,
		)
		s.metrics.ObserveRejected(policy, string(kind), time.Since(began))
		span.SetStatus(codes.Error, string(kind))
		return nil, err
	}

	s.stage(ctx, "parsed", "rows", len(batch.Table.Rows), "columns", batch.TotalColumns())
	s.stage(ctx, "normalized", "header_map", batch.HeaderMap)
	s.stage(ctx, "validated", "valid_rows", len(batch.Rows))

	uploadID := s.newID()
	now := s.now().UTC()
	records := batch.Records()
	for i := range records {
		records[i].ID = s.newID()
		records[i].UploadFileID = uploadID
		records[i].CreatedAt = now
	}
	slices.SortStableFunc(records, func(a, b model.DataRecord) int { return cmp.Compare(a.Seq, b.Seq) })
	span.SetAttributes(
		attribute.String("ingest.upload_file_id", uploadID),
		attribute.Int("ingest.records", len(records)),
	)

	archiveKey, err := s.archive(ctx, uploadID, req)
	if err != nil {
		return nil, s.failIngest(ctx, span, policy, began, uploadID, "", len(records), err)
	}

	var (
		groups []ingest.Group
		upload *model.UploadFile
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Records.CreateMany(ctx, records); err != nil {
			return fmt.Errorf("insert data records: %w", err)
		}
		s.stage(ctx, "records_persisted", "upload_file_id", uploadID, "records", len(records))

		ids := make([]string, len(records))
		for i, r := range records {
			ids[i] = r.ID
		}
		var err error
		groups, err = ingest.Partition(ids, req.CandidateIDs, batch.Policy, s.rng)
		if err != nil {
			return err
		}
		s.stage(ctx, "partitioned", "upload_file_id", uploadID, "policy", string(batch.Policy), "groups", len(groups))

		distIDs := make([]string, 0, len(groups))
		for i, g := range groups {
			d := &model.Distribution{
				ID:            s.newID(),
				UploadFileID:  uploadID,
				Position:      i,
				CandidateID:   g.RecipientID,
				RecordIDs:     g.IDs,
				DistributedBy: req.DistributorID,
				Time:          now,
				CreatedAt:     now,
			}
			if err := repos.Distributions.Create(ctx, d); err != nil {
				return fmt.Errorf("insert distribution for candidate %s: %w", g.RecipientID, err)
			}
			distIDs = append(distIDs, d.ID)
		}
		s.stage(ctx, "ledger_persisted", "upload_file_id", uploadID, "distributions", len(distIDs))

		upload, err = repos.Uploads.Create(ctx, &model.UploadFile{
			ID:              uploadID,
			FileName:        req.FileName,
			FileType:        model.FileTypeCSV,
			FileSize:        uploadSize(req),
			TotalRows:       len(records),
			TotalColumns:    batch.TotalColumns(),
			UploadedBy:      req.DistributorID,
			Managers:        []string{req.DistributorID},
			Candidates:      slices.Clone(req.CandidateIDs),
			DistributionIDs: distIDs,
			Policy:          string(batch.Policy),
			StoragePath:     archiveKey,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return fmt.Errorf("insert upload manifest: %w", err)
		}
		s.stage(ctx, "manifest_persisted", "upload_file_id", uploadID)
		return nil
	})
	if err != nil {
		return nil, s.failIngest(ctx, span, policy, began, uploadID, archiveKey, len(records), err)
	}

	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g.IDs)
	}
	s.log.InfoContext(ctx, "ingest_completed",
		"upload_file_id", upload.ID,
		"file_name", upload.FileName,
		"policy", upload.Policy,
		"total_rows", upload.TotalRows,
		"total_columns", upload.TotalColumns,
		"candidates", len(groups),
		"group_sizes", sizes,
		"distributor_id", req.DistributorID,
		"duration_ms", time.Since(began).Milliseconds(),
	)
	s.metrics.ObserveSuccess(upload.Policy, len(records), sizes, time.Since(began))

	return &IngestResult{
		UploadFileID:  upload.ID,
		TotalData:     len(records),
		DistributedTo: len(groups),
	}, nil
}

func (s *distributionService) stage(ctx context.Context, name string, args ...any) {
	s.log.DebugContext(ctx, "ingest_stage", append([]any{"stage", name}, args...)...)
}

// archive stores the raw upload and returns its key, or "" when archiving is disabled.
func (s *distributionService) archive(ctx context.Context, uploadID string, req IngestRequest) (string, error) {
	if s.store == nil {
		return "", nil
	}
	key := storage.ArchiveKey(uploadID, string(model.FileTypeCSV))
	_, err := s.store.Put(ctx, key, bytes.NewReader(req.Content), storage.PutObjectOptions{
		Size:        int64(len(req.Content)),
		ContentType: "text/csv",
		Metadata: map[string]string{
			"original-filename": req.FileName,
			"uploaded-by":       req.DistributorID,
		},
	})
	if err != nil {
		return "", ingest.Wrap(ingest.KindPersistenceFailure, "archive upload", err)
	}
	return key, nil
}

// failIngest undoes the archive of a failed run, logs what was rolled back and returns err with a
// kind attached.
func (s *distributionService) failIngest(ctx context.Context, span trace.Span, policy string, began time.Time, uploadID, archiveKey string, records int, err error) error {
	if ingest.KindOf(err) == "" {
		err = ingest.Wrap(ingest.KindPersistenceFailure, "persist distribution", err)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "persistence failure")

	s.log.ErrorContext(ctx, "ingest_rolled_back",
		"upload_file_id", uploadID,
		"records", records,
		"error_message", err.Error(),
		"duration_ms", time.Since(began).Milliseconds(),
	)
	if archiveKey != "" {
		// The run's context may already be past its deadline.
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if delErr := s.store.Delete(cctx, archiveKey); delErr != nil {
			s.log.ErrorContext(ctx, "upload_archive_orphaned",
				"upload_file_id", uploadID,
				"storage_path", archiveKey,
				"error_message", delErr.Error(),
			)
		}
	}
	s.metrics.ObserveFailed(policy, time.Since(began))
	return err
}

func uploadSize(req IngestRequest) int64 {
	if req.Size > 0 {
		return req.Size
	}
	return int64(len(req.Content))
}

func (s *distributionService) Plan(ctx context.Context, req IngestRequest) (*PlanResult, error) {
	_, span := tracer.Start(ctx, "DistributionService.Plan")
	defer span.End()

	batch, err := ingest.Prepare(s.aliases, req)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(batch.Rows))
	for i, r := range batch.Rows {
		ids[i] = fmt.Sprintf("row-%d", r.Line)
	}
	groups, err := ingest.Partition(ids, req.CandidateIDs, batch.Policy, s.rng)
	if err != nil {
		return nil, err
	}

	hm := make(map[string]string, len(batch.HeaderMap))
	for f, h := range batch.HeaderMap {
		hm[string(f)] = h
	}
	out := &PlanResult{
		FileName:     req.FileName,
		TotalRows:    len(batch.Rows),
		TotalColumns: batch.TotalColumns(),
		HeaderMap:    hm,
		Policy:       string(batch.Policy),
		Groups:       make([]PlannedGroup, len(groups)),
	}
	for i, g := range groups {
		out.Groups[i] = PlannedGroup{CandidateID: g.RecipientID, Records: len(g.IDs)}
	}
	return out, nil
}

// ListUploads returns paginated manifests without exposing repository types.
func (s *distributionService) ListUploads(ctx context.Context, limit, offset int) (*UploadListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repos.Uploads.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &UploadListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *distributionService) GetUpload(ctx context.Context, id string) (*model.UploadDetail, error) {
	upload, err := s.findUpload(ctx, id)
	if err != nil {
		return nil, err
	}

	dists, err := s.repos.Distributions.ListByUploadFile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}
	assignments, err := s.loadAssignments(ctx, dists)
	if err != nil {
		return nil, err
	}
	return &model.UploadDetail{UploadFile: *upload, Distributions: assignments}, nil
}

// DeleteUpload removes the database rows in one transaction, then the archived file. A failure to
// remove the archive is logged and does not fail the call.
func (s *distributionService) DeleteUpload(ctx context.Context, id string) error {
	upload, err := s.findUpload(ctx, id)
	if err != nil {
		return err
	}

	var dists, records int64
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		if dists, err = repos.Distributions.DeleteByUploadFile(ctx, id); err != nil {
			return fmt.Errorf("delete distributions: %w", err)
		}
		if records, err = repos.Records.DeleteByUploadFile(ctx, id); err != nil {
			return fmt.Errorf("delete data records: %w", err)
		}
		return repos.Uploads.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if s.store != nil && upload.StoragePath != "" {
		if err := s.store.Delete(ctx, upload.StoragePath); err != nil {
			s.log.WarnContext(ctx, "upload_archive_orphaned",
				"upload_file_id", id,
				"storage_path", upload.StoragePath,
				"error_message", err.Error(),
			)
		}
	}

	s.log.InfoContext(ctx, "upload_deleted",
		"upload_file_id", id,
		"distributions", dists,
		"records", records,
	)
	return nil
}

func (s *distributionService) ListCandidateAssignments(ctx context.Context, candidateID string) ([]model.Assignment, error) {
	if candidateID == "" {
		return nil, ErrIDRequired
	}
	dists, err := s.repos.Distributions.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}
	if len(dists) == 0 {
		return nil, ErrNotFound
	}
	return s.loadAssignments(ctx, dists)
}

func (s *distributionService) findUpload(ctx context.Context, id string) (*model.UploadFile, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	upload, err := s.repos.Uploads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return upload, nil
}

// loadAssignments fetches the records of every entry with one query and attaches them in ledger order.
func (s *distributionService) loadAssignments(ctx context.Context, dists []model.Distribution) ([]model.Assignment, error) {
	var ids []string
	for _, d := range dists {
		ids = append(ids, d.RecordIDs...)
	}
	records, err := s.repos.Records.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load data records: %w", err)
	}
	byID := make(map[string]model.DataRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	out := make([]model.Assignment, len(dists))
	for i, d := range dists {
		a := model.Assignment{Distribution: d, Records: make([]model.DataRecord, 0, len(d.RecordIDs))}
		for _, id := range d.RecordIDs {
			if r, ok := byID[id]; ok {
				a.Records = append(a.Records, r)
			}
		}
		out[i] = a
	}
	return out, nil
}
