package service

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"sync"

	"donorapi/internal/model"
	"donorapi/internal/repository"
)

// memStore is an in-memory stand-in for the Postgres repositories. WithinTx restores a snapshot when
// fn fails, giving the same all-or-nothing outcome as a real transaction.
type memStore struct {
	mu          sync.Mutex
	records     map[string]model.DataRecord
	dists       []model.Distribution
	uploads     map[string]model.UploadFile
	failRecords error
	failDists   error
	failUploads error
}

func newMemStore() *memStore {
	return &memStore{records: map[string]model.DataRecord{}, uploads: map[string]model.UploadFile{}}
}

func (m *memStore) repos() repository.Repositories {
	return repository.Repositories{
		Records:       memRecords{m},
		Distributions: memDists{m},
		Uploads:       memUploads{m},
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	m.mu.Lock()
	records := make(map[string]model.DataRecord, len(m.records))
	for k, v := range m.records {
		records[k] = v
	}
	dists := slices.Clone(m.dists)
	uploads := make(map[string]model.UploadFile, len(m.uploads))
	for k, v := range m.uploads {
		uploads[k] = v
	}
	m.mu.Unlock()

	if err := fn(ctx, m.repos()); err != nil {
		m.mu.Lock()
		m.records, m.dists, m.uploads = records, dists, uploads
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) counts() (records, dists, uploads int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), len(m.dists), len(m.uploads)
}

type memRecords struct{ m *memStore }

func (r memRecords) CreateMany(_ context.Context, records []model.DataRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failRecords != nil {
		return r.m.failRecords
	}
	for _, rec := range records {
		if _, ok := r.m.records[rec.ID]; ok {
			return repository.ErrConflict
		}
		r.m.records[rec.ID] = rec
	}
	return nil
}

func (r memRecords) FindByID(_ context.Context, id string) (*model.DataRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rec, ok := r.m.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &rec, nil
}

func (r memRecords) ListByIDs(_ context.Context, ids []string) ([]model.DataRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]model.DataRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := r.m.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r memRecords) DeleteByUploadFile(_ context.Context, uploadFileID string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for id, rec := range r.m.records {
		if rec.UploadFileID == uploadFileID {
			delete(r.m.records, id)
			n++
		}
	}
	return n, nil
}

type memDists struct{ m *memStore }

func (d memDists) Create(_ context.Context, dist *model.Distribution) error {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	if d.m.failDists != nil {
		return d.m.failDists
	}
	d.m.dists = append(d.m.dists, *dist)
	return nil
}

func (d memDists) ListByUploadFile(_ context.Context, uploadFileID string) ([]model.Distribution, error) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	var out []model.Distribution
	for _, dist := range d.m.dists {
		if dist.UploadFileID == uploadFileID {
			out = append(out, dist)
		}
	}
	return out, nil
}

func (d memDists) ListByCandidate(_ context.Context, candidateID string) ([]model.Distribution, error) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	var out []model.Distribution
	for _, dist := range d.m.dists {
		if dist.CandidateID == candidateID {
			out = append(out, dist)
		}
	}
	return out, nil
}

func (d memDists) DeleteByUploadFile(_ context.Context, uploadFileID string) (int64, error) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	before := len(d.m.dists)
	d.m.dists = slices.DeleteFunc(d.m.dists, func(dist model.Distribution) bool {
		return dist.UploadFileID == uploadFileID
	})
	return int64(before - len(d.m.dists)), nil
}

type memUploads struct{ m *memStore }

func (u memUploads) Create(_ context.Context, up *model.UploadFile) (*model.UploadFile, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if u.m.failUploads != nil {
		return nil, u.m.failUploads
	}
	u.m.uploads[up.ID] = *up
	out := *up
	return &out, nil
}

func (u memUploads) FindByID(_ context.Context, id string) (*model.UploadFile, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	up, ok := u.m.uploads[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &up, nil
}

func (u memUploads) List(_ context.Context, pq repository.PageQuery) (*repository.PageResult[model.UploadFile], error) {
	return nil, errors.New("not implemented")
}

func (u memUploads) Delete(_ context.Context, id string) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	delete(u.m.uploads, id)
	return nil
}
