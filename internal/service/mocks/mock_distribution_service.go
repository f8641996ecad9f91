package mocks

import (
	"context"

	"donorapi/internal/model"
	"donorapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDistributionService struct {
	mock.Mock
}

func (m *MockDistributionService) Ingest(ctx context.Context, req service.IngestRequest) (*service.IngestResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

func (m *MockDistributionService) Plan(ctx context.Context, req service.IngestRequest) (*service.PlanResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PlanResult), args.Error(1)
}

func (m *MockDistributionService) ListUploads(ctx context.Context, limit, offset int) (*service.UploadListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadListResult), args.Error(1)
}

func (m *MockDistributionService) GetUpload(ctx context.Context, id string) (*model.UploadDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadDetail), args.Error(1)
}

func (m *MockDistributionService) DeleteUpload(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDistributionService) ListCandidateAssignments(ctx context.Context, candidateID string) ([]model.Assignment, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Assignment), args.Error(1)
}
