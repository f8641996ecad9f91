package mocks

import (
	"context"

	"donorapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockDistributionRepository struct {
	mock.Mock
}

func (m *MockDistributionRepository) Create(ctx context.Context, d *model.Distribution) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDistributionRepository) ListByUploadFile(ctx context.Context, uploadFileID string) ([]model.Distribution, error) {
	args := m.Called(ctx, uploadFileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Distribution), args.Error(1)
}

func (m *MockDistributionRepository) ListByCandidate(ctx context.Context, candidateID string) ([]model.Distribution, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Distribution), args.Error(1)
}

func (m *MockDistributionRepository) DeleteByUploadFile(ctx context.Context, uploadFileID string) (int64, error) {
	args := m.Called(ctx, uploadFileID)
	return args.Get(0).(int64), args.Error(1)
}
