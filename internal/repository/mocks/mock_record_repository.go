package mocks

import (
	"context"

	"donorapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockDataRecordRepository struct {
	mock.Mock
}

func (m *MockDataRecordRepository) CreateMany(ctx context.Context, records []model.DataRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockDataRecordRepository) FindByID(ctx context.Context, id string) (*model.DataRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DataRecord), args.Error(1)
}

func (m *MockDataRecordRepository) ListByIDs(ctx context.Context, ids []string) ([]model.DataRecord, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DataRecord), args.Error(1)
}

func (m *MockDataRecordRepository) DeleteByUploadFile(ctx context.Context, uploadFileID string) (int64, error) {
	args := m.Called(ctx, uploadFileID)
	return args.Get(0).(int64), args.Error(1)
}
