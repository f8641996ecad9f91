package mocks

import (
	"context"

	"donorapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockCallDetailRepository struct {
	mock.Mock
}

func (m *MockCallDetailRepository) Create(ctx context.Context, cd *model.CallDetail) (*model.CallDetail, error) {
	args := m.Called(ctx, cd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CallDetail), args.Error(1)
}

func (m *MockCallDetailRepository) ListByRecord(ctx context.Context, recordID string) ([]model.CallDetail, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CallDetail), args.Error(1)
}
