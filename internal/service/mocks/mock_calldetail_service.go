package mocks

import (
	"context"

	"donorapi/internal/model"
	"donorapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockCallDetailService struct {
	mock.Mock
}

func (m *MockCallDetailService) Log(ctx context.Context, recordID string, in service.CallDetailInput) (*model.CallDetail, error) {
	args := m.Called(ctx, recordID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CallDetail), args.Error(1)
}

func (m *MockCallDetailService) ListByRecord(ctx context.Context, recordID string) ([]model.CallDetail, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CallDetail), args.Error(1)
}
