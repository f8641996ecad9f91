package mocks

import (
	"context"

	"donorapi/internal/model"
	"donorapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockUploadFileRepository struct {
	mock.Mock
}

func (m *MockUploadFileRepository) Create(ctx context.Context, u *model.UploadFile) (*model.UploadFile, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadFile), args.Error(1)
}

func (m *MockUploadFileRepository) FindByID(ctx context.Context, id string) (*model.UploadFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadFile), args.Error(1)
}

func (m *MockUploadFileRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.UploadFile], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.UploadFile]), args.Error(1)
}

func (m *MockUploadFileRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
