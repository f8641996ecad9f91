package mocks

import (
	"context"

	"donorapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockTransactor runs fn against Repos without a real transaction. The Error(0) return of the
// recorded call, when set, is returned without running fn.
type MockTransactor struct {
	mock.Mock
	Repos repository.Repositories
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.Repos)
}
