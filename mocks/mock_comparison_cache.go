package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docrecon/internal/domain"
)

// MockComparisonCache is a mock implementation of port.ComparisonCache.
type MockComparisonCache struct {
	mock.Mock
}

func (m *MockComparisonCache) Get(ctx context.Context, inputHash string) (*domain.ComparisonRun, error) {
	args := m.Called(ctx, inputHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComparisonRun), args.Error(1)
}

func (m *MockComparisonCache) Set(ctx context.Context, inputHash string, run *domain.ComparisonRun) error {
	args := m.Called(ctx, inputHash, run)
	return args.Error(0)
}

func (m *MockComparisonCache) Delete(ctx context.Context, inputHash string) error {
	args := m.Called(ctx, inputHash)
	return args.Error(0)
}

func (m *MockComparisonCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
