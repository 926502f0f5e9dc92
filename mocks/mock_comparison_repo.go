package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

// MockComparisonRepo is a mock implementation of port.ComparisonRepository.
type MockComparisonRepo struct {
	mock.Mock
}

func (m *MockComparisonRepo) Create(ctx context.Context, run *domain.ComparisonRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockComparisonRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComparisonRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComparisonRun), args.Error(1)
}

func (m *MockComparisonRepo) List(ctx context.Context, filter port.ComparisonListFilter) ([]domain.ComparisonRun, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ComparisonRun), args.Int(1), args.Error(2)
}

func (m *MockComparisonRepo) UpdateArchivePrefix(ctx context.Context, id uuid.UUID, prefix string) error {
	args := m.Called(ctx, id, prefix)
	return args.Error(0)
}

func (m *MockComparisonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockComparisonRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
