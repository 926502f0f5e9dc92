package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docrecon/internal/domain"
	"docrecon/internal/port"
	"docrecon/internal/report"
	"docrecon/internal/service"
)

// MockComparisonService is a mock implementation of service.ComparisonService.
type MockComparisonService struct {
	mock.Mock
}

func (m *MockComparisonService) Compare(ctx context.Context, input service.CompareInput) (*domain.ComparisonRun, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComparisonRun), args.Error(1)
}

func (m *MockComparisonService) CompareBatch(ctx context.Context, inputs []service.CompareInput) ([]*domain.ComparisonRun, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ComparisonRun), args.Error(1)
}

func (m *MockComparisonService) Get(ctx context.Context, id uuid.UUID) (*domain.ComparisonRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComparisonRun), args.Error(1)
}

func (m *MockComparisonService) List(ctx context.Context, filter port.ComparisonListFilter) ([]domain.ComparisonRun, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ComparisonRun), args.Int(1), args.Error(2)
}

func (m *MockComparisonService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// RenderReport writes the string in the "body" return slot (index 1) to w.
func (m *MockComparisonService) RenderReport(ctx context.Context, id uuid.UUID, format report.Format, w io.Writer) (*domain.ComparisonRun, error) {
	args := m.Called(ctx, id, format, w)
	if body, ok := args.Get(1).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	if args.Get(0) == nil {
		return nil, args.Error(2)
	}
	return args.Get(0).(*domain.ComparisonRun), args.Error(2)
}

func (m *MockComparisonService) ArchiveURL(ctx context.Context, id uuid.UUID, format report.Format) (string, error) {
	args := m.Called(ctx, id, format)
	return args.String(0), args.Error(1)
}
