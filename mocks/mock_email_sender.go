package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docrecon/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendComparisonAlerts(ctx context.Context, recipients []string, run *domain.ComparisonRun) error {
	args := m.Called(ctx, recipients, run)
	return args.Error(0)
}
