package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

// MockDocumentParser is a mock implementation of port.DocumentParser.
type MockDocumentParser struct {
	mock.Mock
}

func (m *MockDocumentParser) Parse(ctx context.Context, input port.ParseInput) (domain.ExtractedDocument, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.ExtractedDocument), args.Error(1)
}
