package port

import (
	"context"

	"github.com/google/uuid"

	"docrecon/internal/domain"
)

// ComparisonListFilter narrows a comparison listing.
type ComparisonListFilter struct {
	PODocumentID string
	MinSeverity  domain.Severity
	Offset       int
	Limit        int
}

// ComparisonRepository defines the contract for comparison run persistence.
type ComparisonRepository interface {
	Create(ctx context.Context, run *domain.ComparisonRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ComparisonRun, error)
	List(ctx context.Context, filter ComparisonListFilter) ([]domain.ComparisonRun, int, error)
	UpdateArchivePrefix(ctx context.Context, id uuid.UUID, prefix string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// ComparisonCache stores finished runs keyed by the hash of their inputs.
// Get returns (nil, nil) on a miss.
type ComparisonCache interface {
	Get(ctx context.Context, inputHash string) (*domain.ComparisonRun, error)
	Set(ctx context.Context, inputHash string, run *domain.ComparisonRun) error
	Delete(ctx context.Context, inputHash string) error
	Ping(ctx context.Context) error
}
