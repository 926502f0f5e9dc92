package port

import (
	"context"

	"docrecon/internal/domain"
)

// EmailSender defines the contract for notifying reviewers.
type EmailSender interface {
	SendComparisonAlerts(ctx context.Context, recipients []string, run *domain.ComparisonRun) error
}
