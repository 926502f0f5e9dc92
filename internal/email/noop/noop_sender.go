package noop

import (
	"context"

	"go.uber.org/zap"

	"docrecon/internal/domain"
	"docrecon/internal/email"
	"docrecon/internal/port"
)

type noopSender struct {
	logger       *zap.Logger
	dashboardURL string
}

// NewNoopSender creates an EmailSender that logs the notification instead of
// sending it.
func NewNoopSender(logger *zap.Logger, dashboardURL string) port.EmailSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noopSender{logger: logger, dashboardURL: dashboardURL}
}

func (s *noopSender) SendComparisonAlerts(_ context.Context, recipients []string, run *domain.ComparisonRun) error {
	msg := email.BuildAlertMessage(run, s.dashboardURL)
	s.logger.Info("noop email: comparison alerts",
		zap.Strings("to", recipients),
		zap.String("subject", msg.Subject),
		zap.String("link", email.ComparisonURL(s.dashboardURL, run)),
	)
	return nil
}
