package ses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"docrecon/internal/config"
	"docrecon/internal/domain"
	"docrecon/internal/email"
	"docrecon/internal/port"
)

type sesSender struct {
	client       *sesv2.Client
	from         string
	dashboardURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(ctx context.Context, cfg *config.EmailConfig) (port.EmailSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:       sesv2.NewFromConfig(awsCfg),
		from:         fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress),
		dashboardURL: cfg.DashboardURL,
	}, nil
}

func (s *sesSender) SendComparisonAlerts(ctx context.Context, recipients []string, run *domain.ComparisonRun) error {
	if len(recipients) == 0 {
		return nil
	}
	msg := email.BuildAlertMessage(run, s.dashboardURL)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: recipients,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTML)},
					Text: &types.Content{Data: aws.String(msg.Text)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}
