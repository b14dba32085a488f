package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/smart-hospital/internal/config"
	"github.com/wolfman30/smart-hospital/internal/notify"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// BuildEmailSender returns the sender selected by EMAIL_PROVIDER and the name
// of the provider actually used. A provider missing its credentials falls
// back to the stub sender so the service still starts.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, loadAWS AWSLoader, logger *logging.Logger) (notify.EmailSender, string, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("bootstrap: config required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.EmailProvider {
	case "", "smtp":
		return notify.NewSMTPSender(notify.SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger), "smtp", nil

	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			logger.Warn("SENDGRID_API_KEY not set, emails will be logged only")
			return notify.NewStubEmailSender(logger), "stub", nil
		}
		return sender, "sendgrid", nil

	case "ses":
		if loadAWS == nil {
			return nil, "", fmt.Errorf("bootstrap: aws config loader required for ses")
		}
		awsCfg, err := loadAWS(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger), "ses", nil

	case "stub":
		return notify.NewStubEmailSender(logger), "stub", nil

	default:
		return nil, "", fmt.Errorf("bootstrap: unknown email provider %q", cfg.EmailProvider)
	}
}
