package notify

import (
	"context"
	"strconv"

	"github.com/wolfman30/smart-hospital/internal/inventory"
	"github.com/wolfman30/smart-hospital/internal/observability/metrics"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

const (
	kindDonationRequest = "donation_request"
	kindLowStockAlert   = "low_stock_alert"
)

// Recipient is someone asked to donate.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// BroadcastReport counts the messages of one broadcast.
type BroadcastReport struct {
	Attempted int `json:"attempted"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// ServiceConfig configures the notification service.
type ServiceConfig struct {
	HospitalName    string
	AlertRecipients []string
	Metrics         *metrics.NotificationMetrics
}

// Service sends blood-bank emails. Every send is independent: a failure is
// logged and counted, and never stops the remaining sends.
type Service struct {
	email           EmailSender
	hospital        string
	alertRecipients []string
	metrics         *metrics.NotificationMetrics
	logger          *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, cfg ServiceConfig, logger *logging.Logger) *Service {
	if email == nil {
		panic("notify: email sender required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HospitalName == "" {
		cfg.HospitalName = defaultFromName
	}
	return &Service{
		email:           email,
		hospital:        cfg.HospitalName,
		alertRecipients: cfg.AlertRecipients,
		metrics:         cfg.Metrics,
		logger:          logger,
	}
}

// SendDonationRequest emails one donation appeal and reports whether it was
// accepted for delivery.
func (s *Service) SendDonationRequest(ctx context.Context, to Recipient, bt inventory.BloodType) bool {
	msg := EmailMessage{
		To:      to.Email,
		ToName:  to.Name,
		Subject: DonationRequestSubject(bt),
		Body:    DonationRequestBody(s.hospital, to.Name, bt),
		Kind:    kindDonationRequest,
		Tags:    map[string]string{"blood_group": bt.String()},
	}
	return s.deliver(ctx, msg)
}

// SendLowStockAlert emails one operator alert and reports whether it was
// accepted for delivery.
func (s *Service) SendLowStockAlert(ctx context.Context, to string, bt inventory.BloodType, units int) bool {
	msg := EmailMessage{
		To:      to,
		Subject: LowStockAlertSubject(bt),
		Body:    LowStockAlertBody(bt, units),
		Kind:    kindLowStockAlert,
		Tags:    map[string]string{"blood_group": bt.String(), "units": strconv.Itoa(units)},
	}
	return s.deliver(ctx, msg)
}

// BroadcastDonationRequests sends one appeal per (recipient, shortage) pair,
// every shortage for the first recipient before the next recipient. There is
// no retry and no deduplication.
func (s *Service) BroadcastDonationRequests(ctx context.Context, shortages []inventory.BloodType, recipients []Recipient) BroadcastReport {
	var report BroadcastReport
	for _, r := range recipients {
		for _, bt := range shortages {
			report.Attempted++
			if s.SendDonationRequest(ctx, r, bt) {
				report.Sent++
			} else {
				report.Failed++
			}
		}
	}
	s.logger.Info("notify: donation broadcast finished",
		"recipients", len(recipients), "shortages", len(shortages),
		"sent", report.Sent, "failed", report.Failed)
	return report
}

// NotifyLowStock alerts every configured operator about each level.
func (s *Service) NotifyLowStock(ctx context.Context, levels []inventory.StockLevel) {
	if len(s.alertRecipients) == 0 {
		s.logger.Warn("notify: no alert recipients configured, skipping low-stock alert")
		return
	}
	for _, to := range s.alertRecipients {
		for _, lvl := range levels {
			s.SendLowStockAlert(ctx, to, lvl.BloodGroup, lvl.Units)
		}
	}
}

func (s *Service) deliver(ctx context.Context, msg EmailMessage) bool {
	err := s.email.Send(ctx, msg)
	s.metrics.ObserveSend(msg.Kind, err == nil)
	if err != nil {
		s.logger.Error("notify: failed to send email", append(msg.logAttrs(), "error", err)...)
		return false
	}
	s.logger.Info("notify: email sent", msg.logAttrs()...)
	return true
}

var _ inventory.LowStockNotifier = (*Service)(nil)
