package notify

import (
	"context"
	"net/mail"
	"sort"

	"github.com/wolfman30/smart-hospital/pkg/logging"
)

const (
	defaultFromEmail = "system@hospital.com"
	defaultFromName  = "City Hospital"
)

// EmailSender delivers one message. Implementations (SMTP, SendGrid, SES,
// Stub) are picked by EMAIL_PROVIDER at startup.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is one outbound blood-bank email.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string // plain text
	HTML    string // optional alternative

	// Kind is donation_request or low_stock_alert. Providers that support
	// tagging (SendGrid categories, SES message tags) carry it so deliveries
	// can be counted per kind on the provider side.
	Kind string
	// Tags are extra per-message attributes such as blood_group.
	Tags map[string]string
}

// recipient renders the To address with the display name when there is one.
func (m EmailMessage) recipient() string {
	return (&mail.Address{Name: m.ToName, Address: m.To}).String()
}

// tagKeys returns the tag names in a stable order.
func (m EmailMessage) tagKeys() []string {
	keys := make([]string, 0, len(m.Tags))
	for k := range m.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// logAttrs flattens kind and tags for structured logging.
func (m EmailMessage) logAttrs() []any {
	attrs := []any{"kind", m.Kind, "to", m.To}
	for _, k := range m.tagKeys() {
		attrs = append(attrs, k, m.Tags[k])
	}
	return attrs
}

// sender holds the From identity every provider shares.
type sender struct {
	fromEmail string
	fromName  string
}

func newSender(fromEmail, fromName string) sender {
	if fromEmail == "" {
		fromEmail = defaultFromEmail
	}
	if fromName == "" {
		fromName = defaultFromName
	}
	return sender{fromEmail: fromEmail, fromName: fromName}
}

func (s sender) from() string {
	return (&mail.Address{Name: s.fromName, Address: s.fromEmail}).String()
}

// StubEmailSender logs instead of sending. Used when EMAIL_PROVIDER=stub or a
// hosted provider has no credentials.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a stub email sender.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send logs the message and reports success.
func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("stub email sender: would send email", append(msg.logAttrs(), "subject", msg.Subject)...)
	return nil
}

var _ EmailSender = (*StubEmailSender)(nil)
