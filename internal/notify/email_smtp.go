package notify

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gomail "github.com/wneessen/go-mail"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// kindHeader carries EmailMessage.Kind on SMTP deliveries.
const kindHeader gomail.Header = "X-Hospital-Category"

// SMTPConfig holds configuration for a plain SMTP relay.
type SMTPConfig struct {
	Host      string
	Port      int
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// SMTPSender delivers through an unauthenticated, unencrypted SMTP relay, one
// connection per message. The default relay is a local debugging server on
// port 1025.
type SMTPSender struct {
	host    string
	port    int
	timeout time.Duration
	sender
	now    func() time.Time
	logger *logging.Logger
}

// NewSMTPSender creates an SMTP email sender.
func NewSMTPSender(cfg SMTPConfig, logger *logging.Logger) *SMTPSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 1025
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTPSender{
		host:    cfg.Host,
		port:    cfg.Port,
		timeout: cfg.Timeout,
		sender:  newSender(cfg.FromEmail, cfg.FromName),
		now:     time.Now,
		logger:  logger,
	}
}

func (s *SMTPSender) addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// Send delivers msg. The context bounds dialing and the whole exchange.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	m, err := s.compose(msg)
	if err != nil {
		return err
	}
	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithTLSPolicy(gomail.NoTLS),
		gomail.WithTimeout(s.timeout),
	)
	if err != nil {
		return fmt.Errorf("notify: smtp client for %s: %w", s.addr(), err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("notify: smtp send via %s: %w", s.addr(), err)
	}
	s.logger.Debug("email sent via smtp", append(msg.logAttrs(), "relay", s.addr())...)
	return nil
}

func (s *SMTPSender) compose(msg EmailMessage) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("notify: smtp from address: %w", err)
	}
	var err error
	if msg.ToName != "" {
		err = m.AddToFormat(msg.ToName, msg.To)
	} else {
		err = m.To(msg.To)
	}
	if err != nil {
		return nil, fmt.Errorf("notify: smtp recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetDateWithValue(s.now())
	if msg.Kind != "" {
		m.SetGenHeader(kindHeader, msg.Kind)
	}
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}

var _ EmailSender = (*SMTPSender)(nil)
