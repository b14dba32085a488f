package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// sesAPI is the part of *sesv2.Client the sender calls.
type sesAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	FromEmail string
	FromName  string
}

// SESSender delivers through SES v2. The message kind and tags become SES
// message tags, which feed SES event publishing.
type SESSender struct {
	client sesAPI
	sender
	logger *logging.Logger
}

// NewSESSender returns nil without a client.
func NewSESSender(client *sesv2.Client, cfg SESConfig, logger *logging.Logger) *SESSender {
	if client == nil {
		return nil
	}
	return newSESSenderWithAPI(client, cfg, logger)
}

func newSESSenderWithAPI(client sesAPI, cfg SESConfig, logger *logging.Logger) *SESSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &SESSender{
		client: client,
		sender: newSender(cfg.FromEmail, cfg.FromName),
		logger: logger,
	}
}

// Send delivers msg as a simple text (and optional HTML) message.
func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("notify: SES client not configured")
	}

	body := &types.Body{Text: utf8Content(msg.Body)}
	if msg.HTML != "" {
		body.Html = utf8Content(msg.HTML)
	}
	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from()),
		Destination:      &types.Destination{ToAddresses: []string{msg.recipient()}},
		Content: &types.EmailContent{
			Simple: &types.Message{Subject: utf8Content(msg.Subject), Body: body},
		},
		EmailTags: sesTags(msg),
	})
	if err != nil {
		return fmt.Errorf("notify: SES send to %s: %w", msg.To, err)
	}
	s.logger.Debug("email sent via SES", append(msg.logAttrs(), "message_id", aws.ToString(out.MessageId))...)
	return nil
}

func utf8Content(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
}

func sesTags(msg EmailMessage) []types.MessageTag {
	var tags []types.MessageTag
	if msg.Kind != "" {
		tags = append(tags, types.MessageTag{Name: aws.String("kind"), Value: aws.String(sesTagValue(msg.Kind))})
	}
	for _, k := range msg.tagKeys() {
		tags = append(tags, types.MessageTag{Name: aws.String(sesTagValue(k)), Value: aws.String(sesTagValue(msg.Tags[k]))})
	}
	return tags
}

// sesTagValue keeps the characters SES accepts in tag names and values.
// '+' is spelled out so "O+" and "O-" stay distinct.
func sesTagValue(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '-', r == '.', r == '@':
			b.WriteRune(r)
		case r == '+':
			b.WriteString("pos")
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

var _ EmailSender = (*SESSender)(nil)
