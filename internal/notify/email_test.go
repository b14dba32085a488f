package notify

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{FromEmail: "a@b.com"}, nil))
}

func TestNewSendGridSender_Defaults(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, "City Hospital", sender.fromName)
	assert.Equal(t, "system@hospital.com", sender.fromEmail)
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{}
	err := sender.Send(context.Background(), EmailMessage{To: "x@y.com", Subject: "s", Body: "b"})
	assert.Error(t, err)
}

type fakeSendGrid struct {
	bodies []string
	status int
	err    error
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, m *sgmail.SGMailV3) (*rest.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bodies = append(f.bodies, string(sgmail.GetRequestBody(m)))
	return &rest.Response{StatusCode: f.status, Body: "{}"}, nil
}

func TestSendGridSender_SendCarriesKindAndTags(t *testing.T) {
	api := &fakeSendGrid{status: 202}
	sender := newSendGridSenderWithAPI(api, SendGridConfig{}, logging.Discard())

	err := sender.Send(context.Background(), EmailMessage{
		To:      "donor@example.com",
		ToName:  "Asha",
		Subject: "Urgent Appeal: O- Blood Needed",
		Body:    "text",
		Kind:    "donation_request",
		Tags:    map[string]string{"blood_group": "O-"},
	})
	require.NoError(t, err)
	require.Len(t, api.bodies, 1)

	var req struct {
		From             struct{ Email, Name string } `json:"from"`
		Subject          string                       `json:"subject"`
		Categories       []string                     `json:"categories"`
		Personalizations []struct {
			To         []struct{ Email, Name string } `json:"to"`
			CustomArgs map[string]string              `json:"custom_args"`
		} `json:"personalizations"`
		Content []struct{ Type, Value string } `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(api.bodies[0]), &req))
	assert.Equal(t, "system@hospital.com", req.From.Email)
	assert.Equal(t, "Urgent Appeal: O- Blood Needed", req.Subject)
	assert.Equal(t, []string{"donation_request"}, req.Categories)
	require.Len(t, req.Personalizations, 1)
	assert.Equal(t, "donor@example.com", req.Personalizations[0].To[0].Email)
	assert.Equal(t, map[string]string{"blood_group": "O-"}, req.Personalizations[0].CustomArgs)
	require.Len(t, req.Content, 1)
	assert.Equal(t, "text/plain", req.Content[0].Type)
}

func TestSendGridSender_SendFailures(t *testing.T) {
	api := &fakeSendGrid{status: 400}
	sender := newSendGridSenderWithAPI(api, SendGridConfig{}, logging.Discard())
	assert.ErrorContains(t, sender.Send(context.Background(), EmailMessage{To: "x@y.com"}), "status 400")

	api.err = errors.New("connection reset")
	assert.ErrorContains(t, sender.Send(context.Background(), EmailMessage{To: "x@y.com"}), "connection reset")
}

func TestStubEmailSender_Send(t *testing.T) {
	assert.NoError(t, NewStubEmailSender(logging.Discard()).Send(context.Background(), EmailMessage{To: "x@y.com"}))
}

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, in)
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	api := &fakeSES{}
	sender := newSESSenderWithAPI(api, SESConfig{}, logging.Discard())

	err := sender.Send(context.Background(), EmailMessage{
		To:      "ops@hospital.com",
		Subject: "URGENT: Low Stock Alert - AB+",
		Body:    "text",
		Kind:    "low_stock_alert",
		Tags:    map[string]string{"blood_group": "AB+", "units": "2"},
	})
	require.NoError(t, err)
	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	assert.Equal(t, `"City Hospital" <system@hospital.com>`, aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"<ops@hospital.com>"}, in.Destination.ToAddresses)
	assert.Equal(t, "text", aws.ToString(in.Content.Simple.Body.Text.Data))
	assert.Nil(t, in.Content.Simple.Body.Html)

	tags := map[string]string{}
	for _, tag := range in.EmailTags {
		tags[aws.ToString(tag.Name)] = aws.ToString(tag.Value)
	}
	assert.Equal(t, map[string]string{"kind": "low_stock_alert", "blood_group": "ABpos", "units": "2"}, tags)

	api.err = errors.New("throttled")
	assert.ErrorContains(t, sender.Send(context.Background(), EmailMessage{To: "d@e.com"}), "throttled")
}

func TestSESTagValue(t *testing.T) {
	assert.Equal(t, "Opos", sesTagValue("O+"))
	assert.Equal(t, "O-", sesTagValue("O-"))
	assert.Equal(t, "low_stock_alert", sesTagValue("low_stock_alert"))
	assert.Equal(t, "a_b", sesTagValue("a b"))
}

func TestNewSESSender_NilClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{}, nil))
}

// smtpSink is a minimal SMTP server that accepts every message.
type smtpSink struct {
	ln   net.Listener
	mu   sync.Mutex
	msgs []sinkMessage
	wg   sync.WaitGroup
}

type sinkMessage struct {
	from, to, data string
}

func newSMTPSink(t *testing.T) *smtpSink {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &smtpSink{ln: ln}
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(func() {
		ln.Close()
		s.wg.Wait()
	})
	return s
}

func (s *smtpSink) port() int { return s.ln.Addr().(*net.TCPAddr).Port }

func (s *smtpSink) messages() []sinkMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sinkMessage(nil), s.msgs...)
}

func (s *smtpSink) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.handle(conn)
	}
}

func (s *smtpSink) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	r := bufio.NewReader(conn)
	reply := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }

	reply("220 sink ready")
	var cur sinkMessage
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			reply("250 sink")
		case strings.HasPrefix(cmd, "MAIL FROM:"):
			cur.from = strings.TrimSpace(line[len("MAIL FROM:"):])
			reply("250 ok")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			cur.to = strings.TrimSpace(line[len("RCPT TO:"):])
			reply("250 ok")
		case cmd == "DATA":
			reply("354 go ahead")
			var data strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				data.WriteString(l)
			}
			cur.data = data.String()
			s.mu.Lock()
			s.msgs = append(s.msgs, cur)
			s.mu.Unlock()
			cur = sinkMessage{}
			reply("250 queued")
		case cmd == "QUIT":
			reply("221 bye")
			return
		default:
			reply("250 ok")
		}
	}
}

func TestSMTPSender_Send(t *testing.T) {
	sink := newSMTPSink(t)
	sender := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: sink.port(), Timeout: 5 * time.Second}, logging.Discard())
	sender.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	err := sender.Send(context.Background(), EmailMessage{
		To:      "donor@example.com",
		ToName:  "Asha",
		Subject: "URGENT: Low Stock Alert - O-",
		Body:    "line one\nline two",
		Kind:    "low_stock_alert",
	})
	require.NoError(t, err)

	msgs := sink.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "<system@hospital.com>", msgs[0].from)
	assert.Equal(t, "<donor@example.com>", msgs[0].to)
	assert.Contains(t, msgs[0].data, "Subject: URGENT: Low Stock Alert - O-")
	assert.Contains(t, msgs[0].data, `"Asha" <donor@example.com>`)
	assert.Contains(t, msgs[0].data, "Date: Fri, 02 Jan 2026 03:04:05 +0000")
	assert.Contains(t, msgs[0].data, "X-Hospital-Category: low_stock_alert")
	assert.Contains(t, msgs[0].data, "line one")
	assert.Contains(t, msgs[0].data, "line two")
}

func TestSMTPSender_UnreachableRelay(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	sender := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: port, Timeout: time.Second}, logging.Discard())
	err = sender.Send(context.Background(), EmailMessage{To: "x@y.com"})
	assert.ErrorContains(t, err, "notify: smtp send via 127.0.0.1:"+strconv.Itoa(port))
}

func TestSMTPSender_RejectsBadRecipient(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{}, logging.Discard())
	err := sender.Send(context.Background(), EmailMessage{To: "not an address"})
	assert.ErrorContains(t, err, "smtp recipient")
}

func TestNewSMTPSender_Defaults(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{}, nil)
	assert.Equal(t, "localhost:1025", sender.addr())
	assert.Equal(t, "system@hospital.com", sender.fromEmail)
}
