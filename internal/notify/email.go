package notify

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"

	"github.com/micheltwotravel/bot-ventas/pkg/logging"
)

// EmailMessage is one outbound sales notification.
type EmailMessage struct {
	To      []string
	Subject string
	Body    string
}

// EmailSender delivers sales notifications.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPSender sends mail through an authenticated SMTP submission port.
type SMTPSender struct {
	host   string
	port   int
	user   string
	pass   string
	from   string
	logger *logging.Logger
}

// NewSMTPSender creates a sender. The authenticated user doubles as the
// From address.
func NewSMTPSender(host string, port int, user, pass string, logger *logging.Logger) *SMTPSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &SMTPSender{host: host, port: port, user: user, pass: pass, from: user, logger: logger}
}

// Send delivers the message over STARTTLS.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("notify: set from: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return fmt.Errorf("notify: set recipients: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.user),
		mail.WithPassword(s.pass),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("notify: smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	s.logger.Info("notify: sales email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// StubSender logs instead of sending; used when SMTP is not configured
// and in tests.
type StubSender struct {
	logger *logging.Logger
	Sent   []EmailMessage
}

// NewStubSender creates a stub sender.
func NewStubSender(logger *logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSender{logger: logger}
}

// Send records the message and logs a preview.
func (s *StubSender) Send(ctx context.Context, msg EmailMessage) error {
	s.Sent = append(s.Sent, msg)
	s.logger.Info("stub email sender: would send", "to", msg.To, "subject", msg.Subject)
	return nil
}

var _ EmailSender = (*SMTPSender)(nil)
var _ EmailSender = (*StubSender)(nil)
