// Package mailer relays contact form submissions by email.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"portfolio/api/models"
)

// previewLen is how much of the message the confirmation repeats.
const previewLen = 100

// Sender delivers prepared messages.
type Sender interface {
	Send(ctx context.Context, msgs ...*mail.Msg) error
}

// SMTPConfig describes an authenticated SMTP submission server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPSender sends through an SMTP server using STARTTLS and plain auth.
type SMTPSender struct {
	client *mail.Client
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &SMTPSender{client: client}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msgs ...*mail.Msg) error {
	return s.client.DialAndSendWithContext(ctx, msgs...)
}

// Mailer builds the owner notification and the sender confirmation.
type Mailer struct {
	sender    Sender
	from      string
	recipient string
	owner     string
	logger    zerolog.Logger
	now       func() time.Time
}

func New(sender Sender, from, recipient, owner string, logger zerolog.Logger) *Mailer {
	return &Mailer{
		sender:    sender,
		from:      from,
		recipient: recipient,
		owner:     owner,
		logger:    logger.With().Str("component", "mailer").Logger(),
		now:       time.Now,
	}
}

// SendContact notifies the owner and then confirms receipt to the sender.
func (m *Mailer) SendContact(ctx context.Context, msg models.ContactMessage) error {
	notification, err := m.notification(msg)
	if err != nil {
		return err
	}
	confirmation, err := m.confirmation(msg)
	if err != nil {
		return err
	}

	if err := m.sender.Send(ctx, notification); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if err := m.sender.Send(ctx, confirmation); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}

	m.logger.Info().Str("from", msg.Email).Str("subject", msg.Subject).Msg("contact message relayed")
	return nil
}

func (m *Mailer) notification(msg models.ContactMessage) (*mail.Msg, error) {
	body, err := render(notificationTmpl, struct {
		Name, Email, Subject, Date string
		Lines                      []string
	}{
		Name:    msg.Name,
		Email:   msg.Email,
		Subject: msg.Subject,
		Date:    m.now().Format(time.RFC1123),
		Lines:   strings.Split(msg.Message, "\n"),
	})
	if err != nil {
		return nil, err
	}
	out := mail.NewMsg()
	if err := out.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := out.To(m.recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if err := out.ReplyTo(msg.Email); err != nil {
		return nil, fmt.Errorf("invalid reply-to address: %w", err)
	}
	out.Subject("Portfolio Contact: " + msg.Subject)
	out.SetBodyString(mail.TypeTextHTML, body)
	return out, nil
}

func (m *Mailer) confirmation(msg models.ContactMessage) (*mail.Msg, error) {
	body, err := render(confirmationTmpl, struct {
		Name, Subject, Preview, Owner string
	}{
		Name:    msg.Name,
		Subject: msg.Subject,
		Preview: Preview(msg.Message),
		Owner:   m.owner,
	})
	if err != nil {
		return nil, err
	}
	out := mail.NewMsg()
	if err := out.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := out.To(msg.Email); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	out.Subject("Thank you for contacting " + m.owner)
	out.SetBodyString(mail.TypeTextHTML, body)
	return out, nil
}

// Preview shortens a message to previewLen runes, marking the cut.
func Preview(message string) string {
	r := []rune(message)
	if len(r) <= previewLen {
		return message
	}
	return string(r[:previewLen]) + "..."
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s mail: %w", t.Name(), err)
	}
	return buf.String(), nil
}
