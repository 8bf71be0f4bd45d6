package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/Notifuse/emailbuilder/pkg/logger"
)

//go:generate mockgen -destination=../mocks/mock_mailer.go -package=mocks github.com/Notifuse/emailbuilder/pkg/mailer Mailer

// Address is a mailbox with an optional display name
type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Message is one rendered email for one recipient
type Message struct {
	From    Address
	To      Address
	Subject string
	HTML    string
	Text    string
	// MessageID is set as X-Message-Id so bounces can be matched to the log entry
	MessageID string
}

// Mailer delivers rendered messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

var ErrNoRecipient = errors.New("message has no recipient")

// Config holds the SMTP settings
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	// TLSPolicy is one of "mandatory", "opportunistic" or "none"
	TLSPolicy string
	Timeout   time.Duration
}

// SMTPMailer sends through an SMTP relay, one connection per message
type SMTPMailer struct {
	config *Config
}

func NewSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{config: config}
}

func (m *SMTPMailer) Send(ctx context.Context, message Message) error {
	msg, err := buildMsg(message)
	if err != nil {
		return err
	}

	client, err := m.createSMTPClient()
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", message.To.Email, err)
	}
	return nil
}

func buildMsg(message Message) (*mail.Msg, error) {
	if message.To.Email == "" {
		return nil, ErrNoRecipient
	}

	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())
	if err := msg.FromFormat(message.From.Name, message.From.Email); err != nil {
		return nil, fmt.Errorf("failed to set email from address: %w", err)
	}
	if err := msg.AddToFormat(message.To.Name, message.To.Email); err != nil {
		return nil, fmt.Errorf("failed to set email recipient: %w", err)
	}
	msg.Subject(message.Subject)
	if message.MessageID != "" {
		msg.SetGenHeader("X-Message-Id", message.MessageID)
	}

	msg.SetBodyString(mail.TypeTextHTML, message.HTML)
	if strings.TrimSpace(message.Text) != "" {
		msg.AddAlternativeString(mail.TypeTextPlain, message.Text)
	}
	return msg, nil
}

func (m *SMTPMailer) createSMTPClient() (*mail.Client, error) {
	timeout := m.config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	clientOptions := []mail.Option{
		mail.WithPort(m.config.SMTPPort),
		mail.WithTLSPolicy(tlsPolicy(m.config.TLSPolicy)),
		mail.WithTimeout(timeout),
	}

	// Unauthenticated relays (local MTAs, port 25) are allowed
	if m.config.SMTPUsername != "" && m.config.SMTPPassword != "" {
		clientOptions = append(clientOptions,
			mail.WithUsername(m.config.SMTPUsername),
			mail.WithPassword(m.config.SMTPPassword),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
		)
	}

	client, err := mail.NewClient(m.config.SMTPHost, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return client, nil
}

func tlsPolicy(name string) mail.TLSPolicy {
	switch strings.ToLower(name) {
	case "mandatory":
		return mail.TLSMandatory
	case "none":
		return mail.NoTLS
	default:
		return mail.TLSOpportunistic
	}
}

// ConsoleMailer logs messages instead of sending them. It is used when no
// provider is configured.
type ConsoleMailer struct {
	logger logger.Logger
}

func NewConsoleMailer(logger logger.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) Send(_ context.Context, message Message) error {
	if message.To.Email == "" {
		return ErrNoRecipient
	}
	m.logger.WithFields(map[string]interface{}{
		"from":       message.From.String(),
		"to":         message.To.String(),
		"subject":    message.Subject,
		"message_id": message.MessageID,
		"html_bytes": len(message.HTML),
	}).Info("Email not sent, console mailer in use")
	return nil
}
