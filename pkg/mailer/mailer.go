// Package mailer renders the fixed set of notification templates and hands
// them to an outbound SMTP transport. There is no queueing and no retry: a
// send is attempted exactly once per request and its outcome is reported as
// a SendResult, never as a request failure.
package mailer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

// ErrCodeNotConfigured marks a send that was skipped because no destination
// or transport was configured. It is a reported outcome, not an error.
const ErrCodeNotConfigured = "not_configured"

// SendResult is the outcome of a single send attempt.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Transport delivers one rendered message to one recipient.
type Transport interface {
	Send(ctx context.Context, to string, msg Message) SendResult
}

// Config selects the transport: either a named provider preset or an
// explicit host/port. Empty credentials select the development transport.
type Config struct {
	Service  string
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// provider presets, mirrors the named-service shortcut of the transport config
var servicePresets = map[string]struct {
	host string
	port int
}{
	"gmail":   {"smtp.gmail.com", 587},
	"outlook": {"smtp-mail.outlook.com", 587},
	"yahoo":   {"smtp.mail.yahoo.com", 587},
}

// NewTransport builds the SMTP transport, or the logging development stub
// when no credentials are configured.
func NewTransport(cfg Config) Transport {
	host := cfg.Host
	port := cfg.Port

	if host == "" {
		if preset, ok := servicePresets[cfg.Service]; ok {
			host, port = preset.host, preset.port
		}
	}

	if host == "" || cfg.Username == "" {
		logrus.Warn("SMTP transport not configured, emails will be logged only")
		return &devTransport{from: cfg.From}
	}

	return &smtpTransport{
		dialer: gomail.NewDialer(host, port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

type smtpTransport struct {
	dialer *gomail.Dialer
	from   string
}

func (t *smtpTransport) Send(ctx context.Context, to string, msg Message) SendResult {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", t.from, "Serenity Spa")
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	// gomail has no context support, bound the dial-and-send ourselves
	done := make(chan error, 1)
	go func() {
		done <- t.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			logrus.Errorf("Email sending failed: %v", err)
			return SendResult{Success: false, Error: err.Error()}
		}
	case <-ctx.Done():
		logrus.Errorf("Email sending timed out: %v", ctx.Err())
		return SendResult{Success: false, Error: "send timeout"}
	case <-time.After(10 * time.Second):
		logrus.Error("Email sending timed out")
		return SendResult{Success: false, Error: "send timeout"}
	}

	id := uuid.New().String()
	logrus.WithFields(logrus.Fields{
		"to":         to,
		"subject":    msg.Subject,
		"message_id": id,
	}).Info("Email sent successfully")

	return SendResult{Success: true, MessageID: id}
}

// devTransport logs instead of sending. Used when SMTP is unconfigured so
// local development exercises the full pipeline.
type devTransport struct {
	from string
}

func (t *devTransport) Send(_ context.Context, to string, msg Message) SendResult {
	id := uuid.New().String()
	logrus.WithFields(logrus.Fields{
		"to":         to,
		"subject":    msg.Subject,
		"message_id": id,
	}).Info("Email recorded (development mode)")

	return SendResult{Success: true, MessageID: id}
}

// Dispatcher pairs the transport with the operator address and exposes one
// method per template kind, so a mismatched template/data pair cannot
// compile.
type Dispatcher struct {
	transport  Transport
	adminEmail string
}

func NewDispatcher(transport Transport, adminEmail string) *Dispatcher {
	if adminEmail == "" {
		logrus.Warn("No admin email configured, operator copies will be skipped")
	}
	return &Dispatcher{transport: transport, adminEmail: adminEmail}
}

func (d *Dispatcher) SendBookingConfirmation(ctx context.Context, to string, data BookingEmailData) SendResult {
	return d.transport.Send(ctx, to, BookingConfirmation(data))
}

func (d *Dispatcher) SendBookingAlert(ctx context.Context, data BookingEmailData) SendResult {
	if d.adminEmail == "" {
		return SendResult{Success: false, Error: ErrCodeNotConfigured}
	}
	return d.transport.Send(ctx, d.adminEmail, BookingAlert(data))
}

func (d *Dispatcher) SendContactAutoReply(ctx context.Context, to string, data ContactEmailData) SendResult {
	return d.transport.Send(ctx, to, ContactAutoReply(data))
}

func (d *Dispatcher) SendContactAlert(ctx context.Context, data ContactEmailData) SendResult {
	if d.adminEmail == "" {
		return SendResult{Success: false, Error: ErrCodeNotConfigured}
	}
	return d.transport.Send(ctx, d.adminEmail, ContactAlert(data))
}

func (d *Dispatcher) SendNewsletterWelcome(ctx context.Context, to string, data WelcomeEmailData) SendResult {
	return d.transport.Send(ctx, to, NewsletterWelcome(data))
}
