package service

import (
	"bitwise74/tracker-api/internal/metrics"
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const verificationSubject = "Please Verify Your Email with Tracker App"

// Mailer delivers verification links.
type Mailer interface {
	SendVerification(ctx context.Context, to, token string) error
}

type MailConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string

	ResendAPIKey string

	// VerificationURI is the public address of GET /auth/verify
	VerificationURI string
}

// NewMailer returns the mailer for transport, one of "smtp", "resend"
// or "none". "none" only logs the link.
func NewMailer(transport string, cfg MailConfig) (Mailer, error) {
	switch transport {
	case "smtp":
		return &SMTPMailer{
			cfg:    cfg,
			dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Sender, cfg.Password),
		}, nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, errors.New("no resend api key provided")
		}

		return &ResendMailer{
			cfg:    cfg,
			client: resend.NewClient(cfg.ResendAPIKey),
		}, nil
	case "none":
		return &LogMailer{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unsupported mail transport %q", transport)
	}
}

func verificationLink(uri, token, email string) string {
	q := url.Values{}
	q.Set("verification", token)
	q.Set("email", email)

	return uri + "?" + q.Encode()
}

func verificationBody(link string) string {
	return fmt.Sprintf(`<h3>Welcome to Tracker</h3>
<p><a href="%s">Please click here</a> to verify your email address.</p>`, link)
}

type SMTPMailer struct {
	cfg    MailConfig
	dialer *gomail.Dialer
}

// SendVerification sends the link over SMTP. gomail can't be interrupted
// once dialing starts, so ctx is only checked before that.
func (m *SMTPMailer) SendVerification(ctx context.Context, to, token string) error {
	if to == m.cfg.Sender {
		return errors.New("invalid email address")
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("verification mail not sent, %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", verificationSubject)
	msg.SetBody("text/html", verificationBody(verificationLink(m.cfg.VerificationURI, token, to)))

	if err := m.dialer.DialAndSend(msg); err != nil {
		metrics.VerificationMails.WithLabelValues("smtp", "failure").Inc()
		return fmt.Errorf("failed to send verification mail, %w", err)
	}

	metrics.VerificationMails.WithLabelValues("smtp", "success").Inc()
	return nil
}

type ResendMailer struct {
	cfg    MailConfig
	client *resend.Client
}

func (m *ResendMailer) SendVerification(ctx context.Context, to, token string) error {
	if to == m.cfg.Sender {
		return errors.New("invalid email address")
	}

	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.cfg.Sender,
		To:      []string{to},
		Subject: verificationSubject,
		Html:    verificationBody(verificationLink(m.cfg.VerificationURI, token, to)),
	})
	if err != nil {
		metrics.VerificationMails.WithLabelValues("resend", "failure").Inc()
		return fmt.Errorf("failed to send verification mail, %w", err)
	}

	metrics.VerificationMails.WithLabelValues("resend", "success").Inc()
	return nil
}

// LogMailer is meant for local development.
type LogMailer struct {
	cfg MailConfig
}

func (m *LogMailer) SendVerification(ctx context.Context, to, token string) error {
	zap.L().Info("Verification mail not sent, no mail transport configured",
		zap.String("to", to),
		zap.String("link", verificationLink(m.cfg.VerificationURI, token, to)))

	metrics.VerificationMails.WithLabelValues("none", "success").Inc()
	return nil
}
