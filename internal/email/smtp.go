// Package email sends booking lifecycle emails over the salon's SMTP server.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"salon_booking_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

const (
	subjectBookingConfirmed = "Agendamento confirmado"
	subjectBookingCancelled = "Agendamento cancelado"
)

// SMTPSender delivers rendered HTML emails via a direct SMTP connection.
// A nil sender is a no-op, used when email is disabled.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender builds a sender, or nil when email sending is disabled.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		return nil
	}

	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// SendBookingConfirmedEmail emails the customer their appointment details.
func (s *SMTPSender) SendBookingConfirmedEmail(ctx context.Context, toEmail, customerName, serviceName, professionalName string, start time.Time) error {
	if s == nil {
		return nil
	}
	content, err := renderEmailTemplate("booking_confirmed.html", bookingEmailData{
		Title:            subjectBookingConfirmed,
		Heading:          subjectBookingConfirmed,
		CustomerName:     customerName,
		ServiceName:      serviceName,
		ProfessionalName: professionalName,
		StartFormatted:   formatStart(start),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectBookingConfirmed, content)
}

// SendBookingCancelledEmail notifies the customer of a cancellation.
func (s *SMTPSender) SendBookingCancelledEmail(ctx context.Context, toEmail, customerName, serviceName string, start time.Time) error {
	if s == nil {
		return nil
	}
	content, err := renderEmailTemplate("booking_cancelled.html", bookingEmailData{
		Title:          subjectBookingCancelled,
		Heading:        subjectBookingCancelled,
		CustomerName:   customerName,
		ServiceName:    serviceName,
		StartFormatted: formatStart(start),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectBookingCancelled, content)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func formatStart(start time.Time) string {
	return start.Format("02/01/2006 15:04")
}
