// Package mailer sends outbound helpdesk email over SMTP.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

// Mailer delivers plain-text messages.
type Mailer struct {
	cfg config.SMTPConfig
}

// New builds a mailer from SMTP configuration.
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendAssignment notifies a technician that a ticket was assigned to them.
func (m *Mailer) SendAssignment(ctx context.Context, to, technicianName, ticketTitle, ticketToken string) error {
	subject := fmt.Sprintf("Ticket %s assigned to you", ticketToken)
	body := fmt.Sprintf("Hi %s,\n\nTicket %s (%q) has been assigned to you.\n", technicianName, ticketToken, ticketTitle)
	return m.send(ctx, to, subject, body)
}

// SendVerification delivers an email-verification token.
func (m *Mailer) SendVerification(ctx context.Context, to, token string) error {
	body := fmt.Sprintf("Use this code to verify your helpdesk account: %s\n", token)
	return m.send(ctx, to, "Verify your helpdesk account", body)
}

// SendPasswordReset delivers a password-reset token.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, token string) error {
	body := fmt.Sprintf("Use this code to reset your helpdesk password: %s\n", token)
	return m.send(ctx, to, "Helpdesk password reset", body)
}

func (m *Mailer) send(_ context.Context, to, subject, body string) error {
	if m.cfg.Host == "" {
		// Mail disabled; callers treat delivery as best-effort anyway.
		return nil
	}

	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.From, to, subject, body)

	addr := m.cfg.Host + ":" + strconv.Itoa(m.cfg.Port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("connect smtp: %w", err)
	}
	defer client.Close()

	if m.cfg.UseTLS {
		tlsConfig := &tls.Config{ServerName: m.cfg.Host}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("start tls: %w", err)
		}
	}

	if m.cfg.User != "" && m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data: %w", err)
	}
	if _, err := w.Write([]byte(message)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return client.Quit()
}
