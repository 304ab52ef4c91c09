// Package service contains the collaborators handlers hand work to:
// mail delivery, avatar lookup and scheduled maintenance
package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ConfirmationMail is everything needed to render a confirmation email
type ConfirmationMail struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Host     string `json:"host"` // Base URL the user signed up through
	Token    string `json:"token"`
}

func (m ConfirmationMail) Link() string {
	return strings.TrimSuffix(m.Host, "/") + "/auth/confirmed_email/" + m.Token
}

type Mailer interface {
	SendConfirmation(ctx context.Context, m ConfirmationMail) error
}

type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPMailer(o SMTPOptions) *SMTPMailer {
	from := o.From
	if from == "" {
		from = o.Username
	}

	return &SMTPMailer{
		dialer:   gomail.NewDialer(o.Host, o.Port, o.Username, o.Password),
		from:     from,
		fromName: o.FromName,
	}
}

func (s *SMTPMailer) SendConfirmation(_ context.Context, m ConfirmationMail) error {
	if strings.EqualFold(m.Email, s.from) {
		return errors.New("invalid email address")
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.from, s.fromName)
	msg.SetHeader("To", m.Email)
	msg.SetHeader("Subject", "Confirm your email")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>Click <a href='%s'>here</a> to confirm your email address.</p>",
		html.EscapeString(m.Username), html.EscapeString(m.Link()),
	))

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send confirmation mail, %w", err)
	}

	return nil
}

// LogMailer only logs the confirmation link. Used when no SMTP host is configured.
type LogMailer struct{}

func (LogMailer) SendConfirmation(_ context.Context, m ConfirmationMail) error {
	zap.L().Info("Confirmation mail", zap.String("to", m.Email), zap.String("link", m.Link()))
	return nil
}
