package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"expense_manager/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

var ErrMailerNotConfigured = errors.New("smtp host or sender not configured")

// Sender delivers an HTML message.
type Sender interface {
	Send(to, subject, body string, attachments ...string) error
}

type Mailer struct {
	cfg    config.SMTPConfig
	logger logrus.FieldLogger
	dialer *gomail.Dialer
}

func NewMailer(cfg config.SMTPConfig, logger logrus.FieldLogger) (*Mailer, error) {
	if cfg.Host == "" || cfg.Email == "" {
		return nil, ErrMailerNotConfigured
	}
	return &Mailer{
		cfg:    cfg,
		logger: Component(logger, "mailer"),
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Email, cfg.Password),
	}, nil
}

func (m *Mailer) Send(to, subject, body string, attachments ...string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Email)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	for _, filePath := range attachments {
		if _, err := os.Stat(filePath); err != nil {
			m.logger.Warnf("Attachment not found, skipping: %s", filePath)
			continue
		}
		msg.Attach(filePath, gomail.Rename(filepath.Base(filePath)))
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Errorf("failed to send email to %s", to)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
