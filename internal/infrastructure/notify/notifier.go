package notify

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"garmin-sync/internal/config"
)

// Notifier delivers a failure notification. Sync failures are notified, not
// turned into process failures, so callers log a Notify error and move on.
type Notifier interface {
	Notify(subject, body string) error
}

// NewNotifier returns an SMTP notifier, or a logging no-op when the email
// credentials are not configured.
func NewNotifier(cfg *config.Config, logger *zap.Logger) Notifier {
	if !cfg.Notify.Enabled() {
		logger.Warn("Missing sender and receiver emails, notifications disabled")
		return &noopNotifier{logger: logger}
	}

	return &smtpNotifier{
		config: &cfg.Notify,
		logger: logger,
	}
}

type noopNotifier struct {
	logger *zap.Logger
}

func (n *noopNotifier) Notify(subject, _ string) error {
	n.logger.Warn("Notification suppressed, email is not configured",
		zap.String("subject", subject),
	)
	return nil
}

type smtpNotifier struct {
	config *config.NotifyConfig
	logger *zap.Logger
}

// Notify sends one plain-text email over implicit TLS (port 465).
func (n *smtpNotifier) Notify(subject, body string) error {
	addr := fmt.Sprintf("%s:%d", n.config.SMTPHost, n.config.SMTPPort)

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: n.config.SMTPHost})
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, n.config.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", n.config.SenderEmail, n.config.AppPassword, n.config.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}

	if err := client.Mail(n.config.SenderEmail); err != nil {
		return fmt.Errorf("smtp MAIL failed: %w", err)
	}
	if err := client.Rcpt(n.config.ReceiverEmail); err != nil {
		return fmt.Errorf("smtp RCPT failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}

	msg := buildMessage(n.config.SenderEmail, n.config.ReceiverEmail, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish email: %w", err)
	}

	if err := client.Quit(); err != nil {
		n.logger.Debug("smtp QUIT failed", zap.Error(err))
	}

	n.logger.Info("Email sent",
		zap.String("subject", subject),
		zap.String("receiver", n.config.ReceiverEmail),
	)

	return nil
}

func buildMessage(from, to, subject, body string) string {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	sb.WriteString("\r\n")
	return sb.String()
}
