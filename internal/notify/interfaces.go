package notify

import "github.com/jwiersema/streakd/internal/config"

// Notifier defines the interface for delivering failure reports
type Notifier interface {
	NotifyFailure(subject, body string, attachments ...string) error
}

// SMTPNotifier implements Notifier using SMTP
type SMTPNotifier struct {
	cfg config.ConfigProvider
}

// NewSMTPNotifier creates a new SMTP notifier
func NewSMTPNotifier(cfg config.ConfigProvider) Notifier {
	return &SMTPNotifier{cfg: cfg}
}
