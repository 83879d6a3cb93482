package notify

import (
	"fmt"
	"os"
	"time"

	"github.com/jwiersema/streakd/internal/util"

	gomail "gopkg.in/mail.v2"
)

const sendTimeoutSeconds = 60

func (s *SMTPNotifier) NotifyFailure(subject, body string, attachments ...string) error {
	settings := s.cfg.GetNotify()
	if !settings.Enabled() {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", settings.Username)
	msg.SetHeader("To", settings.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	for _, file := range attachments {
		if _, err := os.Stat(file); err != nil {
			util.LogErrorf(util.FileError, "attaching diagnostics", "couldn't find file %s", file)
			continue
		}
		msg.Attach(file)
	}

	dialer := gomail.NewDialer(settings.Server, settings.Port, settings.Username, settings.Password)
	dialer.Timeout = sendTimeoutSeconds * time.Second

	if err := dialer.DialAndSend(msg); err != nil {
		util.LogError(util.MailError, "sending failure mail", err)
		return fmt.Errorf("failed to send failure mail: %w", err)
	}

	util.Green.Printf("Failure report mailed to %s\n", settings.To)
	return nil
}
