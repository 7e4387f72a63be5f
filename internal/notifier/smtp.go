package notifier

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	gomail "gopkg.in/gomail.v2"

	"github.com/stagekit/greenroom-api/internal/config"
	"github.com/stagekit/greenroom-api/internal/logger"
)

// SMTPNotifier delivers reminder emails over SMTP
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
	log    *log.Logger
}

// NewSMTPNotifier creates a notifier from the SMTP config section
func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	return &SMTPNotifier{
		dialer: gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password),
		from:   cfg.SMTP.From,
		log:    logger.Notifier(),
	}
}

// SendReminder sends one reminder email. The context is honored up front;
// the SMTP dial carries its own timeout once started.
func (n *SMTPNotifier) SendReminder(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("reminder delivery canceled: %w", err)
	}

	n.log.Debug("sending reminder email", "to", msg.ToEmail, "event", msg.EventName)

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", m.FormatAddress(msg.ToEmail, msg.RecipientName))
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := n.dialer.DialAndSend(m); err != nil {
		n.log.Error("failed to send reminder email", "to", msg.ToEmail, "error", err)
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	n.log.Info("reminder email sent", "to", msg.ToEmail, "event", msg.EventName)
	return nil
}
