package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"ShelterScanner/internal/config"
	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/infrastructure/notify"
	"ShelterScanner/internal/ports"
)

type sendFunc func(mail *email.Email, addr string, auth smtp.Auth) error

// Notifier emails critical alerts to subscribers over SMTP.
type Notifier struct {
	cfg  config.SMTPConfig
	send sendFunc
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier builds an SMTP notifier from configuration.
func NewNotifier(cfg config.SMTPConfig) *Notifier {
	return &Notifier{
		cfg: cfg,
		send: func(mail *email.Email, addr string, auth smtp.Auth) error {
			return mail.Send(addr, auth)
		},
	}
}

// Notify sends one message with every recipient in Bcc.
func (n *Notifier) Notify(ctx context.Context, emails []string, record domain.PetRecord) error {
	if n.cfg.Host == "" || n.cfg.From == "" {
		return errors.New("smtp notifier misconfigured")
	}
	if len(emails) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("ShelterScanner <%s>", n.cfg.From)
	mail.To = []string{n.cfg.From}
	mail.Bcc = append([]string(nil), emails...)
	mail.Subject = notify.Subject(record)
	mail.Text = []byte(notify.Body(record))

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := n.send(mail, addr, auth); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	return nil
}
