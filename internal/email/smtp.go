package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"tradelink_backend/internal/config"
)

type SMTPProvider struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPProvider(cfg *config.Config) *SMTPProvider {
	dialer := gomail.NewDialer(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUsername,
		cfg.Email.SMTPPassword,
	)
	from := fmt.Sprintf("%s <%s>", cfg.Email.FromName, cfg.Email.FromEmail)
	return &SMTPProvider{dialer: dialer, from: from}
}

func (p *SMTPProvider) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", p.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	return p.dialer.DialAndSend(m)
}
