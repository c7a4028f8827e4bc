package email

import "context"

// Provider sends transactional and digest mail.
type Provider interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
