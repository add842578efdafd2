package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/fx"

	cfgpkg "github.com/subtrackr/subtrackr/pkg/config"
)

// Message is one outbound transactional email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers transactional email. Implementations must return a
// non-nil error for any delivery the provider did not acknowledge; callers
// record a notification as sent only on a nil error.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// ResendSender delivers email through the Resend API. The client is
// constructed once at startup and injected; there is no package-level
// instance.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewSender(cfg *cfgpkg.Config) (Sender, error) {
	if cfg.Mail.APIKey == "" {
		return nil, fmt.Errorf("mail api key is empty")
	}
	return &ResendSender{
		client: resend.NewClient(cfg.Mail.APIKey),
		from:   cfg.Mail.From,
	}, nil
}

func (s *ResendSender) Send(ctx context.Context, msg *Message) error {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	if sent == nil || sent.Id == "" {
		return fmt.Errorf("resend send: empty acknowledgement")
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(NewSender),
)
