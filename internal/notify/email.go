package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailNotifier mails the treasurer a copy of whatever goes to the group
// chat. The first line of the text becomes the subject.
type EmailNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
	to     *mail.Email
}

func NewEmailNotifier(apiKey, fromAddr, toAddr string) *EmailNotifier {
	return &EmailNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Court Ledger", fromAddr),
		to:     mail.NewEmail("", toAddr),
	}
}

func (e *EmailNotifier) Name() string { return "email" }

func (e *EmailNotifier) Send(ctx context.Context, text string) error {
	subject := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		subject = text[:i]
	}

	message := mail.NewSingleEmail(e.from, subject, e.to, text, "")
	resp, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
	}
	return nil
}
