// Package mail formats and dispatches transactional email through Resend.
// Sends are best-effort: callers queue messages on the application's mail
// worker and failures are logged, never rolled back into the order flow.
package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"senjewels/internal/models"
)

type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindStatus       Kind = "status"
)

// Message is one unit of work for the mail worker.
type Message struct {
	Kind  Kind
	Order *models.Order
}

type Mailer struct {
	client  *resend.Client
	from    string
	replyTo string
}

func New(apiKey, from, replyTo string) *Mailer {
	return &Mailer{
		client:  resend.NewClient(apiKey),
		from:    from,
		replyTo: replyTo,
	}
}

// SendOrderConfirmation sends the post-checkout receipt email.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, o *models.Order) error {
	html, err := renderConfirmation(o)
	if err != nil {
		return err
	}

	_, err = m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{o.CustomerEmail},
		ReplyTo: m.replyTo,
		Subject: fmt.Sprintf("Order confirmation #%s", o.ID.Hex()),
		Html:    html,
		Text:    confirmationText(o),
	})
	return err
}

// SendOrderStatus sends the processing/shipped update, including tracking
// info once the order is completed.
func (m *Mailer) SendOrderStatus(ctx context.Context, o *models.Order) error {
	html, err := renderStatus(o)
	if err != nil {
		return err
	}

	subject := "Your order is being processed"
	if o.Status == models.StatusCompleted {
		subject = "Your order is on its way!"
	}

	_, err = m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{o.CustomerEmail},
		ReplyTo: m.replyTo,
		Subject: subject,
		Html:    html,
		Text:    statusText(o),
	})
	return err
}

func confirmationText(o *models.Order) string {
	return fmt.Sprintf("Thank you for your order #%s. Total: £%.2f. We'll process it right away.", o.ID.Hex(), o.Total)
}

func statusText(o *models.Order) string {
	s := fmt.Sprintf("Your order #%s is %s.", o.ID.Hex(), o.Status)
	if o.Tracking != nil {
		s += fmt.Sprintf("\nCarrier: %s\nTracking Number: %s", o.Tracking.Carrier, o.Tracking.TrackingNumber)
	}
	return s
}
