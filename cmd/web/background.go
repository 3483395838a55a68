package main

import (
	"context"
	"time"

	"senjewels/internal/mail"
)

// mailWorker drains the mail queue off the request path. Sends are
// best-effort: a failure is logged and the order flow is never rolled back.
func (app *application) mailWorker() {
	for msg := range app.mailQueue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

		var err error
		switch msg.Kind {
		case mail.KindStatus:
			err = app.mailer.SendOrderStatus(ctx, msg.Order)
		default:
			err = app.mailer.SendOrderConfirmation(ctx, msg.Order)
		}
		cancel()

		if err != nil {
			app.errorLog.Println("Failed to send email for order", msg.Order.ID.Hex(), ":", err)
		}
	}
}
