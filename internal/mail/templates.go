package mail

import (
	"bytes"
	"html/template"
	"time"

	"senjewels/internal/models"
)

var (
	confirmationTmpl = template.Must(template.New("confirmation").Parse(confirmationTemplate))
	statusTmpl       = template.Must(template.New("status").Parse(statusTemplate))
)

type statusData struct {
	OrderID      string
	CustomerName string
	Processing   bool
	Tracking     *models.TrackingInfo
	Year         int
}

type confirmationData struct {
	OrderID      string
	CustomerName string
	Items        []models.OrderItem
	Subtotal     float64
	Shipping     float64
	Total        float64
	OrderDate    string
	Year         int
}

func renderConfirmation(o *models.Order) (string, error) {
	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, confirmationData{
		OrderID:      o.ID.Hex(),
		CustomerName: o.CustomerName,
		Items:        o.Items,
		Subtotal:     o.Subtotal,
		Shipping:     o.Shipping,
		Total:        o.Total,
		OrderDate:    o.CreatedAt.Format("02/01/2006 15:04"),
		Year:         time.Now().Year(),
	})
	return buf.String(), err
}

func renderStatus(o *models.Order) (string, error) {
	var buf bytes.Buffer
	err := statusTmpl.Execute(&buf, statusData{
		OrderID:      o.ID.Hex(),
		CustomerName: o.CustomerName,
		Processing:   o.Status == models.StatusProcessing,
		Tracking:     o.Tracking,
		Year:         time.Now().Year(),
	})
	return buf.String(), err
}

const confirmationTemplate = `
<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background-color: #0d9488; color: white; padding: 20px; text-align: center; }
      .content { padding: 20px; background: #fff; }
      .footer { text-align: center; padding: 20px; color: #666; }
      table { width: 100%; border-collapse: collapse; }
      th, td { text-align: left; padding: 8px; border-bottom: 1px solid #e5e7eb; }
      .totals td { border-bottom: none; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>Thank you for your order!</h1>
      </div>
      <div class="content">
        <p>Dear {{.CustomerName}},</p>
        <p>We've received your order #{{.OrderID}} placed on {{.OrderDate}} and will process it right away.</p>
        <table>
          <tr><th>Item</th><th>Qty</th><th>Price</th></tr>
          {{range .Items}}
          <tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>£{{printf "%.2f" .Price}}</td></tr>
          {{end}}
          <tr class="totals"><td></td><td>Subtotal</td><td>£{{printf "%.2f" .Subtotal}}</td></tr>
          <tr class="totals"><td></td><td>Shipping</td><td>{{if eq .Shipping 0.0}}Free{{else}}£{{printf "%.2f" .Shipping}}{{end}}</td></tr>
          <tr class="totals"><td></td><td><strong>Total</strong></td><td><strong>£{{printf "%.2f" .Total}}</strong></td></tr>
        </table>
        <p>We'll contact you with an estimated delivery date after your order is confirmed.</p>
      </div>
      <div class="footer">
        <p>Thank you for shopping with Sen Jewels!</p>
        <p>&copy; {{.Year}} Sen Jewels. All rights reserved.</p>
      </div>
    </div>
  </body>
</html>
`

const statusTemplate = `
<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background-color: #0d9488; color: white; padding: 20px; text-align: center; }
      .content { padding: 20px; background: #fff; }
      .footer { text-align: center; padding: 20px; color: #666; }
      .button { display: inline-block; padding: 10px 20px; background-color: #0d9488; color: white; text-decoration: none; border-radius: 5px; }
      .tracking-info { background: #f3f4f6; padding: 15px; margin: 20px 0; border-radius: 5px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>Order {{if .Processing}}Update{{else}}Shipped{{end}}!</h1>
      </div>
      <div class="content">
        <p>Dear {{.CustomerName}},</p>
        {{if .Processing}}
        <p>Great news! Your order #{{.OrderID}} is being processed. Our team is carefully preparing your items for shipment.</p>
        <p>We'll send you another update when your order ships.</p>
        {{else}}
        <p>Exciting news! Your order #{{.OrderID}} is on its way to you!</p>
        {{end}}
        {{with .Tracking}}
        <div class="tracking-info">
          <h3>Tracking Information</h3>
          <p><strong>Carrier:</strong> {{.Carrier}}</p>
          <p><strong>Tracking Number:</strong> {{.TrackingNumber}}</p>
          {{if .TrackingURL}}<p><a href="{{.TrackingURL}}" class="button">Track Your Package</a></p>{{end}}
        </div>
        {{end}}
        <p>If you have any questions about your order, please don't hesitate to contact us.</p>
      </div>
      <div class="footer">
        <p>Thank you for shopping with Sen Jewels!</p>
        <p>&copy; {{.Year}} Sen Jewels. All rights reserved.</p>
      </div>
    </div>
  </body>
</html>
`
