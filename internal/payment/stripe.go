// Package payment wraps the hosted checkout session boundary. Card details
// are collected by the processor, not by this system; control returns via a
// redirect carrying an opaque session id.
package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"senjewels/internal/cart"
)

const currency = "gbp"

type Client struct {
	api     *client.API
	baseURL string
}

func New(secretKey, baseURL string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api, baseURL: baseURL}
}

// Session is the reconstructed view of a hosted checkout session. Customer
// and item data come from the session and its attached metadata, not from the
// local database.
type Session struct {
	ID            string      `json:"id"`
	OrderID       string      `json:"orderId"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	PaymentStatus string      `json:"paymentStatus"`
	Items         []cart.Item `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Shipping      float64     `json:"shipping"`
	Total         float64     `json:"total"`
}

// CreateSession opens a hosted checkout session for the given cart and
// returns the session id and the redirect target.
func (c *Client) CreateSession(ctx context.Context, orderID, customerEmail string, items []cart.Item) (id, url string, err error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return "", "", err
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:          buildLineItems(items),
		SuccessURL:         stripe.String(c.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(c.baseURL + "/checkout"),
		CustomerEmail:      stripe.String(customerEmail),
	}
	params.Context = ctx
	params.AddMetadata("order_id", orderID)
	params.AddMetadata("items", string(itemsJSON))

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.ID, s.URL, nil
}

// GetSession looks a session up by id and rebuilds the order view from it.
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")

	s, err := c.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("lookup checkout session: %w", err)
	}

	var items []cart.Item
	if raw, ok := s.Metadata["items"]; ok {
		// Metadata is advisory; a session without parsable items still
		// resolves with its amounts.
		_ = json.Unmarshal([]byte(raw), &items)
	}

	out := &Session{
		ID:            s.ID,
		OrderID:       s.Metadata["order_id"],
		CustomerEmail: s.CustomerEmail,
		PaymentStatus: string(s.PaymentStatus),
		Items:         items,
		Subtotal:      fromPence(s.AmountSubtotal),
		Total:         fromPence(s.AmountTotal),
	}
	if s.CustomerDetails != nil {
		out.CustomerName = s.CustomerDetails.Name
		if s.CustomerDetails.Email != "" {
			out.CustomerEmail = s.CustomerDetails.Email
		}
	}
	if s.TotalDetails != nil {
		out.Shipping = fromPence(s.TotalDetails.AmountShipping)
	}
	return out, nil
}

func buildLineItems(items []cart.Item) []*stripe.CheckoutSessionLineItemParams {
	out := make([]*stripe.CheckoutSessionLineItemParams, len(items))
	for i, it := range items {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(it.Name),
		}
		if it.Image != "" {
			product.Images = stripe.StringSlice([]string{it.Image})
		}
		out[i] = &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(toPence(it.Price)),
			},
			Quantity: stripe.Int64(int64(it.Quantity)),
		}
	}
	return out
}

func toPence(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromPence(amount int64) float64 {
	f, _ := decimal.NewFromInt(amount).Div(decimal.NewFromInt(100)).Float64()
	return f
}
