// Package receipt renders a downloadable PDF for an order: logo, order
// metadata, customer block, line-item table and totals footer. Rendering is
// deterministic apart from remote image fetches, which degrade to text-only
// rows when they fail.
package receipt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"senjewels/internal/models"
)

// Fetcher retrieves a remote image. Swappable in tests.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

type Builder struct {
	logoURL string
	fetch   Fetcher
}

func New(logoURL string) *Builder {
	client := &http.Client{Timeout: 5 * time.Second}
	return &Builder{
		logoURL: logoURL,
		fetch: func(ctx context.Context, url string) ([]byte, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("fetch image: %s", resp.Status)
			}
			return io.ReadAll(io.LimitReader(resp.Body, 5<<20))
		},
	}
}

// NewWithFetcher is used by tests to control image fetching.
func NewWithFetcher(logoURL string, fetch Fetcher) *Builder {
	return &Builder{logoURL: logoURL, fetch: fetch}
}

// Build renders the receipt for an order.
func (b *Builder) Build(ctx context.Context, o *models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	y := 20.0
	if name, ok := b.addImage(ctx, pdf, b.logoURL, "logo"); ok {
		pdf.ImageOptions(name, 14, y, 30, 30, false, gofpdf.ImageOptions{}, 0, "")
		y += 35
	}

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(14, y+7, "Sen Jewels")
	y += 15
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(14, y+6, "Order Confirmation")
	y += 18

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(14, y, "Order Number: "+o.ID.Hex())
	y += 8
	pdf.Text(14, y, "Date: "+o.CreatedAt.Format("02/01/2006"))
	y += 12

	pdf.Text(14, y, "Customer Information:")
	y += 8
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range customerLines(o) {
		pdf.Text(14, y, tr(line))
		y += 6
	}
	y += 8

	// Item thumbnails; a failed fetch renders the row without its image.
	pdf.SetFont("Helvetica", "", 10)
	for i, it := range o.Items {
		if y > 250 {
			pdf.AddPage()
			y = 20
		}
		x := 14.0
		if it.Image != "" {
			if name, ok := b.addImage(ctx, pdf, it.Image, fmt.Sprintf("item%d", i)); ok {
				pdf.ImageOptions(name, 14, y, 20, 20, false, gofpdf.ImageOptions{}, 0, "")
				x = 40
			}
		}
		pdf.Text(x, y+5, tr(it.Name))
		pdf.Text(x, y+12, tr(fmt.Sprintf("£%.2f x %d", it.Price, it.Quantity)))
		y += 25
	}
	y += 6

	pdf.SetY(y)
	b.writeTable(pdf, tr, o)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetY(-25)
	pdf.CellFormat(0, 5, "Thank you for shopping with Sen Jewels!", "", 1, "C", false, 0, "")

	if pdf.Err() {
		return nil, fmt.Errorf("receipt: %v", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Builder) writeTable(pdf *gofpdf.Fpdf, tr func(string) string, o *models.Order) {
	widths := []float64{80, 30, 30, 30}
	aligns := []string{"L", "R", "C", "R"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(13, 148, 136)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range []string{"Item", "Price", "Quantity", "Total"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, aligns[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, it := range o.Items {
		cells := []string{it.Name, money(it.Price), fmt.Sprintf("%d", it.Quantity), money(lineTotal(it))}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 8, tr(c), "1", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFillColor(240, 240, 240)
	footer := [][2]string{
		{"Subtotal:", money(o.Subtotal)},
		{"Shipping:", shippingLabel(o.Shipping)},
		{"Total:", money(o.Total)},
	}
	for _, row := range footer {
		pdf.CellFormat(widths[0]+widths[1], 8, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 8, row[0], "1", 0, "R", true, 0, "")
		pdf.CellFormat(widths[3], 8, tr(row[1]), "1", 0, "R", true, 0, "")
		pdf.Ln(-1)
	}
}

// addImage fetches and registers an image, returning its registration name.
// Any failure just drops the image.
func (b *Builder) addImage(ctx context.Context, pdf *gofpdf.Fpdf, url, name string) (string, bool) {
	if url == "" {
		return "", false
	}
	data, err := b.fetch(ctx, url)
	if err != nil {
		return "", false
	}
	var typ string
	switch http.DetectContentType(data) {
	case "image/png":
		typ = "PNG"
	case "image/jpeg":
		typ = "JPG"
	case "image/gif":
		typ = "GIF"
	default:
		return "", false
	}
	info := pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: typ}, bytes.NewReader(data))
	if info == nil {
		return "", false
	}
	return name, true
}

func customerLines(o *models.Order) []string {
	lines := []string{
		"Name: " + o.CustomerName,
		"Email: " + o.CustomerEmail,
		"Shipping Address:",
	}
	lines = append(lines, splitLines(o.ShippingAddress)...)
	lines = append(lines, "Payment Method: "+paymentLabel(o.PaymentMethod))
	return lines
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func paymentLabel(method string) string {
	if method == models.PaymentCard {
		return "Credit/Debit Card"
	}
	return "Bank Transfer"
}

func shippingLabel(shipping float64) string {
	if shipping == 0 {
		return "Free"
	}
	return money(shipping)
}

func money(amount float64) string {
	return "£" + decimal.NewFromFloat(amount).StringFixed(2)
}

func lineTotal(it models.OrderItem) float64 {
	f, _ := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))).Float64()
	return f
}
