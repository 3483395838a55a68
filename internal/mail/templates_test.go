package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"senjewels/internal/models"
)

func testOrder(status models.OrderStatus) *models.Order {
	return &models.Order{
		ID:            primitive.NewObjectID(),
		CustomerName:  "Ada Example",
		CustomerEmail: "ada@example.com",
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Amethyst Pendant", Price: 34.99, Quantity: 2},
		},
		Subtotal:  69.98,
		Shipping:  0,
		Total:     69.98,
		Status:    status,
		CreatedAt: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestRenderConfirmation(t *testing.T) {
	o := testOrder(models.StatusPending)

	html, err := renderConfirmation(o)
	require.NoError(t, err)

	assert.Contains(t, html, "Ada Example")
	assert.Contains(t, html, o.ID.Hex())
	assert.Contains(t, html, "Amethyst Pendant")
	assert.Contains(t, html, "£69.98")
	assert.Contains(t, html, "Free", "zero shipping renders as Free")
	assert.Contains(t, html, "01/06/2025")
}

func TestRenderConfirmationPaidShipping(t *testing.T) {
	o := testOrder(models.StatusPending)
	o.Shipping = 4.50
	o.Total = 74.48

	html, err := renderConfirmation(o)
	require.NoError(t, err)

	assert.Contains(t, html, "£4.50")
	assert.NotContains(t, html, "Free")
}

func TestRenderStatusProcessing(t *testing.T) {
	o := testOrder(models.StatusProcessing)

	html, err := renderStatus(o)
	require.NoError(t, err)

	assert.Contains(t, html, "is being processed")
	assert.NotContains(t, html, "Tracking Information")
}

func TestRenderStatusCompletedWithTracking(t *testing.T) {
	o := testOrder(models.StatusCompleted)
	o.Tracking = &models.TrackingInfo{
		Carrier:        "Royal Mail",
		TrackingNumber: "RM123456789GB",
		TrackingURL:    "https://track.example.com/RM123456789GB",
	}

	html, err := renderStatus(o)
	require.NoError(t, err)

	assert.Contains(t, html, "on its way")
	assert.Contains(t, html, "Royal Mail")
	assert.Contains(t, html, "RM123456789GB")
	assert.Contains(t, html, "Track Your Package")
}

func TestStatusText(t *testing.T) {
	o := testOrder(models.StatusCompleted)
	o.Tracking = &models.TrackingInfo{Carrier: "DPD", TrackingNumber: "123"}

	text := statusText(o)
	assert.Contains(t, text, "completed")
	assert.Contains(t, text, "DPD")
}
