package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrInvalidTransition  = errors.New("models: order status can only move forward")
	ErrTrackingRequired   = errors.New("models: tracking info required to complete an order")
)

// Product categories as shown in the shop filters.
const (
	CategoryGemstone         = "gemstone"
	CategoryGlass            = "glass"
	CategoryBubbleTeaEarring = "bubble-tea-earrings"
	CategoryOther            = "other"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryGemstone, CategoryGlass, CategoryBubbleTeaEarring, CategoryOther:
		return true
	}
	return false
}

const (
	PaymentCard         = "card"
	PaymentBankTransfer = "bank-transfer"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Stock       int                `bson:"stock" json:"stock"`
	Image       string             `bson:"image" json:"image"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// OrderItem is the cart line frozen into the order at checkout.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Image     string  `bson:"image" json:"image"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

type TrackingInfo struct {
	Carrier        string `bson:"carrier" json:"carrier"`
	TrackingNumber string `bson:"tracking_number" json:"trackingNumber"`
	TrackingURL    string `bson:"tracking_url,omitempty" json:"trackingUrl,omitempty"`
}

// Order is the durable record of a checkout submission, independent of the
// payment outcome. UserID is zero for guest or processor-originated orders.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id,omitempty" json:"userId,omitempty"`
	CustomerName    string             `bson:"customer_name" json:"customerName"`
	CustomerEmail   string             `bson:"customer_email" json:"customerEmail"`
	ShippingAddress string             `bson:"shipping_address" json:"shippingAddress"`
	PaymentMethod   string             `bson:"payment_method" json:"paymentMethod"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Shipping        float64            `bson:"shipping" json:"shipping"`
	Total           float64            `bson:"total" json:"total"`
	Status          OrderStatus        `bson:"status" json:"status"`
	Tracking        *TrackingInfo      `bson:"tracking_info,omitempty" json:"trackingInfo,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
}

// OrderDetail duplicates the customer/shipping/payment/totals block under the
// same id as the order. The duplication is deliberate: reports and receipts
// read one flat document instead of joining.
type OrderDetail struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	CustomerName    string             `bson:"customer_name" json:"customerName"`
	CustomerEmail   string             `bson:"customer_email" json:"customerEmail"`
	ShippingAddress string             `bson:"shipping_address" json:"shippingAddress"`
	PaymentMethod   string             `bson:"payment_method" json:"paymentMethod"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Shipping        float64            `bson:"shipping" json:"shipping"`
	Total           float64            `bson:"total" json:"total"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// UserProfile is keyed by the auth user id and mutated only by the user.
type UserProfile struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	FullName   string             `bson:"full_name" json:"fullName"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone" json:"phone"`
	Address    string             `bson:"address" json:"address"`
	City       string             `bson:"city" json:"city"`
	PostalCode string             `bson:"postal_code" json:"postalCode"`
	Country    string             `bson:"country" json:"country"`
}

type ContactMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
