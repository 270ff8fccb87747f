package model

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Transitions are caller-directed: any status may be set
// to any other, only enum membership is validated.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// Payment methods.
const (
	PaymentOnline         = "Online"
	PaymentCashOnDelivery = "Cash on Delivery"
)

// ValidStatus reports whether s is one of the order status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order represents a single checkout submission. The ID is the opaque
// storage identity; OrderID is the short customer-facing reference.
type Order struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrderID        string     `json:"orderId" db:"order_id"`
	FirstName      string     `json:"firstName" db:"first_name"`
	LastName       string     `json:"lastName" db:"last_name"`
	Email          string     `json:"email" db:"email"`
	Phone          string     `json:"phone" db:"phone"`
	Address        string     `json:"address" db:"address"`
	City           string     `json:"city" db:"city"`
	Note           string     `json:"note" db:"note"`
	CartItems      []CartItem `json:"cartItems" db:"cart_items"`
	Total          float64    `json:"total" db:"total"`
	ShippingCharge float64    `json:"shippingCharge" db:"shipping_charge"`
	PaymentMethod  string     `json:"paymentMethod" db:"payment_method"`
	PaymentDetails string     `json:"paymentDetails" db:"payment_details"`
	Date           string     `json:"date" db:"date"`
	CreatedAt      *time.Time `json:"createdAt,omitempty" db:"created_at"`
	Status         string     `json:"status" db:"status"`
}

// CartItem is one product line within an order's cart. ID references the
// product; price and quantity are the client-submitted values at checkout
// time and are never revalidated against the catalogue.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size"`
}

// Subtotal returns price x quantity for the line.
func (c CartItem) Subtotal() float64 {
	return c.Price * float64(c.Quantity)
}

// CustomerDetails is the customer block of a checkout submission.
type CustomerDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Note      string `json:"note"`
}

// PaymentInfo carries the chosen payment method and any free-form
// supplementary data (e.g. a transaction reference).
type PaymentInfo struct {
	PaymentMethod  string `json:"paymentMethod"`
	PaymentDetails string `json:"paymentDetails"`
}

// CreateOrderRequest represents the request payload for placing an order.
type CreateOrderRequest struct {
	CustomerDetails CustomerDetails `json:"customerDetails"`
	CartItems       []CartItem      `json:"cartItems"`
	Total           float64         `json:"total"`
	PaymentInfo     PaymentInfo     `json:"paymentInfo"`
	ShippingCharge  float64         `json:"shippingCharge"`
}

// UpdateStatusRequest represents the request payload for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Stats holds the dashboard aggregates computed over the full order
// history and the product catalogue.
type Stats struct {
	TotalOrders        int     `json:"totalOrders"`
	OnlineTransactions int     `json:"onlineTransactions"`
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalProducts      int     `json:"totalProducts"`
	OutOfStockCount    int     `json:"outOfStockCount"`
	FashionRevenue     float64 `json:"fashionRevenue"`
	CosmeticsRevenue   float64 `json:"cosmeticsRevenue"`
	FashionOrders      int     `json:"fashionOrders"`
	CosmeticsOrders    int     `json:"cosmeticsOrders"`
	CustomerCount      int     `json:"customerCount"`
}
