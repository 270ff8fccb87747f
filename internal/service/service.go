package service

import (
	"context"

	"sazo-orders/internal/model"
)

// OrderService defines the order lifecycle operations exposed to the
// HTTP boundary.
type OrderService interface {
	// PlaceOrder admits a checkout submission: allocates a unique order
	// id, persists the order as Pending, and queues the admin
	// notification. Notification outcome never affects the result.
	PlaceOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, error)

	// GetOrder fetches an order by either identity. A 5-7 digit numeric
	// string is looked up as a customer-facing order id, anything else
	// as an internal id. Misses return model.ErrOrderNotFound.
	GetOrder(ctx context.Context, idOrOrderID string) (*model.Order, error)

	// ListOrders returns all orders, newest first.
	ListOrders(ctx context.Context) ([]model.Order, error)

	// UpdateStatus overwrites the status of the order addressed by
	// internal id. Any status may be set to any other.
	UpdateStatus(ctx context.Context, id string, status string) (*model.Order, error)

	// DeleteOrder removes the order addressed by internal id.
	DeleteOrder(ctx context.Context, id string) error
}

// StatsService computes the dashboard aggregates.
type StatsService interface {
	// ComputeStats derives the dashboard metrics from live order and
	// catalogue data. Never cached, never mutates stored state.
	ComputeStats(ctx context.Context) (*model.Stats, error)
}

// ProductService defines the read-only catalogue operations.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}
