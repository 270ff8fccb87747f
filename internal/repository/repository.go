package repository

import (
	"context"

	"sazo-orders/internal/model"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order data access operations.
//
// The stats reads at the bottom are each a single independent query; a
// stats response assembled from them may interleave with concurrent
// writes, which is accepted (see the stats service).
type OrderRepository interface {
	// Create inserts a new order. The orders table carries a uniqueness
	// constraint on order_id; a violation is returned as
	// model.ErrDuplicateOrderID so the caller can re-allocate.
	Create(ctx context.Context, order *model.Order) error

	// GetByID retrieves an order by its internal id. Returns (nil, nil)
	// when no order matches.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByOrderID retrieves an order by its customer-facing order id.
	// Returns (nil, nil) when no order matches.
	GetByOrderID(ctx context.Context, orderID string) (*model.Order, error)

	// List retrieves all orders, newest first. Legacy rows without a
	// creation timestamp are ordered by their calendar date.
	List(ctx context.Context) ([]model.Order, error)

	// UpdateStatus unconditionally overwrites the status of the order
	// addressed by internal id and returns the updated record, or
	// (nil, nil) when no order matches.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error)

	// Delete removes the order addressed by internal id. The boolean
	// reports whether a row was actually deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// OrderIDExists reports whether an order id is already taken.
	OrderIDExists(ctx context.Context, orderID string) (bool, error)

	// CountOrders returns the total number of orders.
	CountOrders(ctx context.Context) (int, error)

	// CountOrdersByPaymentMethod counts orders placed with the method.
	CountOrdersByPaymentMethod(ctx context.Context, method string) (int, error)

	// CountDistinctCustomerPhones counts distinct phone strings across
	// all orders. Exact string match, no normalisation.
	CountDistinctCustomerPhones(ctx context.Context) (int, error)

	// CountOrdersWithItemNameMatching counts orders with at least one
	// cart item whose name matches the case-insensitive POSIX regex.
	CountOrdersWithItemNameMatching(ctx context.Context, pattern string) (int, error)

	// ListActiveCartItems returns the flattened cart items of every
	// order that is not Cancelled, for revenue attribution.
	ListActiveCartItems(ctx context.Context) ([]model.CartItem, error)
}

// ProductRepository defines the interface for catalogue data access. The
// order engine treats the catalogue as a read-only collaborator.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns (nil, nil)
	// when no product matches.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// CategoriesByIDs maps product ids to their categories. Ids with no
	// matching product are absent from the result.
	CategoriesByIDs(ctx context.Context, ids []string) (map[string]string, error)

	// CountProducts returns the total number of catalogue products.
	CountProducts(ctx context.Context) (int, error)

	// CountOutOfStock returns the number of out-of-stock products.
	CountOutOfStock(ctx context.Context) (int, error)
}
