package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sazo-orders/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint
// violation (the order_id safety net against allocator races).
const uniqueViolation = "23505"

const orderColumns = `
	id, order_id, first_name, last_name, email, phone, address, city, note,
	cart_items, total, shipping_charge, payment_method, payment_details,
	date, created_at, status
`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Create inserts a new order as a single row; the cart travels in the
// cart_items JSONB column, so creation needs no explicit transaction.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	cartJSON, err := json.Marshal(order.CartItems)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		order.ID, order.OrderID,
		order.FirstName, order.LastName, order.Email, order.Phone,
		order.Address, order.City, order.Note,
		cartJSON, order.Total, order.ShippingCharge,
		order.PaymentMethod, order.PaymentDetails,
		order.Date, order.CreatedAt, order.Status,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Warn().
				Str("order_id", order.OrderID).
				Msg("order id lost an allocation race")
			return model.ErrDuplicateOrderID
		}
		r.logger.Error().
			Err(err).
			Str("order_id", order.OrderID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.OrderID).
		Msg("order created successfully")

	return nil
}

// GetByID retrieves an order by its internal id.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := r.scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// GetByOrderID retrieves an order by its customer-facing order id.
func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	order, err := r.scanOrder(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", orderID).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// List retrieves all orders, newest first.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC NULLS LAST, date DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus unconditionally overwrites the status column. Last writer
// wins; there is no version check on concurrent updates.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error) {
	query := `
		UPDATE orders
		SET status = $2
		WHERE id = $1
		RETURNING ` + orderColumns

	order, err := r.scanOrder(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("id", id.String()).Msg("order not found for status update")
			return nil, nil
		}
		r.logger.Error().
			Err(err).
			Str("id", id.String()).
			Str("status", status).
			Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.OrderID).
		Str("status", status).
		Msg("order status updated")

	return order, nil
}

// Delete removes the order addressed by internal id.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("id", id.String()).Msg("failed to delete order")
		return false, fmt.Errorf("failed to delete order: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// OrderIDExists reports whether an order id is already taken.
func (r *orderRepository) OrderIDExists(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1)`, orderID,
	).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to probe order id")
		return false, fmt.Errorf("failed to probe order id: %w", err)
	}

	return exists, nil
}

// CountOrders returns the total number of orders.
func (r *orderRepository) CountOrders(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM orders`)
}

// CountOrdersByPaymentMethod counts orders placed with the given method.
func (r *orderRepository) CountOrdersByPaymentMethod(ctx context.Context, method string) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM orders WHERE payment_method = $1`, method)
}

// CountDistinctCustomerPhones counts distinct phone strings across all
// orders. Formatting variants of the same number count separately.
func (r *orderRepository) CountDistinctCustomerPhones(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(DISTINCT phone) FROM orders`)
}

// CountOrdersWithItemNameMatching counts orders with at least one cart
// item whose name matches the case-insensitive pattern.
func (r *orderRepository) CountOrdersWithItemNameMatching(ctx context.Context, pattern string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM orders o
		WHERE EXISTS (
			SELECT 1
			FROM jsonb_array_elements(o.cart_items) AS item
			WHERE item->>'name' ~* $1
		)
	`
	return r.countQuery(ctx, query, pattern)
}

// ListActiveCartItems flattens the cart items of every non-cancelled
// order into a single slice for revenue attribution.
func (r *orderRepository) ListActiveCartItems(ctx context.Context) ([]model.CartItem, error) {
	query := `
		SELECT
			item->>'id',
			item->>'name',
			COALESCE((item->>'price')::float8, 0),
			COALESCE((item->>'quantity')::int, 0)
		FROM orders o
		CROSS JOIN LATERAL jsonb_array_elements(o.cart_items) AS item
		WHERE o.status <> $1
	`

	rows, err := r.pool.Query(ctx, query, model.StatusCancelled)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query active cart items")
		return nil, fmt.Errorf("failed to query active cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// countQuery runs a single COUNT query.
func (r *orderRepository) countQuery(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to run count query")
		return 0, fmt.Errorf("failed to run count query: %w", err)
	}
	return count, nil
}

// scanOrder scans a full order row, decoding the JSONB cart column.
func (r *orderRepository) scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		order    model.Order
		cartJSON []byte
	)

	err := row.Scan(
		&order.ID, &order.OrderID,
		&order.FirstName, &order.LastName, &order.Email, &order.Phone,
		&order.Address, &order.City, &order.Note,
		&cartJSON, &order.Total, &order.ShippingCharge,
		&order.PaymentMethod, &order.PaymentDetails,
		&order.Date, &order.CreatedAt, &order.Status,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(cartJSON, &order.CartItems); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}

	return &order, nil
}
