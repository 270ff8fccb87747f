package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"sazo-orders/internal/model"
	"sazo-orders/internal/orderid"
	"sazo-orders/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderIDPattern matches customer-facing order ids. Anything else is
// treated as an internal id.
var orderIDPattern = regexp.MustCompile(`^\d{5,7}$`)

// createAttempts bounds how many times PlaceOrder re-allocates after
// losing an insert race to a concurrent creation with the same id.
const createAttempts = 4

// Notifier queues a best-effort notification for a created order.
type Notifier interface {
	Submit(order *model.Order)
}

// orderService implements OrderService.
type orderService struct {
	repo      repository.OrderRepository
	allocator *orderid.Allocator
	notifier  Notifier
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	repo repository.OrderRepository,
	allocator *orderid.Allocator,
	notifier Notifier,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		repo:      repo,
		allocator: allocator,
		notifier:  notifier,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder admits a checkout submission. Every failure before the
// notification step fails the whole creation; the notification itself is
// queued after the order is durably persisted and cannot fail it.
func (s *orderService) PlaceOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, error) {
	if req == nil || len(req.CartItems) == 0 {
		return nil, model.ErrEmptyCart
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:             uuid.New(),
		FirstName:      req.CustomerDetails.FirstName,
		LastName:       req.CustomerDetails.LastName,
		Email:          req.CustomerDetails.Email,
		Phone:          req.CustomerDetails.Phone,
		Address:        req.CustomerDetails.Address,
		City:           req.CustomerDetails.City,
		Note:           req.CustomerDetails.Note,
		CartItems:      req.CartItems,
		Total:          req.Total,
		ShippingCharge: req.ShippingCharge,
		PaymentMethod:  req.PaymentInfo.PaymentMethod,
		PaymentDetails: req.PaymentInfo.PaymentDetails,
		Date:           now.Format("2006-01-02"),
		CreatedAt:      &now,
		Status:         model.StatusPending,
	}

	// The allocator's probe is advisory; the unique constraint decides.
	// A lost race surfaces as ErrDuplicateOrderID and we draw again.
	var err error
	for attempt := 1; attempt <= createAttempts; attempt++ {
		order.OrderID, err = s.allocator.Allocate(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("order id allocation failed")
			return nil, err
		}

		err = s.repo.Create(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, model.ErrDuplicateOrderID) {
			s.logger.Error().Err(err).Str("order_id", order.OrderID).Msg("failed to persist order")
			return nil, fmt.Errorf("failed to place order: %w", err)
		}

		s.logger.Warn().
			Str("order_id", order.OrderID).
			Int("attempt", attempt).
			Msg("order id taken by concurrent creation, re-allocating")
	}
	if err != nil {
		s.logger.Error().Int("attempts", createAttempts).Msg("could not place order with a unique id")
		return nil, model.ErrOrderIDExhausted
	}

	s.notifier.Submit(order)

	s.logger.Info().
		Str("order_id", order.OrderID).
		Int("item_count", len(order.CartItems)).
		Str("payment_method", order.PaymentMethod).
		Msg("order placed")

	return order, nil
}

// GetOrder fetches an order by either identity.
func (s *orderService) GetOrder(ctx context.Context, idOrOrderID string) (*model.Order, error) {
	if orderIDPattern.MatchString(idOrOrderID) {
		order, err := s.repo.GetByOrderID(ctx, idOrOrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to get order: %w", err)
		}
		if order == nil {
			// A numeric miss is a clean not-found; it never falls
			// through to an internal-id lookup.
			return nil, model.ErrOrderNotFound
		}
		return order, nil
	}

	id, err := uuid.Parse(idOrOrderID)
	if err != nil {
		s.logger.Debug().Str("id", idOrOrderID).Msg("unparsable order identity")
		return nil, model.ErrOrderNotFound
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// ListOrders returns all orders, newest first.
func (s *orderService) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	if orders == nil {
		orders = []model.Order{}
	}

	return orders, nil
}

// UpdateStatus overwrites the status of the order addressed by internal
// id. Setting the same status twice is a no-op success.
func (s *orderService) UpdateStatus(ctx context.Context, id string, status string) (*model.Order, error) {
	if !model.ValidStatus(status) {
		return nil, model.ErrInvalidStatus
	}

	internalID, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrOrderNotFound
	}

	order, err := s.repo.UpdateStatus(ctx, internalID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", order.OrderID).
		Str("status", status).
		Msg("order status updated")

	return order, nil
}

// DeleteOrder removes the order addressed by internal id.
func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	internalID, err := uuid.Parse(id)
	if err != nil {
		return model.ErrOrderNotFound
	}

	deleted, err := s.repo.Delete(ctx, internalID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !deleted {
		return model.ErrOrderNotFound
	}

	s.logger.Info().Str("id", id).Msg("order deleted")

	return nil
}
