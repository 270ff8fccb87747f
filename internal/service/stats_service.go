package service

import (
	"context"
	"fmt"

	"sazo-orders/internal/model"
	"sazo-orders/internal/repository"

	"github.com/rs/zerolog"
)

// cosmeticsNamePattern is the heuristic name classifier behind the
// cosmetics order count. It is deliberately a different strategy from
// the category join used for the revenue split: the two figures feed
// different dashboard widgets and the product owners have kept the
// asymmetry.
const cosmeticsNamePattern = "cosmetic|beauty|serum|lip"

// statsService implements StatsService. Each metric is derived from its
// own read of current state; a response assembled while orders are being
// created may reflect a new order in some metrics and not others.
type statsService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) StatsService {
	return &statsService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "stats").Logger(),
	}
}

// ComputeStats derives the dashboard metrics from live data.
func (s *statsService) ComputeStats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{}
	var err error

	if stats.TotalOrders, err = s.orderRepo.CountOrders(ctx); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	if stats.OnlineTransactions, err = s.orderRepo.CountOrdersByPaymentMethod(ctx, model.PaymentOnline); err != nil {
		return nil, fmt.Errorf("failed to count online transactions: %w", err)
	}

	if stats.CustomerCount, err = s.orderRepo.CountDistinctCustomerPhones(ctx); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	if stats.TotalProducts, err = s.productRepo.CountProducts(ctx); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if stats.OutOfStockCount, err = s.productRepo.CountOutOfStock(ctx); err != nil {
		return nil, fmt.Errorf("failed to count out-of-stock products: %w", err)
	}

	if stats.CosmeticsOrders, err = s.orderRepo.CountOrdersWithItemNameMatching(ctx, cosmeticsNamePattern); err != nil {
		return nil, fmt.Errorf("failed to count cosmetics orders: %w", err)
	}
	stats.FashionOrders = stats.TotalOrders - stats.CosmeticsOrders

	if err = s.computeRevenue(ctx, stats); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("total_orders", stats.TotalOrders).
		Float64("total_revenue", stats.TotalRevenue).
		Int("customer_count", stats.CustomerCount).
		Msg("stats computed")

	return stats, nil
}

// computeRevenue joins the cart items of non-cancelled orders against
// the catalogue and attributes price x quantity per category. Items
// whose product no longer exists fall into the "Other" category, which
// counts as fashion. totalRevenue always equals cosmeticsRevenue plus
// fashionRevenue.
func (s *statsService) computeRevenue(ctx context.Context, stats *model.Stats) error {
	items, err := s.orderRepo.ListActiveCartItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cart items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.ID] {
			seen[item.ID] = true
			ids = append(ids, item.ID)
		}
	}

	categories, err := s.productRepo.CategoriesByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve product categories: %w", err)
	}

	for _, item := range items {
		category, ok := categories[item.ID]
		if !ok {
			category = model.CategoryOther
		}

		amount := item.Subtotal()
		stats.TotalRevenue += amount
		if category == model.CategoryCosmetics {
			stats.CosmeticsRevenue += amount
		} else {
			stats.FashionRevenue += amount
		}
	}

	return nil
}
