package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"sazo-orders/internal/model"
	"sazo-orders/internal/notify"
	"sazo-orders/internal/orderid"
	"sazo-orders/internal/repository"
	"sazo-orders/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProducts(t *testing.T, db *TestDB) {
	t.Helper()

	ctx := context.Background()
	products := []struct {
		id, name, category string
		price              float64
		outOfStock         bool
	}{
		{"P001", "Silk Scarf", "Fashion", 500, false},
		{"P002", "Linen Shirt", "Fashion", 300, false},
		{"P003", "Rose Lip Serum", model.CategoryCosmetics, 450, true},
	}

	for _, p := range products {
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO products (id, name, price, category, is_out_of_stock) VALUES ($1, $2, $3, $4, $5)`,
			p.id, p.name, p.price, p.category, p.outOfStock)
		require.NoError(t, err)
	}
}

func makeOrder(orderID, phone, status string, createdAt *time.Time, items []model.CartItem) *model.Order {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	date := time.Now().UTC().Format("2006-01-02")
	if createdAt != nil {
		date = createdAt.UTC().Format("2006-01-02")
	}
	return &model.Order{
		ID:             uuid.New(),
		OrderID:        orderID,
		FirstName:      "Nadia",
		Phone:          phone,
		CartItems:      items,
		Total:          total + 100,
		ShippingCharge: 100,
		PaymentMethod:  model.PaymentCashOnDelivery,
		Date:           date,
		CreatedAt:      createdAt,
		Status:         status,
	}
}

func TestOrderRepository_UniqueConstraint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewOrderRepository(db.Pool, zerolog.Nop())

	items := []model.CartItem{{ID: "P001", Name: "Silk Scarf", Price: 500, Quantity: 1}}

	first := makeOrder("123456", "01711111111", model.StatusPending, nil, items)
	require.NoError(t, repo.Create(ctx, first))

	// Same order_id, different internal id: the constraint must reject
	// it with the typed duplicate error.
	second := makeOrder("123456", "01722222222", model.StatusPending, nil, items)
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, model.ErrDuplicateOrderID)

	exists, err := repo.OrderIDExists(ctx, "123456")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOrderRepository_RoundTripAndLookup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewOrderRepository(db.Pool, zerolog.Nop())

	now := time.Now().UTC().Truncate(time.Millisecond)
	items := []model.CartItem{
		{ID: "P001", Name: "Silk Scarf", Image: "scarf.jpg", Price: 500, Quantity: 2, Size: "M"},
	}
	order := makeOrder("234567", "01711111111", model.StatusPending, &now, items)
	order.PaymentDetails = "bKash TXN-449"
	require.NoError(t, repo.Create(ctx, order))

	byInternal, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, byInternal)
	assert.Equal(t, order.OrderID, byInternal.OrderID)
	assert.Equal(t, items, byInternal.CartItems)
	assert.Equal(t, "bKash TXN-449", byInternal.PaymentDetails)

	byOrderID, err := repo.GetByOrderID(ctx, "234567")
	require.NoError(t, err)
	require.NotNil(t, byOrderID)
	assert.Equal(t, order.ID, byOrderID.ID)

	missing, err := repo.GetByOrderID(ctx, "999999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepository_ListNewestFirstWithLegacyFallback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewOrderRepository(db.Pool, zerolog.Nop())

	items := []model.CartItem{{ID: "P001", Name: "Silk Scarf", Price: 500, Quantity: 1}}

	older := time.Now().UTC().Add(-2 * time.Hour)
	newer := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, makeOrder("111111", "01711111111", model.StatusPending, &older, items)))
	require.NoError(t, repo.Create(ctx, makeOrder("222222", "01722222222", model.StatusPending, &newer, items)))

	// Legacy row: no creation timestamp, ordered by its calendar date.
	legacy := makeOrder("333333", "01733333333", model.StatusPending, nil, items)
	legacy.Date = "2019-06-01"
	require.NoError(t, repo.Create(ctx, legacy))

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "222222", orders[0].OrderID)
	assert.Equal(t, "111111", orders[1].OrderID)
	assert.Equal(t, "333333", orders[2].OrderID)
}

func TestOrderRepository_StatusUpdateAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewOrderRepository(db.Pool, zerolog.Nop())

	items := []model.CartItem{{ID: "P001", Name: "Silk Scarf", Price: 500, Quantity: 1}}
	order := makeOrder("345678", "01711111111", model.StatusPending, nil, items)
	require.NoError(t, repo.Create(ctx, order))

	updated, err := repo.UpdateStatus(ctx, order.ID, model.StatusShipped)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, model.StatusShipped, updated.Status)

	// Second identical update succeeds with the same final state.
	again, err := repo.UpdateStatus(ctx, order.ID, model.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, updated.Status, again.Status)

	deleted, err := repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStatsQueries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	seedProducts(t, db)

	orderRepo := repository.NewOrderRepository(db.Pool, zerolog.Nop())
	productRepo := repository.NewProductRepository(db.Pool, zerolog.Nop())

	scarf := model.CartItem{ID: "P001", Name: "Silk Scarf", Price: 500, Quantity: 2}
	shirt := model.CartItem{ID: "P002", Name: "Linen Shirt", Price: 300, Quantity: 1}
	serum := model.CartItem{ID: "P003", Name: "Rose Lip Serum", Price: 450, Quantity: 2}
	ghost := model.CartItem{ID: "GONE", Name: "Discontinued Tote", Price: 150, Quantity: 1}

	now := time.Now().UTC()

	// Two customers share a phone; one order is paid online; one order
	// is cancelled and must vanish from revenue only.
	o1 := makeOrder("100001", "01711111111", model.StatusPending, &now, []model.CartItem{scarf, shirt})
	o2 := makeOrder("100002", "01711111111", model.StatusDelivered, &now, []model.CartItem{serum})
	o2.PaymentMethod = model.PaymentOnline
	o3 := makeOrder("100003", "01733333333", model.StatusCancelled, &now, []model.CartItem{scarf, ghost})

	for _, o := range []*model.Order{o1, o2, o3} {
		require.NoError(t, orderRepo.Create(ctx, o))
	}

	statsService := service.NewStatsService(orderRepo, productRepo, zerolog.Nop())
	stats, err := statsService.ComputeStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 1, stats.OnlineTransactions)
	assert.Equal(t, 2, stats.CustomerCount)
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 1, stats.OutOfStockCount)

	// Cancelled order excluded: revenue is o1 + o2 only.
	assert.Equal(t, float64(900), stats.CosmeticsRevenue)
	assert.Equal(t, float64(1300), stats.FashionRevenue)
	assert.Equal(t, stats.CosmeticsRevenue+stats.FashionRevenue, stats.TotalRevenue)

	// Name heuristic counts the cancelled order too if it matched; here
	// only the serum order matches.
	assert.Equal(t, 1, stats.CosmeticsOrders)
	assert.Equal(t, 2, stats.FashionOrders)
}

func TestPlaceOrder_ConcurrentCreationsGetDistinctIDs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()
	logger := zerolog.Nop()

	orderRepo := repository.NewOrderRepository(db.Pool, logger)
	allocator := orderid.New(orderRepo.OrderIDExists, logger)
	dispatcher := notify.NewDispatcher(nil, logger)
	defer dispatcher.Close()

	svc := service.NewOrderService(orderRepo, allocator, dispatcher, logger)

	const n = 20
	var wg sync.WaitGroup
	results := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, err := svc.PlaceOrder(ctx, &model.CreateOrderRequest{
				CustomerDetails: model.CustomerDetails{Phone: "01712345678"},
				CartItems:       []model.CartItem{{ID: "P001", Name: "Silk Scarf", Price: 500, Quantity: 1}},
				Total:           600,
				ShippingCharge:  100,
				PaymentInfo:     model.PaymentInfo{PaymentMethod: model.PaymentCashOnDelivery},
			})
			if assert.NoError(t, err) {
				results <- order.OrderID
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for id := range results {
		assert.Regexp(t, `^\d{5,7}$`, id)
		assert.False(t, seen[id], "duplicate order id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
