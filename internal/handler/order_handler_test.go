package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sazo-orders/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, idOrOrderID string) (*model.Order, error) {
	args := m.Called(ctx, idOrOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id string, status string) (*model.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStatsService is a mock implementation of service.StatsService.
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) ComputeStats(ctx context.Context) (*model.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stats), args.Error(1)
}

// newTestRouter mounts the handler on the route shapes the real router
// uses, without the middleware stack.
func newTestRouter(h *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/stats", h.Stats)
		r.Get("/{id}", h.Get)
		r.Put("/{id}/status", h.UpdateStatus)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func sampleOrder() *model.Order {
	now := time.Now()
	return &model.Order{
		ID:        uuid.New(),
		OrderID:   "123456",
		FirstName: "Nadia",
		Phone:     "01712345678",
		CartItems: []model.CartItem{
			{ID: "P001", Name: "Silk Scarf", Price: 500, Quantity: 2},
		},
		Total:         1100,
		PaymentMethod: model.PaymentOnline,
		Date:          now.Format("2006-01-02"),
		CreatedAt:     &now,
		Status:        model.StatusPending,
	}
}

func TestOrderHandler_Create(t *testing.T) {
	logger := zerolog.Nop()
	created := sampleOrder()

	tests := []struct {
		name           string
		body           interface{}
		rawBody        string
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name: "Success",
			body: &model.CreateOrderRequest{
				CartItems: []model.CartItem{{ID: "P001", Price: 500, Quantity: 2}},
				Total:     1100,
			},
			mockReturn:     created,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Empty cart",
			body:           &model.CreateOrderRequest{},
			mockError:      model.ErrEmptyCart,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Malformed body",
			rawBody:        "{not json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Persistence failure",
			body: &model.CreateOrderRequest{
				CartItems: []model.CartItem{{ID: "P001", Price: 500, Quantity: 2}},
			},
			mockError:      errors.New("store unavailable"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrders := new(MockOrderService)
			mockStats := new(MockStatsService)
			if tt.expectService {
				if tt.mockReturn != nil {
					mockOrders.On("PlaceOrder", mock.Anything, mock.AnythingOfType("*model.CreateOrderRequest")).
						Return(tt.mockReturn, nil)
				} else {
					mockOrders.On("PlaceOrder", mock.Anything, mock.AnythingOfType("*model.CreateOrderRequest")).
						Return(nil, tt.mockError)
				}
			}

			h := NewOrderHandler(mockOrders, mockStats, logger)

			var body []byte
			if tt.rawBody != "" {
				body = []byte(tt.rawBody)
			} else {
				body, _ = json.Marshal(tt.body)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			newTestRouter(h).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusCreated {
				var got model.Order
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, created.OrderID, got.OrderID)
				assert.Equal(t, model.StatusPending, got.Status)
			}
			mockOrders.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_Get(t *testing.T) {
	logger := zerolog.Nop()
	order := sampleOrder()

	tests := []struct {
		name           string
		id             string
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Found by order id",
			id:             "123456",
			mockReturn:     order,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Numeric miss is 404",
			id:             "654321",
			mockError:      model.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Unknown internal id",
			id:             uuid.New().String(),
			mockError:      model.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrders := new(MockOrderService)
			mockStats := new(MockStatsService)
			if tt.mockReturn != nil {
				mockOrders.On("GetOrder", mock.Anything, tt.id).Return(tt.mockReturn, nil)
			} else {
				mockOrders.On("GetOrder", mock.Anything, tt.id).Return(nil, tt.mockError)
			}

			h := NewOrderHandler(mockOrders, mockStats, logger)

			req := httptest.NewRequest(http.MethodGet, "/api/orders/"+tt.id, nil)
			rec := httptest.NewRecorder()
			newTestRouter(h).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockOrders.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_List(t *testing.T) {
	mockOrders := new(MockOrderService)
	mockStats := new(MockStatsService)
	mockOrders.On("ListOrders", mock.Anything).Return([]model.Order{*sampleOrder()}, nil)

	h := NewOrderHandler(mockOrders, mockStats, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	logger := zerolog.Nop()
	order := sampleOrder()
	order.Status = model.StatusShipped

	tests := []struct {
		name           string
		body           string
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			body:           `{"status": "Shipped"}`,
			mockReturn:     order,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Invalid status",
			body:           `{"status": "Lost"}`,
			mockError:      model.ErrInvalidStatus,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Not found",
			body:           `{"status": "Shipped"}`,
			mockError:      model.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Malformed body",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	id := order.ID.String()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrders := new(MockOrderService)
			mockStats := new(MockStatsService)
			if tt.expectService {
				if tt.mockReturn != nil {
					mockOrders.On("UpdateStatus", mock.Anything, id, mock.AnythingOfType("string")).
						Return(tt.mockReturn, nil)
				} else {
					mockOrders.On("UpdateStatus", mock.Anything, id, mock.AnythingOfType("string")).
						Return(nil, tt.mockError)
				}
			}

			h := NewOrderHandler(mockOrders, mockStats, logger)

			req := httptest.NewRequest(http.MethodPut, "/api/orders/"+id+"/status", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			newTestRouter(h).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockOrders.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_Delete(t *testing.T) {
	logger := zerolog.Nop()
	id := uuid.New().String()

	tests := []struct {
		name           string
		mockError      error
		expectedStatus int
	}{
		{name: "Success", expectedStatus: http.StatusOK},
		{name: "Not found", mockError: model.ErrOrderNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrders := new(MockOrderService)
			mockStats := new(MockStatsService)
			mockOrders.On("DeleteOrder", mock.Anything, id).Return(tt.mockError)

			h := NewOrderHandler(mockOrders, mockStats, logger)

			req := httptest.NewRequest(http.MethodDelete, "/api/orders/"+id, nil)
			rec := httptest.NewRecorder()
			newTestRouter(h).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"message": "Order removed"}`, rec.Body.String())
			}
		})
	}
}

func TestOrderHandler_Stats(t *testing.T) {
	mockOrders := new(MockOrderService)
	mockStats := new(MockStatsService)
	mockStats.On("ComputeStats", mock.Anything).Return(&model.Stats{
		TotalOrders:      4,
		TotalRevenue:     2200,
		FashionRevenue:   1300,
		CosmeticsRevenue: 900,
		CustomerCount:    3,
	}, nil)

	h := NewOrderHandler(mockOrders, mockStats, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/orders/stats", nil)
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 4, got.TotalOrders)
	assert.Equal(t, got.FashionRevenue+got.CosmeticsRevenue, got.TotalRevenue)
}
