package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ventaplus/commerce-service/internal/analytics"
	"github.com/ventaplus/commerce-service/internal/domain"
	"github.com/ventaplus/commerce-service/internal/events"
	"github.com/ventaplus/commerce-service/internal/repository"
	"github.com/ventaplus/commerce-service/pkg/util"
)

// Stubs embed the repository interfaces and override only what each test
// touches; calling anything else panics loudly.

type stubOrderRepo struct {
	repository.OrderRepository
	created   *domain.Order
	items     []domain.OrderItem
	orders    map[int64]*domain.Order
	status    map[int64]string
	createErr error
	total     int64
	byStatus  []repository.StatusCount
}

func (s *stubOrderRepo) Create(_ context.Context, order *domain.Order, items []domain.OrderItem) error {
	if s.createErr != nil {
		return s.createErr
	}
	order.ID = 101
	order.CreatedAt = time.Now()
	s.created = order
	s.items = items
	return nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	if order, ok := s.orders[id]; ok {
		if status, ok := s.status[id]; ok {
			order.Status = status
		}
		return order, nil
	}
	return nil, util.NewNotFound("order", nil)
}

func (s *stubOrderRepo) Count(_ context.Context) (int64, error) {
	return s.total, nil
}

func (s *stubOrderRepo) CountByStatus(_ context.Context) ([]repository.StatusCount, error) {
	return s.byStatus, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	if s.status == nil {
		s.status = map[int64]string{}
	}
	s.status[id] = status
	return nil
}

type stubProductRepo struct {
	repository.ProductRepository
	products []domain.Product
}

func (s *stubProductRepo) ListByIDs(_ context.Context, ids []int64) ([]domain.Product, error) {
	var result []domain.Product
	for _, product := range s.products {
		for _, id := range ids {
			if product.ID == id {
				result = append(result, product)
			}
		}
	}
	return result, nil
}

func newOrderTestService(orders *stubOrderRepo, products *stubProductRepo) *OrderService {
	return NewOrderService(OrderDependencies{
		OrderRepo:   orders,
		ProductRepo: products,
		Periods:     analytics.NewPeriodResolver(time.UTC),
		Dispatcher:  events.NewInMemoryDispatcher(),
		Logger:      zap.NewNop(),
	})
}

func TestPlaceOrder_PricesServerSide(t *testing.T) {
	orders := &stubOrderRepo{}
	products := &stubProductRepo{products: []domain.Product{
		{ID: 1, Name: "Keyboard", Price: 25.5, Stock: 10, IsAvailable: true},
		{ID: 2, Name: "Mouse", Price: 10, Stock: 4, IsAvailable: true},
	}}
	svc := newOrderTestService(orders, products)

	order, err := svc.PlaceOrder(context.Background(), 7, PlaceOrderInput{
		DeliveryAddress: "Calle Falsa 123",
		PaymentMethod:   domain.PaymentMethodCard,
		Items: []OrderItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}

	if order.TotalAmount != 2*25.5+3*10 {
		t.Fatalf("unexpected total: %v", order.TotalAmount)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("unexpected status: %s", order.Status)
	}
	if len(orders.items) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(orders.items))
	}
	if orders.items[0].UnitPrice != 25.5 {
		t.Fatalf("line price not captured from catalog: %v", orders.items[0].UnitPrice)
	}
	// The repository decrements stock from the persisted lines, so the
	// quantities must arrive intact.
	if orders.items[0].Quantity != 2 || orders.items[1].Quantity != 3 {
		t.Fatalf("unexpected line quantities: %+v", orders.items)
	}
}

func TestPlaceOrder_StockRaceLostIsConflict(t *testing.T) {
	orders := &stubOrderRepo{
		createErr: fmt.Errorf("product 1: %w", repository.ErrInsufficientStock),
	}
	products := &stubProductRepo{products: []domain.Product{
		{ID: 1, Name: "Keyboard", Price: 25.5, Stock: 10, IsAvailable: true},
	}}
	svc := newOrderTestService(orders, products)

	_, err := svc.PlaceOrder(context.Background(), 7, PlaceOrderInput{
		DeliveryAddress: "Calle Falsa 123",
		PaymentMethod:   domain.PaymentMethodCard,
		Items:           []OrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	if err == nil {
		t.Fatalf("expected error when the guarded decrement rejects the order")
	}
	var domainErr *util.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "conflict" {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	products := &stubProductRepo{products: []domain.Product{
		{ID: 1, Name: "Keyboard", Price: 25.5, Stock: 1, IsAvailable: true},
	}}
	svc := newOrderTestService(&stubOrderRepo{}, products)

	_, err := svc.PlaceOrder(context.Background(), 7, PlaceOrderInput{
		DeliveryAddress: "Calle Falsa 123",
		PaymentMethod:   domain.PaymentMethodCash,
		Items:           []OrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	if err == nil {
		t.Fatalf("expected insufficient stock error")
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	svc := newOrderTestService(&stubOrderRepo{}, &stubProductRepo{})

	cases := []struct {
		name  string
		input PlaceOrderInput
	}{
		{"empty address", PlaceOrderInput{PaymentMethod: domain.PaymentMethodCard, Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}}},
		{"bad payment method", PlaceOrderInput{DeliveryAddress: "x", PaymentMethod: "Bitcoin", Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}}},
		{"no items", PlaceOrderInput{DeliveryAddress: "x", PaymentMethod: domain.PaymentMethodCard}},
		{"zero quantity", PlaceOrderInput{DeliveryAddress: "x", PaymentMethod: domain.PaymentMethodCard, Items: []OrderItemInput{{ProductID: 1, Quantity: 0}}}},
		{"unknown product", PlaceOrderInput{DeliveryAddress: "x", PaymentMethod: domain.PaymentMethodCard, Items: []OrderItemInput{{ProductID: 99, Quantity: 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.PlaceOrder(context.Background(), 7, tc.input); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestAdminOrderStats(t *testing.T) {
	orders := &stubOrderRepo{
		total: 12,
		byStatus: []repository.StatusCount{
			{Status: domain.OrderStatusPending, Count: 7},
			{Status: domain.OrderStatusDelivered, Count: 4},
			{Status: domain.OrderStatusCancelled, Count: 1},
		},
	}
	svc := newOrderTestService(orders, &stubProductRepo{})

	stats, err := svc.AdminOrderStats(context.Background())
	if err != nil {
		t.Fatalf("AdminOrderStats returned error: %v", err)
	}
	if stats.Total != 12 {
		t.Fatalf("expected total 12, got %d", stats.Total)
	}
	if len(stats.ByStatus) != 3 || stats.ByStatus[0].Count != 7 {
		t.Fatalf("unexpected breakdown: %+v", stats.ByStatus)
	}
}

func TestCancelOwnOrder(t *testing.T) {
	orders := &stubOrderRepo{orders: map[int64]*domain.Order{
		5: {ID: 5, ClientID: 7, Status: domain.OrderStatusPending},
		6: {ID: 6, ClientID: 7, Status: domain.OrderStatusDelivered},
		9: {ID: 9, ClientID: 8, Status: domain.OrderStatusPending},
	}}
	svc := newOrderTestService(orders, &stubProductRepo{})

	order, err := svc.CancelOwnOrder(context.Background(), 7, 5)
	if err != nil {
		t.Fatalf("CancelOwnOrder returned error: %v", err)
	}
	if order.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", order.Status)
	}

	if _, err := svc.CancelOwnOrder(context.Background(), 7, 6); err == nil {
		t.Fatalf("expected error cancelling delivered order")
	}
	if _, err := svc.CancelOwnOrder(context.Background(), 7, 9); err == nil {
		t.Fatalf("expected error cancelling someone else's order")
	}
}

func TestSellerUpdateStatus_Transitions(t *testing.T) {
	sellerID := int64(3)
	orders := &stubOrderRepo{orders: map[int64]*domain.Order{
		1: {ID: 1, ClientID: 7, SellerID: &sellerID, Status: domain.OrderStatusConfirmed},
	}}
	svc := newOrderTestService(orders, &stubProductRepo{})

	order, err := svc.SellerUpdateStatus(context.Background(), sellerID, 1, domain.OrderStatusPreparing)
	if err != nil {
		t.Fatalf("SellerUpdateStatus returned error: %v", err)
	}
	if order.Status != domain.OrderStatusPreparing {
		t.Fatalf("unexpected status: %s", order.Status)
	}

	// Delivered orders are final for sellers.
	orders.orders[1].Status = domain.OrderStatusDelivered
	orders.status = nil
	if _, err := svc.SellerUpdateStatus(context.Background(), sellerID, 1, domain.OrderStatusPending); err == nil {
		t.Fatalf("expected invalid transition error")
	}

	// Unassigned sellers are rejected.
	if _, err := svc.SellerUpdateStatus(context.Background(), 99, 1, domain.OrderStatusPreparing); err == nil {
		t.Fatalf("expected forbidden for foreign seller")
	}
}
