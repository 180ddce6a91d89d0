package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ventaplus/commerce-service/internal/analytics"
	"github.com/ventaplus/commerce-service/internal/auth"
	"github.com/ventaplus/commerce-service/internal/domain"
	"github.com/ventaplus/commerce-service/internal/events"
	"github.com/ventaplus/commerce-service/internal/repository"
	"github.com/ventaplus/commerce-service/pkg/util"
)

// OrderService coordinates order placement and lifecycle transitions.
type OrderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	users      repository.UserRepository
	stats      repository.StatsRepository
	periods    *analytics.PeriodResolver
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// OrderDependencies bundles repositories for the order service.
type OrderDependencies struct {
	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	UserRepo    repository.UserRepository
	StatsRepo   repository.StatsRepository
	Periods     *analytics.PeriodResolver
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewOrderService builds the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		orders:     deps.OrderRepo,
		products:   deps.ProductRepo,
		users:      deps.UserRepo,
		stats:      deps.StatsRepo,
		periods:    deps.Periods,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// OrderItemInput is one requested line.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

// PlaceOrderInput describes a checkout payload.
type PlaceOrderInput struct {
	DeliveryAddress string
	PaymentMethod   string
	Items           []OrderItemInput
}

// SellerDashboard aggregates the seller landing numbers.
type SellerDashboard struct {
	AssignedOrders int64
	PendingOrders  int64
	DeliveredToday int64
	SalesToday     float64
	SalesThisMonth float64
	DeliveredMonth int64
	RecentOrders   []domain.Order
}

// ClientProfileStats summarizes a client's purchase history.
type ClientProfileStats struct {
	OrderCount int64
	TotalSpent float64
}

// PlaceOrder validates stock and pricing and persists the order with its
// lines. Prices are read server-side so a client cannot submit its own.
// Inventory is decremented inside the order transaction, guarded against
// concurrent checkouts draining the same product.
func (s *OrderService) PlaceOrder(ctx context.Context, clientID int64, input PlaceOrderInput) (*domain.Order, error) {
	if strings.TrimSpace(input.DeliveryAddress) == "" {
		return nil, util.NewValidationError("delivery address is required", nil)
	}
	if !domain.ValidPaymentMethod(input.PaymentMethod) {
		return nil, util.NewValidationError("unsupported payment method", map[string]any{"payment_method": input.PaymentMethod})
	}
	if len(input.Items) == 0 {
		return nil, util.NewValidationError("order has no items", nil)
	}

	ids := make([]int64, 0, len(input.Items))
	quantities := make(map[int64]int, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, util.NewValidationError("quantity must be positive", map[string]any{"product_id": item.ProductID})
		}
		if _, seen := quantities[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	products, err := s.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var total float64
	items := make([]domain.OrderItem, 0, len(ids))
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, util.NewValidationError("unknown product", map[string]any{"product_id": id})
		}
		qty := quantities[id]
		if !product.IsAvailable {
			return nil, util.NewValidationError("product not available", map[string]any{"product_id": id})
		}
		if product.Stock < qty {
			return nil, util.NewValidationError("insufficient stock", map[string]any{
				"product_id": id,
				"available":  product.Stock,
				"requested":  qty,
			})
		}
		total += product.Price * float64(qty)
		items = append(items, domain.OrderItem{
			ProductID: id,
			Quantity:  qty,
			UnitPrice: product.Price,
		})
	}

	order := &domain.Order{
		ClientID:        clientID,
		DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
		TotalAmount:     total,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   input.PaymentMethod,
	}
	if err := s.orders.Create(ctx, order, items); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			s.logger.Info("checkout lost stock race", zap.Int64("client_id", clientID), zap.Error(err))
			return nil, util.NewConflict("insufficient stock", nil)
		}
		return nil, err
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOrderPlaced,
		Timestamp: time.Now(),
		Payload: events.OrderPlacedPayload{
			OrderID:       order.ID,
			ClientID:      clientID,
			TotalAmount:   order.TotalAmount,
			PaymentMethod: order.PaymentMethod,
			ItemCount:     len(items),
		},
	})

	return order, nil
}

// ClientOrders lists the caller's orders, newest first.
func (s *OrderService) ClientOrders(ctx context.Context, clientID int64, filter repository.OrderFilter) ([]domain.Order, int64, error) {
	filter.ClientID = &clientID
	return s.orders.List(ctx, filter)
}

// ClientOrderDetail loads one order, rejecting orders owned by someone else.
func (s *OrderService) ClientOrderDetail(ctx context.Context, clientID, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ClientID != clientID {
		return nil, util.NewForbidden()
	}
	return order, nil
}

// CancelOwnOrder lets a client cancel while the order is still pending.
func (s *OrderService) CancelOwnOrder(ctx context.Context, clientID, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ClientID != clientID {
		return nil, util.NewForbidden()
	}
	if order.Status != domain.OrderStatusPending {
		return nil, util.NewConflict(
			fmt.Sprintf("order in status %q cannot be cancelled", order.Status), nil)
	}
	return s.transition(ctx, order, domain.OrderStatusCancelled)
}

// ClientRecentOrders returns the caller's newest orders.
func (s *OrderService) ClientRecentOrders(ctx context.Context, clientID int64, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.orders.ListRecentByClient(ctx, clientID, limit)
}

// ClientStats returns lifetime order count and spend for the caller.
func (s *OrderService) ClientStats(ctx context.Context, clientID int64) (*ClientProfileStats, error) {
	count, spent, err := s.orders.ClientStats(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &ClientProfileStats{OrderCount: count, TotalSpent: spent}, nil
}

// Reorder places a fresh order copying the lines of an earlier one. Pricing
// and stock are re-checked, so the new total can differ from the original.
func (s *OrderService) Reorder(ctx context.Context, clientID, orderID int64) (*domain.Order, error) {
	previous, err := s.orders.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if previous.ClientID != clientID {
		return nil, util.NewForbidden()
	}
	if len(previous.Items) == 0 {
		return nil, util.NewConflict("order has no lines to repeat", nil)
	}

	input := PlaceOrderInput{
		DeliveryAddress: previous.DeliveryAddress,
		PaymentMethod:   previous.PaymentMethod,
	}
	for _, item := range previous.Items {
		input.Items = append(input.Items, OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return s.PlaceOrder(ctx, clientID, input)
}

// SellerOrders lists orders assigned to the seller.
func (s *OrderService) SellerOrders(ctx context.Context, sellerID int64) ([]domain.Order, error) {
	return s.orders.ListBySeller(ctx, sellerID)
}

// SellerOrderDetail loads one assigned order.
func (s *OrderService) SellerOrderDetail(ctx context.Context, sellerID, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SellerID == nil || *order.SellerID != sellerID {
		return nil, util.NewForbidden()
	}
	return order, nil
}

// SellerUpdateStatus moves an assigned order along the fulfilment states.
func (s *OrderService) SellerUpdateStatus(ctx context.Context, sellerID, orderID int64, status string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SellerID == nil || *order.SellerID != sellerID {
		return nil, util.NewForbidden()
	}
	if err := validTransition(order.Status, status); err != nil {
		return nil, err
	}
	return s.transition(ctx, order, status)
}

// SellerClaimOrder lets a seller take an unassigned order.
func (s *OrderService) SellerClaimOrder(ctx context.Context, sellerID, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SellerID != nil {
		return nil, util.NewConflict("order already has a seller", nil)
	}
	if domain.IsCancelledStatus(order.Status) {
		return nil, util.NewConflict("order is cancelled", nil)
	}

	if err := s.orders.AssignSeller(ctx, orderID, sellerID); err != nil {
		return nil, err
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOrderAssigned,
		Timestamp: time.Now(),
		Payload:   events.OrderAssignedPayload{OrderID: orderID, SellerID: sellerID},
	})
	return s.orders.GetByID(ctx, orderID)
}

// SellerDashboardStats builds the seller landing summary for today and the
// current month.
func (s *OrderService) SellerDashboardStats(ctx context.Context, sellerID int64) (*SellerDashboard, error) {
	assigned, err := s.orders.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	dashboard := &SellerDashboard{AssignedOrders: int64(len(assigned))}
	for i := range assigned {
		if assigned[i].Status == domain.OrderStatusPending || assigned[i].Status == domain.OrderStatusConfirmed {
			dashboard.PendingOrders++
		}
	}
	if len(assigned) > 10 {
		assigned = assigned[:10]
	}
	dashboard.RecentOrders = assigned

	today := s.periods.Today()
	dashboard.SalesToday, err = s.stats.SellerDayTotal(ctx, sellerID, today)
	if err != nil {
		return nil, err
	}
	dashboard.DeliveredToday, err = s.stats.SellerDeliveredCount(ctx, sellerID, today)
	if err != nil {
		return nil, err
	}

	month := s.periods.MonthToDate()
	dashboard.SalesThisMonth, err = s.stats.SellerDayTotal(ctx, sellerID, month)
	if err != nil {
		return nil, err
	}
	dashboard.DeliveredMonth, err = s.stats.SellerDeliveredCount(ctx, sellerID, month)
	if err != nil {
		return nil, err
	}

	return dashboard, nil
}

// OrderStatusStats carries lifetime order totals for the back office.
type OrderStatusStats struct {
	Total    int64
	ByStatus []repository.StatusCount
}

// AdminOrderStats returns the lifetime order count with a per-status
// breakdown.
func (s *OrderService) AdminOrderStats(ctx context.Context) (*OrderStatusStats, error) {
	total, err := s.orders.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &OrderStatusStats{Total: total, ByStatus: byStatus}, nil
}

// PublicOrderDetail loads an order with its lines for the unauthenticated
// tracking view. Callers must not expose the client record.
func (s *OrderService) PublicOrderDetail(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orders.GetDetail(ctx, orderID)
}

// AdminOrders lists all orders with the given filters.
func (s *OrderService) AdminOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int64, error) {
	return s.orders.List(ctx, filter)
}

// AdminOrderDetail loads any order with items and client.
func (s *OrderService) AdminOrderDetail(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orders.GetDetail(ctx, orderID)
}

// AdminUpdateStatus sets any valid status on an order.
func (s *OrderService) AdminUpdateStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.ValidOrderStatus(status) {
		return nil, util.NewValidationError("unknown order status", map[string]any{"status": status})
	}
	return s.transition(ctx, order, status)
}

// AssignSeller attaches an order to a seller account.
func (s *OrderService) AssignSeller(ctx context.Context, orderID, sellerID int64) (*domain.Order, error) {
	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if auth.NormalizeRole(seller.RoleLabel()) != auth.RoleSeller {
		return nil, util.NewValidationError("user is not a seller", map[string]any{"seller_id": sellerID})
	}

	if err := s.orders.AssignSeller(ctx, orderID, sellerID); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOrderAssigned,
		Timestamp: time.Now(),
		Payload:   events.OrderAssignedPayload{OrderID: orderID, SellerID: sellerID},
	})

	return s.orders.GetByID(ctx, orderID)
}

// AdminDeleteOrder removes an order and its lines.
func (s *OrderService) AdminDeleteOrder(ctx context.Context, orderID int64) error {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return err
	}
	return s.orders.Delete(ctx, orderID)
}

func (s *OrderService) transition(ctx context.Context, order *domain.Order, status string) (*domain.Order, error) {
	old := order.Status
	if err := s.orders.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOrderStatusChanged,
		Timestamp: time.Now(),
		Payload: events.OrderStatusChangedPayload{
			OrderID:   order.ID,
			OldStatus: old,
			NewStatus: status,
		},
	})

	return s.orders.GetByID(ctx, order.ID)
}

// validTransition restricts seller-side moves to the forward fulfilment path.
func validTransition(from, to string) error {
	allowed := map[string][]string{
		domain.OrderStatusPending:   {domain.OrderStatusConfirmed, domain.OrderStatusCancelled},
		domain.OrderStatusConfirmed: {domain.OrderStatusPreparing, domain.OrderStatusCancelled},
		domain.OrderStatusPreparing: {domain.OrderStatusDelivered},
	}
	for _, next := range allowed[from] {
		if next == to {
			return nil
		}
	}
	return util.NewConflict(
		fmt.Sprintf("cannot move order from %q to %q", from, to), nil)
}
