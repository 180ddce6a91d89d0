package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ventaplus/commerce-service/internal/analytics"
	"github.com/ventaplus/commerce-service/internal/domain"
	"github.com/ventaplus/commerce-service/internal/events"
	"github.com/ventaplus/commerce-service/internal/repository"
	"github.com/ventaplus/commerce-service/internal/service"
)

// Fakes embed the repository interfaces and override only what the handlers
// under test reach.

type fakeOrderRepo struct {
	repository.OrderRepository
	detail   *domain.Order
	total    int64
	byStatus []repository.StatusCount
}

func (f *fakeOrderRepo) GetDetail(_ context.Context, _ int64) (*domain.Order, error) {
	return f.detail, nil
}

func (f *fakeOrderRepo) Count(_ context.Context) (int64, error) {
	return f.total, nil
}

func (f *fakeOrderRepo) CountByStatus(_ context.Context) ([]repository.StatusCount, error) {
	return f.byStatus, nil
}

type fakeProductRepo struct {
	repository.ProductRepository
	products []domain.Product
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeProductRepo) List(_ context.Context, _ repository.ProductFilter) ([]domain.Product, int64, error) {
	return f.products, int64(len(f.products)), nil
}

type fakeUserRepo struct {
	repository.UserRepository
	roles map[int64]*domain.Role
}

func (f *fakeUserRepo) GetRole(_ context.Context, id int64) (*domain.Role, error) {
	if role, ok := f.roles[id]; ok {
		return role, nil
	}
	return nil, pgx.ErrNoRows
}

func newAdminTestApp(orders *fakeOrderRepo, products *fakeProductRepo, users *fakeUserRepo) *fiber.App {
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:   orders,
		ProductRepo: products,
		Periods:     analytics.NewPeriodResolver(time.UTC),
		Dispatcher:  events.NewInMemoryDispatcher(),
		Logger:      zap.NewNop(),
	})
	catalogService := service.NewCatalogService(nil, products)
	userService := service.NewUserAdminService(users, orders, 4)
	admin := NewAdminHandler(userService, catalogService, orderService)
	client := NewClientHandler(catalogService, orderService)

	app := fiber.New()
	app.Get("/api/admin/orders/stats", admin.OrderStats)
	app.Get("/api/admin/products/export", admin.ExportProducts)
	app.Get("/api/admin/products/:id", admin.GetProduct)
	app.Get("/api/admin/roles/:id", admin.GetRole)
	app.Get("/api/orders/:id/details", client.OrderPublicDetails)
	return app
}

func TestAdminOrderStats_LifetimeTotals(t *testing.T) {
	orders := &fakeOrderRepo{
		total: 12,
		byStatus: []repository.StatusCount{
			{Status: domain.OrderStatusPending, Count: 7},
			{Status: domain.OrderStatusDelivered, Count: 5},
		},
	}
	app := newAdminTestApp(orders, &fakeProductRepo{}, &fakeUserRepo{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/admin/orders/stats", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Success bool `json:"success"`
		Stats   struct {
			Total    int64 `json:"total"`
			ByStatus []struct {
				Status string `json:"status"`
				Count  int64  `json:"count"`
			} `json:"by_status"`
		} `json:"stats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success || body.Stats.Total != 12 {
		t.Fatalf("unexpected stats payload: %+v", body)
	}
	if len(body.Stats.ByStatus) != 2 || body.Stats.ByStatus[0].Count != 7 {
		t.Fatalf("unexpected breakdown: %+v", body.Stats.ByStatus)
	}
}

func TestAdminProductDetail(t *testing.T) {
	products := &fakeProductRepo{products: []domain.Product{
		{ID: 4, Name: "Teclado", Price: 25.5, Stock: 3, IsAvailable: false},
	}}
	app := newAdminTestApp(&fakeOrderRepo{}, products, &fakeUserRepo{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/admin/products/4", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), `"Teclado"`) {
		t.Fatalf("product detail missing from body: %s", raw)
	}
}

func TestAdminRoleDetail(t *testing.T) {
	users := &fakeUserRepo{roles: map[int64]*domain.Role{
		2: {ID: 2, Name: "vendedor"},
	}}
	app := newAdminTestApp(&fakeOrderRepo{}, &fakeProductRepo{}, users)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/admin/roles/2", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), `"vendedor"`) {
		t.Fatalf("role detail missing from body: %s", raw)
	}
}

func TestExportProducts_QuotesCSVFields(t *testing.T) {
	products := &fakeProductRepo{products: []domain.Product{
		{ID: 1, Name: `Teclado "Pro", ES`, Price: 99.9, Stock: 5, IsAvailable: true},
	}}
	app := newAdminTestApp(&fakeOrderRepo{}, products, &fakeUserRepo{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/admin/products/export", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	body := string(raw)
	if !strings.HasPrefix(body, "id,category_id,name,price,stock,is_available\n") {
		t.Fatalf("unexpected header: %s", body)
	}
	// Commas and quotes inside a field must be escaped per RFC 4180.
	if !strings.Contains(body, `"Teclado ""Pro"", ES"`) {
		t.Fatalf("field not quoted: %s", body)
	}
}

func TestOrderPublicDetails_HidesClientData(t *testing.T) {
	name := "Teclado"
	orders := &fakeOrderRepo{detail: &domain.Order{
		ID:              9,
		ClientID:        7,
		DeliveryAddress: "Calle Falsa 123",
		TotalAmount:     51,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   domain.PaymentMethodCard,
		CreatedAt:       time.Now(),
		Items: []domain.OrderItem{
			{ID: 1, OrderID: 9, ProductID: 4, ProductName: &name, Quantity: 2, UnitPrice: 25.5},
		},
		Client: &domain.User{ID: 7, Name: "Alice", Email: "alice@example.com"},
	}}
	app := newAdminTestApp(orders, &fakeProductRepo{}, &fakeUserRepo{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/orders/9/details", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	body := string(raw)
	if !strings.Contains(body, `"Teclado"`) || !strings.Contains(body, domain.OrderStatusPending) {
		t.Fatalf("expected order lines and status in body: %s", body)
	}
	if strings.Contains(body, "alice@example.com") || strings.Contains(body, "Calle Falsa 123") {
		t.Fatalf("client data leaked into public payload: %s", body)
	}
}
