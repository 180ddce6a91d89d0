package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ventaplus/commerce-service/internal/api/dto"
	"github.com/ventaplus/commerce-service/internal/auth"
	"github.com/ventaplus/commerce-service/internal/repository"
	"github.com/ventaplus/commerce-service/internal/service"
	"github.com/ventaplus/commerce-service/pkg/util"
)

// ClientHandler exposes the storefront catalog and the client's own orders.
type ClientHandler struct {
	catalog *service.CatalogService
	orders  *service.OrderService
}

// NewClientHandler constructs handler.
func NewClientHandler(catalog *service.CatalogService, orders *service.OrderService) *ClientHandler {
	return &ClientHandler{catalog: catalog, orders: orders}
}

// ListCategories handles GET /api/categories.
func (h *ClientHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"categories": dto.NewCategoryResponses(categories)})
}

// GetCategory handles GET /api/categories/:id.
func (h *ClientHandler) GetCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.catalog.GetCategory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"category": dto.NewCategoryResponse(category)})
}

// ActiveProductCount handles GET /api/products/active-count.
func (h *ClientHandler) ActiveProductCount(c *fiber.Ctx) error {
	count, err := h.catalog.CountAvailableProducts(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"count": count})
}

// ListProducts handles GET /api/products. Only available products show on
// the storefront.
func (h *ClientHandler) ListProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		AvailableOnly: true,
		Limit:         queryInt(c, "limit", 20),
		Offset:        queryInt(c, "offset", 0),
	}
	if raw := c.Query("category_id"); raw != "" {
		id := int64(queryInt(c, "category_id", 0))
		if id <= 0 {
			return util.NewValidationError("invalid category_id", nil)
		}
		filter.CategoryID = &id
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}

	products, total, err := h.catalog.ListProducts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{
		"products": dto.NewProductResponses(products),
		"total":    total,
	})
}

// GetProduct handles GET /api/products/:id.
func (h *ClientHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"product": dto.NewProductResponse(product)})
}

// OrderPublicDetails handles GET /api/orders/:id/details. The endpoint backs
// the unauthenticated tracking page, so the client record and the delivery
// address stay out of the payload.
func (h *ClientHandler) OrderPublicDetails(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orders.PublicOrderDetail(c.UserContext(), id)
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, fiber.Map{
			"product_id":   item.ProductID,
			"product_name": item.ProductName,
			"quantity":     item.Quantity,
			"unit_price":   item.UnitPrice,
		})
	}
	return success(c, http.StatusOK, fiber.Map{"order": fiber.Map{
		"id":             order.ID,
		"status":         order.Status,
		"payment_method": order.PaymentMethod,
		"total_amount":   order.TotalAmount,
		"created_at":     order.CreatedAt,
		"items":          items,
	}})
}

// PlaceOrder handles POST /api/client/orders.
func (h *ClientHandler) PlaceOrder(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}

	var req dto.PlaceOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := service.PlaceOrderInput{
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orders.PlaceOrder(c.UserContext(), user.ID, input)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, fiber.Map{"order": dto.NewOrderResponse(order)})
}

// MyOrders handles GET /api/client/orders.
func (h *ClientHandler) MyOrders(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}

	filter := repository.OrderFilter{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	orders, total, err := h.orders.ClientOrders(c.UserContext(), user.ID, filter)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{
		"orders": dto.NewOrderResponses(orders),
		"total":  total,
	})
}

// OrderDetail handles GET /api/client/orders/:id.
func (h *ClientHandler) OrderDetail(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orders.ClientOrderDetail(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"order": dto.NewOrderResponse(order)})
}

// RecentOrders handles GET /api/client/orders/recent.
func (h *ClientHandler) RecentOrders(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}

	orders, err := h.orders.ClientRecentOrders(c.UserContext(), user.ID, queryInt(c, "limit", 5))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"orders": dto.NewOrderResponses(orders)})
}

// ProfileStats handles GET /api/client/profile/stats.
func (h *ClientHandler) ProfileStats(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}

	stats, err := h.orders.ClientStats(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"stats": fiber.Map{
		"cantidadPedidos": stats.OrderCount,
		"totalGastado":    stats.TotalSpent,
	}})
}

// Reorder handles POST /api/client/orders/:id/reorder.
func (h *ClientHandler) Reorder(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orders.Reorder(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, fiber.Map{"order": dto.NewOrderResponse(order)})
}

// Favorites handles GET /api/client/favorites. Favorites have no storage yet,
// the storefront expects the key to exist.
func (h *ClientHandler) Favorites(c *fiber.Ctx) error {
	if _, ok := auth.IdentityFromContext(c); !ok {
		return util.NewUnauthenticated()
	}
	return success(c, http.StatusOK, fiber.Map{"favorites": []any{}})
}

// CancelOrder handles POST /api/client/orders/:id/cancel.
func (h *ClientHandler) CancelOrder(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orders.CancelOwnOrder(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"order": dto.NewOrderResponse(order)})
}
