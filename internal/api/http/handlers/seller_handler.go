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

// SellerHandler exposes the seller's assigned orders, dashboard and stock
// management.
type SellerHandler struct {
	orders  *service.OrderService
	catalog *service.CatalogService
}

// NewSellerHandler constructs handler.
func NewSellerHandler(orders *service.OrderService, catalog *service.CatalogService) *SellerHandler {
	return &SellerHandler{orders: orders, catalog: catalog}
}

// Dashboard handles GET /api/seller/dashboard.
func (h *SellerHandler) Dashboard(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}

	dashboard, err := h.orders.SellerDashboardStats(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"dashboard": dto.NewSellerDashboardResponse(dashboard)})
}

// Orders handles GET /api/seller/orders.
func (h *SellerHandler) Orders(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}

	orders, err := h.orders.SellerOrders(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"orders": dto.NewOrderResponses(orders)})
}

// OrderDetail handles GET /api/seller/orders/:id.
func (h *SellerHandler) OrderDetail(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orders.SellerOrderDetail(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"order": dto.NewOrderResponse(order)})
}

// UpdateOrderStatus handles PUT /api/seller/orders/:id/status.
func (h *SellerHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orders.SellerUpdateStatus(c.UserContext(), user.ID, id, req.Status)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"order": dto.NewOrderResponse(order)})
}

// ClaimOrder handles POST /api/seller/orders/:id/claim.
func (h *SellerHandler) ClaimOrder(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orders.SellerClaimOrder(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"order": dto.NewOrderResponse(order)})
}

// Products handles GET /api/seller/products. Sellers see the full catalog,
// unavailable products included, so they can restock them.
func (h *SellerHandler) Products(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Limit:    queryInt(c, "limit", 50),
		Offset:   queryInt(c, "offset", 0),
		LowStock: c.Query("low_stock") == "true",
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

// UpdateStock handles PUT /api/seller/products/:id/stock.
func (h *SellerHandler) UpdateStock(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalog.UpdateProductStock(c.UserContext(), id, req.Stock)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"product": dto.NewProductResponse(product)})
}

// BulkUpdateStock handles PUT /api/seller/products/stock.
func (h *SellerHandler) BulkUpdateStock(c *fiber.Ctx) error {
	var req dto.BulkStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updates := make([]service.StockUpdate, 0, len(req.Items))
	for _, item := range req.Items {
		updates = append(updates, service.StockUpdate{ProductID: item.ProductID, Stock: item.Stock})
	}
	if err := h.catalog.BulkUpdateStock(c.UserContext(), updates); err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"updated": len(updates)})
}

// ToggleProduct handles PUT /api/seller/products/:id/toggle.
func (h *SellerHandler) ToggleProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.catalog.ToggleProductAvailability(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"product": dto.NewProductResponse(product)})
}
