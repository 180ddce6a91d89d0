package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ventaplus/commerce-service/internal/api/dto"
	"github.com/ventaplus/commerce-service/internal/auth"
	"github.com/ventaplus/commerce-service/internal/repository"
	"github.com/ventaplus/commerce-service/internal/service"
	"github.com/ventaplus/commerce-service/pkg/util"
)

// AdminHandler exposes back-office management: accounts, catalog and orders.
type AdminHandler struct {
	users   *service.UserAdminService
	catalog *service.CatalogService
	orders  *service.OrderService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(users *service.UserAdminService, catalog *service.CatalogService, orders *service.OrderService) *AdminHandler {
	return &AdminHandler{users: users, catalog: catalog, orders: orders}
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, total, err := h.users.ListUsers(c.UserContext(), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{
		"users": dto.NewUserResponses(users),
		"total": total,
	})
}

// GetUser handles GET /api/admin/users/:id.
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"user": dto.NewUserResponse(user)})
}

// CreateUser handles POST /api/admin/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.CreateUser(c.UserContext(), service.UserCreateInput{
		RoleID:   req.RoleID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, fiber.Map{"user": dto.NewUserResponse(user)})
}

// UpdateUser handles PUT /api/admin/users/:id.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateUser(c.UserContext(), id, service.UserUpdateInput{
		RoleID:   req.RoleID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"user": dto.NewUserResponse(user)})
}

// DeleteUser handles DELETE /api/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.UserContext(), actor.ID, id); err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"message": "user deleted"})
}

// SetUserActive handles PUT /api/admin/users/:id/active.
func (h *AdminHandler) SetUserActive(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.SetUserActive(c.UserContext(), id, req.IsActive)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"user": dto.NewUserResponse(user)})
}

// ListSellers handles GET /api/admin/sellers.
func (h *AdminHandler) ListSellers(c *fiber.Ctx) error {
	sellers, err := h.users.ListSellers(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"sellers": dto.NewUserResponses(sellers)})
}

// ListClients handles GET /api/admin/clients.
func (h *AdminHandler) ListClients(c *fiber.Ctx) error {
	clients, err := h.users.ListClients(c.UserContext())
	if err != nil {
		return err
	}

	responses := make([]dto.ClientSummaryResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, dto.ClientSummaryResponse{
			UserResponse: dto.NewUserResponse(&clients[i].User),
			OrderCount:   clients[i].OrderCount,
			TotalSpent:   clients[i].TotalSpent,
		})
	}
	return success(c, http.StatusOK, fiber.Map{"clients": responses})
}

// ListRoles handles GET /api/admin/roles.
func (h *AdminHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.users.ListRoles(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"roles": dto.NewRoleResponses(roles)})
}

// GetRole handles GET /api/admin/roles/:id.
func (h *AdminHandler) GetRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	role, err := h.users.GetRole(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"role": dto.NewRoleResponse(role)})
}

// CreateCategory handles POST /api/admin/categories.
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.catalog.CreateCategory(c.UserContext(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, fiber.Map{"category": dto.NewCategoryResponse(category)})
}

// UpdateCategory handles PUT /api/admin/categories/:id.
func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.catalog.UpdateCategory(c.UserContext(), id, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"category": dto.NewCategoryResponse(category)})
}

// DeleteCategory handles DELETE /api/admin/categories/:id.
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteCategory(c.UserContext(), id); err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"message": "category deleted"})
}

// ListProducts handles GET /api/admin/products. Unlike the storefront this
// includes unavailable products and supports the low_stock filter.
func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Limit:    queryInt(c, "limit", 20),
		Offset:   queryInt(c, "offset", 0),
		LowStock: c.Query("low_stock") == "true",
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

// CreateProduct handles POST /api/admin/products.
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	product, err := h.catalog.CreateProduct(c.UserContext(), productInput(req))
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, fiber.Map{"product": dto.NewProductResponse(product)})
}

// UpdateProduct handles PUT /api/admin/products/:id.
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	product, err := h.catalog.UpdateProduct(c.UserContext(), id, productInput(req))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"product": dto.NewProductResponse(product)})
}

// GetProduct handles GET /api/admin/products/:id.
func (h *AdminHandler) GetProduct(c *fiber.Ctx) error {
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

// DeleteProduct handles DELETE /api/admin/products/:id.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"message": "product deleted"})
}

// ToggleProduct handles PUT /api/admin/products/:id/toggle.
func (h *AdminHandler) ToggleProduct(c *fiber.Ctx) error {
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

// ProductStats handles GET /api/admin/products/stats.
func (h *AdminHandler) ProductStats(c *fiber.Ctx) error {
	stats, err := h.catalog.ProductStats(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"stats": dto.ProductStatsResponse{
		Total:       stats.Total,
		Available:   stats.Available,
		LowStock:    stats.LowStock,
		Unavailable: stats.Unavailable,
	}})
}

// ExportProducts handles GET /api/admin/products/export as plain CSV.
func (h *AdminHandler) ExportProducts(c *fiber.Ctx) error {
	products, _, err := h.catalog.ListProducts(c.UserContext(), repository.ProductFilter{Limit: 10000})
	if err != nil {
		return err
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write([]string{"id", "category_id", "name", "price", "stock", "is_available"})
	for _, product := range products {
		categoryID := ""
		if product.CategoryID != nil {
			categoryID = strconv.FormatInt(*product.CategoryID, 10)
		}
		_ = w.Write([]string{
			strconv.FormatInt(product.ID, 10),
			categoryID,
			product.Name,
			fmt.Sprintf("%.2f", product.Price),
			strconv.Itoa(product.Stock),
			strconv.FormatBool(product.IsAvailable),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="productos.csv"`)
	return c.SendString(sb.String())
}

// ListOrders handles GET /api/admin/orders.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	filter, err := orderFilterFromQuery(c)
	if err != nil {
		return err
	}
	orders, total, err := h.orders.AdminOrders(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{
		"orders": dto.NewOrderResponses(orders),
		"total":  total,
	})
}

// OrderDetail handles GET /api/admin/orders/:id.
func (h *AdminHandler) OrderDetail(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orders.AdminOrderDetail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"order": dto.NewOrderResponse(order)})
}

// UpdateOrderStatus handles PUT /api/admin/orders/:id/status.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.orders.AdminUpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"order": dto.NewOrderResponse(order)})
}

// AssignSeller handles PUT /api/admin/orders/:id/seller.
func (h *AdminHandler) AssignSeller(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignSellerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.orders.AssignSeller(c.UserContext(), id, req.SellerID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"order": dto.NewOrderResponse(order)})
}

// DeleteOrder handles DELETE /api/admin/orders/:id.
func (h *AdminHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.orders.AdminDeleteOrder(c.UserContext(), id); err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"message": "order deleted"})
}

// OrderStats handles GET /api/admin/orders/stats with lifetime totals.
func (h *AdminHandler) OrderStats(c *fiber.Ctx) error {
	stats, err := h.orders.AdminOrderStats(c.UserContext())
	if err != nil {
		return err
	}
	byStatus := make([]fiber.Map, 0, len(stats.ByStatus))
	for _, row := range stats.ByStatus {
		byStatus = append(byStatus, fiber.Map{"status": row.Status, "count": row.Count})
	}
	return success(c, http.StatusOK, fiber.Map{"stats": fiber.Map{
		"total":     stats.Total,
		"by_status": byStatus,
	}})
}

// ExportOrders handles GET /api/admin/orders/export. The export is plain CSV
// carrying the filtered order rows.
func (h *AdminHandler) ExportOrders(c *fiber.Ctx) error {
	filter, err := orderFilterFromQuery(c)
	if err != nil {
		return err
	}
	filter.Limit = 10000

	orders, _, err := h.orders.AdminOrders(c.UserContext(), filter)
	if err != nil {
		return err
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write([]string{"id", "client_id", "seller_id", "status", "payment_method", "total_amount", "created_at"})
	for _, order := range orders {
		sellerID := ""
		if order.SellerID != nil {
			sellerID = strconv.FormatInt(*order.SellerID, 10)
		}
		_ = w.Write([]string{
			strconv.FormatInt(order.ID, 10),
			strconv.FormatInt(order.ClientID, 10),
			sellerID,
			order.Status,
			order.PaymentMethod,
			fmt.Sprintf("%.2f", order.TotalAmount),
			order.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="pedidos.csv"`)
	return c.SendString(sb.String())
}

func productInput(req dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	}
}

func orderFilterFromQuery(c *fiber.Ctx) (repository.OrderFilter, error) {
	filter := repository.OrderFilter{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if raw := c.Query("seller_id"); raw != "" {
		id := int64(queryInt(c, "seller_id", 0))
		if id <= 0 {
			return filter, util.NewValidationError("invalid seller_id", nil)
		}
		filter.SellerID = &id
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	if raw := c.Query("date_from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, util.NewValidationError("invalid date_from", nil)
		}
		filter.DateFrom = &parsed
	}
	if raw := c.Query("date_to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, util.NewValidationError("invalid date_to", nil)
		}
		end := parsed.Add(24*time.Hour - time.Second)
		filter.DateTo = &end
	}
	return filter, nil
}
