package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ventaplus/commerce-service/internal/api/dto"
	"github.com/ventaplus/commerce-service/internal/service"
)

// AdminStatsHandler exposes the analytics endpoints behind the admin role.
// Every endpoint takes optional date_from/date_to query parameters and falls
// back to the trailing 30 days.
type AdminStatsHandler struct {
	stats *service.StatsService
}

// NewAdminStatsHandler constructs handler.
func NewAdminStatsHandler(stats *service.StatsService) *AdminStatsHandler {
	return &AdminStatsHandler{stats: stats}
}

// Dashboard handles GET /api/admin/stats/dashboard.
func (h *AdminStatsHandler) Dashboard(c *fiber.Ctx) error {
	summary, err := h.stats.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"dashboard": dto.NewDashboardResponse(summary)})
}

// SalesByDay handles GET /api/admin/stats/sales-by-day.
func (h *AdminStatsHandler) SalesByDay(c *fiber.Ctx) error {
	points, err := h.stats.SalesByDay(c.UserContext(), c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"sales": dto.NewSalesDayResponses(points)})
}

// SalesBySeller handles GET /api/admin/stats/sales-by-seller.
func (h *AdminStatsHandler) SalesBySeller(c *fiber.Ctx) error {
	rows, err := h.stats.SalesBySeller(c.UserContext(), c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"sellers": dto.NewSellerSalesResponses(rows)})
}

// TopProducts handles GET /api/admin/stats/top-products.
func (h *AdminStatsHandler) TopProducts(c *fiber.Ctx) error {
	rows, err := h.stats.TopProducts(c.UserContext(), c.Query("date_from"), c.Query("date_to"), queryInt(c, "limit", 10))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"products": dto.NewTopProductResponses(rows)})
}

// UsersGrowth handles GET /api/admin/stats/users-growth.
func (h *AdminStatsHandler) UsersGrowth(c *fiber.Ctx) error {
	points, err := h.stats.UsersGrowth(c.UserContext(), c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"growth": dto.NewUsersGrowthResponses(points)})
}

// OrdersByStatus handles GET /api/admin/stats/orders-by-status.
func (h *AdminStatsHandler) OrdersByStatus(c *fiber.Ctx) error {
	rows, err := h.stats.OrdersByStatus(c.UserContext(), c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"statuses": dto.NewStatusCountResponses(rows)})
}

// OrdersPeriod handles GET /api/admin/stats/orders-period.
func (h *AdminStatsHandler) OrdersPeriod(c *fiber.Ctx) error {
	series, err := h.stats.OrdersPeriod(c.UserContext(),
		c.Query("date_from"), c.Query("date_to"), c.Query("granularity"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"orders": dto.NewPeriodSeriesResponse(series)})
}

// Revenue handles GET /api/admin/stats/revenue.
func (h *AdminStatsHandler) Revenue(c *fiber.Ctx) error {
	summary, err := h.stats.Revenue(c.UserContext(), c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"revenue": dto.NewRevenueSummaryResponse(summary)})
}

// Rates handles GET /api/admin/stats/rates.
func (h *AdminStatsHandler) Rates(c *fiber.Ctx) error {
	rates, err := h.stats.Rates(c.UserContext(), c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"rates": dto.NewOrderRatesResponse(rates)})
}

// RevenueBreakdown handles GET /api/admin/stats/revenue-breakdown.
func (h *AdminStatsHandler) RevenueBreakdown(c *fiber.Ctx) error {
	breakdown, err := h.stats.RevenueBreakdown(c.UserContext(), c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"breakdown": dto.NewRevenueBreakdownResponse(breakdown)})
}

// TopClients handles GET /api/admin/stats/top-clients.
func (h *AdminStatsHandler) TopClients(c *fiber.Ctx) error {
	rows, err := h.stats.TopClients(c.UserContext(), c.Query("date_from"), c.Query("date_to"), queryInt(c, "limit", 20))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"clients": dto.NewTopClientResponses(rows)})
}
