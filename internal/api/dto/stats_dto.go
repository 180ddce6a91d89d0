package dto

import (
	"github.com/ventaplus/commerce-service/internal/repository"
	"github.com/ventaplus/commerce-service/internal/service"
)

// Stats responses keep the wire keys the dashboards already consume, hence
// the Spanish field names.

// SalesDayResponse is one day of sales.
type SalesDayResponse struct {
	Date  string  `json:"fecha"`
	Total float64 `json:"totalVentas"`
}

// NewSalesDayResponses maps a slice.
func NewSalesDayResponses(points []service.DayPoint) []SalesDayResponse {
	result := make([]SalesDayResponse, 0, len(points))
	for _, point := range points {
		result = append(result, SalesDayResponse{Date: point.Date, Total: point.Total})
	}
	return result
}

// SellerSalesResponse is one seller's window totals.
type SellerSalesResponse struct {
	SellerID   int64   `json:"vendedorId"`
	SellerName *string `json:"vendedorNombre"`
	Total      float64 `json:"totalVentas"`
	Count      int64   `json:"cantidadPedidos"`
}

// NewSellerSalesResponses maps a slice.
func NewSellerSalesResponses(rows []repository.SellerTotal) []SellerSalesResponse {
	result := make([]SellerSalesResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, SellerSalesResponse{
			SellerID:   row.SellerID,
			SellerName: row.SellerName,
			Total:      row.Total,
			Count:      row.Count,
		})
	}
	return result
}

// TopProductResponse is one product's sold quantity.
type TopProductResponse struct {
	ProductID   int64   `json:"productoId"`
	ProductName *string `json:"productoNombre"`
	Quantity    int64   `json:"cantidadVendida"`
}

// NewTopProductResponses maps a slice.
func NewTopProductResponses(rows []repository.ProductQty) []TopProductResponse {
	result := make([]TopProductResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, TopProductResponse{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
		})
	}
	return result
}

// UsersGrowthResponse is one day of registrations.
type UsersGrowthResponse struct {
	Date  string `json:"fecha"`
	Count int64  `json:"cantidadUsuarios"`
}

// NewUsersGrowthResponses maps a slice.
func NewUsersGrowthResponses(points []service.GrowthPoint) []UsersGrowthResponse {
	result := make([]UsersGrowthResponse, 0, len(points))
	for _, point := range points {
		result = append(result, UsersGrowthResponse{Date: point.Date, Count: point.Count})
	}
	return result
}

// StatusCountResponse is one status bucket.
type StatusCountResponse struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// NewStatusCountResponses maps a slice.
func NewStatusCountResponses(rows []repository.StatusCount) []StatusCountResponse {
	result := make([]StatusCountResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, StatusCountResponse{Label: row.Status, Count: row.Count})
	}
	return result
}

// SeriesPointResponse is one bucket of the period series.
type SeriesPointResponse struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// PeriodSeriesResponse compares the window against the previous one.
type PeriodSeriesResponse struct {
	Series        []SeriesPointResponse `json:"series"`
	CurrentTotal  int64                 `json:"current_total"`
	PreviousTotal int64                 `json:"previous_total"`
	PercentChange float64               `json:"percent_change"`
	Granularity   string                `json:"granularity"`
}

// NewPeriodSeriesResponse maps the service result.
func NewPeriodSeriesResponse(series *service.PeriodSeries) PeriodSeriesResponse {
	response := PeriodSeriesResponse{
		Series:        make([]SeriesPointResponse, 0, len(series.Series)),
		CurrentTotal:  series.CurrentTotal,
		PreviousTotal: series.PreviousTotal,
		PercentChange: series.PercentChange,
		Granularity:   series.Granularity,
	}
	for _, point := range series.Series {
		response.Series = append(response.Series, SeriesPointResponse{Label: point.Label, Count: point.Count})
	}
	return response
}

// RevenueSummaryResponse compares revenue against prior windows.
type RevenueSummaryResponse struct {
	CurrentRevenue   float64 `json:"current_revenue"`
	PreviousRevenue  float64 `json:"previous_revenue"`
	PercentChange    float64 `json:"percent_change"`
	YoYRevenue       float64 `json:"yoy_revenue"`
	YoYPercentChange float64 `json:"yoy_percent_change"`
}

// NewRevenueSummaryResponse maps the service result.
func NewRevenueSummaryResponse(summary *service.RevenueSummary) RevenueSummaryResponse {
	return RevenueSummaryResponse{
		CurrentRevenue:   summary.CurrentRevenue,
		PreviousRevenue:  summary.PreviousRevenue,
		PercentChange:    summary.PercentChange,
		YoYRevenue:       summary.YoYRevenue,
		YoYPercentChange: summary.YoYPercentChange,
	}
}

// OrderRatesResponse carries status ratios. Null rates mean no orders in the
// window.
type OrderRatesResponse struct {
	ConfirmationRate *float64 `json:"confirmation_rate"`
	ClosureRate      *float64 `json:"closure_rate"`
	CancellationRate *float64 `json:"cancellation_rate"`
}

// NewOrderRatesResponse maps the service result.
func NewOrderRatesResponse(rates *service.OrderRates) OrderRatesResponse {
	return OrderRatesResponse{
		ConfirmationRate: rates.ConfirmationRate,
		ClosureRate:      rates.ClosureRate,
		CancellationRate: rates.CancellationRate,
	}
}

// SegmentTotalResponse is one segment of a revenue breakdown.
type SegmentTotalResponse struct {
	Label *string `json:"label"`
	Count int64   `json:"count"`
	Total float64 `json:"total"`
}

// RevenueBreakdownResponse groups revenue by seller, channel and category.
type RevenueBreakdownResponse struct {
	BySeller   []SellerSalesResponse  `json:"by_seller"`
	ByChannel  []SegmentTotalResponse `json:"by_channel"`
	ByCategory []SegmentTotalResponse `json:"by_category"`
}

// NewRevenueBreakdownResponse maps the service result.
func NewRevenueBreakdownResponse(breakdown *service.RevenueBreakdown) RevenueBreakdownResponse {
	response := RevenueBreakdownResponse{
		BySeller:   NewSellerSalesResponses(breakdown.BySeller),
		ByChannel:  newSegmentTotalResponses(breakdown.ByChannel),
		ByCategory: newSegmentTotalResponses(breakdown.ByCategory),
	}
	return response
}

func newSegmentTotalResponses(rows []repository.SegmentTotal) []SegmentTotalResponse {
	result := make([]SegmentTotalResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, SegmentTotalResponse{Label: row.Label, Count: row.Count, Total: row.Total})
	}
	return result
}

// TopClientResponse is one client's window totals.
type TopClientResponse struct {
	ClientID   int64   `json:"client_id"`
	ClientName *string `json:"client_name"`
	Count      int64   `json:"count"`
	Total      float64 `json:"total"`
}

// NewTopClientResponses maps a slice.
func NewTopClientResponses(rows []repository.ClientTotal) []TopClientResponse {
	result := make([]TopClientResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, TopClientResponse{
			ClientID:   row.ClientID,
			ClientName: row.ClientName,
			Count:      row.Count,
			Total:      row.Total,
		})
	}
	return result
}

// DashboardResponse is the admin landing overview.
type DashboardResponse struct {
	TotalUsers          int64           `json:"total_users"`
	TotalProducts       int64           `json:"total_products"`
	TotalOrders         int64           `json:"total_orders"`
	LowStockProducts    int64           `json:"low_stock_products"`
	UnavailableProducts int64           `json:"unavailable_products"`
	RecentOrders        []OrderResponse `json:"recent_orders"`
}

// NewDashboardResponse maps the service result.
func NewDashboardResponse(summary *service.DashboardSummary) DashboardResponse {
	return DashboardResponse{
		TotalUsers:          summary.TotalUsers,
		TotalProducts:       summary.TotalProducts,
		TotalOrders:         summary.TotalOrders,
		LowStockProducts:    summary.LowStockProducts,
		UnavailableProducts: summary.UnavailableProducts,
		RecentOrders:        NewOrderResponses(summary.RecentOrders),
	}
}

// SellerDashboardResponse is the seller landing overview.
type SellerDashboardResponse struct {
	AssignedOrders int64           `json:"assigned_orders"`
	PendingOrders  int64           `json:"pending_orders"`
	DeliveredToday int64           `json:"delivered_today"`
	SalesToday     float64         `json:"sales_today"`
	SalesThisMonth float64         `json:"sales_this_month"`
	DeliveredMonth int64           `json:"delivered_this_month"`
	RecentOrders   []OrderResponse `json:"recent_orders"`
}

// NewSellerDashboardResponse maps the service result.
func NewSellerDashboardResponse(dashboard *service.SellerDashboard) SellerDashboardResponse {
	return SellerDashboardResponse{
		AssignedOrders: dashboard.AssignedOrders,
		PendingOrders:  dashboard.PendingOrders,
		DeliveredToday: dashboard.DeliveredToday,
		SalesToday:     dashboard.SalesToday,
		SalesThisMonth: dashboard.SalesThisMonth,
		DeliveredMonth: dashboard.DeliveredMonth,
		RecentOrders:   NewOrderResponses(dashboard.RecentOrders),
	}
}
