package service

import (
	"context"

	"github.com/ventaplus/commerce-service/internal/analytics"
	"github.com/ventaplus/commerce-service/internal/domain"
	"github.com/ventaplus/commerce-service/internal/repository"
	"github.com/ventaplus/commerce-service/pkg/util"
)

// UserCounter is the slice of the user repository the dashboard needs.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// ProductCounter is the slice of the product repository the dashboard needs.
type ProductCounter interface {
	Count(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context) (int64, error)
	CountUnavailable(ctx context.Context) (int64, error)
}

// OrderOverview is the slice of the order repository the dashboard needs.
type OrderOverview interface {
	Count(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
}

// StatsService computes the admin analytics over calendar windows. Every
// method accepts optional from/to dates and falls back to the trailing
// 30-day window.
type StatsService struct {
	stats    repository.StatsRepository
	users    UserCounter
	products ProductCounter
	orders   OrderOverview
	periods  *analytics.PeriodResolver
}

// NewStatsService builds the service.
func NewStatsService(
	stats repository.StatsRepository,
	users UserCounter,
	products ProductCounter,
	orders OrderOverview,
	periods *analytics.PeriodResolver,
) *StatsService {
	return &StatsService{stats: stats, users: users, products: products, orders: orders, periods: periods}
}

// DayPoint is a zero-filled per-day monetary value.
type DayPoint struct {
	Date  string
	Total float64
}

// GrowthPoint is a zero-filled per-day count.
type GrowthPoint struct {
	Date  string
	Count int64
}

// SeriesPoint is one bucket of an order-count series.
type SeriesPoint struct {
	Label string
	Count int64
}

// PeriodSeries compares the order counts of a window against the previous
// window of equal length.
type PeriodSeries struct {
	Series        []SeriesPoint
	CurrentTotal  int64
	PreviousTotal int64
	PercentChange float64
	Granularity   string
}

// RevenueSummary compares revenue against the previous window and the same
// window one year earlier.
type RevenueSummary struct {
	CurrentRevenue   float64
	PreviousRevenue  float64
	PercentChange    float64
	YoYRevenue       float64
	YoYPercentChange float64
}

// OrderRates carries status fractions over all orders in the window. Rates
// are nil when the window holds no orders at all.
type OrderRates struct {
	ConfirmationRate *float64
	ClosureRate      *float64
	CancellationRate *float64
}

// RevenueBreakdown groups window revenue by seller, payment channel and
// product category.
type RevenueBreakdown struct {
	BySeller   []repository.SellerTotal
	ByChannel  []repository.SegmentTotal
	ByCategory []repository.SegmentTotal
}

// DashboardSummary is the admin landing overview.
type DashboardSummary struct {
	TotalUsers          int64
	TotalProducts       int64
	TotalOrders         int64
	LowStockProducts    int64
	UnavailableProducts int64
	RecentOrders        []domain.Order
}

// SalesByDay returns per-day sales totals with days without sales filled in
// as zero.
func (s *StatsService) SalesByDay(ctx context.Context, fromDate, toDate string) ([]DayPoint, error) {
	window, err := s.periods.Resolve(fromDate, toDate)
	if err != nil {
		return nil, err
	}
	rows, err := s.stats.SalesByDay(ctx, window)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[row.Day] = row.Total
	}
	points := make([]DayPoint, 0, window.Days())
	window.EachDay(func(day string) {
		points = append(points, DayPoint{Date: day, Total: totals[day]})
	})
	return points, nil
}

// SalesBySeller returns window totals per assigned seller, best first.
func (s *StatsService) SalesBySeller(ctx context.Context, fromDate, toDate string) ([]repository.SellerTotal, error) {
	window, err := s.periods.Resolve(fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return s.stats.SalesBySeller(ctx, window)
}

// TopProducts returns the best selling products by quantity.
func (s *StatsService) TopProducts(ctx context.Context, fromDate, toDate string, limit int) ([]repository.ProductQty, error) {
	window, err := s.periods.Resolve(fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return s.stats.TopProducts(ctx, window, limit)
}

// UsersGrowth returns per-day registration counts, zero-filled.
func (s *StatsService) UsersGrowth(ctx context.Context, fromDate, toDate string) ([]GrowthPoint, error) {
	window, err := s.periods.Resolve(fromDate, toDate)
	if err != nil {
		return nil, err
	}
	rows, err := s.stats.UsersGrowth(ctx, window)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Day] = row.Count
	}
	points := make([]GrowthPoint, 0, window.Days())
	window.EachDay(func(day string) {
		points = append(points, GrowthPoint{Date: day, Count: counts[day]})
	})
	return points, nil
}

// OrdersByStatus returns order counts per raw status label in the window.
// Cancelled orders count here, the breakdown is about the full lifecycle.
func (s *StatsService) OrdersByStatus(ctx context.Context, fromDate, toDate string) ([]repository.StatusCount, error) {
	window, err := s.periods.Resolve(fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return s.stats.OrdersByStatus(ctx, window)
}

// OrdersPeriod returns the order-count series for the window plus a
// comparison against the previous window of equal length. Granularity is
// "daily" (default) or "monthly".
func (s *StatsService) OrdersPeriod(ctx context.Context, fromDate, toDate, granularity string) (*PeriodSeries, error) {
	switch granularity {
	case "", "daily":
		granularity = "daily"
	case "monthly":
	default:
		return nil, util.NewValidationError("granularity must be daily or monthly", nil)
	}

	window, err := s.periods.Resolve(fromDate, toDate)
	if err != nil {
		return nil, err
	}
	monthly := granularity == "monthly"

	rows, err := s.stats.OrderCountsByBucket(ctx, window, monthly)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Label] = row.Count
	}

	result := &PeriodSeries{Granularity: granularity}
	fill := func(label string) {
		count := counts[label]
		result.Series = append(result.Series, SeriesPoint{Label: label, Count: count})
		result.CurrentTotal += count
	}
	if monthly {
		window.EachMonth(fill)
	} else {
		window.EachDay(fill)
	}

	previous, err := s.stats.OrderCount(ctx, s.periods.Previous(window))
	if err != nil {
		return nil, err
	}
	result.PreviousTotal = previous
	result.PercentChange = percentChange(float64(result.CurrentTotal), float64(previous))
	return result, nil
}

// Revenue compares window revenue to the previous window and to the same
// window one year back. Cancelled and voided orders never count.
func (s *StatsService) Revenue(ctx context.Context, fromDate, toDate string) (*RevenueSummary, error) {
	window, err := s.periods.Resolve(fromDate, toDate)
	if err != nil {
		return nil, err
	}

	current, err := s.stats.Revenue(ctx, window)
	if err != nil {
		return nil, err
	}
	previous, err := s.stats.Revenue(ctx, s.periods.Previous(window))
	if err != nil {
		return nil, err
	}
	yearAgo, err := s.stats.Revenue(ctx, s.periods.YearAgo(window))
	if err != nil {
		return nil, err
	}

	return &RevenueSummary{
		CurrentRevenue:   current,
		PreviousRevenue:  previous,
		PercentChange:    percentChange(current, previous),
		YoYRevenue:       yearAgo,
		YoYPercentChange: percentChange(current, yearAgo),
	}, nil
}

// Rates returns confirmation, closure and cancellation rates over every
// order in the window, each a fraction in [0,1]. With no orders the rates
// stay nil rather than zero so callers can tell "no data" from 0.
func (s *StatsService) Rates(ctx context.Context, fromDate, toDate string) (*OrderRates, error) {
	window, err := s.periods.Resolve(fromDate, toDate)
	if err != nil {
		return nil, err
	}
	tally, err := s.stats.StatusTally(ctx, window)
	if err != nil {
		return nil, err
	}

	rates := &OrderRates{}
	if tally.Total > 0 {
		total := float64(tally.Total)
		confirmation := float64(tally.Confirmed) / total
		closure := float64(tally.Delivered) / total
		cancellation := float64(tally.Cancelled) / total
		rates.ConfirmationRate = &confirmation
		rates.ClosureRate = &closure
		rates.CancellationRate = &cancellation
	}
	return rates, nil
}

// RevenueBreakdown groups window revenue by seller, channel and category.
func (s *StatsService) RevenueBreakdown(ctx context.Context, fromDate, toDate string) (*RevenueBreakdown, error) {
	window, err := s.periods.Resolve(fromDate, toDate)
	if err != nil {
		return nil, err
	}

	bySeller, err := s.stats.RevenueBySeller(ctx, window)
	if err != nil {
		return nil, err
	}
	byChannel, err := s.stats.RevenueByChannel(ctx, window)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.stats.RevenueByCategory(ctx, window)
	if err != nil {
		return nil, err
	}

	return &RevenueBreakdown{BySeller: bySeller, ByChannel: byChannel, ByCategory: byCategory}, nil
}

// TopClients returns the highest-spending clients in the window.
func (s *StatsService) TopClients(ctx context.Context, fromDate, toDate string, limit int) ([]repository.ClientTotal, error) {
	window, err := s.periods.Resolve(fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return s.stats.TopClients(ctx, window, limit)
}

// Dashboard builds the admin landing overview from lifetime counts.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{}
	var err error

	if summary.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if summary.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if summary.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, err
	}
	if summary.LowStockProducts, err = s.products.CountLowStock(ctx); err != nil {
		return nil, err
	}
	if summary.UnavailableProducts, err = s.products.CountUnavailable(ctx); err != nil {
		return nil, err
	}
	if summary.RecentOrders, err = s.orders.ListRecent(ctx, 10); err != nil {
		return nil, err
	}
	return summary, nil
}

// percentChange follows the storefront convention: growth from zero shows as
// a flat +100%, and the divisor is floored to avoid blowups on tiny bases.
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	divisor := previous
	if divisor < 1e-6 {
		divisor = 1e-6
	}
	return (current - previous) / divisor * 100
}
