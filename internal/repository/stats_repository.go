package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ventaplus/commerce-service/internal/analytics"
)

// notCancelled excludes cancelled/voided orders from revenue and most count
// aggregates. Status comparison is case-folded and trimmed because legacy
// rows carry inconsistent casing.
const notCancelled = `LOWER(TRIM(status)) NOT IN ('cancelado','anulado')`

// DayTotal is a per-day monetary sum.
type DayTotal struct {
	Day   string
	Total float64
}

// DayCount is a per-day row count.
type DayCount struct {
	Day   string
	Count int64
}

// SellerTotal aggregates orders for one seller.
type SellerTotal struct {
	SellerID   int64
	SellerName *string
	Total      float64
	Count      int64
}

// ProductQty aggregates sold quantity for one product.
type ProductQty struct {
	ProductID   int64
	ProductName *string
	Quantity    int64
}

// StatusCount is a per-status order count.
type StatusCount struct {
	Status string
	Count  int64
}

// BucketCount is a per-bucket (day or month) order count.
type BucketCount struct {
	Label string
	Count int64
}

// SegmentTotal aggregates revenue for one segment label.
type SegmentTotal struct {
	Label *string
	Count int64
	Total float64
}

// ClientTotal aggregates orders for one client.
type ClientTotal struct {
	ClientID   int64
	ClientName *string
	Count      int64
	Total      float64
}

// StatusTally carries the counts the rate calculations need.
type StatusTally struct {
	Total     int64
	Confirmed int64
	Delivered int64
	Cancelled int64
}

// StatsRepository runs the grouped aggregate queries the analytics engine
// consumes. All queries are read-only and range-scoped.
type StatsRepository interface {
	SalesByDay(ctx context.Context, r analytics.DateRange) ([]DayTotal, error)
	SalesBySeller(ctx context.Context, r analytics.DateRange) ([]SellerTotal, error)
	TopProducts(ctx context.Context, r analytics.DateRange, limit int) ([]ProductQty, error)
	UsersGrowth(ctx context.Context, r analytics.DateRange) ([]DayCount, error)
	OrdersByStatus(ctx context.Context, r analytics.DateRange) ([]StatusCount, error)
	OrderCount(ctx context.Context, r analytics.DateRange) (int64, error)
	OrderCountsByBucket(ctx context.Context, r analytics.DateRange, monthly bool) ([]BucketCount, error)
	StatusTally(ctx context.Context, r analytics.DateRange) (StatusTally, error)
	Revenue(ctx context.Context, r analytics.DateRange) (float64, error)
	RevenueBySeller(ctx context.Context, r analytics.DateRange) ([]SellerTotal, error)
	RevenueByChannel(ctx context.Context, r analytics.DateRange) ([]SegmentTotal, error)
	RevenueByCategory(ctx context.Context, r analytics.DateRange) ([]SegmentTotal, error)
	TopClients(ctx context.Context, r analytics.DateRange, limit int) ([]ClientTotal, error)
	SellerDayTotal(ctx context.Context, sellerID int64, r analytics.DateRange) (float64, error)
	SellerDeliveredCount(ctx context.Context, sellerID int64, r analytics.DateRange) (int64, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository instantiates repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) SalesByDay(ctx context.Context, rng analytics.DateRange) ([]DayTotal, error) {
	const query = `
        SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COALESCE(SUM(total_amount),0)
        FROM orders
        WHERE created_at BETWEEN $1 AND $2 AND ` + notCancelled + `
        GROUP BY day ORDER BY day`
	rows, err := r.pool.Query(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DayTotal
	for rows.Next() {
		var row DayTotal
		if err := rows.Scan(&row.Day, &row.Total); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *statsRepository) SalesBySeller(ctx context.Context, rng analytics.DateRange) ([]SellerTotal, error) {
	const query = `
        SELECT o.seller_id, u.name, COALESCE(SUM(o.total_amount),0), COUNT(*)
        FROM orders o LEFT JOIN users u ON u.id = o.seller_id
        WHERE o.created_at BETWEEN $1 AND $2
          AND LOWER(TRIM(o.status)) NOT IN ('cancelado','anulado')
          AND o.seller_id IS NOT NULL
        GROUP BY o.seller_id, u.name
        ORDER BY 3 DESC`
	return r.querySellerTotals(ctx, query, rng)
}

func (r *statsRepository) querySellerTotals(ctx context.Context, query string, rng analytics.DateRange) ([]SellerTotal, error) {
	rows, err := r.pool.Query(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SellerTotal
	for rows.Next() {
		var row SellerTotal
		if err := rows.Scan(&row.SellerID, &row.SellerName, &row.Total, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *statsRepository) TopProducts(ctx context.Context, rng analytics.DateRange, limit int) ([]ProductQty, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT i.product_id, p.name, COALESCE(SUM(i.quantity),0) AS qty
        FROM order_items i
        JOIN orders o ON o.id = i.order_id
        LEFT JOIN products p ON p.id = i.product_id
        WHERE o.created_at BETWEEN $1 AND $2
          AND LOWER(TRIM(o.status)) NOT IN ('cancelado','anulado')
        GROUP BY i.product_id, p.name
        ORDER BY qty DESC
        LIMIT $3`
	rows, err := r.pool.Query(ctx, query, rng.Start, rng.End, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ProductQty
	for rows.Next() {
		var row ProductQty
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Quantity); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *statsRepository) UsersGrowth(ctx context.Context, rng analytics.DateRange) ([]DayCount, error) {
	const query = `
        SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*)
        FROM users
        WHERE created_at BETWEEN $1 AND $2
        GROUP BY day ORDER BY day`
	rows, err := r.pool.Query(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DayCount
	for rows.Next() {
		var row DayCount
		if err := rows.Scan(&row.Day, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *statsRepository) OrdersByStatus(ctx context.Context, rng analytics.DateRange) ([]StatusCount, error) {
	const query = `
        SELECT status, COUNT(*)
        FROM orders
        WHERE created_at BETWEEN $1 AND $2
        GROUP BY status ORDER BY 2 DESC`
	rows, err := r.pool.Query(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatusCount
	for rows.Next() {
		var row StatusCount
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *statsRepository) OrderCount(ctx context.Context, rng analytics.DateRange) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at BETWEEN $1 AND $2`,
		rng.Start, rng.End,
	).Scan(&count)
	return count, err
}

func (r *statsRepository) OrderCountsByBucket(ctx context.Context, rng analytics.DateRange, monthly bool) ([]BucketCount, error) {
	format := "YYYY-MM-DD"
	if monthly {
		format = "YYYY-MM"
	}
	const query = `
        SELECT to_char(created_at, $3) AS bucket, COUNT(*)
        FROM orders
        WHERE created_at BETWEEN $1 AND $2
        GROUP BY bucket ORDER BY bucket`
	rows, err := r.pool.Query(ctx, query, rng.Start, rng.End, format)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BucketCount
	for rows.Next() {
		var row BucketCount
		if err := rows.Scan(&row.Label, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *statsRepository) StatusTally(ctx context.Context, rng analytics.DateRange) (StatusTally, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'Confirmado'),
               COUNT(*) FILTER (WHERE status = 'Entregado'),
               COUNT(*) FILTER (WHERE status = 'Cancelado')
        FROM orders
        WHERE created_at BETWEEN $1 AND $2`
	var tally StatusTally
	err := r.pool.QueryRow(ctx, query, rng.Start, rng.End).Scan(
		&tally.Total,
		&tally.Confirmed,
		&tally.Delivered,
		&tally.Cancelled,
	)
	return tally, err
}

func (r *statsRepository) Revenue(ctx context.Context, rng analytics.DateRange) (float64, error) {
	query := `
        SELECT COALESCE(SUM(total_amount),0)
        FROM orders
        WHERE created_at BETWEEN $1 AND $2 AND ` + notCancelled
	var total float64
	err := r.pool.QueryRow(ctx, query, rng.Start, rng.End).Scan(&total)
	return total, err
}

func (r *statsRepository) RevenueBySeller(ctx context.Context, rng analytics.DateRange) ([]SellerTotal, error) {
	return r.SalesBySeller(ctx, rng)
}

func (r *statsRepository) RevenueByChannel(ctx context.Context, rng analytics.DateRange) ([]SegmentTotal, error) {
	const query = `
        SELECT payment_method, COUNT(*), COALESCE(SUM(total_amount),0)
        FROM orders
        WHERE created_at BETWEEN $1 AND $2 AND ` + notCancelled + `
        GROUP BY payment_method
        ORDER BY 3 DESC`
	return r.querySegmentTotals(ctx, query, rng)
}

func (r *statsRepository) RevenueByCategory(ctx context.Context, rng analytics.DateRange) ([]SegmentTotal, error) {
	const query = `
        SELECT c.name, COUNT(*), COALESCE(SUM(i.quantity * i.unit_price),0) AS total
        FROM order_items i
        JOIN orders o ON o.id = i.order_id
        JOIN products p ON p.id = i.product_id
        JOIN categories c ON c.id = p.category_id
        WHERE o.created_at BETWEEN $1 AND $2
          AND LOWER(TRIM(o.status)) NOT IN ('cancelado','anulado')
        GROUP BY c.id, c.name
        ORDER BY total DESC`
	return r.querySegmentTotals(ctx, query, rng)
}

func (r *statsRepository) querySegmentTotals(ctx context.Context, query string, rng analytics.DateRange) ([]SegmentTotal, error) {
	rows, err := r.pool.Query(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SegmentTotal
	for rows.Next() {
		var row SegmentTotal
		if err := rows.Scan(&row.Label, &row.Count, &row.Total); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *statsRepository) TopClients(ctx context.Context, rng analytics.DateRange, limit int) ([]ClientTotal, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
        SELECT o.client_id, u.name, COUNT(*), COALESCE(SUM(o.total_amount),0) AS total
        FROM orders o LEFT JOIN users u ON u.id = o.client_id
        WHERE o.created_at BETWEEN $1 AND $2
          AND LOWER(TRIM(o.status)) NOT IN ('cancelado','anulado')
        GROUP BY o.client_id, u.name
        ORDER BY total DESC
        LIMIT $3`
	rows, err := r.pool.Query(ctx, query, rng.Start, rng.End, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ClientTotal
	for rows.Next() {
		var row ClientTotal
		if err := rows.Scan(&row.ClientID, &row.ClientName, &row.Count, &row.Total); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *statsRepository) SellerDayTotal(ctx context.Context, sellerID int64, rng analytics.DateRange) (float64, error) {
	query := `
        SELECT COALESCE(SUM(total_amount),0)
        FROM orders
        WHERE seller_id=$1 AND created_at BETWEEN $2 AND $3 AND ` + notCancelled
	var total float64
	err := r.pool.QueryRow(ctx, query, sellerID, rng.Start, rng.End).Scan(&total)
	return total, err
}

func (r *statsRepository) SellerDeliveredCount(ctx context.Context, sellerID int64, rng analytics.DateRange) (int64, error) {
	const query = `
        SELECT COUNT(*)
        FROM orders
        WHERE seller_id=$1 AND status='Entregado' AND created_at BETWEEN $2 AND $3`
	var count int64
	err := r.pool.QueryRow(ctx, query, sellerID, rng.Start, rng.End).Scan(&count)
	return count, err
}
