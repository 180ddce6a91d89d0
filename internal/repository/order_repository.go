package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ventaplus/commerce-service/internal/domain"
)

// ErrInsufficientStock aborts order creation when a concurrent checkout
// drained a product between the availability check and the write.
var ErrInsufficientStock = errors.New("insufficient stock")

// OrderFilter captures admin/seller order search parameters.
type OrderFilter struct {
	Status   *string
	SellerID *int64
	ClientID *int64
	DateFrom *time.Time
	DateTo   *time.Time
	Search   *string
	Limit    int
	Offset   int
}

// OrderRepository encapsulates order and order-item persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetDetail(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int64, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]domain.Order, error)
	ListRecentByClient(ctx context.Context, clientID int64, limit int) ([]domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	AssignSeller(ctx context.Context, id, sellerID int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	ClientStats(ctx context.Context, clientID int64) (int64, float64, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `id, client_id, seller_id, delivery_address, total_amount, status, payment_method, created_at, updated_at`

// Create inserts the order and its items and decrements product stock, all
// in one transaction. The decrement is guarded so two concurrent checkouts
// cannot both take the last unit; losing the race rolls the order back with
// ErrInsufficientStock.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const orderQuery = `
        INSERT INTO orders (client_id, seller_id, delivery_address, total_amount, status, payment_method)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, orderQuery,
		order.ClientID,
		order.SellerID,
		order.DeliveryAddress,
		order.TotalAmount,
		order.Status,
		order.PaymentMethod,
	).Scan(&order.ID, &order.CreatedAt); err != nil {
		return err
	}

	const itemQuery = `
        INSERT INTO order_items (order_id, product_id, quantity, unit_price)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	const stockQuery = `
        UPDATE products SET stock = stock - $2, updated_at=NOW()
        WHERE id=$1 AND stock >= $2`
	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.QueryRow(ctx, itemQuery,
			items[i].OrderID,
			items[i].ProductID,
			items[i].Quantity,
			items[i].UnitPrice,
		).Scan(&items[i].ID); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, stockQuery, items[i].ProductID, items[i].Quantity)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("product %d: %w", items[i].ProductID, ErrInsufficientStock)
		}
	}
	order.Items = items

	return tx.Commit(ctx)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.ClientID,
		&order.SellerID,
		&order.DeliveryAddress,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentMethod,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetDetail loads the order with its items, product names and client record.
func (r *orderRepository) GetDetail(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	const itemsQuery = `
        SELECT i.id, i.order_id, i.product_id, p.name, i.quantity, i.unit_price
        FROM order_items i LEFT JOIN products p ON p.id = i.product_id
        WHERE i.order_id=$1 ORDER BY i.id`
	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
		); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const clientQuery = `
        SELECT u.id, u.role_id, r.name, u.name, u.email, u.password_hash, u.address, u.is_active, u.created_at
        FROM users u LEFT JOIN roles r ON r.id = u.role_id
        WHERE u.id=$1`
	var client domain.User
	if err := r.pool.QueryRow(ctx, clientQuery, order.ClientID).Scan(
		&client.ID,
		&client.RoleID,
		&client.RoleName,
		&client.Name,
		&client.Email,
		&client.PasswordHash,
		&client.Address,
		&client.IsActive,
		&client.CreatedAt,
	); err == nil {
		order.Client = &client
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]domain.Order, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.SellerID != nil {
		args = append(args, *filter.SellerID)
		clauses = append(clauses, fmt.Sprintf("seller_id=$%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := strings.TrimSpace(*filter.Search)
		args = append(args, "%"+strings.ToLower(search)+"%")
		like := fmt.Sprintf("$%d", len(args))
		args = append(args, search)
		exact := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(delivery_address) LIKE %s OR CAST(id AS TEXT) = %s)", like, exact))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		orderColumns, where, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE seller_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) ListRecentByClient(ctx context.Context, clientID int64, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE client_id=$1 ORDER BY created_at DESC LIMIT %d`, orderColumns, limit)
	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC LIMIT %d`, orderColumns, limit)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) AssignSeller(ctx context.Context, id, sellerID int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET seller_id=$1, updated_at=NOW() WHERE id=$2`, sellerID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	return err
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

// CountByStatus returns lifetime order counts per raw status label.
func (r *orderRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM orders GROUP BY status ORDER BY COUNT(*) DESC`)
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

// ClientStats returns lifetime order count and spend for one client.
func (r *orderRepository) ClientStats(ctx context.Context, clientID int64) (int64, float64, error) {
	var count int64
	var spent float64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_amount),0) FROM orders WHERE client_id=$1`,
		clientID,
	).Scan(&count, &spent)
	return count, spent, err
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.ClientID,
			&order.SellerID,
			&order.DeliveryAddress,
			&order.TotalAmount,
			&order.Status,
			&order.PaymentMethod,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
