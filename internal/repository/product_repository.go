package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ventaplus/commerce-service/internal/domain"
)

// ProductFilter captures catalog search parameters.
type ProductFilter struct {
	CategoryID    *int64
	Search        *string
	LowStock      bool
	AvailableOnly bool
	Limit         int
	Offset        int
}

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int64, error)
	ListByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	ToggleAvailability(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, id int64, stock int) error
	Count(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context) (int64, error)
	CountUnavailable(ctx context.Context) (int64, error)
	CountAvailable(ctx context.Context) (int64, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `p.id, p.category_id, c.name, p.name, p.description, p.price, p.stock, p.image_url, p.is_available, p.created_at, p.updated_at`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (category_id, name, description, price, stock, image_url, is_available)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		product.CategoryID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.ImageURL,
		product.IsAvailable,
	).Scan(&product.ID, &product.CreatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET category_id=$1, name=$2, description=$3, price=$4, stock=$5,
            image_url=$6, is_available=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		product.CategoryID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.ImageURL,
		product.IsAvailable,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	return err
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
        FROM products p LEFT JOIN categories c ON c.id = p.category_id
        WHERE p.id=$1`
	var product domain.Product
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.CategoryID,
		&product.CategoryName,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.ImageURL,
		&product.IsAvailable,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AvailableOnly {
		clauses = append(clauses, "p.is_available = TRUE")
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("p.category_id=$%d", len(args)))
	}
	if filter.LowStock {
		args = append(args, domain.LowStockThreshold)
		clauses = append(clauses, fmt.Sprintf("p.stock < $%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(p.name) LIKE %s OR LOWER(p.description) LIKE %s)", placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM products p WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
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

	query := fmt.Sprintf(`SELECT %s
        FROM products p LEFT JOIN categories c ON c.id = p.category_id
        WHERE %s ORDER BY p.created_at DESC LIMIT %d OFFSET %d`,
		productColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + productColumns + `
        FROM products p LEFT JOIN categories c ON c.id = p.category_id
        WHERE p.id = ANY($1) ORDER BY p.id`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
        FROM products p LEFT JOIN categories c ON c.id = p.category_id
        WHERE p.category_id=$1 ORDER BY p.id`
	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) ToggleAvailability(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE products SET is_available = NOT is_available, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) UpdateStock(ctx context.Context, id int64, stock int) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE products SET stock=$1, updated_at=NOW() WHERE id=$2`, stock, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, "1=1")
}

func (r *productRepository) CountLowStock(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, fmt.Sprintf("stock < %d", domain.LowStockThreshold))
}

func (r *productRepository) CountUnavailable(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, "is_available = FALSE")
}

func (r *productRepository) CountAvailable(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, "is_available = TRUE")
}

func (r *productRepository) countWhere(ctx context.Context, where string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+where).Scan(&count)
	return count, err
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.CategoryID,
			&product.CategoryName,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Stock,
			&product.ImageURL,
			&product.IsAvailable,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, product)
	}
	return result, rows.Err()
}
