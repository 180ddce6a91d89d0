package service

import (
	"context"
	"strings"

	"github.com/ventaplus/commerce-service/internal/domain"
	"github.com/ventaplus/commerce-service/internal/repository"
	"github.com/ventaplus/commerce-service/pkg/util"
)

// CatalogService coordinates category and product management.
type CatalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

// NewCatalogService builds the service.
func NewCatalogService(categories repository.CategoryRepository, products repository.ProductRepository) *CatalogService {
	return &CatalogService{categories: categories, products: products}
}

// CategoryInput describes a category create/update payload.
type CategoryInput struct {
	Name        string
	Description *string
}

// ProductInput describes a product create/update payload.
type ProductInput struct {
	CategoryID  *int64
	Name        string
	Description *string
	Price       float64
	Stock       int
	ImageURL    *string
	IsAvailable *bool
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, util.NewValidationError("category name is required", nil)
	}
	category := &domain.Category{Name: name, Description: input.Description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Products keep their rows, the FK nulls
// out their category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

// ListProducts serves both the admin catalog and the public storefront. The
// storefront passes AvailableOnly.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int64, error) {
	return s.products.List(ctx, filter)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := s.validateProduct(ctx, input); err != nil {
		return nil, err
	}
	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}
	product := &domain.Product{
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		IsAvailable: available,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateProduct(ctx, input); err != nil {
		return nil, err
	}

	product.CategoryID = input.CategoryID
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.ImageURL = input.ImageURL
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

// StockUpdate is one line of a bulk stock adjustment.
type StockUpdate struct {
	ProductID int64
	Stock     int
}

// ProductStats carries catalog-wide counts for the back office.
type ProductStats struct {
	Total       int64
	Available   int64
	LowStock    int64
	Unavailable int64
}

// CountAvailableProducts returns how many products the storefront shows.
func (s *CatalogService) CountAvailableProducts(ctx context.Context) (int64, error) {
	return s.products.CountAvailable(ctx)
}

// UpdateProductStock sets the absolute stock level of one product.
func (s *CatalogService) UpdateProductStock(ctx context.Context, id int64, stock int) (*domain.Product, error) {
	if stock < 0 {
		return nil, util.NewValidationError("stock must not be negative", map[string]any{"product_id": id})
	}
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.products.UpdateStock(ctx, id, stock); err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, id)
}

// BulkUpdateStock applies several absolute stock levels. Validation runs
// up-front so a bad line rejects the whole batch.
func (s *CatalogService) BulkUpdateStock(ctx context.Context, updates []StockUpdate) error {
	if len(updates) == 0 {
		return util.NewValidationError("no stock updates given", nil)
	}
	for _, update := range updates {
		if update.Stock < 0 {
			return util.NewValidationError("stock must not be negative", map[string]any{"product_id": update.ProductID})
		}
		if _, err := s.products.GetByID(ctx, update.ProductID); err != nil {
			return err
		}
	}
	for _, update := range updates {
		if err := s.products.UpdateStock(ctx, update.ProductID, update.Stock); err != nil {
			return err
		}
	}
	return nil
}

// ProductStats aggregates the catalog counters shown on the admin product
// screen.
func (s *CatalogService) ProductStats(ctx context.Context) (*ProductStats, error) {
	stats := &ProductStats{}
	var err error
	if stats.Total, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Available, err = s.products.CountAvailable(ctx); err != nil {
		return nil, err
	}
	if stats.LowStock, err = s.products.CountLowStock(ctx); err != nil {
		return nil, err
	}
	if stats.Unavailable, err = s.products.CountUnavailable(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *CatalogService) ToggleProductAvailability(ctx context.Context, id int64) (*domain.Product, error) {
	if err := s.products.ToggleAvailability(ctx, id); err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, id)
}

func (s *CatalogService) validateProduct(ctx context.Context, input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return util.NewValidationError("product name is required", nil)
	}
	if input.Price < 0 {
		return util.NewValidationError("price must not be negative", nil)
	}
	if input.Stock < 0 {
		return util.NewValidationError("stock must not be negative", nil)
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			return util.NewValidationError("unknown category", map[string]any{"category_id": *input.CategoryID})
		}
	}
	return nil
}
