package dto

import (
	"time"

	"github.com/ventaplus/commerce-service/internal/domain"
)

// CategoryRequest payload for category create/update.
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// CategoryResponse is the public view of a category.
type CategoryResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// NewCategoryResponse maps a domain category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{ID: category.ID, Name: category.Name, Description: category.Description}
}

// NewCategoryResponses maps a slice.
func NewCategoryResponses(categories []domain.Category) []CategoryResponse {
	result := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		result = append(result, NewCategoryResponse(&categories[i]))
	}
	return result
}

// ProductRequest payload for product create/update.
type ProductRequest struct {
	CategoryID  *int64  `json:"category_id"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    *string `json:"image_url"`
	IsAvailable *bool   `json:"is_available"`
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID           int64      `json:"id"`
	CategoryID   *int64     `json:"category_id,omitempty"`
	CategoryName *string    `json:"category_name,omitempty"`
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	Price        float64    `json:"price"`
	Stock        int        `json:"stock"`
	ImageURL     *string    `json:"image_url,omitempty"`
	IsAvailable  bool       `json:"is_available"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// NewProductResponse maps a domain product.
func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           product.ID,
		CategoryID:   product.CategoryID,
		CategoryName: product.CategoryName,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price,
		Stock:        product.Stock,
		ImageURL:     product.ImageURL,
		IsAvailable:  product.IsAvailable,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

// NewProductResponses maps a slice.
func NewProductResponses(products []domain.Product) []ProductResponse {
	result := make([]ProductResponse, 0, len(products))
	for i := range products {
		result = append(result, NewProductResponse(&products[i]))
	}
	return result
}

// UpdateStockRequest sets the absolute stock of one product.
type UpdateStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

// BulkStockItem is one line of a bulk stock adjustment.
type BulkStockItem struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Stock     int   `json:"stock" validate:"gte=0"`
}

// BulkStockRequest applies several stock levels at once.
type BulkStockRequest struct {
	Items []BulkStockItem `json:"items" validate:"required,min=1,dive"`
}

// ProductStatsResponse carries catalog-wide counters.
type ProductStatsResponse struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	LowStock    int64 `json:"low_stock"`
	Unavailable int64 `json:"unavailable"`
}
