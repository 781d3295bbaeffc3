package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/samohiani/simple-ecommerce/internal/domain"
	"github.com/samohiani/simple-ecommerce/internal/repository"
)

const maxPageSize = 100

type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	ImageURL    string
}

// ListProducts pages through the catalog with optional category, search
// and sort filters.
func (s *ProductService) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	if filter.Page < 1 {
		return nil, invalidInput("page must be greater than 0")
	}
	if filter.Limit < 1 || filter.Limit > maxPageSize {
		return nil, invalidInput("limit must be between 1 and %d", maxPageSize)
	}

	page, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, storeFailure(err, "failed to list products")
	}
	return page, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, notFound("product not found")
	}
	if err != nil {
		return nil, storeFailure(err, "failed to get product")
	}
	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	switch {
	case input.Name == "":
		return nil, invalidInput("product name is required")
	case input.Description == "":
		return nil, invalidInput("product description is required")
	case input.Price <= 0:
		return nil, invalidInput("product price must be greater than 0")
	case input.Category == "":
		return nil, invalidInput("product category is required")
	}

	product := &domain.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, storeFailure(err, "failed to create product")
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, update domain.ProductUpdate) (*domain.Product, error) {
	if update.Price != nil && *update.Price <= 0 {
		return nil, invalidInput("product price must be greater than 0")
	}

	product, err := s.products.Update(ctx, id, update)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, notFound("product not found")
	}
	if err != nil {
		return nil, storeFailure(err, "failed to update product")
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	err := s.products.Delete(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return notFound("product not found")
	}
	if err != nil {
		return storeFailure(err, "failed to delete product")
	}
	return nil
}
