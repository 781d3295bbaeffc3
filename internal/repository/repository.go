package repository

import (
	"context"
	"errors"

	"github.com/samohiani/simple-ecommerce/internal/domain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// Consumers define these interfaces, not the MongoDB implementations.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ProductReader is the catalog access the cart and order services need:
// resolve a product (and thereby its current price) by id.
type ProductReader interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
}

type ProductRepository interface {
	ProductReader
	Create(ctx context.Context, product *domain.Product) error
	List(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error)
	Update(ctx context.Context, id string, update domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// CartRepository persists at most one cart per user. Save is an upsert
// keyed by user id.
type CartRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}

// OrderRepository persists orders. FindByIDAndUser filters by both id and
// owning user in a single query, so a foreign order and a nonexistent one
// are indistinguishable to the caller.
type OrderRepository interface {
	FindByIDAndUser(ctx context.Context, orderID, userID string) (*domain.Order, error)
	FindAllByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Save(ctx context.Context, order *domain.Order) error
}
