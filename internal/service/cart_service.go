package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/samohiani/simple-ecommerce/internal/cache"
	"github.com/samohiani/simple-ecommerce/internal/domain"
	"github.com/samohiani/simple-ecommerce/internal/repository"
	"golang.org/x/sync/singleflight"
)

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductReader
	cache    cache.CartCache
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(carts repository.CartRepository, products repository.ProductReader, cartCache cache.CartCache) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		cache:    cartCache,
	}
}

// BulkAddEntry is one (product, quantity) pair of a bulk add request.
type BulkAddEntry struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// GetCart returns the user's cart with product details resolved, creating
// and persisting an empty cart if none exists yet.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.CartDetail, error) {
	// Use singleflight to collapse concurrent cache misses for the same user
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cached, errGet := s.cache.Get(ctx, userID)
		if errGet == nil {
			return cached, nil
		}
		if !errors.Is(errGet, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", errGet)
		}

		cart, errFind := s.carts.FindByUser(ctx, userID)
		if errors.Is(errFind, repository.ErrCartNotFound) {
			cart = &domain.Cart{UserID: userID}
			if errSave := s.carts.Save(ctx, cart); errSave != nil {
				return nil, storeFailure(errSave, "failed to create cart")
			}
		} else if errFind != nil {
			return nil, storeFailure(errFind, "failed to load cart")
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), userID, cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return s.expand(ctx, v.(*domain.Cart))
}

// AddItem puts quantity units of a product into the cart. Adding a product
// already present sums quantities instead of creating a second line item.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartDetail, error) {
	if quantity <= 0 {
		return nil, invalidInput("quantity must be greater than 0")
	}
	if _, err := s.resolveProduct(ctx, productID); err != nil {
		return nil, err
	}

	cart, err := s.loadOrNewCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	mergeItem(cart, productID, quantity)

	return s.commit(ctx, cart)
}

// BulkAdd applies a batch of add operations. Every entry is validated
// before any state changes, so one bad entry rejects the whole batch; the
// total is recomputed and the cart saved once after the full batch.
func (s *CartService) BulkAdd(ctx context.Context, userID string, entries []BulkAddEntry) (*domain.CartDetail, error) {
	if len(entries) == 0 {
		return nil, invalidInput("products list cannot be empty")
	}
	for _, entry := range entries {
		if entry.ProductID == "" {
			return nil, invalidInput("each product must have a product id")
		}
		if entry.Quantity <= 0 {
			return nil, invalidInput("each product quantity must be greater than 0")
		}
		if _, err := s.products.FindByID(ctx, entry.ProductID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, notFound("product %s not found", entry.ProductID)
			}
			return nil, storeFailure(err, "failed to resolve product %s", entry.ProductID)
		}
	}

	cart, err := s.loadOrNewCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		mergeItem(cart, entry.ProductID, entry.Quantity)
	}

	return s.commit(ctx, cart)
}

// RemoveItem drops productID from the cart. Removing a product that is
// not in the cart is a no-op, but the total is still recomputed and the
// cart re-saved.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.CartDetail, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	return s.commit(ctx, cart)
}

// UpdateQuantity overwrites the stored quantity of a product already in
// the cart; it is not additive.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.CartDetail, error) {
	if quantity <= 0 {
		return nil, invalidInput("quantity must be greater than 0")
	}

	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := cart.FindItem(productID)
	if i < 0 {
		return nil, notFound("product not found in cart")
	}
	cart.Items[i].Quantity = quantity

	return s.commit(ctx, cart)
}

// ClearCart empties the item list and zeroes the total. The cart document
// itself survives.
func (s *CartService) ClearCart(ctx context.Context, userID string) (*domain.CartDetail, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = nil
	return s.commit(ctx, cart)
}

func mergeItem(cart *domain.Cart, productID string, quantity int) {
	if i := cart.FindItem(productID); i >= 0 {
		cart.Items[i].Quantity += quantity
		return
	}
	cart.Items = append(cart.Items, domain.CartItem{
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	})
}

// commit recomputes the total from live catalog prices, persists the cart,
// invalidates the cache and returns the cart with product details resolved.
func (s *CartService) commit(ctx context.Context, cart *domain.Cart) (*domain.CartDetail, error) {
	if err := s.recomputeTotal(ctx, cart); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, storeFailure(err, "failed to save cart")
	}
	s.invalidateCache(cart.UserID)

	return s.expand(ctx, cart)
}

// recomputeTotal re-reads every line item's current catalog price on every
// mutation. Products that vanished from the catalog contribute nothing.
func (s *CartService) recomputeTotal(ctx context.Context, cart *domain.Cart) error {
	var total float64
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return storeFailure(err, "failed to resolve product %s", item.ProductID)
		}
		total += product.Price * float64(item.Quantity)
	}
	cart.TotalAmount = total
	return nil
}

func (s *CartService) expand(ctx context.Context, cart *domain.Cart) (*domain.CartDetail, error) {
	detail := &domain.CartDetail{
		ID:          cart.ID,
		UserID:      cart.UserID,
		Items:       make([]domain.CartItemDetail, 0, len(cart.Items)),
		TotalAmount: cart.TotalAmount,
		UpdatedAt:   cart.UpdatedAt,
	}
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, storeFailure(err, "failed to resolve product %s", item.ProductID)
		}
		detail.Items = append(detail.Items, domain.CartItemDetail{
			Product:  *product,
			Quantity: item.Quantity,
		})
	}
	return detail, nil
}

func (s *CartService) resolveProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, notFound("product not found")
	}
	if err != nil {
		return nil, storeFailure(err, "failed to resolve product %s", productID)
	}
	return product, nil
}

func (s *CartService) loadOrNewCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return &domain.Cart{UserID: userID}, nil
	}
	if err != nil {
		return nil, storeFailure(err, "failed to load cart")
	}
	return cart, nil
}

func (s *CartService) requireCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return nil, notFound("cart not found")
	}
	if err != nil {
		return nil, storeFailure(err, "failed to load cart")
	}
	return cart, nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
