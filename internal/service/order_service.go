package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/samohiani/simple-ecommerce/internal/cache"
	"github.com/samohiani/simple-ecommerce/internal/domain"
	"github.com/samohiani/simple-ecommerce/internal/events"
	"github.com/samohiani/simple-ecommerce/internal/repository"
)

type OrderService struct {
	orders    repository.OrderRepository
	carts     repository.CartRepository
	products  repository.ProductReader
	users     repository.UserRepository
	cache     cache.CartCache
	publisher events.Publisher
}

func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	products repository.ProductReader,
	users repository.UserRepository,
	cartCache cache.CartCache,
	publisher events.Publisher,
) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		products:  products,
		users:     users,
		cache:     cartCache,
		publisher: publisher,
	}
}

// CreateFromCart converts the user's cart into a pending order, snapshotting
// the current price and name of every line item, then empties the cart.
// Every referenced product is re-validated first; a missing product rejects
// the whole checkout, no partial order is ever created. Order persistence
// and cart clearing are two independent writes with no rollback: if the
// second fails, the order stays persisted.
func (s *OrderService) CreateFromCart(ctx context.Context, userID string) (*domain.OrderDetail, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return nil, invalidState("cart is empty")
	}
	if err != nil {
		return nil, storeFailure(err, "failed to load cart")
	}
	if len(cart.Items) == 0 {
		return nil, invalidState("cart is empty")
	}

	var total float64
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, errFind := s.products.FindByID(ctx, item.ProductID)
		if errors.Is(errFind, repository.ErrProductNotFound) {
			return nil, notFound("product %s not found", item.ProductID)
		}
		if errFind != nil {
			return nil, storeFailure(errFind, "failed to resolve product %s", item.ProductID)
		}

		total += product.Price * float64(item.Quantity)
		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
		})
	}

	order := &domain.Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		Items:       items,
		TotalAmount: total,
		Status:      domain.OrderStatusPending,
	}
	if errSave := s.orders.Save(ctx, order); errSave != nil {
		return nil, storeFailure(errSave, "failed to save order")
	}

	cart.Items = nil
	cart.TotalAmount = 0
	if errSave := s.carts.Save(ctx, cart); errSave != nil {
		return nil, storeFailure(errSave, "order %s created but cart was not cleared", order.ID)
	}
	s.invalidateCache(userID)

	s.publish(ctx, events.TypeOrderCreated, order)
	return s.expand(ctx, order), nil
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, storeFailure(err, "failed to list orders")
	}
	return orders, nil
}

// GetOrder looks an order up by id and owning user in one query; an order
// owned by someone else yields the same NotFound as a nonexistent id.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID string) (*domain.OrderDetail, error) {
	order, err := s.requireOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, order), nil
}

// UpdateStatus moves a pending order to any recognized status, including
// pending itself. Once an order has left pending its status is frozen.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, userID, status string) (*domain.OrderDetail, error) {
	next := domain.OrderStatus(status)
	if !next.Valid() {
		return nil, invalidInput("invalid status %q, valid statuses are: %s", status, domain.StatusList())
	}

	order, err := s.requireOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPending {
		return nil, invalidState("cannot update order with status %q: only pending orders can be modified", order.Status)
	}

	order.Status = next
	if errSave := s.orders.Save(ctx, order); errSave != nil {
		return nil, storeFailure(errSave, "failed to save order")
	}

	s.publish(ctx, events.TypeOrderStatusChanged, order)
	return s.expand(ctx, order), nil
}

// CancelOrder is UpdateStatus with the destination hardcoded to cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID string) (*domain.OrderDetail, error) {
	order, err := s.requireOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPending {
		return nil, invalidState("cannot cancel order with status %q: only pending orders can be cancelled", order.Status)
	}

	order.Status = domain.OrderStatusCancelled
	if errSave := s.orders.Save(ctx, order); errSave != nil {
		return nil, storeFailure(errSave, "failed to save order")
	}

	s.publish(ctx, events.TypeOrderCancelled, order)
	return s.expand(ctx, order), nil
}

func (s *OrderService) requireOrder(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	order, err := s.orders.FindByIDAndUser(ctx, orderID, userID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, notFound("order not found")
	}
	if err != nil {
		return nil, storeFailure(err, "failed to load order")
	}
	return order, nil
}

func (s *OrderService) expand(ctx context.Context, order *domain.Order) *domain.OrderDetail {
	detail := &domain.OrderDetail{Order: *order}

	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			log.Printf("failed to resolve user %s: %v", order.UserID, err)
		}
		detail.User = domain.UserSummary{ID: order.UserID}
		return detail
	}
	detail.User = user.Summary()
	return detail
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	event := events.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("failed to publish %s for order %s: %v", eventType, order.ID, err)
	}
}

func (s *OrderService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
