package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samohiani/simple-ecommerce/internal/cache"
	"github.com/samohiani/simple-ecommerce/internal/domain"
	"github.com/samohiani/simple-ecommerce/internal/events"
	"github.com/samohiani/simple-ecommerce/internal/repository"
)

// requireKind asserts err is a service error of the given kind and
// returns it for message assertions.
func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	se, ok := AsError(err)
	require.True(t, ok, "expected a service error, got %v", err)
	require.Equal(t, kind, se.Kind, "unexpected error kind: %v", err)
	return se
}

type mockProducts struct {
	m        sync.RWMutex
	products map[string]domain.Product
	err      error
}

func newMockProducts(products ...domain.Product) *mockProducts {
	m := &mockProducts{products: make(map[string]domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProducts) FindByID(_ context.Context, id string) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := product
	return &cp, nil
}

func (m *mockProducts) setPrice(id string, price float64) {
	m.m.Lock()
	defer m.m.Unlock()
	product := m.products[id]
	product.Price = price
	m.products[id] = product
}

func (m *mockProducts) remove(id string) {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.products, id)
}

type mockCarts struct {
	m       sync.RWMutex
	carts   map[string]domain.Cart
	findErr error
	saveErr error
	saves   int
}

func newMockCarts() *mockCarts {
	return &mockCarts{carts: make(map[string]domain.Cart)}
}

// FindByUser hands out copies so service-side mutation is invisible until
// Save, like a real store.
func (m *mockCarts) FindByUser(_ context.Context, userID string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	cart, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	cp := cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	return &cp, nil
}

func (m *mockCarts) Save(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	if cart.ID == "" {
		cart.ID = "cart-" + cart.UserID
	}
	cart.UpdatedAt = time.Now()
	cp := *cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	m.carts[cart.UserID] = cp
	return nil
}

func (m *mockCarts) put(cart domain.Cart) {
	m.m.Lock()
	defer m.m.Unlock()
	m.carts[cart.UserID] = cart
}

func (m *mockCarts) stored(userID string) (domain.Cart, bool) {
	m.m.RLock()
	defer m.m.RUnlock()
	cart, ok := m.carts[userID]
	return cart, ok
}

func (m *mockCarts) saveCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.saves
}

type mockOrders struct {
	m       sync.RWMutex
	orders  map[string]domain.Order
	saveErr error
}

func newMockOrders() *mockOrders {
	return &mockOrders{orders: make(map[string]domain.Order)}
}

func (m *mockOrders) FindByIDAndUser(_ context.Context, orderID, userID string) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	order, ok := m.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	cp := order
	cp.Items = append([]domain.OrderItem(nil), order.Items...)
	return &cp, nil
}

func (m *mockOrders) FindAllByUser(_ context.Context, userID string) ([]domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	var orders []domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *mockOrders) Save(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = time.Now()
	cp := *order
	cp.Items = append([]domain.OrderItem(nil), order.Items...)
	m.orders[order.ID] = cp
	return nil
}

func (m *mockOrders) put(order domain.Order) {
	m.m.Lock()
	defer m.m.Unlock()
	m.orders[order.ID] = order
}

func (m *mockOrders) stored(orderID string) (domain.Order, bool) {
	m.m.RLock()
	defer m.m.RUnlock()
	order, ok := m.orders[orderID]
	return order, ok
}

func (m *mockOrders) count() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.orders)
}

type mockUsers struct {
	m     sync.RWMutex
	users map[string]domain.User
}

func newMockUsers(users ...domain.User) *mockUsers {
	m := &mockUsers{users: make(map[string]domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUsers) Create(_ context.Context, user *domain.User) error {
	m.m.Lock()
	defer m.m.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *mockUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

func (m *mockUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

type mockPublisher struct {
	m      sync.Mutex
	events []events.OrderEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, event events.OrderEvent) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) published() []events.OrderEvent {
	m.m.Lock()
	defer m.m.Unlock()
	return append([]events.OrderEvent(nil), m.events...)
}
