package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/nader-rabadi/AWSmicroservices/internal/domain"
)

// In-memory stores with the same observable semantics as the DynamoDB
// repositories. They back the default local deployment and the tests.

type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{orders: make(map[string]domain.Order)}
}

func (s *MemoryOrderStore) Put(ctx context.Context, order *domain.Order) error {
	_ = ctx
	if order == nil || order.ID == "" {
		return fmt.Errorf("%w: order id is required", domain.ErrWriteFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *MemoryOrderStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", domain.ErrOrderNotFound, id)
	}
	clone := cloneOrder(&order)
	return &clone, nil
}

func (s *MemoryOrderStore) List(ctx context.Context) ([]domain.Order, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, cloneOrder(&order))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func cloneOrder(order *domain.Order) domain.Order {
	clone := *order
	clone.OrderedItems = append([]domain.OrderedItem(nil), order.OrderedItems...)
	return clone
}

type MemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{products: make(map[string]domain.Product)}
}

func (s *MemoryProductStore) Get(ctx context.Context, id string) (*domain.Product, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", domain.ErrProductNotFound, id)
	}
	clone := product
	return &clone, nil
}

func (s *MemoryProductStore) List(ctx context.Context) ([]domain.Product, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *MemoryProductStore) Put(ctx context.Context, product *domain.Product) error {
	_ = ctx
	if product == nil || product.ID == "" {
		return fmt.Errorf("%w: product id is required", domain.ErrWriteFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = *product
	return nil
}

func (s *MemoryProductStore) SetInventoryCount(ctx context.Context, productID string, expected, next int) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return fmt.Errorf("%w: product %s", domain.ErrProductNotFound, productID)
	}
	current, err := strconv.Atoi(product.InventoryCount)
	if err != nil || current != expected {
		return fmt.Errorf("%w: product %s", domain.ErrConcurrentUpdate, productID)
	}
	product.InventoryCount = strconv.Itoa(next)
	s.products[productID] = product
	return nil
}
