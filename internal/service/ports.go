package service

import (
	"context"

	"github.com/nader-rabadi/AWSmicroservices/internal/domain"
)

// OrderStore persists finalized orders keyed by order id.
type OrderStore interface {
	Put(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

// ProductStore reads the catalog and applies conditional inventory writes.
type ProductStore interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Put(ctx context.Context, product *domain.Product) error

	// SetInventoryCount writes next only if the stored count still equals
	// expected, returning domain.ErrConcurrentUpdate otherwise.
	SetInventoryCount(ctx context.Context, productID string, expected, next int) error
}
