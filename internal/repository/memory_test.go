package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/nader-rabadi/AWSmicroservices/internal/domain"
)

func TestMemoryOrderStoreRoundTrip(t *testing.T) {
	store := NewMemoryOrderStore()
	order := &domain.Order{
		ID:           "12345678",
		CustomerName: "Jo Doe",
		Email:        "jo@example.com",
		Phone:        "555-0100",
		OrderedItems: []domain.OrderedItem{
			{ProductID: "1", ProductName: "A", Quantity: "2", Amount: "20.00"},
		},
		TotalAmount: "20.00",
		OrderTime:   "2026-01-02T03:04:05.000000Z",
	}

	if err := store.Put(context.Background(), order); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(context.Background(), "12345678")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got, order) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, order)
	}

	// The stored copy must not alias the caller's slice.
	order.OrderedItems[0].Amount = "0.00"
	again, _ := store.Get(context.Background(), "12345678")
	if again.OrderedItems[0].Amount != "20.00" {
		t.Errorf("stored order aliases caller memory")
	}
}

func TestMemoryOrderStoreGetMissing(t *testing.T) {
	store := NewMemoryOrderStore()

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected order-not-found error, got %v", err)
	}
}

func TestMemoryOrderStoreListSorted(t *testing.T) {
	store := NewMemoryOrderStore()
	for _, id := range []string{"3", "1", "2"} {
		if err := store.Put(context.Background(), &domain.Order{ID: id}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	orders, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(orders) != 3 || orders[0].ID != "1" || orders[2].ID != "3" {
		t.Errorf("unexpected listing: %+v", orders)
	}
}

func TestMemoryProductStoreConditionalWrite(t *testing.T) {
	store := NewMemoryProductStore()
	err := store.Put(context.Background(), &domain.Product{
		ID: "1", Name: "A", Price: "10.00", InventoryCount: "10",
	})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := store.SetInventoryCount(context.Background(), "1", 10, 6); err != nil {
		t.Fatalf("conditional write with correct precondition failed: %v", err)
	}

	// Stale precondition must be rejected, not overwritten.
	err = store.SetInventoryCount(context.Background(), "1", 10, 2)
	if !errors.Is(err, domain.ErrConcurrentUpdate) {
		t.Fatalf("expected concurrent-update error, got %v", err)
	}

	product, _ := store.Get(context.Background(), "1")
	if product.InventoryCount != "6" {
		t.Errorf("expected count 6, got %s", product.InventoryCount)
	}

	err = store.SetInventoryCount(context.Background(), "missing", 1, 0)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected product-not-found error, got %v", err)
	}
}
