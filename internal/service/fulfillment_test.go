package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nader-rabadi/AWSmicroservices/internal/domain"
	"github.com/nader-rabadi/AWSmicroservices/internal/events"
	"github.com/nader-rabadi/AWSmicroservices/internal/reports"
	"github.com/nader-rabadi/AWSmicroservices/internal/repository"
	"go.uber.org/zap"
)

type capturingReconciler struct {
	events []events.FulfillmentFailedEvent
}

func (c *capturingReconciler) PublishFulfillmentFailed(event events.FulfillmentFailedEvent) error {
	c.events = append(c.events, event)
	return nil
}

func newTestFulfillment(t *testing.T, orders *repository.MemoryOrderStore, products *repository.MemoryProductStore, reconciler ReconciliationPublisher) *Fulfillment {
	t.Helper()
	logger := zap.NewNop()
	factory := NewOrderFactory(8, logger)
	ledger := NewInventoryLedger(products, nil, logger)
	generator := reports.NewGenerator(orders, products, reports.NewMemoryContentStore(), time.Hour, logger)
	return NewFulfillment(factory, orders, ledger, generator, reconciler, logger)
}

func seedCatalogProduct(t *testing.T, store *repository.MemoryProductStore, id, name, price, count string) {
	t.Helper()
	err := store.Put(context.Background(), &domain.Product{
		ID:             id,
		Name:           name,
		Price:          price,
		InventoryCount: count,
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", id, err)
	}
}

const submission = `{
	"personalInfo": {"customer_name": "Ada", "email": "ada@example.com", "phone": "555-0100"},
	"customerproduct": {"productsToSubmit": [
		{"id": 1, "name": "Dark Roast", "quantity": 2, "price": "12.50"},
		{"id": "2", "name": "Light Roast", "quantity": "1", "price": 9.99}
	]}
}`

func TestFulfillmentRun(t *testing.T) {
	orders := repository.NewMemoryOrderStore()
	products := repository.NewMemoryProductStore()
	seedCatalogProduct(t, products,"1", "Dark Roast", "12.50", "10")
	seedCatalogProduct(t, products,"2", "Light Roast", "9.99", "5")

	f := newTestFulfillment(t, orders, products, nil)

	output, err := f.Run(context.Background(), json.RawMessage(submission))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var links reports.Links
	if err := json.Unmarshal(output, &links); err != nil {
		t.Fatalf("output is not a links payload: %v", err)
	}
	if links.OrdersURL == "" || links.ProductsURL == "" {
		t.Errorf("expected both report links, got %+v", links)
	}

	stored, err := orders.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored order, got %d", len(stored))
	}
	if stored[0].TotalAmount != "34.99" {
		t.Errorf("expected total 34.99, got %s", stored[0].TotalAmount)
	}

	p, err := products.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.InventoryCount != "8" {
		t.Errorf("expected inventory 8 after reserving 2, got %s", p.InventoryCount)
	}
}

func TestFulfillmentKeepsOrderWhenReservationFails(t *testing.T) {
	orders := repository.NewMemoryOrderStore()
	products := repository.NewMemoryProductStore()
	seedCatalogProduct(t, products,"1", "Dark Roast", "12.50", "1")
	seedCatalogProduct(t, products,"2", "Light Roast", "9.99", "5")

	reconciler := &capturingReconciler{}
	f := newTestFulfillment(t, orders, products, reconciler)

	_, err := f.Run(context.Background(), json.RawMessage(submission))
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected out-of-stock error, got %v", err)
	}

	// The order record stays even though the reservation failed.
	stored, err := orders.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected the order to remain stored, got %d orders", len(stored))
	}

	if len(reconciler.events) != 1 {
		t.Fatalf("expected 1 reconciliation event, got %d", len(reconciler.events))
	}
	event := reconciler.events[0]
	if event.Step != "reserve_stock" {
		t.Errorf("expected step reserve_stock, got %s", event.Step)
	}
	if event.OrderID != stored[0].ID {
		t.Errorf("event order id %s does not match stored order %s", event.OrderID, stored[0].ID)
	}
}

func TestFulfillmentRejectsMalformedPayload(t *testing.T) {
	orders := repository.NewMemoryOrderStore()
	products := repository.NewMemoryProductStore()
	f := newTestFulfillment(t, orders, products, nil)

	_, err := f.Run(context.Background(), json.RawMessage(`{"personalInfo": 7}`))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	stored, _ := orders.List(context.Background())
	if len(stored) != 0 {
		t.Errorf("expected no stored orders, got %d", len(stored))
	}
}

func TestFulfillmentRejectsFractionalQuantity(t *testing.T) {
	orders := repository.NewMemoryOrderStore()
	products := repository.NewMemoryProductStore()
	seedCatalogProduct(t, products,"1", "Dark Roast", "12.50", "10")
	f := newTestFulfillment(t, orders, products, nil)

	payload := `{
		"personalInfo": {"customer_name": "Ada", "email": "ada@example.com", "phone": "555-0100"},
		"customerproduct": {"productsToSubmit": [
			{"id": "1", "name": "Dark Roast", "quantity": "1.5", "price": "12.50"}
		]}
	}`
	_, err := f.Run(context.Background(), json.RawMessage(payload))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
