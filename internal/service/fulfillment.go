package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nader-rabadi/AWSmicroservices/internal/domain"
	"github.com/nader-rabadi/AWSmicroservices/internal/events"
	"github.com/nader-rabadi/AWSmicroservices/internal/reports"
	"go.uber.org/zap"
)

// ReconciliationPublisher receives fulfillment failures that happened after
// the order record was already persisted.
type ReconciliationPublisher interface {
	PublishFulfillmentFailed(event events.FulfillmentFailedEvent) error
}

// Fulfillment is the saga the workflow engine executes for one submission:
// build the order, persist it, reserve inventory, publish reports. Steps run
// in that order against independently-failing stores with no compensation:
// a reservation failure leaves the already-persisted order in place and the
// execution ends FAILED, to be reconciled manually.
type Fulfillment struct {
	factory    *OrderFactory
	orders     OrderStore
	ledger     *InventoryLedger
	reports    *reports.Generator
	reconciler ReconciliationPublisher // optional
	logger     *zap.Logger
}

func NewFulfillment(
	factory *OrderFactory,
	orders OrderStore,
	ledger *InventoryLedger,
	generator *reports.Generator,
	reconciler ReconciliationPublisher,
	logger *zap.Logger,
) *Fulfillment {
	return &Fulfillment{
		factory:    factory,
		orders:     orders,
		ledger:     ledger,
		reports:    generator,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Run executes the pipeline for one raw submission payload and returns the
// workflow output: presigned links to the generated reports.
func (f *Fulfillment) Run(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var sub domain.OrderSubmission
	if err := json.Unmarshal(input, &sub); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	order, err := f.factory.CreateOrder(&sub)
	if err != nil {
		return nil, err
	}

	if err := f.orders.Put(ctx, order); err != nil {
		f.logger.Error("order persist failed",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return nil, err
	}

	items, err := reservationItems(sub.CustomerProduct.ProductsToSubmit)
	if err != nil {
		return nil, err
	}
	if _, err := f.ledger.Reserve(ctx, items); err != nil {
		// The order record stays: no rollback of the persisted order or of
		// decrements that already applied.
		f.reportFailure(order.ID, "reserve_stock", err)
		return nil, err
	}

	links, err := f.reports.Publish(ctx)
	if err != nil {
		f.reportFailure(order.ID, "publish_reports", err)
		return nil, err
	}

	output, err := json.Marshal(links)
	if err != nil {
		return nil, err
	}

	f.logger.Info("fulfillment complete", zap.String("order_id", order.ID))
	return output, nil
}

func (f *Fulfillment) reportFailure(orderID, step string, cause error) {
	if f.reconciler == nil {
		return
	}
	event := events.FulfillmentFailedEvent{
		EventID:   uuid.NewString(),
		OrderID:   orderID,
		Step:      step,
		Reason:    cause.Error(),
		Timestamp: time.Now().UTC(),
	}
	// Best effort: a publish failure is logged by the producer and must not
	// change the execution outcome.
	_ = f.reconciler.PublishFulfillmentFailed(event)
}

func reservationItems(products []domain.SubmittedProduct) ([]ReservationItem, error) {
	items := make([]ReservationItem, 0, len(products))
	for i, p := range products {
		quantity, err := strconv.Atoi(p.Quantity.String())
		if err != nil {
			return nil, fmt.Errorf("%w: product %d: quantity is not an integer", domain.ErrValidation, i)
		}
		items = append(items, ReservationItem{
			ProductID: p.ID.String(),
			Quantity:  quantity,
		})
	}
	return items, nil
}
