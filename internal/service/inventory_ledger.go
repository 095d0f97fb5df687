package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/nader-rabadi/AWSmicroservices/internal/domain"
	"github.com/nader-rabadi/AWSmicroservices/pkg/metrics"
	"go.uber.org/zap"
)

// Items are reserved sequentially, not as a multi-item atomic transaction:
// when a later item fails, earlier decrements stay applied and the outcome
// slice tells the caller exactly which ones. There is no rollback here;
// a failed reservation after partial decrements needs manual reconciliation.

const defaultReserveAttempts = 3

// ReservationItem is one requested decrement.
type ReservationItem struct {
	ProductID string
	Quantity  int
}

// ItemOutcome reports the result of a single item's reservation.
type ItemOutcome struct {
	ProductID string
	Applied   bool
	Remaining int
	Err       error
}

// InventoryLedger applies check-then-decrement reservations against the
// product store. The decrement asserts the previously-read count as a write
// precondition, so a concurrent decrement is rejected instead of overwritten.
type InventoryLedger struct {
	products    ProductStore
	maxAttempts int
	metrics     *metrics.LedgerMetrics
	logger      *zap.Logger
}

func NewInventoryLedger(products ProductStore, m *metrics.LedgerMetrics, logger *zap.Logger) *InventoryLedger {
	return &InventoryLedger{
		products:    products,
		maxAttempts: defaultReserveAttempts,
		metrics:     m,
		logger:      logger,
	}
}

// Reserve processes items in list order and stops at the first failure.
// The returned outcomes cover every item that was attempted; the error is
// the failure that stopped the run, nil when all decrements applied.
func (l *InventoryLedger) Reserve(ctx context.Context, items []ReservationItem) ([]ItemOutcome, error) {
	outcomes := make([]ItemOutcome, 0, len(items))

	for _, item := range items {
		remaining, err := l.reserveOne(ctx, item)
		outcomes = append(outcomes, ItemOutcome{
			ProductID: item.ProductID,
			Applied:   err == nil,
			Remaining: remaining,
			Err:       err,
		})
		if err != nil {
			l.logger.Warn("reservation failed",
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
			return outcomes, err
		}
	}

	return outcomes, nil
}

func (l *InventoryLedger) reserveOne(ctx context.Context, item ReservationItem) (int, error) {
	if item.Quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be greater than zero", domain.ErrValidation)
	}

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		product, err := l.products.Get(ctx, item.ProductID)
		if err != nil {
			l.countAttempt("error")
			return 0, err
		}

		count, err := strconv.Atoi(product.InventoryCount)
		if err != nil {
			l.countAttempt("error")
			return 0, fmt.Errorf("%w: product %s has malformed inventory count %q",
				domain.ErrWriteFailed, item.ProductID, product.InventoryCount)
		}

		if item.Quantity > count {
			l.countAttempt("out_of_stock")
			return count, fmt.Errorf("%w: product %s has %d, requested %d",
				domain.ErrOutOfStock, item.ProductID, count, item.Quantity)
		}

		next := count - item.Quantity
		err = l.products.SetInventoryCount(ctx, item.ProductID, count, next)
		if err == nil {
			l.countAttempt("applied")
			l.logger.Info("inventory decremented",
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Int("remaining", next),
				zap.Int("attempt", attempt))
			return next, nil
		}
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			l.countConflict()
			l.countAttempt("conflict")
			continue
		}
		l.countAttempt("error")
		return count, err
	}

	return 0, fmt.Errorf("%w: product %s lost %d consecutive conditional writes",
		domain.ErrConcurrentUpdate, item.ProductID, l.maxAttempts)
}

func (l *InventoryLedger) countAttempt(outcome string) {
	if l.metrics != nil {
		l.metrics.ReserveAttempts.WithLabelValues(outcome).Inc()
	}
}

func (l *InventoryLedger) countConflict() {
	if l.metrics != nil {
		l.metrics.CASConflicts.Inc()
	}
}
