package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nader-rabadi/AWSmicroservices/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultIDLength = 8
	maxIDLength     = 10
)

// GenerateShortID returns a numeric string of the requested length derived
// from a random UUID. Lengths outside [1, 10] fall back to the default of 8.
// Numeric-only so the id can serve as a table key without escaping.
func GenerateShortID(length int) string {
	if length <= 0 || length > maxIDLength {
		length = defaultIDLength
	}

	hexID := strings.ReplaceAll(uuid.NewString(), "-", "")[:length]

	// Each hex character expands to its decimal value, so the expansion is
	// always at least as long as the requested length.
	var sb strings.Builder
	for _, c := range hexID {
		v, err := strconv.ParseInt(string(c), 16, 8)
		if err != nil {
			continue
		}
		sb.WriteString(strconv.FormatInt(v, 10))
	}

	return sb.String()[:length]
}

// OrderFactory validates raw submissions and builds finalized orders.
type OrderFactory struct {
	idLength int
	now      func() time.Time
	logger   *zap.Logger
}

func NewOrderFactory(idLength int, logger *zap.Logger) *OrderFactory {
	return &OrderFactory{
		idLength: idLength,
		now:      time.Now,
		logger:   logger,
	}
}

// CreateOrder builds an immutable order from a submission. Line amounts are
// each rounded to two decimals (ties away from zero) before summation, so
// the displayed total is exactly the sum of the displayed line amounts.
func (f *OrderFactory) CreateOrder(sub *domain.OrderSubmission) (*domain.Order, error) {
	if sub == nil {
		return nil, fmt.Errorf("%w: empty submission", domain.ErrValidation)
	}
	info := sub.PersonalInfo
	if info.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer_name is required", domain.ErrValidation)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if info.Phone == "" {
		return nil, fmt.Errorf("%w: phone is required", domain.ErrValidation)
	}
	products := sub.CustomerProduct.ProductsToSubmit
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: at least one product is required", domain.ErrValidation)
	}

	order := &domain.Order{
		ID:           GenerateShortID(f.idLength),
		CustomerName: info.CustomerName,
		Email:        info.Email,
		Phone:        info.Phone,
		OrderedItems: make([]domain.OrderedItem, 0, len(products)),
	}

	total := decimal.Zero
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: product %d: id is required", domain.ErrValidation, i)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("%w: product %d: name is required", domain.ErrValidation, i)
		}

		quantity, err := decimal.NewFromString(p.Quantity.String())
		if err != nil || !quantity.IsInteger() || !quantity.IsPositive() {
			return nil, fmt.Errorf("%w: product %d: quantity must be a positive integer", domain.ErrValidation, i)
		}
		price, err := decimal.NewFromString(p.Price.String())
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("%w: product %d: price is not a valid amount", domain.ErrValidation, i)
		}

		amount := quantity.Mul(price).Round(2)
		total = total.Add(amount)

		order.OrderedItems = append(order.OrderedItems, domain.OrderedItem{
			ProductID:   p.ID.String(),
			ProductName: p.Name,
			Quantity:    quantity.String(),
			Amount:      amount.StringFixed(2),
		})
	}

	order.TotalAmount = total.StringFixed(2)
	order.OrderTime = f.now().UTC().Format("2006-01-02T15:04:05.000000") + "Z"

	f.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.OrderedItems)),
		zap.String("total_amount", order.TotalAmount))

	return order, nil
}
