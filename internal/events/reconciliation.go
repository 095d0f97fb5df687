package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// There is no automatic saga compensation: when inventory reservation fails
// after the order record was persisted, the order stays recorded. This
// producer publishes the failure so operators can reconcile manually.

const reconciliationTopic = "fulfillment-reconciliation"

type FulfillmentFailedEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   string    `json:"order_id"`
	Step      string    `json:"step"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

type ReconciliationProducer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewReconciliationProducer(brokers string, logger *zap.Logger) *ReconciliationProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers),
		Topic:    reconciliationTopic,
		Balancer: &kafka.LeastBytes{},
	}

	return &ReconciliationProducer{
		writer: writer,
		logger: logger,
	}
}

func (p *ReconciliationProducer) PublishFulfillmentFailed(event FulfillmentFailedEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal reconciliation event", zap.Error(err))
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: eventBytes,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish reconciliation event",
			zap.String("event_id", event.EventID),
			zap.String("order_id", event.OrderID),
			zap.Error(err))
		return err
	}

	p.logger.Info("reconciliation event published",
		zap.String("event_id", event.EventID),
		zap.String("order_id", event.OrderID),
		zap.String("step", event.Step))

	return nil
}

func (p *ReconciliationProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
