package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fekuna/amigurumi-order-service/internal/order"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"tracking_code": { "type": "keyword" },
			"client_email": { "type": "keyword" },
			"product_name": { "type": "text" },
			"description": { "type": "text" },
			"status": { "type": "keyword" },
			"total_amount": { "type": "long" },
			"balance_due": { "type": "long" },
			"request_date": { "type": "date" }
		}
	}
}`

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Indexer interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
}

// SearchProjector keeps the orders search index in step with the order events topic.
type SearchProjector struct {
	consumer MessageReader
	index    Indexer
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewSearchProjector(consumer MessageReader, index Indexer, log logger.ZapLogger) *SearchProjector {
	return &SearchProjector{
		consumer: consumer,
		index:    index,
		logger:   log,
		backoff:  time.Second,
	}
}

func (l *SearchProjector) Start(ctx context.Context) {
	l.logger.Info("Starting order search projector")
	if err := l.index.CreateIndex(ctx, order.SearchIndexName, indexMapping); err != nil {
		l.logger.Warn("Failed to ensure orders index", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order search projector")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(l.backoff)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *SearchProjector) processMessage(ctx context.Context, value []byte) {
	var event order.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	switch event.EventType {
	case order.EventOrderCreated, order.EventOrderPaymentRecorded, order.EventOrderStatusChanged,
		order.EventOrderFulfillmentUpdated:
	default:
		return
	}
	if event.Payload.ID == "" {
		l.logger.Warn("Order event without payload id", zap.String("event_id", event.EventID))
		return
	}

	if err := l.index.Index(ctx, order.SearchIndexName, event.Payload.ID, event.Payload); err != nil {
		l.logger.Error("Failed to index order",
			zap.String("order_id", event.Payload.ID),
			zap.String("event_type", string(event.EventType)),
			zap.Error(err),
		)
		return
	}
	l.logger.Debug("Order indexed",
		zap.String("order_id", event.Payload.ID),
		zap.String("event_type", string(event.EventType)),
	)
}
