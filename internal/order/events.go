package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/fekuna/amigurumi-order-service/internal/model"
)

type EventType string

const (
	EventOrderCreated            EventType = "OrderCreated"
	EventOrderPaymentRecorded    EventType = "OrderPaymentRecorded"
	EventOrderStatusChanged      EventType = "OrderStatusChanged"
	EventOrderFulfillmentUpdated EventType = "OrderFulfillmentUpdated"
)

// Event is the JSON envelope published on the orders topic, keyed by order id. Payload is
// the order as stored after the change.
type Event struct {
	EventID   string      `json:"event_id"`
	EventType EventType   `json:"event_type"`
	Payload   model.Order `json:"payload"`
	Amount    int64       `json:"amount,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewEvent(t EventType, o *model.Order) Event {
	return Event{
		EventID:   uuid.New().String(),
		EventType: t,
		Payload:   *o,
		Timestamp: time.Now().UTC(),
	}
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
