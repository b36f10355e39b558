package listener

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/order"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
)

type queueReader struct {
	mu   sync.Mutex
	msgs []kafka.Message
	done chan struct{}
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	q.mu.Lock()
	if len(q.msgs) > 0 {
		m := q.msgs[0]
		q.msgs = q.msgs[1:]
		q.mu.Unlock()
		return m, nil
	}
	q.mu.Unlock()
	close(q.done)
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

type memIndex struct {
	mu      sync.Mutex
	created []string
	docs    map[string]interface{}
	fail    bool
}

func (m *memIndex) CreateIndex(_ context.Context, index, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, index)
	return nil
}

func (m *memIndex) Index(_ context.Context, index, id string, doc interface{}) error {
	if m.fail {
		return errors.New("es down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[index+"/"+id] = doc
	return nil
}

func encode(t *testing.T, ev order.Event) kafka.Message {
	t.Helper()
	data, err := ev.Marshal()
	require.NoError(t, err)
	return kafka.Message{Key: []byte(ev.Payload.ID), Value: data}
}

func TestProjectorIndexesOrderEvents(t *testing.T) {
	o := &model.Order{ID: "o-1", TrackingCode: "123456", Status: model.StatusAwaitingScheduling}
	paid := *o
	paid.ApplyPayment(100)

	reader := &queueReader{
		done: make(chan struct{}),
		msgs: []kafka.Message{
			encode(t, order.NewEvent(order.EventOrderCreated, o)),
			{Value: []byte("not json")},
			encode(t, order.NewEvent("SomethingElse", &model.Order{ID: "ignored"})),
			encode(t, order.NewEvent(order.EventOrderPaymentRecorded, &paid)),
		},
	}
	idx := &memIndex{docs: map[string]interface{}{}}
	p := NewSearchProjector(reader, idx, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(stopped)
	}()

	select {
	case <-reader.done:
	case <-time.After(2 * time.Second):
		t.Fatal("projector did not drain the queue")
	}
	cancel()
	<-stopped

	assert.Equal(t, []string{order.SearchIndexName}, idx.created)
	require.Len(t, idx.docs, 1)
	doc := idx.docs[order.SearchIndexName+"/o-1"].(model.Order)
	assert.Equal(t, int64(100), doc.AmountPaid)
}

func TestProcessMessageIndexFailureIsLogged(t *testing.T) {
	idx := &memIndex{docs: map[string]interface{}{}, fail: true}
	p := NewSearchProjector(nil, idx, logger.NewNop())

	p.processMessage(context.Background(), encode(t, order.NewEvent(order.EventOrderCreated, &model.Order{ID: "o-2"})).Value)
	assert.Empty(t, idx.docs)
}

func TestProcessMessageIndexesFulfillmentUpdates(t *testing.T) {
	idx := &memIndex{docs: map[string]interface{}{}}
	p := NewSearchProjector(nil, idx, logger.NewNop())

	shipping := "TRK-991"
	o := &model.Order{ID: "o-3", ShippingTrackingCode: &shipping}
	p.processMessage(context.Background(), encode(t, order.NewEvent(order.EventOrderFulfillmentUpdated, o)).Value)

	require.Len(t, idx.docs, 1)
	doc := idx.docs[order.SearchIndexName+"/o-3"].(model.Order)
	require.NotNil(t, doc.ShippingTrackingCode)
	assert.Equal(t, shipping, *doc.ShippingTrackingCode)
}
