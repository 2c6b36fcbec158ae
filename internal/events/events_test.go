package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_EncodesEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	e := New(PaymentProcessed, "42", map[string]any{"amount": "25000"})
	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, []byte("42"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, PaymentProcessed, string(msg.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, PaymentProcessed, decoded.Type)
	assert.Equal(t, "25000", decoded.Data["amount"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{writer: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), New(OrderCreated, "1", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "pos_events")
	assert.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "pos_events")
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestMemory_FiltersByType(t *testing.T) {
	m := &Memory{}
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, New(OrderCreated, "1", nil)))
	require.NoError(t, m.Publish(ctx, New(OrderCompleted, "1", nil)))
	require.NoError(t, m.Publish(ctx, New(OrderCreated, "2", nil)))

	assert.Len(t, m.Events(), 3)
	created := m.OfType(OrderCreated)
	require.Len(t, created, 2)
	assert.Equal(t, "2", created[1].Key)
}

func TestLogPublisher_NeverFails(t *testing.T) {
	p := LogPublisher{Logger: zap.NewNop().Sugar()}
	assert.NoError(t, p.Publish(context.Background(), New(PaymentFailed, "7", map[string]any{"reason": "x"})))
	assert.NoError(t, LogPublisher{}.Publish(context.Background(), New(PaymentFailed, "7", nil)))
	assert.NoError(t, p.Close())
}
