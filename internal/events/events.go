package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	OrderCreated   = "order_created"
	OrderCompleted = "order_completed"
	OrderCancelled = "order_cancelled"

	PaymentProcessed = "payment_processed"
	PaymentFailed    = "payment_failed"
	PaymentRefunded  = "payment_refunded"
)

type Event struct {
	Type       string         `json:"type"`
	Key        string         `json:"key"`
	Data       map[string]any `json:"data"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func New(typ, key string, data map[string]any) Event {
	return Event{Type: typ, Key: key, Data: data, OccurredAt: time.Now().UTC()}
}

// Publisher delivers domain notifications. Services log publish errors
// and never fail the operation because of them.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type LogPublisher struct {
	Logger *zap.SugaredLogger
}

func (p LogPublisher) Publish(_ context.Context, e Event) error {
	if p.Logger != nil {
		p.Logger.Infow("event", "type", e.Type, "key", e.Key, "data", e.Data)
	}
	return nil
}

func (LogPublisher) Close() error { return nil }

// Memory keeps published events; the caller reads them with Events.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Publish(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

func (m *Memory) OfType(typ string) []Event {
	var out []Event
	for _, e := range m.Events() {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
