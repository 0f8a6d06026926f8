package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/pkg/events"
)

type subscription struct {
	eventType string // empty matches every event
	handler   port.EventHandler
}

// Dispatcher implements port.EventPublisher by delivering each event to the
// registered handlers synchronously, in registration order, on the caller's
// goroutine.
type Dispatcher struct {
	mu            sync.RWMutex
	subscriptions []subscription
	logger        *slog.Logger
}

// NewDispatcher creates a Dispatcher with no subscribers.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Subscribe registers handlers for every event type.
func (d *Dispatcher) Subscribe(handlers ...port.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range handlers {
		d.subscriptions = append(d.subscriptions, subscription{handler: h})
	}
}

// SubscribeTo registers a handler for a single event type.
func (d *Dispatcher) SubscribeTo(eventType string, handler port.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscriptions = append(d.subscriptions, subscription{eventType: eventType, handler: handler})
}

// Publish hands every event to every matching handler. A failing handler does
// not stop delivery to the others; all failures are joined into the returned
// error.
func (d *Dispatcher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	d.mu.RLock()
	subs := make([]subscription, len(d.subscriptions))
	copy(subs, d.subscriptions)
	d.mu.RUnlock()

	var errs []error
	for _, evt := range domainEvents {
		for _, sub := range subs {
			if sub.eventType != "" && sub.eventType != evt.EventType() {
				continue
			}
			if err := sub.handler.Handle(ctx, evt); err != nil {
				d.logger.ErrorContext(ctx, "event handler failed",
					slog.String("event_type", evt.EventType()),
					slog.String("aggregate_id", evt.AggregateID()),
					slog.String("error", err.Error()),
				)
				errs = append(errs, fmt.Errorf("handle %s: %w", evt.EventType(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of registered subscriptions.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscriptions)
}
