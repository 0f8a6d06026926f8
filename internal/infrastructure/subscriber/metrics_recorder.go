package subscriber

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/risk-service/internal/domain/event"
	"github.com/bibbank/risk-service/pkg/events"
)

// Instrument names.
const (
	StatusTransitionsMetric = "risk_status_transitions_total"
	EventsMetric            = "risk_events_total"
)

// MetricsRecorder counts risk events and status transitions.
type MetricsRecorder struct {
	transitions metric.Int64Counter
	events      metric.Int64Counter
}

// NewMetricsRecorder registers its counters on meter.
func NewMetricsRecorder(meter metric.Meter) (*MetricsRecorder, error) {
	transitions, err := meter.Int64Counter(StatusTransitionsMetric,
		metric.WithDescription("Risk status transitions by source and target status."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", StatusTransitionsMetric, err)
	}

	evts, err := meter.Int64Counter(EventsMetric,
		metric.WithDescription("Published risk events by type."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", EventsMetric, err)
	}

	return &MetricsRecorder{transitions: transitions, events: evts}, nil
}

func (m *MetricsRecorder) Handle(ctx context.Context, evt events.DomainEvent) error {
	m.events.Add(ctx, 1, metric.WithAttributes(attribute.String("event_type", evt.EventType())))

	if e, ok := evt.(event.RiskStatusChanged); ok {
		m.transitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from", e.OldStatus),
			attribute.String("to", e.NewStatus),
		))
	}
	return nil
}
