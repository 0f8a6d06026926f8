package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

type sampleEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}

func TestNewBaseEvent(t *testing.T) {
	occurred := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	event := NewBaseEvent("risk.created", "42", "Risk", occurred)

	if event.EventID() == uuid.Nil {
		t.Error("expected non-nil event ID")
	}
	if event.EventType() != "risk.created" {
		t.Errorf("expected event type %q, got %q", "risk.created", event.EventType())
	}
	if event.AggregateID() != "42" {
		t.Errorf("expected aggregate ID %q, got %q", "42", event.AggregateID())
	}
	if event.AggregateType() != "Risk" {
		t.Errorf("expected aggregate type %q, got %q", "Risk", event.AggregateType())
	}
	if !event.OccurredAt().Equal(occurred) {
		t.Errorf("expected occurredAt %v, got %v", occurred, event.OccurredAt())
	}
	if event.OccurredAt().Location() != time.UTC {
		t.Errorf("expected occurredAt in UTC, got %v", event.OccurredAt().Location())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
	var _ DomainEvent = sampleEvent{}
}

func TestNewEnvelope(t *testing.T) {
	event := sampleEvent{
		BaseEvent: NewBaseEvent("risk.status_changed", "7", "Risk", time.Now()),
		Reason:    "review",
	}

	env, err := NewEnvelope(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.ID != event.EventID() {
		t.Errorf("expected envelope ID %v, got %v", event.EventID(), env.ID)
	}
	if env.AggregateID != "7" {
		t.Errorf("expected aggregate ID %q, got %q", "7", env.AggregateID)
	}
	if env.EventType != "risk.status_changed" {
		t.Errorf("expected event type %q, got %q", "risk.status_changed", env.EventType)
	}

	var parsed map[string]any
	if err := json.Unmarshal(env.Payload, &parsed); err != nil {
		t.Fatalf("expected valid JSON payload, got error: %v", err)
	}
	if parsed["reason"] != "review" {
		t.Errorf("expected payload reason %q, got %v", "review", parsed["reason"])
	}
	if parsed["event_type"] != "risk.status_changed" {
		t.Errorf("expected payload event_type, got %v", parsed["event_type"])
	}

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	decoded, err := DecodeEnvelope(raw)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if decoded.ID != env.ID || decoded.EventType != env.EventType {
		t.Errorf("decoded envelope mismatch: %+v", decoded)
	}
}

func TestDecodeEnvelopeRejectsGarbage(t *testing.T) {
	if _, err := DecodeEnvelope([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestEventCollectorRecord(t *testing.T) {
	collector := &EventCollector{}

	e1 := NewBaseEvent("Event1", "1", "Risk", time.Now())
	e2 := NewBaseEvent("Event2", "1", "Risk", time.Now())

	collector.Record(e1)
	collector.Record(e2)

	events := collector.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventType() != "Event1" {
		t.Errorf("expected first event type %q, got %q", "Event1", events[0].EventType())
	}
	if events[1].EventType() != "Event2" {
		t.Errorf("expected second event type %q, got %q", "Event2", events[1].EventType())
	}
}

func TestEventCollectorClearEvents(t *testing.T) {
	collector := &EventCollector{}
	collector.Record(
		NewBaseEvent("Event1", "1", "Risk", time.Now()),
		NewBaseEvent("Event2", "1", "Risk", time.Now()),
	)

	if collector.Len() != 2 {
		t.Fatalf("expected Len 2, got %d", collector.Len())
	}

	cleared := collector.ClearEvents()
	if len(cleared) != 2 {
		t.Fatalf("expected ClearEvents to return 2 events, got %d", len(cleared))
	}
	if len(collector.Events()) != 0 {
		t.Errorf("expected internal slice to be empty after ClearEvents, got %d events", len(collector.Events()))
	}
}

func TestEventCollectorClearEventsOnEmpty(t *testing.T) {
	collector := &EventCollector{}

	if cleared := collector.ClearEvents(); cleared != nil {
		t.Errorf("expected nil from ClearEvents on empty collector, got %v", cleared)
	}
}
