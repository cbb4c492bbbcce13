// Package observability carries structured events from components and the
// network runtime to pluggable observers: logging, metrics, or in-memory
// recording for tests. Observers are looked up by name so configuration can
// select them.
package observability

import (
	"context"
	"time"
)

// EventType names an event, dot-separated and prefixed by the emitting
// package: "bucket.insert", "network.cycle.failed".
type EventType string

// Event is one occurrence. Source is the name of the emitting component or
// network.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events on the emitter's goroutine. OnEvent must return
// quickly and must not block.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// NoOpObserver discards every event.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}

// Emit stamps and sends an event to obs. A nil observer drops the event.
func Emit(ctx context.Context, obs Observer, eventType EventType, level Level, source string, data map[string]any) {
	if obs == nil {
		return
	}
	obs.OnEvent(ctx, Event{
		Type:      eventType,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})
}
