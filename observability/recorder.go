package observability

import (
	"context"
	"slices"
	"sync"
)

// Recorder keeps every event it receives in memory. It is safe for
// concurrent use.
type Recorder struct {
	events []Event
	mu     sync.Mutex
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnEvent(ctx context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// OfType returns the recorded events with the given type.
func (r *Recorder) OfType(eventType EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []Event
	for _, e := range r.events {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
