package network

import "github.com/tailored-agentic-units/bucket/observability"

// Network event types.
const (
	EventCycleComplete observability.EventType = "network.cycle.complete"
	EventCycleFailed   observability.EventType = "network.cycle.failed"
	EventRecycle       observability.EventType = "network.recycle"
)
