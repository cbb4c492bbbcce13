package bucket

import "github.com/tailored-agentic-units/bucket/observability"

// Bucket event types.
const (
	EventInsert      observability.EventType = "bucket.insert"
	EventRead        observability.EventType = "bucket.read"
	EventPassthrough observability.EventType = "bucket.passthrough"
	EventReset       observability.EventType = "bucket.reset"
	EventSendDropped observability.EventType = "bucket.send.dropped"
)
