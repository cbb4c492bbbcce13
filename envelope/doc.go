// Package envelope provides the unit of data that flows between components of
// a dataflow network.
//
// An Envelope carries an opaque protobuf payload together with an action tag
// that classifies the sender's intent. Components interpret the tag, the
// runtime only moves envelopes between ports.
//
// # Construction
//
// Envelopes are constructed using a fluent builder API:
//
//	env := envelope.New(payload).
//	    Action("insert").
//	    Headers(map[string]string{"origin": "ingress"}).
//	    Build()
//
// # Metadata
//
// Each envelope includes:
//
//   - ID: UUIDv7 providing time-sortable unique identification
//   - Action: the operation tag; empty means "no action"
//   - ReplyTo: ID of the envelope this one answers, used for correlation
//   - Timestamp: creation time
//   - Headers: extensible key-value metadata
//
// # Ownership
//
// Sending an envelope on a port hands it to the receiver. The sender must not
// read or modify it afterwards; use Clone when a copy has to be kept.
package envelope
