// Package bucket implements a key/value component for a dataflow network.
//
// A Bucket receives tuple records on its "operation" input and answers on its
// "output" port with text records:
//
//   - action "insert": stores second under first, answers "inserted into bucket!"
//   - action "read": answers with the value stored under first (or ""), and
//     tags the answer with the key that was read
//   - any other action: forwards the envelope unchanged
//
// The store belongs to the bucket alone and is touched only from Handle and
// Reset, which the runtime never runs concurrently.
package bucket

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tailored-agentic-units/bucket/config"
	"github.com/tailored-agentic-units/bucket/contract"
	"github.com/tailored-agentic-units/bucket/envelope"
	"github.com/tailored-agentic-units/bucket/observability"
	"github.com/tailored-agentic-units/bucket/port"
)

// Port names.
const (
	PortOperation = "operation"
	PortOutput    = "output"
)

type Bucket struct {
	name  string
	store *Store

	operation *port.Input
	output    *port.Output

	logger   *slog.Logger
	observer observability.Observer
}

// Option configures a Bucket after config resolution.
type Option func(*Bucket)

// WithObserver overrides the observers named in the config.
func WithObserver(o observability.Observer) Option {
	return func(b *Bucket) { b.observer = o }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Bucket) { b.logger = l }
}

// New creates a Bucket with an empty store.
func New(cfg config.BucketConfig, opts ...Option) (*Bucket, error) {
	c := config.DefaultBucketConfig()
	c.Merge(&cfg)

	observer, err := observability.Resolve(c.Observers...)
	if err != nil {
		return nil, fmt.Errorf("bucket %s: %w", c.Name, err)
	}

	b := &Bucket{
		name:      c.Name,
		store:     NewStore(),
		operation: port.NewInput(PortOperation, contract.Tuple, c.ChannelBufferSize),
		output:    port.NewOutput(PortOutput, contract.GenericText),
		logger:    c.Logger,
		observer:  observer,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

func (b *Bucket) Name() string { return b.name }

func (b *Bucket) Inputs() []*port.Input { return []*port.Input{b.operation} }

func (b *Bucket) Outputs() []*port.Output { return []*port.Output{b.output} }

// Store exposes the bucket's table for inspection. Callers must not use it
// while the bucket is being scheduled.
func (b *Bucket) Store() *Store { return b.store }

// Handle runs one cycle: decode env, apply it to the store and send exactly
// one envelope on the output port. A decode failure returns an error wrapping
// contract.ErrDecode before the store is touched and nothing is sent. Send
// failures are logged and dropped.
func (b *Bucket) Handle(ctx context.Context, in string, env *envelope.Envelope) error {
	if in != PortOperation {
		return fmt.Errorf("bucket %s: unknown input port %q", b.name, in)
	}

	op, err := Decode(env)
	if err != nil {
		return err
	}

	response, err := b.apply(ctx, env, op)
	if err != nil {
		return err
	}

	b.send(ctx, response)
	return nil
}

// Reset empties the store.
func (b *Bucket) Reset(ctx context.Context) {
	cleared := b.store.Len()
	b.store.Reset()

	b.logger.DebugContext(
		ctx,
		"bucket reset",
		slog.String("component", b.name),
		slog.Int("cleared", cleared),
	)
	observability.Emit(ctx, b.observer, EventReset, observability.LevelInfo, b.name, map[string]any{
		"cleared": cleared,
	})
}

func (b *Bucket) apply(ctx context.Context, request *envelope.Envelope, op Operation) (*envelope.Envelope, error) {
	switch op := op.(type) {
	case Insert:
		b.logger.DebugContext(
			ctx,
			"inserting key",
			slog.String("component", b.name),
			slog.String("key", op.Key),
			slog.String("value", op.Value),
		)
		b.store.Put(op.Key, op.Value)
		observability.Emit(ctx, b.observer, EventInsert, observability.LevelVerbose, b.name, map[string]any{
			"key":  op.Key,
			"keys": b.store.Len(),
		})
		return textReply(request, InsertedText, "")

	case Read:
		b.logger.DebugContext(
			ctx,
			"reading key",
			slog.String("component", b.name),
			slog.String("key", op.Key),
		)
		found := b.store.Has(op.Key)
		value := b.store.Get(op.Key)
		observability.Emit(ctx, b.observer, EventRead, observability.LevelVerbose, b.name, map[string]any{
			"key":   op.Key,
			"found": found,
		})
		return textReply(request, value, op.Key)

	case Passthrough:
		observability.Emit(ctx, b.observer, EventPassthrough, observability.LevelVerbose, b.name, map[string]any{
			"action": op.Envelope.Action,
		})
		return op.Envelope, nil

	default:
		return nil, fmt.Errorf("bucket %s: unhandled operation %T", b.name, op)
	}
}

func (b *Bucket) send(ctx context.Context, env *envelope.Envelope) {
	if err := b.output.Send(ctx, env); err != nil {
		b.logger.WarnContext(
			ctx,
			"dropped response",
			slog.String("component", b.name),
			slog.String("envelope_id", env.ID),
			slog.String("error", err.Error()),
		)
		observability.Emit(ctx, b.observer, EventSendDropped, observability.LevelWarning, b.name, map[string]any{
			"envelope_id": env.ID,
			"error":       err.Error(),
		})
	}
}

func textReply(request *envelope.Envelope, text, action string) (*envelope.Envelope, error) {
	payload, err := contract.NewText(text)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return envelope.NewReply(request, payload).Action(action).Build(), nil
}
