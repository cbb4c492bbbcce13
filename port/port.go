// Package port provides the named, typed connection points through which
// components receive and emit envelopes.
//
// An Input owns a buffered channel. An Output forwards to at most one Input,
// attached by the runtime when the network is wired. Both sides declare the
// contract of the records they carry; Attach refuses to connect ports whose
// contracts differ.
package port

import (
	"context"
	"fmt"
	"sync"

	"github.com/tailored-agentic-units/bucket/envelope"
)

const DefaultBufferSize = 100

type Input struct {
	name     string
	contract string
	channel  *Channel[*envelope.Envelope]
}

func NewInput(name, contract string, bufferSize int) *Input {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Input{
		name:     name,
		contract: contract,
		channel:  NewChannel[*envelope.Envelope](bufferSize),
	}
}

func (in *Input) Name() string     { return in.name }
func (in *Input) Contract() string { return in.contract }

// Deliver places env in the port's buffer, blocking while it is full. A nil
// env is refused with envelope.ErrNil.
func (in *Input) Deliver(ctx context.Context, env *envelope.Envelope) error {
	if env == nil {
		return fmt.Errorf("deliver to %s: %w", in.name, envelope.ErrNil)
	}
	return in.channel.Send(ctx, env)
}

func (in *Input) Receive(ctx context.Context) (*envelope.Envelope, error) {
	return in.channel.Receive(ctx)
}

func (in *Input) TryReceive() (*envelope.Envelope, bool) {
	return in.channel.TryReceive()
}

func (in *Input) Close() {
	in.channel.Close()
}

func (in *Input) IsClosed() bool {
	return in.channel.IsClosed()
}

func (in *Input) QueueLength() int {
	return in.channel.QueueLength()
}

type Output struct {
	name     string
	contract string
	target   *Input
	mu       sync.RWMutex
}

func NewOutput(name, contract string) *Output {
	return &Output{
		name:     name,
		contract: contract,
	}
}

func (out *Output) Name() string     { return out.name }
func (out *Output) Contract() string { return out.contract }

// Attach connects out to in. The contracts must match and out must not
// already be connected.
func (out *Output) Attach(in *Input) error {
	if out.contract != in.contract {
		return fmt.Errorf("%w: %s produces %s, %s consumes %s",
			ErrContractMismatch, out.name, out.contract, in.name, in.contract)
	}

	out.mu.Lock()
	defer out.mu.Unlock()

	if out.target != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyConnected, out.name)
	}
	out.target = in
	return nil
}

func (out *Output) Connected() bool {
	out.mu.RLock()
	defer out.mu.RUnlock()
	return out.target != nil
}

// Send hands env to the attached input. Ownership of env passes to the
// receiver even when Send fails.
func (out *Output) Send(ctx context.Context, env *envelope.Envelope) error {
	out.mu.RLock()
	target := out.target
	out.mu.RUnlock()

	if target == nil {
		return fmt.Errorf("%w: %s", ErrNotConnected, out.name)
	}
	if err := target.Deliver(ctx, env); err != nil {
		return fmt.Errorf("send on %s: %w", out.name, err)
	}
	return nil
}
