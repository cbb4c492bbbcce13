// Package component defines the contract between a processing unit and the
// runtime that schedules it.
//
// A component declares its ports and handles one envelope per call. The
// runtime owns the receive loop: it takes an envelope from one of the
// component's inputs and calls Handle, one call at a time, so components keep
// state without locking.
package component

import (
	"context"
	"fmt"
	"slices"

	"github.com/tailored-agentic-units/bucket/envelope"
	"github.com/tailored-agentic-units/bucket/port"
)

type Component interface {
	Name() string
	Inputs() []*port.Input
	Outputs() []*port.Output

	// Handle processes one envelope received on the named input. A returned
	// error fails this cycle only; the runtime keeps delivering.
	Handle(ctx context.Context, in string, env *envelope.Envelope) error
}

// Resetter is implemented by components whose state can be reinitialized
// when the runtime recycles them.
type Resetter interface {
	Reset(ctx context.Context)
}

// Capabilities lists the contracts a component consumes and produces.
type Capabilities struct {
	Consumes []string
	Produces []string
}

// CapabilitiesOf derives the declared capabilities from c's ports. Each list
// is sorted and free of duplicates.
func CapabilitiesOf(c Component) Capabilities {
	var caps Capabilities
	for _, in := range c.Inputs() {
		caps.Consumes = append(caps.Consumes, in.Contract())
	}
	for _, out := range c.Outputs() {
		caps.Produces = append(caps.Produces, out.Contract())
	}

	slices.Sort(caps.Consumes)
	slices.Sort(caps.Produces)
	caps.Consumes = slices.Compact(caps.Consumes)
	caps.Produces = slices.Compact(caps.Produces)
	return caps
}

func Input(c Component, name string) (*port.Input, error) {
	for _, in := range c.Inputs() {
		if in.Name() == name {
			return in, nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrPortNotFound, c.Name(), name)
}

func Output(c Component, name string) (*port.Output, error) {
	for _, out := range c.Outputs() {
		if out.Name() == name {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrPortNotFound, c.Name(), name)
}
