package component_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/tailored-agentic-units/bucket/component"
	"github.com/tailored-agentic-units/bucket/contract"
	"github.com/tailored-agentic-units/bucket/envelope"
	"github.com/tailored-agentic-units/bucket/port"
)

type splitter struct {
	inputs  []*port.Input
	outputs []*port.Output
}

func newSplitter() *splitter {
	return &splitter{
		inputs: []*port.Input{
			port.NewInput("left", contract.Tuple, 1),
			port.NewInput("right", contract.Tuple, 1),
			port.NewInput("note", contract.GenericText, 1),
		},
		outputs: []*port.Output{
			port.NewOutput("text", contract.GenericText),
			port.NewOutput("pair", contract.Tuple),
		},
	}
}

func (s *splitter) Name() string { return "splitter" }

func (s *splitter) Inputs() []*port.Input { return s.inputs }

func (s *splitter) Outputs() []*port.Output { return s.outputs }

func (s *splitter) Handle(ctx context.Context, in string, env *envelope.Envelope) error {
	return nil
}

func TestCapabilitiesOf(t *testing.T) {
	caps := component.CapabilitiesOf(newSplitter())

	wantConsumes := []string{contract.GenericText, contract.Tuple}
	if !slices.Equal(caps.Consumes, wantConsumes) {
		t.Errorf("Consumes = %v, want %v", caps.Consumes, wantConsumes)
	}

	wantProduces := []string{contract.GenericText, contract.Tuple}
	if !slices.Equal(caps.Produces, wantProduces) {
		t.Errorf("Produces = %v, want %v", caps.Produces, wantProduces)
	}
}

func TestInput(t *testing.T) {
	c := newSplitter()

	tests := []struct {
		name    string
		port    string
		wantErr bool
	}{
		{"first port", "left", false},
		{"last port", "note", false},
		{"output name is not an input", "text", true},
		{"unknown port", "missing", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := component.Input(c, tt.port)
			if tt.wantErr {
				if !errors.Is(err, component.ErrPortNotFound) {
					t.Errorf("Input() error = %v, want %v", err, component.ErrPortNotFound)
				}
				return
			}
			if err != nil {
				t.Fatalf("Input() error = %v", err)
			}
			if in.Name() != tt.port {
				t.Errorf("Input().Name() = %q, want %q", in.Name(), tt.port)
			}
		})
	}
}

func TestOutput(t *testing.T) {
	c := newSplitter()

	out, err := component.Output(c, "pair")
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if out.Contract() != contract.Tuple {
		t.Errorf("Output().Contract() = %q, want %q", out.Contract(), contract.Tuple)
	}

	if _, err := component.Output(c, "left"); !errors.Is(err, component.ErrPortNotFound) {
		t.Errorf("Output() error = %v, want %v", err, component.ErrPortNotFound)
	}
}
