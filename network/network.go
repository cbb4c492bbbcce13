package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tailored-agentic-units/bucket/component"
	"github.com/tailored-agentic-units/bucket/config"
	"github.com/tailored-agentic-units/bucket/contract"
	"github.com/tailored-agentic-units/bucket/envelope"
	"github.com/tailored-agentic-units/bucket/observability"
	"github.com/tailored-agentic-units/bucket/port"
)

// Failure describes a handling cycle that returned an error.
type Failure struct {
	Component  string
	Port       string
	EnvelopeID string
	Err        error
}

// FailureFunc is called on the failing component's runner goroutine and must
// not block.
type FailureFunc func(ctx context.Context, failure Failure)

type Network interface {
	Add(c component.Component) error
	Connect(from, out, to, in string) error
	Tap(from, out string) (*port.Input, error)
	Inject(ctx context.Context, to, in string, env *envelope.Envelope) error

	OnFailure(fn FailureFunc)
	Recycle(ctx context.Context, name string) error

	Components() []string
	Capabilities(name string) (component.Capabilities, error)

	Start() error
	Metrics() MetricsSnapshot
	Shutdown(timeout time.Duration) error
}

type delivery struct {
	port string
	env  *envelope.Envelope
}

type node struct {
	comp       component.Component
	deliveries chan delivery
	control    chan func()
}

type network struct {
	name string

	nodes      map[string]*node
	nodesMutex sync.RWMutex

	taps      []*port.Input
	tapsMutex sync.Mutex

	failureHandlers []FailureFunc
	failuresMutex   sync.RWMutex

	channelBufferSize int
	shutdownTimeout   time.Duration

	logger   *slog.Logger
	observer observability.Observer
	metrics  *Metrics

	started atomic.Bool
	wg      sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*network)

// WithObserver overrides the observers named in the config.
func WithObserver(o observability.Observer) Option {
	return func(n *network) { n.observer = o }
}

func New(ctx context.Context, cfg config.NetworkConfig, opts ...Option) (Network, error) {
	c := config.DefaultNetworkConfig()
	c.Merge(&cfg)

	observer, err := observability.Resolve(c.Observers...)
	if err != nil {
		return nil, fmt.Errorf("network %s: %w", c.Name, err)
	}

	netCtx, cancel := context.WithCancel(ctx)

	n := &network{
		name:              c.Name,
		nodes:             make(map[string]*node),
		channelBufferSize: c.ChannelBufferSize,
		shutdownTimeout:   c.ShutdownTimeout.Std(),
		logger:            c.Logger,
		observer:          observer,
		metrics:           NewMetrics(),
		ctx:               netCtx,
		cancel:            cancel,
		done:              make(chan struct{}),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

func (n *network) Add(c component.Component) error {
	if n.started.Load() {
		return fmt.Errorf("add %s: %w", c.Name(), ErrAlreadyStarted)
	}

	if err := checkContracts(c); err != nil {
		return err
	}

	n.nodesMutex.Lock()
	defer n.nodesMutex.Unlock()

	name := c.Name()
	if _, exists := n.nodes[name]; exists {
		return fmt.Errorf("%w: %s", ErrComponentExists, name)
	}

	n.nodes[name] = &node{
		comp:       c,
		deliveries: make(chan delivery),
		control:    make(chan func()),
	}
	n.metrics.RecordComponent(1)

	n.logger.DebugContext(
		n.ctx,
		"component added",
		slog.String("network", n.name),
		slog.String("component", name),
	)

	return nil
}

// Connect attaches the output port from.out to the input port to.in. The
// ports must declare the same contract.
func (n *network) Connect(from, out, to, in string) error {
	output, err := n.output(from, out)
	if err != nil {
		return err
	}
	input, err := n.input(to, in)
	if err != nil {
		return err
	}

	if err := output.Attach(input); err != nil {
		return fmt.Errorf("connect %s.%s -> %s.%s: %w", from, out, to, in, err)
	}

	n.logger.DebugContext(
		n.ctx,
		"ports connected",
		slog.String("network", n.name),
		slog.String("from", from+"."+out),
		slog.String("to", to+"."+in),
		slog.String("contract", output.Contract()),
	)

	return nil
}

// Tap attaches a runtime-owned input to an unconnected output so callers
// outside the network can receive what the component emits. Taps are closed
// on Shutdown.
func (n *network) Tap(from, out string) (*port.Input, error) {
	output, err := n.output(from, out)
	if err != nil {
		return nil, err
	}

	tap := port.NewInput("tap:"+from+"."+out, output.Contract(), n.channelBufferSize)
	if err := output.Attach(tap); err != nil {
		return nil, fmt.Errorf("tap %s.%s: %w", from, out, err)
	}

	n.tapsMutex.Lock()
	n.taps = append(n.taps, tap)
	n.tapsMutex.Unlock()

	return tap, nil
}

// Inject delivers env to the input port to.in as if an upstream component had
// sent it.
func (n *network) Inject(ctx context.Context, to, in string, env *envelope.Envelope) error {
	if n.ctx.Err() != nil {
		return ErrStopped
	}
	if env == nil {
		return fmt.Errorf("inject %s.%s: %w", to, in, envelope.ErrNil)
	}

	input, err := n.input(to, in)
	if err != nil {
		return err
	}

	if err := input.Deliver(ctx, env); err != nil {
		return fmt.Errorf("inject %s.%s: %w", to, in, err)
	}
	return nil
}

func (n *network) OnFailure(fn FailureFunc) {
	n.failuresMutex.Lock()
	n.failureHandlers = append(n.failureHandlers, fn)
	n.failuresMutex.Unlock()
}

// Recycle resets the named component's state. While the network runs, the
// reset is scheduled on the component's runner between two cycles.
func (n *network) Recycle(ctx context.Context, name string) error {
	nd, err := n.node(name)
	if err != nil {
		return err
	}

	resetter, ok := nd.comp.(component.Resetter)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotResettable, name)
	}

	reset := func() {
		resetter.Reset(ctx)
		n.metrics.RecordRecycled(1)
		observability.Emit(ctx, n.observer, EventRecycle, observability.LevelInfo, n.name, map[string]any{
			"component": name,
		})
	}

	if !n.started.Load() {
		reset()
		return nil
	}

	if n.ctx.Err() != nil {
		<-n.done
		reset()
		return nil
	}

	done := make(chan struct{})
	select {
	case nd.control <- func() { reset(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	case <-n.ctx.Done():
		return ErrStopped
	}

	<-done
	return nil
}

func (n *network) Components() []string {
	n.nodesMutex.RLock()
	defer n.nodesMutex.RUnlock()

	names := make([]string, 0, len(n.nodes))
	for name := range n.nodes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (n *network) Capabilities(name string) (component.Capabilities, error) {
	nd, err := n.node(name)
	if err != nil {
		return component.Capabilities{}, err
	}
	return component.CapabilitiesOf(nd.comp), nil
}

// Start launches one runner per component and one receiver per input port.
func (n *network) Start() error {
	if n.ctx.Err() != nil {
		return ErrStopped
	}
	if !n.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	n.nodesMutex.RLock()
	for _, nd := range n.nodes {
		for _, in := range nd.comp.Inputs() {
			n.wg.Add(1)
			go n.receive(nd, in)
		}
		n.wg.Add(1)
		go n.run(nd)
	}
	count := len(n.nodes)
	n.nodesMutex.RUnlock()

	go func() {
		n.wg.Wait()
		close(n.done)
	}()

	n.logger.InfoContext(
		n.ctx,
		"network started",
		slog.String("network", n.name),
		slog.Int("components", count),
	)

	return nil
}

func (n *network) Metrics() MetricsSnapshot {
	return n.metrics.Snapshot()
}

// Shutdown stops all runners and closes taps. A timeout <= 0 uses the
// configured shutdown timeout.
func (n *network) Shutdown(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = n.shutdownTimeout
	}

	n.logger.DebugContext(
		n.ctx,
		"shutting down network",
		slog.String("network", n.name),
	)
	n.cancel()

	n.tapsMutex.Lock()
	for _, tap := range n.taps {
		tap.Close()
	}
	n.tapsMutex.Unlock()

	if !n.started.Load() {
		return nil
	}

	select {
	case <-n.done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("network shutdown timeout after %v", timeout)
	}
}

func (n *network) receive(nd *node, in *port.Input) {
	defer n.wg.Done()

	for {
		env, err := in.Receive(n.ctx)
		if err != nil {
			if errors.Is(err, port.ErrClosed) {
				n.logger.DebugContext(
					n.ctx,
					"input closed",
					slog.String("network", n.name),
					slog.String("component", nd.comp.Name()),
					slog.String("port", in.Name()),
				)
			}
			return
		}

		select {
		case nd.deliveries <- delivery{port: in.Name(), env: env}:
		case <-n.ctx.Done():
			return
		}
	}
}

func (n *network) run(nd *node) {
	defer n.wg.Done()

	for {
		select {
		case <-n.ctx.Done():
			return
		case fn := <-nd.control:
			fn()
		case d := <-nd.deliveries:
			n.cycle(nd, d)
		}
	}
}

func (n *network) cycle(nd *node, d delivery) {
	name := nd.comp.Name()
	var envelopeID string
	if d.env != nil {
		envelopeID = d.env.ID
	}

	n.metrics.RecordDelivered(1)
	start := time.Now()

	err := n.handle(nd.comp, d)
	duration := time.Since(start)

	if err != nil {
		n.metrics.RecordFailed(1)
		n.logger.ErrorContext(
			n.ctx,
			"cycle failed",
			slog.String("network", n.name),
			slog.String("component", name),
			slog.String("port", d.port),
			slog.String("envelope_id", envelopeID),
			slog.String("error", err.Error()),
		)
		observability.Emit(n.ctx, n.observer, EventCycleFailed, observability.LevelError, name, map[string]any{
			"port":     d.port,
			"error":    err.Error(),
			"duration": duration,
		})
		n.notifyFailure(Failure{
			Component:  name,
			Port:       d.port,
			EnvelopeID: envelopeID,
			Err:        err,
		})
		return
	}

	n.metrics.RecordCompleted(1)
	observability.Emit(n.ctx, n.observer, EventCycleComplete, observability.LevelVerbose, name, map[string]any{
		"port":     d.port,
		"duration": duration,
	})
}

// handle runs one Handle call, turning a panic into a failed cycle so the
// runner survives.
func (n *network) handle(c component.Component, d delivery) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return c.Handle(n.ctx, d.port, d.env)
}

func (n *network) notifyFailure(failure Failure) {
	n.failuresMutex.RLock()
	handlers := slices.Clone(n.failureHandlers)
	n.failuresMutex.RUnlock()

	for _, fn := range handlers {
		fn(n.ctx, failure)
	}
}

func (n *network) node(name string) (*node, error) {
	n.nodesMutex.RLock()
	defer n.nodesMutex.RUnlock()

	nd, exists := n.nodes[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, name)
	}
	return nd, nil
}

func (n *network) input(name, in string) (*port.Input, error) {
	nd, err := n.node(name)
	if err != nil {
		return nil, err
	}
	return component.Input(nd.comp, in)
}

func (n *network) output(name, out string) (*port.Output, error) {
	nd, err := n.node(name)
	if err != nil {
		return nil, err
	}
	return component.Output(nd.comp, out)
}

// checkContracts rejects components whose ports declare a contract the
// codec does not know.
func checkContracts(c component.Component) error {
	for _, in := range c.Inputs() {
		if !contract.Known(in.Contract()) {
			return fmt.Errorf("%w: %s.%s consumes %q (known: %v)",
				ErrUnknownContract, c.Name(), in.Name(), in.Contract(), contract.Names())
		}
	}
	for _, out := range c.Outputs() {
		if !contract.Known(out.Contract()) {
			return fmt.Errorf("%w: %s.%s produces %q (known: %v)",
				ErrUnknownContract, c.Name(), out.Name(), out.Contract(), contract.Names())
		}
	}
	return nil
}
