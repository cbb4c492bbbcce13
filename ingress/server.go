package ingress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/tailored-agentic-units/bucket/config"
	"github.com/tailored-agentic-units/bucket/contract"
	"github.com/tailored-agentic-units/bucket/envelope"
	"github.com/tailored-agentic-units/bucket/network"
	"github.com/tailored-agentic-units/bucket/port"
)

// ActionHeader carries the envelope action tag on requests and responses.
// It is a binary header so the tag survives byte for byte, including
// surrounding whitespace and line breaks.
const ActionHeader = "Bucket-Action-Bin"

// Procedure paths.
const (
	DeliverProcedure = "/bucket.v1.BucketService/Deliver"
	RecycleProcedure = "/bucket.v1.BucketAdmin/Recycle"
)

type result struct {
	env *envelope.Envelope
	err error
}

type Server struct {
	network network.Network
	config  config.IngressConfig
	logger  *slog.Logger
	limiter *rate.Limiter

	tap *port.Input

	pending      map[string]chan result
	pendingMutex sync.Mutex
}

// NewServer taps cfg.Target's output port and subscribes to the network's
// failed cycles. It must be called before the network starts.
func NewServer(net network.Network, cfg config.IngressConfig, logger *slog.Logger) (*Server, error) {
	c := config.DefaultIngressConfig()
	c.Merge(&cfg)

	if logger == nil {
		logger = slog.Default()
	}

	tap, err := net.Tap(c.Target, c.Output)
	if err != nil {
		return nil, fmt.Errorf("ingress: %w", err)
	}

	s := &Server{
		network: net,
		config:  c,
		logger:  logger,
		tap:     tap,
		pending: make(map[string]chan result),
	}

	if c.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(c.RateLimit), c.Burst)
	}

	net.OnFailure(s.onFailure)

	return s, nil
}

// Handler returns a mux serving both procedures.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(DeliverProcedure, connect.NewUnaryHandler(DeliverProcedure, s.deliver))
	mux.Handle(RecycleProcedure, connect.NewUnaryHandler(RecycleProcedure, s.recycle))
	return mux
}

// Run drains the tapped output and hands each envelope to the request waiting
// for it. It returns when ctx is done or the network shuts down.
func (s *Server) Run(ctx context.Context) error {
	for {
		env, err := s.tap.Receive(ctx)
		if err != nil {
			if errors.Is(err, port.ErrClosed) {
				return nil
			}
			return err
		}

		if !s.resolve(env.ReplyTo, result{env: env}) && !s.resolve(env.ID, result{env: env}) {
			s.logger.DebugContext(
				ctx,
				"unclaimed output",
				slog.String("component", s.config.Target),
				slog.String("envelope_id", env.ID),
			)
		}
	}
}

func (s *Server) deliver(ctx context.Context, req *connect.Request[anypb.Any]) (*connect.Response[anypb.Any], error) {
	if s.limiter != nil && !s.limiter.Allow() {
		s.logger.WarnContext(ctx, "rate limit exceeded", slog.String("procedure", DeliverProcedure))
		return nil, connect.NewError(connect.CodeResourceExhausted, ErrRateLimited)
	}

	action, err := decodeAction(req.Header().Get(ActionHeader))
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	env := envelope.New(req.Msg).Action(action).Build()

	wait := s.register(env.ID)
	defer s.unregister(env.ID)

	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout.Std())
	defer cancel()

	if err := s.network.Inject(ctx, s.config.Target, s.config.Input, env); err != nil {
		return nil, injectError(err)
	}

	select {
	case r := <-wait:
		if r.err != nil {
			return nil, cycleError(r.err)
		}
		resp := connect.NewResponse(r.env.Payload)
		resp.Header().Set(ActionHeader, connect.EncodeBinaryHeader([]byte(r.env.Action)))
		return resp, nil

	case <-ctx.Done():
		s.logger.WarnContext(
			ctx,
			"no reply",
			slog.String("component", s.config.Target),
			slog.String("envelope_id", env.ID),
		)
		return nil, connect.NewError(connect.CodeDeadlineExceeded, ErrNoReply)
	}
}

func (s *Server) recycle(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	if err := s.network.Recycle(ctx, s.config.Target); err != nil {
		switch {
		case errors.Is(err, network.ErrNotResettable):
			return nil, connect.NewError(connect.CodeFailedPrecondition, err)
		case errors.Is(err, network.ErrComponentNotFound):
			return nil, connect.NewError(connect.CodeNotFound, err)
		case errors.Is(err, network.ErrStopped):
			return nil, connect.NewError(connect.CodeUnavailable, err)
		default:
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}

	s.logger.InfoContext(ctx, "component recycled", slog.String("component", s.config.Target))
	return connect.NewResponse(&emptypb.Empty{}), nil
}

func (s *Server) onFailure(ctx context.Context, failure network.Failure) {
	if failure.Component != s.config.Target {
		return
	}
	s.resolve(failure.EnvelopeID, result{err: failure.Err})
}

func (s *Server) register(id string) <-chan result {
	ch := make(chan result, 1)

	s.pendingMutex.Lock()
	s.pending[id] = ch
	s.pendingMutex.Unlock()

	return ch
}

func (s *Server) unregister(id string) {
	s.pendingMutex.Lock()
	delete(s.pending, id)
	s.pendingMutex.Unlock()
}

// resolve hands r to the request waiting on id without blocking.
func (s *Server) resolve(id string, r result) bool {
	if id == "" {
		return false
	}

	s.pendingMutex.Lock()
	ch, exists := s.pending[id]
	s.pendingMutex.Unlock()

	if !exists {
		return false
	}

	select {
	case ch <- r:
		return true
	default:
		return false
	}
}

func injectError(err error) error {
	switch {
	case errors.Is(err, network.ErrStopped), errors.Is(err, port.ErrClosed):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, network.ErrComponentNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func cycleError(err error) error {
	if errors.Is(err, contract.ErrDecode) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func decodeAction(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	action, err := connect.DecodeBinaryHeader(value)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ActionHeader, err)
	}
	return string(action), nil
}
