package ingress_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"

	"github.com/tailored-agentic-units/bucket/bucket"
	"github.com/tailored-agentic-units/bucket/component"
	"github.com/tailored-agentic-units/bucket/config"
	"github.com/tailored-agentic-units/bucket/contract"
	"github.com/tailored-agentic-units/bucket/envelope"
	"github.com/tailored-agentic-units/bucket/ingress"
	"github.com/tailored-agentic-units/bucket/network"
	"github.com/tailored-agentic-units/bucket/port"
)

// sink accepts tuples and never answers.
type sink struct {
	in  *port.Input
	out *port.Output
}

func newSink() *sink {
	return &sink{
		in:  port.NewInput(bucket.PortOperation, contract.Tuple, 10),
		out: port.NewOutput(bucket.PortOutput, contract.GenericText),
	}
}

func (s *sink) Name() string { return "sink" }

func (s *sink) Inputs() []*port.Input { return []*port.Input{s.in} }

func (s *sink) Outputs() []*port.Output { return []*port.Output{s.out} }

func (s *sink) Handle(ctx context.Context, in string, env *envelope.Envelope) error {
	return nil
}

var discard = slog.New(slog.DiscardHandler)

// startServer wires c into a running network behind an ingress server and
// returns a client for it.
func startServer(t *testing.T, c component.Component, cfg config.IngressConfig) *ingress.Client {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	net, err := network.New(ctx, config.NetworkConfig{Name: "ingress-test", Logger: discard})
	require.NoError(t, err)
	require.NoError(t, net.Add(c))

	cfg.Target = c.Name()
	srv, err := ingress.NewServer(net, cfg, discard)
	require.NoError(t, err)
	require.NoError(t, net.Start())

	go srv.Run(ctx)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		net.Shutdown(5 * time.Second)
	})

	return ingress.NewClient(ts.Client(), ts.URL)
}

func startBucket(t *testing.T, cfg config.IngressConfig) *ingress.Client {
	t.Helper()
	b, err := bucket.New(config.BucketConfig{Name: "bucket", Logger: discard})
	require.NoError(t, err)
	return startServer(t, b, cfg)
}

func TestClient_InsertAndRead(t *testing.T) {
	client := startBucket(t, config.IngressConfig{})
	ctx := context.Background()

	confirmation, err := client.Insert(ctx, "user:1", "alice")
	require.NoError(t, err)
	assert.Equal(t, bucket.InsertedText, confirmation)

	value, err := client.Read(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, "alice", value)

	value, err = client.Read(ctx, "user:2")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestClient_InsertEmptyValue(t *testing.T) {
	client := startBucket(t, config.IngressConfig{})
	ctx := context.Background()

	confirmation, err := client.Insert(ctx, "k", "")
	require.NoError(t, err)
	assert.Equal(t, bucket.InsertedText, confirmation)

	reply, err := client.Send(ctx, bucket.ActionInsert, "k", "")
	require.NoError(t, err)
	assert.Equal(t, "", reply.Action)
}

func TestClient_ReadKeepsKeyVerbatim(t *testing.T) {
	client := startBucket(t, config.IngressConfig{})
	ctx := context.Background()

	keys := []string{" padded ", "a\nb", "tab\tkey", "crlf\r\n", "", "ünï"}
	for _, key := range keys {
		t.Run(fmt.Sprintf("%q", key), func(t *testing.T) {
			_, err := client.Insert(ctx, key, "value of "+key)
			require.NoError(t, err)

			value, err := client.Read(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, "value of "+key, value)

			reply, err := client.Send(ctx, bucket.ActionRead, key, "")
			require.NoError(t, err)
			assert.Equal(t, key, reply.Action)
		})
	}
}

func TestDeliver_MalformedActionHeader(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	net, err := network.New(ctx, config.NetworkConfig{Logger: discard})
	require.NoError(t, err)
	b, err := bucket.New(config.BucketConfig{Logger: discard})
	require.NoError(t, err)
	require.NoError(t, net.Add(b))

	srv, err := ingress.NewServer(net, config.IngressConfig{Target: b.Name()}, discard)
	require.NoError(t, err)
	require.NoError(t, net.Start())
	defer net.Shutdown(5 * time.Second)
	go srv.Run(ctx)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	raw := connect.NewClient[anypb.Any, anypb.Any](ts.Client(), ts.URL+ingress.DeliverProcedure)
	payload, err := contract.NewTuple("k", "v")
	require.NoError(t, err)

	req := connect.NewRequest(payload)
	req.Header().Set(ingress.ActionHeader, "!!not base64!!")

	_, err = raw.CallUnary(ctx, req)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	assert.Equal(t, 0, b.Store().Len())
}

func TestClient_Passthrough(t *testing.T) {
	client := startBucket(t, config.IngressConfig{})
	ctx := context.Background()

	payload, err := contract.NewTuple("k", "v")
	require.NoError(t, err)

	for _, action := range []string{"", "delete", "INSERT"} {
		t.Run("action "+action, func(t *testing.T) {
			reply, err := client.Deliver(ctx, action, payload)
			require.NoError(t, err)
			assert.Equal(t, action, reply.Action)
			assert.True(t, proto.Equal(payload, reply.Payload))
		})
	}

	value, err := client.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "", value, "passthrough must not touch the store")
}

func TestClient_DecodeFailure(t *testing.T) {
	client := startBucket(t, config.IngressConfig{})
	ctx := context.Background()

	text, err := contract.NewText("not a tuple")
	require.NoError(t, err)

	_, err = client.Deliver(ctx, bucket.ActionInsert, text)
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = client.Deliver(ctx, bucket.ActionRead, text)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	confirmation, err := client.Insert(ctx, "k", "v")
	require.NoError(t, err, "bucket keeps running after a failed cycle")
	assert.Equal(t, bucket.InsertedText, confirmation)
}

func TestClient_Recycle(t *testing.T) {
	client := startBucket(t, config.IngressConfig{})
	ctx := context.Background()

	_, err := client.Insert(ctx, "k", "v")
	require.NoError(t, err)

	require.NoError(t, client.Recycle(ctx))

	value, err := client.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestClient_RecycleNotResettable(t *testing.T) {
	client := startServer(t, newSink(), config.IngressConfig{})

	err := client.Recycle(context.Background())
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))
}

func TestClient_NoReply(t *testing.T) {
	client := startServer(t, newSink(), config.IngressConfig{
		RequestTimeout: config.Duration(50 * time.Millisecond),
	})

	_, err := client.Insert(context.Background(), "k", "v")
	assert.Equal(t, connect.CodeDeadlineExceeded, connect.CodeOf(err))
}

func TestClient_RateLimit(t *testing.T) {
	client := startBucket(t, config.IngressConfig{
		RateLimit: 0.001,
		Burst:     1,
	})
	ctx := context.Background()

	_, err := client.Insert(ctx, "k", "v")
	require.NoError(t, err)

	_, err = client.Insert(ctx, "k", "v")
	assert.Equal(t, connect.CodeResourceExhausted, connect.CodeOf(err))
}

func TestNewServer_UnknownTarget(t *testing.T) {
	net, err := network.New(context.Background(), config.NetworkConfig{Logger: discard})
	require.NoError(t, err)
	defer net.Shutdown(time.Second)

	_, err = ingress.NewServer(net, config.IngressConfig{Target: "missing"}, discard)
	assert.ErrorIs(t, err, network.ErrComponentNotFound)
}
