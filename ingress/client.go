package ingress

import (
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/tailored-agentic-units/bucket/bucket"
	"github.com/tailored-agentic-units/bucket/contract"
)

// Reply is what the target component emitted for a delivered payload.
type Reply struct {
	Action  string
	Payload *anypb.Any
}

// Text decodes a generic_text reply.
func (r Reply) Text() (string, error) {
	return contract.DecodeText(r.Payload)
}

type Client struct {
	deliver *connect.Client[anypb.Any, anypb.Any]
	recycle *connect.Client[emptypb.Empty, emptypb.Empty]
}

func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		deliver: connect.NewClient[anypb.Any, anypb.Any](httpClient, baseURL+DeliverProcedure, opts...),
		recycle: connect.NewClient[emptypb.Empty, emptypb.Empty](httpClient, baseURL+RecycleProcedure, opts...),
	}
}

// Deliver sends payload tagged with action and waits for the reply.
func (c *Client) Deliver(ctx context.Context, action string, payload *anypb.Any) (Reply, error) {
	req := connect.NewRequest(payload)
	if action != "" {
		req.Header().Set(ActionHeader, connect.EncodeBinaryHeader([]byte(action)))
	}

	resp, err := c.deliver.CallUnary(ctx, req)
	if err != nil {
		return Reply{}, err
	}

	replyAction, err := decodeAction(resp.Header().Get(ActionHeader))
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}

	return Reply{
		Action:  replyAction,
		Payload: resp.Msg,
	}, nil
}

// Send delivers a tuple record under an arbitrary action.
func (c *Client) Send(ctx context.Context, action, first, second string) (Reply, error) {
	payload, err := contract.NewTuple(first, second)
	if err != nil {
		return Reply{}, err
	}
	return c.Deliver(ctx, action, payload)
}

// Insert stores value under key and returns the confirmation text.
func (c *Client) Insert(ctx context.Context, key, value string) (string, error) {
	reply, err := c.Send(ctx, bucket.ActionInsert, key, value)
	if err != nil {
		return "", err
	}
	return replyText(reply)
}

// Read returns the value stored under key, or "" when it is absent.
func (c *Client) Read(ctx context.Context, key string) (string, error) {
	reply, err := c.Send(ctx, bucket.ActionRead, key, "")
	if err != nil {
		return "", err
	}
	if reply.Action != key {
		return "", fmt.Errorf("%w: read %q answered with action %q", ErrUnexpected, key, reply.Action)
	}
	return replyText(reply)
}

func (c *Client) Recycle(ctx context.Context) error {
	_, err := c.recycle.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	return err
}

func replyText(reply Reply) (string, error) {
	text, err := reply.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	return text, nil
}
