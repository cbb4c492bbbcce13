package envelope

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
)

type Envelope struct {
	ID        string            `json:"id"`
	Action    string            `json:"action,omitempty"`
	Payload   *anypb.Any        `json:"payload,omitempty"`
	ReplyTo   string            `json:"reply_to,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// HasAction reports whether the envelope carries a non-empty action tag.
func (env *Envelope) HasAction() bool {
	return env.Action != ""
}

// IsReply reports whether the envelope answers an earlier envelope.
func (env *Envelope) IsReply() bool {
	return env.ReplyTo != ""
}

// Clone returns a deep copy. The payload is copied with proto.Clone so the
// clone can be handed off while the original stays with its owner.
func (env *Envelope) Clone() *Envelope {
	clone := *env
	clone.Headers = maps.Clone(env.Headers)
	if env.Payload != nil {
		clone.Payload = proto.Clone(env.Payload).(*anypb.Any)
	}
	return &clone
}

func (env *Envelope) String() string {
	typeURL := ""
	if env.Payload != nil {
		typeURL = env.Payload.GetTypeUrl()
	}
	return fmt.Sprintf(
		"Envelope{ID: %s, Action: %q, ReplyTo: %s, Payload: %s}",
		env.ID,
		env.Action,
		env.ReplyTo,
		typeURL,
	)
}

// Equal reports whether a and b carry the same identity, tag, correlation,
// headers and payload bytes.
func Equal(a, b *Envelope) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID &&
		a.Action == b.Action &&
		a.ReplyTo == b.ReplyTo &&
		a.Timestamp.Equal(b.Timestamp) &&
		maps.Equal(a.Headers, b.Headers) &&
		proto.Equal(a.Payload, b.Payload)
}

func generateID() string {
	return uuid.Must(uuid.NewV7()).String()
}
