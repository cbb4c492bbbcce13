package envelope

import (
	"time"

	"google.golang.org/protobuf/types/known/anypb"
)

type Builder struct {
	envelope *Envelope
}

func New(payload *anypb.Any) *Builder {
	return &Builder{
		envelope: &Envelope{
			ID:        generateID(),
			Payload:   payload,
			Timestamp: time.Now(),
		},
	}
}

// NewReply starts an envelope that answers request.
func NewReply(request *Envelope, payload *anypb.Any) *Builder {
	return New(payload).ReplyTo(request.ID)
}

func (b *Builder) Action(action string) *Builder {
	b.envelope.Action = action
	return b
}

func (b *Builder) ReplyTo(replyTo string) *Builder {
	b.envelope.ReplyTo = replyTo
	return b
}

func (b *Builder) Build() *Envelope {
	return b.envelope
}
