package envelope_test

import (
	"strings"
	"testing"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tailored-agentic-units/bucket/envelope"
)

func textPayload(t *testing.T, text string) *anypb.Any {
	t.Helper()
	payload, err := anypb.New(wrapperspb.String(text))
	if err != nil {
		t.Fatalf("anypb.New() error = %v", err)
	}
	return payload
}

func TestEnvelope_Builder(t *testing.T) {
	payload := textPayload(t, "hello")

	env := envelope.New(payload).
		Action("insert").
		Headers(map[string]string{"origin": "test"}).
		Build()

	if env.ID == "" {
		t.Error("ID should not be empty")
	}
	if env.Action != "insert" {
		t.Errorf("Action = %q, want %q", env.Action, "insert")
	}
	if env.Payload != payload {
		t.Error("Payload should be the value passed to New")
	}
	if env.Headers["origin"] != "test" {
		t.Errorf("Headers[origin] = %v, want %v", env.Headers["origin"], "test")
	}
	if env.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if env.IsReply() {
		t.Error("IsReply() = true, want false")
	}
}

func TestEnvelope_NewReply(t *testing.T) {
	request := envelope.New(nil).Action("read").Build()
	reply := envelope.NewReply(request, textPayload(t, "v")).Build()

	if reply.ReplyTo != request.ID {
		t.Errorf("ReplyTo = %v, want %v", reply.ReplyTo, request.ID)
	}
	if reply.ID == request.ID {
		t.Error("reply should have its own ID")
	}
	if reply.HasAction() {
		t.Errorf("Action = %q, want empty", reply.Action)
	}
}

func TestEnvelope_HasAction(t *testing.T) {
	tests := []struct {
		name   string
		action string
		want   bool
	}{
		{name: "empty", action: "", want: false},
		{name: "insert", action: "insert", want: true},
		{name: "unknown", action: "delete", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := envelope.New(nil).Action(tt.action).Build()
			if got := env.HasAction(); got != tt.want {
				t.Errorf("HasAction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvelope_Clone(t *testing.T) {
	original := envelope.New(textPayload(t, "original")).
		Action("read").
		Headers(map[string]string{"key1": "value1"}).
		Build()

	clone := original.Clone()

	if !envelope.Equal(original, clone) {
		t.Fatalf("Clone() = %v, want equal to %v", clone, original)
	}

	clone.Headers["key1"] = "modified"
	if original.Headers["key1"] == "modified" {
		t.Error("Modifying clone headers modified original headers (not deep copied)")
	}

	clone.Payload.Value = []byte("garbage")
	if proto.Equal(original.Payload, clone.Payload) {
		t.Error("Modifying clone payload modified original payload (not deep copied)")
	}
}

func TestEnvelope_Clone_NilFields(t *testing.T) {
	original := envelope.New(nil).Build()

	clone := original.Clone()

	if clone.Headers != nil {
		t.Errorf("Clone Headers = %v, want nil", clone.Headers)
	}
	if clone.Payload != nil {
		t.Errorf("Clone Payload = %v, want nil", clone.Payload)
	}
}

func TestEqual(t *testing.T) {
	base := envelope.New(textPayload(t, "a")).Action("insert").Build()

	other := base.Clone()
	other.Action = "read"

	differentPayload := base.Clone()
	differentPayload.Payload = textPayload(t, "b")

	tests := []struct {
		name string
		a, b *envelope.Envelope
		want bool
	}{
		{name: "same pointer", a: base, b: base, want: true},
		{name: "clone", a: base, b: base.Clone(), want: true},
		{name: "different action", a: base, b: other, want: false},
		{name: "different payload", a: base, b: differentPayload, want: false},
		{name: "nil and value", a: nil, b: base, want: false},
		{name: "both nil", a: nil, b: nil, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := envelope.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvelope_String(t *testing.T) {
	env := envelope.New(textPayload(t, "x")).Action("insert").Build()

	str := env.String()
	for _, want := range []string{env.ID, "insert", "google.protobuf.StringValue"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %v, should contain %v", str, want)
		}
	}
}

func TestEnvelope_IDUniqueness(t *testing.T) {
	ids := make(map[string]bool)
	for range 100 {
		env := envelope.New(nil).Build()
		if ids[env.ID] {
			t.Errorf("Duplicate ID generated: %s", env.ID)
		}
		ids[env.ID] = true
	}
}

func TestEnvelope_TimestampSet(t *testing.T) {
	before := time.Now()
	env := envelope.New(nil).Build()
	after := time.Now()

	if env.Timestamp.Before(before) || env.Timestamp.After(after) {
		t.Errorf("Timestamp = %v, should be between %v and %v", env.Timestamp, before, after)
	}
}
