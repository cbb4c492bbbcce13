package bucket_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/bucket/bucket"
	"github.com/tailored-agentic-units/bucket/contract"
	"github.com/tailored-agentic-units/bucket/envelope"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		env  *envelope.Envelope
		want bucket.Operation
	}{
		{
			name: "insert",
			env:  tuple(t, "insert", "user:1", "alice"),
			want: bucket.Insert{Key: "user:1", Value: "alice"},
		},
		{
			name: "read keeps second field",
			env:  tuple(t, "read", "user:1", "zzz"),
			want: bucket.Read{Key: "user:1", Value: "zzz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := bucket.Decode(tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, op)
		})
	}
}

func TestDecode_Passthrough(t *testing.T) {
	for _, action := range []string{"", "delete", "Read", "insert "} {
		env := envelope.New(nil).Action(action).Build()

		op, err := bucket.Decode(env)
		require.NoError(t, err)

		pass, ok := op.(bucket.Passthrough)
		require.True(t, ok, "action %q should pass through, got %T", action, op)
		assert.Same(t, env, pass.Envelope)
	}
}

func TestDecode_Errors(t *testing.T) {
	for _, action := range []string{bucket.ActionInsert, bucket.ActionRead} {
		_, err := bucket.Decode(envelope.New(nil).Action(action).Build())
		assert.ErrorIs(t, err, contract.ErrDecode)
	}
}

func TestDecode_Nil(t *testing.T) {
	op, err := bucket.Decode(nil)
	assert.ErrorIs(t, err, envelope.ErrNil)
	assert.Nil(t, op)
}
