package bucket

import (
	"fmt"

	"github.com/tailored-agentic-units/bucket/contract"
	"github.com/tailored-agentic-units/bucket/envelope"
)

// Action tags understood by the bucket.
const (
	ActionInsert = "insert"
	ActionRead   = "read"
)

// InsertedText is the confirmation carried by every insert response.
const InsertedText = "inserted into bucket!"

// Operation is the decoded intent of one envelope. The set of variants is
// closed: Insert, Read and Passthrough.
type Operation interface {
	operation()
}

type Insert struct {
	Key   string
	Value string
}

// Read looks up Key. Value is decoded from the request but never used.
type Read struct {
	Key   string
	Value string
}

// Passthrough carries an envelope whose action the bucket does not handle.
type Passthrough struct {
	Envelope *envelope.Envelope
}

func (Insert) operation()      {}
func (Read) operation()        {}
func (Passthrough) operation() {}

// Decode classifies env by its action tag. Insert and read payloads must be
// tuple records; any other action is returned as Passthrough without looking
// at the payload.
func Decode(env *envelope.Envelope) (Operation, error) {
	if env == nil {
		return nil, envelope.ErrNil
	}

	switch env.Action {
	case ActionInsert:
		record, err := contract.DecodeTuple(env.Payload)
		if err != nil {
			return nil, fmt.Errorf("insert: %w", err)
		}
		return Insert{Key: record.First, Value: record.Second}, nil

	case ActionRead:
		record, err := contract.DecodeTuple(env.Payload)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return Read{Key: record.First, Value: record.Second}, nil

	default:
		return Passthrough{Envelope: env}, nil
	}
}
