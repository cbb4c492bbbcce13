// Package contract defines the record shapes that travel inside envelope
// payloads and the codec that reads and writes them.
//
// Records are protobuf well-known types packed into anypb.Any, so any
// component can carry them without generated code:
//
//   - tuple: structpb.Struct with string fields "first" and "second"
//   - generic_text: wrapperspb.StringValue
//
// Port declarations name a contract so the network can type-check
// connections before any envelope flows.
package contract

import (
	"fmt"
	"slices"

	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Contract names.
const (
	Tuple       = "tuple"
	GenericText = "generic_text"
)

const (
	fieldFirst  = "first"
	fieldSecond = "second"
)

var known = []string{GenericText, Tuple}

// Known reports whether name is a registered contract.
func Known(name string) bool {
	return slices.Contains(known, name)
}

// Names returns the registered contract names in sorted order.
func Names() []string {
	return slices.Clone(known)
}

// TupleRecord is a decoded tuple payload.
type TupleRecord struct {
	First  string
	Second string
}

// NewTuple packs first and second into a tuple payload.
func NewTuple(first, second string) (*anypb.Any, error) {
	record := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldFirst:  structpb.NewStringValue(first),
			fieldSecond: structpb.NewStringValue(second),
		},
	}
	return anypb.New(record)
}

// DecodeTuple unpacks a tuple payload. Both fields must be present and hold
// strings; anything else fails with ErrDecode.
func DecodeTuple(payload *anypb.Any) (TupleRecord, error) {
	if payload == nil {
		return TupleRecord{}, fmt.Errorf("%w: %s: missing payload", ErrDecode, Tuple)
	}

	var record structpb.Struct
	if err := payload.UnmarshalTo(&record); err != nil {
		return TupleRecord{}, fmt.Errorf("%w: %s: %v", ErrDecode, Tuple, err)
	}

	first, err := stringField(&record, fieldFirst)
	if err != nil {
		return TupleRecord{}, err
	}
	second, err := stringField(&record, fieldSecond)
	if err != nil {
		return TupleRecord{}, err
	}

	return TupleRecord{First: first, Second: second}, nil
}

// NewText packs text into a generic_text payload.
func NewText(text string) (*anypb.Any, error) {
	return anypb.New(wrapperspb.String(text))
}

// DecodeText unpacks a generic_text payload.
func DecodeText(payload *anypb.Any) (string, error) {
	if payload == nil {
		return "", fmt.Errorf("%w: %s: missing payload", ErrDecode, GenericText)
	}

	var record wrapperspb.StringValue
	if err := payload.UnmarshalTo(&record); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecode, GenericText, err)
	}
	return record.GetValue(), nil
}

func stringField(record *structpb.Struct, name string) (string, error) {
	value, ok := record.GetFields()[name]
	if !ok {
		return "", fmt.Errorf("%w: %s: field %q missing", ErrDecode, Tuple, name)
	}

	str, ok := value.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %s: field %q is not a string", ErrDecode, Tuple, name)
	}
	return str.StringValue, nil
}
