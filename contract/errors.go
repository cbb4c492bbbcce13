package contract

import "errors"

// ErrDecode is returned when a payload does not match the expected record
// shape or one of its fields cannot be read.
var ErrDecode = errors.New("decode failed")
