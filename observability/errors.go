package observability

import "errors"

var ErrUnknownObserver = errors.New("unknown observer")
