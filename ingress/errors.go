package ingress

import "errors"

var (
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrNoReply     = errors.New("no reply before deadline")
	ErrUnexpected  = errors.New("unexpected reply")
)
