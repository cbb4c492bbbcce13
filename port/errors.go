package port

import "errors"

// Sentinel errors for port operations. ErrClosed and ErrNotConnected are the
// send failures a component may observe on an output port.
var (
	ErrClosed           = errors.New("port closed")
	ErrNotConnected     = errors.New("port not connected")
	ErrAlreadyConnected = errors.New("port already connected")
	ErrContractMismatch = errors.New("contract mismatch")
)
