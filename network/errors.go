package network

import "errors"

var (
	ErrComponentExists   = errors.New("component already added")
	ErrComponentNotFound = errors.New("component not found")
	ErrNotResettable     = errors.New("component cannot be reset")
	ErrAlreadyStarted    = errors.New("network already started")
	ErrStopped           = errors.New("network stopped")
	ErrUnknownContract   = errors.New("unknown contract")
	ErrHandlerPanic      = errors.New("handler panicked")
)
