package server

import "errors"

var (
	// ErrUnknownClient is logged for datagrams from addresses without a secret.
	// They are never answered.
	ErrUnknownClient = errors.New("unknown client")
	ErrServerClosed  = errors.New("server closed")
	ErrNoListeners   = errors.New("no listeners configured")
)
