package server

import "errors"

// ErrAlreadyStarted is returned by Start when the server is already listening.
var ErrAlreadyStarted = errors.New("server already started")

// Error codes used in JSON error bodies.
const (
	ErrCodeNotFound = "not_found"
	ErrCodeInternal = "internal_error"
)

// Error messages used in JSON error bodies.
const (
	MsgItemNotFound  = "Item not found"
	MsgRouteNotFound = "Route not found"
)
