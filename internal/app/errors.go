package app

import "errors"

var (
	// ErrQuit signals a normal, user-requested exit from the event loop.
	// Callers should treat it as success.
	ErrQuit = errors.New("quit requested")

	// ErrNoBackend is returned by Run when no backend has been set.
	ErrNoBackend = errors.New("no backend set")
)
