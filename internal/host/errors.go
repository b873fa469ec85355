package host

import "errors"

var (
	// ErrNotInitialized reports a session method called before Initialize.
	ErrNotInitialized = errors.New("host: session not initialized")

	// ErrSessionClosed reports a session method called after Close.
	ErrSessionClosed = errors.New("host: session closed")

	// ErrNoDocument reports a document operation with no document open.
	ErrNoDocument = errors.New("host: no document open")

	// ErrNoSuchShape reports a shape ref that resolves to nothing.
	ErrNoSuchShape = errors.New("host: no such shape")
)
