package worker

import "errors"

var (
	// ErrClosed reports a task submitted to a closed worker.
	ErrClosed = errors.New("worker: closed")

	// ErrNoCursor reports a citation insert with no active text cursor.
	// The document is never mutated when this is returned: a citation
	// either lands at the cursor or nowhere.
	ErrNoCursor = errors.New("worker: no text cursor in document")
)
