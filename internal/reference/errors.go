package reference

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a key with no item behind it.
var ErrNotFound = errors.New("reference not found")

// SourceError reports a failed or malformed response from the reference
// source. Op names the failing operation; Key is set for single-item
// fetches.
type SourceError struct {
	Op  string
	Key string
	Err error
}

func (e *SourceError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("reference source: %s %s: %v", e.Op, e.Key, e.Err)
	}

	return fmt.Sprintf("reference source: %s: %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
