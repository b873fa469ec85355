// Package host defines the automation boundary to the slide application.
//
// A Session is thread-affine: the application's automation interface binds
// to the OS thread that initialized it, so every method, including
// Initialize and Close, must run on the goroutine that owns the session.
// The worker package enforces this by locking its goroutine to one thread
// and funnelling all session calls through it.
package host

// ShapeRef identifies a shape by slide and shape index, both 1-based, in
// document order. Document order is stable between calls as long as the
// document is not edited.
type ShapeRef struct {
	Slide int
	Shape int
}

// IsZero reports whether the ref points at no shape.
func (r ShapeRef) IsZero() bool {
	return r.Slide == 0 && r.Shape == 0
}

// Shape is a snapshot of one shape's automation-visible state.
type Shape struct {
	Ref     ShapeRef
	HasText bool
	AltText string
}

// Selection describes the active selection at one point in time. A text
// cursor implies a shape; a shape selection without a cursor has HasShape
// set and HasTextCursor clear.
type Selection struct {
	HasTextCursor bool
	HasShape      bool
	Shape         ShapeRef
}

// Session is a live connection to the slide application.
type Session interface {
	// Initialize binds the session to the calling thread. Must be called
	// before any other method.
	Initialize() error

	// Close releases the session. Must be called on the initializing
	// goroutine, exactly once per successful Initialize.
	Close() error

	// DocumentOpen reports whether a document is open. A closed document
	// is an observable state, not an error.
	DocumentOpen() (bool, error)

	// ActiveSelection returns the current selection.
	ActiveSelection() (Selection, error)

	// Shapes lists every shape in the document in document order.
	Shapes() ([]Shape, error)

	ShapeText(ref ShapeRef) (string, error)
	SetShapeText(ref ShapeRef, text string) error

	// InsertAtCursor inserts text at the active text cursor.
	InsertAtCursor(text string) error

	// Tag returns the value of a key-value tag on a shape, or "" when the
	// tag is absent.
	Tag(ref ShapeRef, key string) (string, error)
	SetTag(ref ShapeRef, key, value string) error

	SetAltText(ref ShapeRef, text string) error
}
