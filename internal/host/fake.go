package host

import "sync"

// Fake is an in-memory Session. It backs the test suites and the default
// binding of the CLI on platforms without a live slide application.
//
// Arrangement methods (Open, AddShape, PlaceCursor, ...) may be called from
// any goroutine; a mutex guards all state so tests can arrange and assert
// while a worker drives the session.
type Fake struct {
	mu sync.Mutex

	initialized bool
	closed      bool

	docOpen   bool
	selection Selection
	shapes    []*fakeShape

	// InitErr, when set, is returned by Initialize.
	InitErr error

	initCount  int
	closeCount int
	inserted   []string
}

type fakeShape struct {
	ref     ShapeRef
	text    string
	altText string
	tags    map[string]string
}

// NewFake returns a Fake with no document open.
func NewFake() *Fake {
	return &Fake{}
}

// Initialize implements Session.
func (f *Fake) Initialize() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.InitErr != nil {
		return f.InitErr
	}

	f.initialized = true
	f.initCount++

	return nil
}

// Close implements Session.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.initialized {
		return ErrNotInitialized
	}

	if f.closed {
		return ErrSessionClosed
	}

	f.closed = true
	f.closeCount++

	return nil
}

func (f *Fake) live() error {
	if !f.initialized {
		return ErrNotInitialized
	}

	if f.closed {
		return ErrSessionClosed
	}

	return nil
}

// DocumentOpen implements Session.
func (f *Fake) DocumentOpen() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.live(); err != nil {
		return false, err
	}

	return f.docOpen, nil
}

// ActiveSelection implements Session.
func (f *Fake) ActiveSelection() (Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.live(); err != nil {
		return Selection{}, err
	}

	if !f.docOpen {
		return Selection{}, ErrNoDocument
	}

	return f.selection, nil
}

// Shapes implements Session.
func (f *Fake) Shapes() ([]Shape, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.live(); err != nil {
		return nil, err
	}

	if !f.docOpen {
		return nil, ErrNoDocument
	}

	out := make([]Shape, 0, len(f.shapes))

	for _, s := range f.shapes {
		out = append(out, Shape{Ref: s.ref, HasText: s.text != "", AltText: s.altText})
	}

	return out, nil
}

func (f *Fake) shapeByRef(ref ShapeRef) (*fakeShape, error) {
	if err := f.live(); err != nil {
		return nil, err
	}

	if !f.docOpen {
		return nil, ErrNoDocument
	}

	for _, s := range f.shapes {
		if s.ref == ref {
			return s, nil
		}
	}

	return nil, ErrNoSuchShape
}

// ShapeText implements Session.
func (f *Fake) ShapeText(ref ShapeRef) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.shapeByRef(ref)
	if err != nil {
		return "", err
	}

	return s.text, nil
}

// SetShapeText implements Session.
func (f *Fake) SetShapeText(ref ShapeRef, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.shapeByRef(ref)
	if err != nil {
		return err
	}

	s.text = text

	return nil
}

// InsertAtCursor implements Session.
func (f *Fake) InsertAtCursor(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.live(); err != nil {
		return err
	}

	if !f.docOpen {
		return ErrNoDocument
	}

	if !f.selection.HasTextCursor {
		return ErrNoSuchShape
	}

	s, err := f.shapeByRef(f.selection.Shape)
	if err != nil {
		return err
	}

	s.text += text
	f.inserted = append(f.inserted, text)

	return nil
}

// Tag implements Session.
func (f *Fake) Tag(ref ShapeRef, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.shapeByRef(ref)
	if err != nil {
		return "", err
	}

	return s.tags[key], nil
}

// SetTag implements Session.
func (f *Fake) SetTag(ref ShapeRef, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.shapeByRef(ref)
	if err != nil {
		return err
	}

	if s.tags == nil {
		s.tags = make(map[string]string)
	}

	s.tags[key] = value

	return nil
}

// SetAltText implements Session.
func (f *Fake) SetAltText(ref ShapeRef, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.shapeByRef(ref)
	if err != nil {
		return err
	}

	s.altText = text

	return nil
}

// Open opens an empty document.
func (f *Fake) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.docOpen = true
}

// CloseDocument closes the document without closing the session.
func (f *Fake) CloseDocument() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.docOpen = false
	f.selection = Selection{}
	f.shapes = nil
}

// AddShape appends a shape to a slide and returns its ref.
func (f *Fake) AddShape(slide int, text string) ShapeRef {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0

	for _, s := range f.shapes {
		if s.ref.Slide == slide {
			n++
		}
	}

	ref := ShapeRef{Slide: slide, Shape: n + 1}
	f.shapes = append(f.shapes, &fakeShape{ref: ref, text: text})

	return ref
}

// PlaceCursor puts a text cursor inside the given shape.
func (f *Fake) PlaceCursor(ref ShapeRef) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.selection = Selection{HasTextCursor: true, HasShape: true, Shape: ref}
}

// SelectShape selects a shape without a text cursor.
func (f *Fake) SelectShape(ref ShapeRef) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.selection = Selection{HasShape: true, Shape: ref}
}

// ClearSelection removes any selection.
func (f *Fake) ClearSelection() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.selection = Selection{}
}

// TextOf returns a shape's current text, for assertions.
func (f *Fake) TextOf(ref ShapeRef) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.shapes {
		if s.ref == ref {
			return s.text
		}
	}

	return ""
}

// Inserted returns every string passed to InsertAtCursor, in order.
func (f *Fake) Inserted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.inserted))
	copy(out, f.inserted)

	return out
}

// InitCount returns how many times Initialize succeeded.
func (f *Fake) InitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.initCount
}

// CloseCount returns how many times Close succeeded.
func (f *Fake) CloseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closeCount
}
