// Package anchor locates and designates the bibliography placeholder shape.
//
// The placeholder carries a GUID in two redundant places: a key-value tag
// and an alt-text marker. Tags survive normal editing; the alt-text marker
// survives export paths that strip tags. Discovery checks both.
package anchor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"citedeck/internal/host"
	"citedeck/internal/logging"
)

const (
	// TagKey is the shape tag carrying the anchor GUID.
	TagKey = "ZP_BIB_GUID"

	// AltPrefix marks the anchor GUID inside a shape's alt text.
	AltPrefix = "ZP_BIB_GUID="
)

// ErrNoShapeSelected reports a designation attempt with nothing selected.
var ErrNoShapeSelected = errors.New("anchor: no shape selected")

// Anchor is the result of a placeholder lookup.
type Anchor struct {
	Shape host.ShapeRef
	GUID  string
	Found bool
}

// Find scans the document in document order and returns the first shape
// carrying an anchor marker. No document and no marked shape are both
// ordinary outcomes, not errors: both return Found false with a nil error.
//
// The scan is deterministic: the same document always yields the same
// shape, so repeated lookups agree.
func Find(sess host.Session, logger *zap.Logger) (Anchor, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	open, err := sess.DocumentOpen()
	if err != nil {
		return Anchor{}, fmt.Errorf("anchor: check document: %w", err)
	}

	if !open {
		logger.Debug("anchor lookup skipped, no document open")

		return Anchor{}, nil
	}

	shapes, err := sess.Shapes()
	if err != nil {
		return Anchor{}, fmt.Errorf("anchor: list shapes: %w", err)
	}

	for _, s := range shapes {
		guid, err := sess.Tag(s.Ref, TagKey)
		if err != nil {
			return Anchor{}, fmt.Errorf("anchor: read tag: %w", err)
		}

		if guid == "" {
			guid = guidFromAltText(s.AltText)
		}

		if guid != "" {
			logger.Debug("anchor found",
				zap.Int("slide", s.Ref.Slide),
				zap.Int("shape", s.Ref.Shape))

			return Anchor{Shape: s.Ref, GUID: guid, Found: true}, nil
		}
	}

	logger.Debug("no anchor in document", zap.Int("shapes_scanned", len(shapes)))

	return Anchor{}, nil
}

// Set designates the currently selected shape as the bibliography anchor,
// minting a fresh GUID and writing both the tag and the alt-text marker.
// Designation is an explicit user action, so a missing document or missing
// selection is an error here, unlike Find.
func Set(sess host.Session, logger *zap.Logger) (Anchor, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	open, err := sess.DocumentOpen()
	if err != nil {
		return Anchor{}, fmt.Errorf("anchor: check document: %w", err)
	}

	if !open {
		return Anchor{}, host.ErrNoDocument
	}

	sel, err := sess.ActiveSelection()
	if err != nil {
		return Anchor{}, fmt.Errorf("anchor: read selection: %w", err)
	}

	if !sel.HasShape || sel.Shape.IsZero() {
		return Anchor{}, ErrNoShapeSelected
	}

	guid := uuid.NewString()

	if err := sess.SetTag(sel.Shape, TagKey, guid); err != nil {
		return Anchor{}, fmt.Errorf("anchor: write tag: %w", err)
	}

	if err := sess.SetAltText(sel.Shape, AltPrefix+guid); err != nil {
		return Anchor{}, fmt.Errorf("anchor: write alt text: %w", err)
	}

	logger.Info("anchor designated",
		zap.Int("slide", sel.Shape.Slide),
		zap.Int("shape", sel.Shape.Shape))

	return Anchor{Shape: sel.Shape, GUID: guid, Found: true}, nil
}

func guidFromAltText(alt string) string {
	if !strings.HasPrefix(alt, AltPrefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(alt, AltPrefix))
}
