package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
)

// ReservedCanvasID is the id that addresses the canvas in update patches.
// It can never be used as an element id.
const ReservedCanvasID = "canvas"

// IsReservedID reports whether id is reserved for the canvas.
func IsReservedID(id string) bool { return id == ReservedCanvasID }

// =============================================================================
// Canvas
// =============================================================================

// Canvas holds the drawing surface dimensions and background paint.
// It is owned exclusively by the document and mutated only via an update
// patch targeting [ReservedCanvasID].
type Canvas struct {
	Width      int   `json:"width"`
	Height     int   `json:"height"`
	Background Paint `json:"background"`
}

// Validate checks the canvas dimensions.
func (c Canvas) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// =============================================================================
// Document
// =============================================================================

// Document is the full scene graph: canvas plus element mapping plus
// z-order (back to front). Documents are values; the patch engine clones
// before mutating, so a caller's document is never changed in place.
type Document struct {
	Canvas   Canvas             `json:"canvas"`
	Elements map[string]Element `json:"elements"`
	Order    []string           `json:"order"`
}

// New creates an empty document with the given canvas. background may be
// empty, in which case white is used.
func New(width, height int, background string) *Document {
	if background == "" {
		background = "#ffffff"
	}
	return &Document{
		Canvas:   Canvas{Width: width, Height: height, Background: SolidPaint(background)},
		Elements: map[string]Element{},
		Order:    []string{},
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Canvas:   d.Canvas,
		Elements: make(map[string]Element, len(d.Elements)),
		Order:    append([]string(nil), d.Order...),
	}
	out.Canvas.Background = d.Canvas.Background.Clone()
	for id, el := range d.Elements {
		out.Elements[id] = el.Clone()
	}
	if out.Order == nil {
		out.Order = []string{}
	}
	return out
}

// Equal reports value equality: same canvas, same element mapping, same
// order sequence.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	return reflect.DeepEqual(d.Canvas, o.Canvas) &&
		reflect.DeepEqual(d.Elements, o.Elements) &&
		reflect.DeepEqual(d.Order, o.Order)
}

// Validate checks the structural invariants. It returns the first violation
// found, or nil for a well-formed document.
func (d *Document) Validate() error {
	if err := d.Canvas.Validate(); err != nil {
		return err
	}
	if _, ok := d.Elements[ReservedCanvasID]; ok {
		return fmt.Errorf("reserved id %q used as element key", ReservedCanvasID)
	}
	seen := make(map[string]bool, len(d.Order))
	for _, id := range d.Order {
		if id == "" {
			return fmt.Errorf("empty id in order")
		}
		if seen[id] {
			return fmt.Errorf("duplicate id %q in order", id)
		}
		seen[id] = true
		if _, ok := d.Elements[id]; !ok {
			return fmt.Errorf("order references missing element %q", id)
		}
	}
	for id := range d.Elements {
		if !seen[id] {
			return fmt.Errorf("element %q missing from order", id)
		}
	}
	return nil
}

// =============================================================================
// Wire Format
// =============================================================================

// Marshal encodes the document in the canonical wire format.
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// Read decodes a document from r and validates it.
func Read(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if d.Elements == nil {
		d.Elements = map[string]Element{}
	}
	if d.Order == nil {
		d.Order = []string{}
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return &d, nil
}
