package scene

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Element Variants
// =============================================================================

// Element type discriminators.
const (
	TypeRect    = "rect"
	TypeEllipse = "ellipse"
	TypeLine    = "line"
	TypePath    = "path"
	TypeText    = "text"
	TypeImage   = "image"
	TypeIcon    = "icon"
	TypeGroup   = "group"
)

// KnownTypes is the set of valid element type discriminators.
var KnownTypes = map[string]bool{
	TypeRect:    true,
	TypeEllipse: true,
	TypeLine:    true,
	TypePath:    true,
	TypeText:    true,
	TypeImage:   true,
	TypeIcon:    true,
	TypeGroup:   true,
}

// Element is one drawable primitive or group node. The Type field selects
// the variant; only that variant's geometry fields are meaningful. Geometry
// and content fields are pointers so that presence can be distinguished from
// zero — required-field validation and shallow-merge updates both depend on
// that distinction.
//
// Identity is not stored on the element; it is the key under which the
// element lives in [Document.Elements].
type Element struct {
	Type string `json:"type"`

	// rect / image / icon / text position, rect and image extent
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`

	// ellipse center and radii; RX doubles as the rect corner radius
	CX *float64 `json:"cx,omitempty"`
	CY *float64 `json:"cy,omitempty"`
	RX *float64 `json:"rx,omitempty"`
	RY *float64 `json:"ry,omitempty"`

	// line
	X1 *float64 `json:"x1,omitempty"`
	Y1 *float64 `json:"y1,omitempty"`
	X2 *float64 `json:"x2,omitempty"`
	Y2 *float64 `json:"y2,omitempty"`

	// path
	D *string `json:"d,omitempty"`

	// text
	Content    *string  `json:"content,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`
	FontWeight *string  `json:"fontWeight,omitempty"`
	TextAnchor *string  `json:"textAnchor,omitempty"`

	// image
	Href *string `json:"href,omitempty"`

	// icon
	Name *string  `json:"name,omitempty"`
	Size *float64 `json:"size,omitempty"`

	// group: child element ids by reference, in draw order
	Children []string `json:"children,omitempty"`

	// shared optional paint and effects
	Fill        *Paint   `json:"fill,omitempty"`
	Stroke      *string  `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
	Rotation    *float64 `json:"rotation,omitempty"`
	Shadow      *Shadow  `json:"shadow,omitempty"`
	Blur        *float64 `json:"blur,omitempty"`
	Glow        *Glow    `json:"glow,omitempty"`
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	out := e
	out.X = clonePtr(e.X)
	out.Y = clonePtr(e.Y)
	out.Width = clonePtr(e.Width)
	out.Height = clonePtr(e.Height)
	out.CX = clonePtr(e.CX)
	out.CY = clonePtr(e.CY)
	out.RX = clonePtr(e.RX)
	out.RY = clonePtr(e.RY)
	out.X1 = clonePtr(e.X1)
	out.Y1 = clonePtr(e.Y1)
	out.X2 = clonePtr(e.X2)
	out.Y2 = clonePtr(e.Y2)
	out.D = clonePtr(e.D)
	out.Content = clonePtr(e.Content)
	out.FontSize = clonePtr(e.FontSize)
	out.FontFamily = clonePtr(e.FontFamily)
	out.FontWeight = clonePtr(e.FontWeight)
	out.TextAnchor = clonePtr(e.TextAnchor)
	out.Href = clonePtr(e.Href)
	out.Name = clonePtr(e.Name)
	out.Size = clonePtr(e.Size)
	out.Stroke = clonePtr(e.Stroke)
	out.StrokeWidth = clonePtr(e.StrokeWidth)
	out.Opacity = clonePtr(e.Opacity)
	out.Rotation = clonePtr(e.Rotation)
	out.Blur = clonePtr(e.Blur)
	if e.Children != nil {
		out.Children = append([]string(nil), e.Children...)
	}
	if e.Fill != nil {
		f := e.Fill.Clone()
		out.Fill = &f
	}
	if e.Shadow != nil {
		s := *e.Shadow
		out.Shadow = &s
	}
	if e.Glow != nil {
		g := *e.Glow
		out.Glow = &g
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// =============================================================================
// Required-Field Schema
// =============================================================================

// variantSchema maps each element type to its required fields. A field is
// required if the variant cannot be drawn at all without it; everything else
// is optional and defaulted by the renderer.
var variantSchema = map[string][]fieldReq{
	TypeRect: {
		{"x", func(e *Element) bool { return e.X != nil }},
		{"y", func(e *Element) bool { return e.Y != nil }},
		{"width", func(e *Element) bool { return e.Width != nil }},
		{"height", func(e *Element) bool { return e.Height != nil }},
	},
	TypeEllipse: {
		{"cx", func(e *Element) bool { return e.CX != nil }},
		{"cy", func(e *Element) bool { return e.CY != nil }},
		{"rx", func(e *Element) bool { return e.RX != nil }},
		{"ry", func(e *Element) bool { return e.RY != nil }},
	},
	TypeLine: {
		{"x1", func(e *Element) bool { return e.X1 != nil }},
		{"y1", func(e *Element) bool { return e.Y1 != nil }},
		{"x2", func(e *Element) bool { return e.X2 != nil }},
		{"y2", func(e *Element) bool { return e.Y2 != nil }},
	},
	TypePath: {
		{"d", func(e *Element) bool { return e.D != nil }},
	},
	TypeText: {
		{"x", func(e *Element) bool { return e.X != nil }},
		{"y", func(e *Element) bool { return e.Y != nil }},
		{"content", func(e *Element) bool { return e.Content != nil }},
	},
	TypeImage: {
		{"href", func(e *Element) bool { return e.Href != nil }},
		{"x", func(e *Element) bool { return e.X != nil }},
		{"y", func(e *Element) bool { return e.Y != nil }},
		{"width", func(e *Element) bool { return e.Width != nil }},
		{"height", func(e *Element) bool { return e.Height != nil }},
	},
	TypeIcon: {
		{"name", func(e *Element) bool { return e.Name != nil }},
		{"x", func(e *Element) bool { return e.X != nil }},
		{"y", func(e *Element) bool { return e.Y != nil }},
		{"size", func(e *Element) bool { return e.Size != nil }},
	},
	TypeGroup: {
		{"children", func(e *Element) bool { return e.Children != nil }},
	},
}

type fieldReq struct {
	name    string
	present func(*Element) bool
}

// MissingFields returns the names of required fields absent from e, per the
// schema for e.Type. An unknown type returns no missing fields; callers
// should check [KnownTypes] first.
func (e *Element) MissingFields() []string {
	var missing []string
	for _, req := range variantSchema[e.Type] {
		if !req.present(e) {
			missing = append(missing, req.name)
		}
	}
	return missing
}

// CheckSchema verifies the element's type is known and all required fields
// are present.
func (e *Element) CheckSchema() error {
	if !KnownTypes[e.Type] {
		return fmt.Errorf("unknown element type %q", e.Type)
	}
	if missing := e.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%s element missing required fields: %v", e.Type, missing)
	}
	return nil
}

// =============================================================================
// Paint - Solid Color or Gradient
// =============================================================================

// Gradient kinds.
const (
	GradientLinear = "linear"
	GradientRadial = "radial"
)

// Paint is a fill value: either a solid color string (hex or any CSS color)
// or a gradient descriptor. On the wire it is either a JSON string or a
// gradient object — never both.
type Paint struct {
	Color    string    `json:"-"`
	Gradient *Gradient `json:"-"`
}

// SolidPaint returns a solid color paint.
func SolidPaint(color string) Paint { return Paint{Color: color} }

// IsGradient reports whether the paint is a gradient.
func (p Paint) IsGradient() bool { return p.Gradient != nil }

// Clone returns a deep copy of the paint.
func (p Paint) Clone() Paint {
	out := p
	if p.Gradient != nil {
		g := *p.Gradient
		g.Stops = append([]GradientStop(nil), p.Gradient.Stops...)
		out.Gradient = &g
	}
	return out
}

// MarshalJSON emits a plain string for solid colors and an object for
// gradients.
func (p Paint) MarshalJSON() ([]byte, error) {
	if p.Gradient != nil {
		return json.Marshal(p.Gradient)
	}
	return json.Marshal(p.Color)
}

// UnmarshalJSON accepts either form.
func (p *Paint) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		p.Gradient = nil
		return json.Unmarshal(data, &p.Color)
	}
	var g Gradient
	if err := json.Unmarshal(data, &g); err != nil {
		return err
	}
	p.Color = ""
	p.Gradient = &g
	return nil
}

// Gradient describes a linear or radial gradient.
type Gradient struct {
	Kind  string         `json:"kind"`
	Angle float64        `json:"angle,omitempty"` // linear only, degrees from vertical
	Stops []GradientStop `json:"stops"`
}

// GradientStop is one color stop. Offset is in [0, 1].
type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// =============================================================================
// Effects
// =============================================================================

// Shadow is a drop shadow effect.
type Shadow struct {
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	Blur  float64 `json:"blur"`
	Color string  `json:"color"`
}

// Glow is an outer glow effect.
type Glow struct {
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}
