package svg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/inkwell-studio/inkwell/pkg/scene"
)

// writeElement emits one element in z-order. Unknown types and elements
// whose required geometry has gone missing (updates are not re-validated)
// degrade to a comment node; the scene as a whole always renders.
func writeElement(buf *bytes.Buffer, doc *scene.Document, id string, el scene.Element, d *defs) {
	writeElementRec(buf, doc, id, el, d, map[string]bool{})
}

func writeElementRec(buf *bytes.Buffer, doc *scene.Document, id string, el scene.Element, d *defs, visiting map[string]bool) {
	if !scene.KnownTypes[el.Type] {
		fmt.Fprintf(buf, "<!-- element %q has unknown type %q -->\n", escape(id), escape(el.Type))
		return
	}
	if missing := el.MissingFields(); len(missing) > 0 {
		fmt.Fprintf(buf, "<!-- element %q missing %s -->\n", escape(id), strings.Join(missing, ","))
		return
	}

	switch el.Type {
	case scene.TypeRect:
		writeRect(buf, id, el, d)
	case scene.TypeEllipse:
		writeEllipse(buf, id, el, d)
	case scene.TypeLine:
		writeLine(buf, id, el, d)
	case scene.TypePath:
		writePath(buf, id, el, d)
	case scene.TypeText:
		writeText(buf, id, el, d)
	case scene.TypeImage:
		writeImage(buf, id, el, d)
	case scene.TypeIcon:
		writeIcon(buf, id, el, d)
	case scene.TypeGroup:
		writeGroup(buf, doc, id, el, d, visiting)
	}
}

// =============================================================================
// Primitives
// =============================================================================

func writeRect(buf *bytes.Buffer, id string, el scene.Element, d *defs) {
	attrs := fmt.Sprintf(`x="%s" y="%s" width="%s" height="%s"`,
		ftoa(*el.X), ftoa(*el.Y), ftoa(*el.Width), ftoa(*el.Height))
	if el.RX != nil {
		attrs += fmt.Sprintf(` rx="%s"`, ftoa(*el.RX))
	}
	fmt.Fprintf(buf, "<rect %s%s/>\n", attrs, commonAttrs(id, el, d))
}

func writeEllipse(buf *bytes.Buffer, id string, el scene.Element, d *defs) {
	fmt.Fprintf(buf, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s/>`+"\n",
		ftoa(*el.CX), ftoa(*el.CY), ftoa(*el.RX), ftoa(*el.RY), commonAttrs(id, el, d))
}

func writeLine(buf *bytes.Buffer, id string, el scene.Element, d *defs) {
	fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
		ftoa(*el.X1), ftoa(*el.Y1), ftoa(*el.X2), ftoa(*el.Y2), commonAttrs(id, el, d))
}

func writePath(buf *bytes.Buffer, id string, el scene.Element, d *defs) {
	fmt.Fprintf(buf, `<path d="%s"%s/>`+"\n", escape(*el.D), commonAttrs(id, el, d))
}

func writeText(buf *bytes.Buffer, id string, el scene.Element, d *defs) {
	size := 16.0
	if el.FontSize != nil {
		size = *el.FontSize
	}
	family := "sans-serif"
	if el.FontFamily != nil {
		family = *el.FontFamily
	}
	attrs := fmt.Sprintf(`x="%s" y="%s" font-size="%s" font-family="%s"`,
		ftoa(*el.X), ftoa(*el.Y), ftoa(size), escape(family))
	if el.FontWeight != nil {
		attrs += fmt.Sprintf(` font-weight="%s"`, escape(*el.FontWeight))
	}
	if el.TextAnchor != nil {
		attrs += fmt.Sprintf(` text-anchor="%s"`, escape(*el.TextAnchor))
	}
	fmt.Fprintf(buf, "<text %s%s>%s</text>\n", attrs, commonAttrs(id, el, d), escape(*el.Content))
}

func writeImage(buf *bytes.Buffer, id string, el scene.Element, d *defs) {
	fmt.Fprintf(buf, `<image href="%s" x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
		escape(*el.Href), ftoa(*el.X), ftoa(*el.Y), ftoa(*el.Width), ftoa(*el.Height),
		commonAttrs(id, el, d))
}

func writeGroup(buf *bytes.Buffer, doc *scene.Document, id string, el scene.Element, d *defs, visiting map[string]bool) {
	if visiting[id] {
		fmt.Fprintf(buf, "<!-- group %q is part of a reference cycle -->\n", escape(id))
		return
	}
	visiting[id] = true
	defer delete(visiting, id)

	fmt.Fprintf(buf, "<g%s>\n", groupAttrs(id, el, d))
	for _, childID := range el.Children {
		child, ok := doc.Elements[childID]
		if !ok {
			// Children are references; unresolved ones render nothing.
			continue
		}
		writeElementRec(buf, doc, childID, child, d, visiting)
	}
	buf.WriteString("</g>\n")
}

// =============================================================================
// Shared Attributes
// =============================================================================

// commonAttrs resolves the shared optional attribute set: fill, stroke,
// opacity, effects and rotation. The returned string starts with a space
// when non-empty.
func commonAttrs(id string, el scene.Element, d *defs) string {
	var b strings.Builder
	if el.Fill != nil {
		fmt.Fprintf(&b, ` fill="%s"`, escape(paintRef(*el.Fill, id, d)))
	}
	if el.Stroke != nil {
		fmt.Fprintf(&b, ` stroke="%s"`, escape(*el.Stroke))
	}
	if el.StrokeWidth != nil {
		fmt.Fprintf(&b, ` stroke-width="%s"`, ftoa(*el.StrokeWidth))
	}
	if el.Opacity != nil {
		fmt.Fprintf(&b, ` opacity="%s"`, ftoa(*el.Opacity))
	}
	if ref, ok := d.filterRef(id); ok {
		fmt.Fprintf(&b, ` filter="%s"`, ref)
	}
	if el.Rotation != nil && *el.Rotation != 0 {
		cx, cy := rotationCenter(el)
		fmt.Fprintf(&b, ` transform="rotate(%s %s %s)"`, ftoa(*el.Rotation), ftoa(cx), ftoa(cy))
	}
	return b.String()
}

// groupAttrs builds the group's transform container plus its shared
// attribute subset. Groups position their children by translation rather
// than per-attribute geometry.
func groupAttrs(id string, el scene.Element, d *defs) string {
	var transforms []string
	if el.X != nil || el.Y != nil {
		transforms = append(transforms, fmt.Sprintf("translate(%s %s)", ftoa(deref(el.X)), ftoa(deref(el.Y))))
	}
	if el.Rotation != nil && *el.Rotation != 0 {
		transforms = append(transforms, fmt.Sprintf("rotate(%s)", ftoa(*el.Rotation)))
	}

	var b strings.Builder
	if len(transforms) > 0 {
		fmt.Fprintf(&b, ` transform="%s"`, strings.Join(transforms, " "))
	}
	if el.Opacity != nil {
		fmt.Fprintf(&b, ` opacity="%s"`, ftoa(*el.Opacity))
	}
	if ref, ok := d.filterRef(id); ok {
		fmt.Fprintf(&b, ` filter="%s"`, ref)
	}
	return b.String()
}

// rotationCenter picks the element's effective center: explicit cx/cy when
// present, else the bounding-box center for rects, else the origin.
func rotationCenter(el scene.Element) (float64, float64) {
	if el.CX != nil && el.CY != nil {
		return *el.CX, *el.CY
	}
	if el.Type == scene.TypeRect && el.X != nil && el.Y != nil && el.Width != nil && el.Height != nil {
		return *el.X + *el.Width/2, *el.Y + *el.Height/2
	}
	return 0, 0
}

// paintRef resolves a paint to a direct color or a synthesized-gradient
// reference. A gradient paint on an element the pre-scan never saw (group
// children, for instance) falls back to its first stop color so the shape
// still renders.
func paintRef(p scene.Paint, id string, d *defs) string {
	if !p.IsGradient() {
		return p.Color
	}
	if ref, ok := d.gradientRef(id); ok {
		return ref
	}
	if len(p.Gradient.Stops) > 0 {
		return p.Gradient.Stops[0].Color
	}
	return "none"
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
