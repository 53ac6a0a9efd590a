package svg

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/inkwell-studio/inkwell/pkg/scene"
)

// defs accumulates deduplicated paint and effect definitions during one
// render pass. Entries are keyed by the owning element's id and recorded in
// scan order, which is z-order, so emission is deterministic.
type defs struct {
	gradientIDs []string
	gradients   map[string]scene.Gradient
	filterIDs   []string
	filters     map[string]filterChain
}

// filterChain is the combined shadow → blur → glow effect stack for one
// element. Effects compose in that fixed order, each stage consuming the
// prior stage's output, so a single filter region covers all of them.
type filterChain struct {
	shadow *scene.Shadow
	blur   *float64
	glow   *scene.Glow
}

func newDefs() *defs {
	return &defs{
		gradients: map[string]scene.Gradient{},
		filters:   map[string]filterChain{},
	}
}

// scan inspects one top-level element and synthesizes its definitions.
// Group children are not scanned; their paints resolve at emission time.
func (d *defs) scan(id string, el scene.Element) {
	if el.Fill != nil && el.Fill.IsGradient() {
		d.addGradient(id, *el.Fill.Gradient)
	}
	if el.Shadow != nil || el.Blur != nil || el.Glow != nil {
		d.filterIDs = append(d.filterIDs, id)
		d.filters[id] = filterChain{shadow: el.Shadow, blur: el.Blur, glow: el.Glow}
	}
}

func (d *defs) addGradient(id string, g scene.Gradient) {
	if _, ok := d.gradients[id]; ok {
		return
	}
	d.gradientIDs = append(d.gradientIDs, id)
	d.gradients[id] = g
}

// gradientRef returns the url(#...) reference for the element's gradient,
// or false if none was synthesized for it.
func (d *defs) gradientRef(id string) (string, bool) {
	if _, ok := d.gradients[id]; !ok {
		return "", false
	}
	return "url(#grad-" + id + ")", true
}

// filterRef returns the url(#...) reference for the element's filter chain,
// or false if it has no effects.
func (d *defs) filterRef(id string) (string, bool) {
	if _, ok := d.filters[id]; !ok {
		return "", false
	}
	return "url(#fx-" + id + ")", true
}

func (d *defs) write(buf *bytes.Buffer) {
	if len(d.gradientIDs) == 0 && len(d.filterIDs) == 0 {
		return
	}
	buf.WriteString("<defs>\n")
	for _, id := range d.gradientIDs {
		writeGradient(buf, id, d.gradients[id])
	}
	for _, id := range d.filterIDs {
		writeFilter(buf, id, d.filters[id])
	}
	buf.WriteString("</defs>\n")
}

// =============================================================================
// Gradients
// =============================================================================

func writeGradient(buf *bytes.Buffer, id string, g scene.Gradient) {
	switch g.Kind {
	case scene.GradientRadial:
		fmt.Fprintf(buf, `<radialGradient id="grad-%s" cx="0.5" cy="0.5" r="0.5">`+"\n", escape(id))
		writeStops(buf, g.Stops)
		buf.WriteString("</radialGradient>\n")
	default:
		x1, y1, x2, y2 := gradientEndpoints(g.Angle)
		fmt.Fprintf(buf, `<linearGradient id="grad-%s" x1="%s" y1="%s" x2="%s" y2="%s">`+"\n",
			escape(id), ftoa(x1), ftoa(y1), ftoa(x2), ftoa(y2))
		writeStops(buf, g.Stops)
		buf.WriteString("</linearGradient>\n")
	}
}

func writeStops(buf *bytes.Buffer, stops []scene.GradientStop) {
	for _, s := range stops {
		fmt.Fprintf(buf, `<stop offset="%s" stop-color="%s"/>`+"\n", ftoa(s.Offset), escape(s.Color))
	}
}

// gradientEndpoints converts a gradient angle to unit-square endpoints.
// The angle is measured in degrees from vertical in screen coordinates:
// 0 points up, 90 points right, 180 points down. The mapping is a fixed
// trigonometric function of the angle so identical inputs produce identical
// endpoint coordinates to floating-point precision.
func gradientEndpoints(angle float64) (x1, y1, x2, y2 float64) {
	rad := angle * math.Pi / 180
	x2 = 0.5 + 0.5*math.Sin(rad)
	y2 = 0.5 - 0.5*math.Cos(rad)
	x1 = 1 - x2
	y1 = 1 - y2
	return
}

// =============================================================================
// Filter Chains
// =============================================================================

// writeFilter emits one combined filter for the element's effect stack.
// A running layer reference threads through the stages in the fixed order
// shadow → blur → glow; each stage reads the previous stage's result. This
// is one filter with one region, not three separate filters, so cumulative
// effects (a blurred glowing shadowed shape) compose correctly.
func writeFilter(buf *bytes.Buffer, id string, fc filterChain) {
	fmt.Fprintf(buf, `<filter id="fx-%s" x="-50%%" y="-50%%" width="200%%" height="200%%">`+"\n", escape(id))

	layer := "SourceGraphic"
	if fc.shadow != nil {
		fmt.Fprintf(buf, `<feDropShadow in="%s" dx="%s" dy="%s" stdDeviation="%s" flood-color="%s" result="shadowed"/>`+"\n",
			layer, ftoa(fc.shadow.DX), ftoa(fc.shadow.DY), ftoa(fc.shadow.Blur), escape(fc.shadow.Color))
		layer = "shadowed"
	}
	if fc.blur != nil {
		fmt.Fprintf(buf, `<feGaussianBlur in="%s" stdDeviation="%s" result="blurred"/>`+"\n",
			layer, ftoa(*fc.blur))
		layer = "blurred"
	}
	if fc.glow != nil {
		// Glow is a zero-offset drop shadow, which keeps the source layer
		// on top of the halo.
		fmt.Fprintf(buf, `<feDropShadow in="%s" dx="0" dy="0" stdDeviation="%s" flood-color="%s" result="glowed"/>`+"\n",
			layer, ftoa(fc.glow.Radius), escape(fc.glow.Color))
	}

	buf.WriteString("</filter>\n")
}

// =============================================================================
// Formatting Helpers
// =============================================================================

// ftoa formats a float with the shortest representation that round-trips.
// One fixed routine everywhere keeps output byte-reproducible.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// escape sanitizes attribute and text content.
func escape(s string) string {
	return escaper.Replace(s)
}
