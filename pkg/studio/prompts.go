package studio

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkwell-studio/inkwell/pkg/provider"
	"github.com/inkwell-studio/inkwell/pkg/render/svg"
)

// =============================================================================
// Prompts and tool schemas
// =============================================================================

// elementGuide documents the document model for the model. It is shared by
// every system prompt so the patch vocabulary never drifts between flows.
var elementGuide = fmt.Sprintf(`Scene documents are JSON: a canvas (width, height, background) plus a flat
map of elements and an explicit z-order list (first = bottom).

Element types and their required fields:
  rect:    x, y, width, height (optional rx for corner radius)
  ellipse: cx, cy, rx, ry
  line:    x1, y1, x2, y2
  path:    d (SVG path data)
  text:    x, y, content (optional fontSize, fontFamily, fontWeight, textAnchor)
  image:   href, x, y, width, height
  icon:    name, x, y, size (names: %s)
  group:   children (list of element ids; children are positioned relative
           to the group's x, y)

Common optional fields on every element: fill, stroke, strokeWidth,
opacity (0..1), rotation (degrees), shadow {dx, dy, blur, color},
blur (radius), glow {radius, color}.

Fill and stroke are either a color string ("#ff8800", "none") or a gradient
object {"kind": "linear"|"radial", "angle": degrees, "stops":
[{"offset": 0..1, "color": "#hex"}, ...]}.

Patches:
  {"op": "add", "id": "sun", "element": {...}}
  {"op": "update", "id": "sun", "props": {"fill": "#fc0", "rotation": null}}
      (null removes a property; "canvas" may be updated with width, height,
       background)
  {"op": "remove", "id": "sun"}
  {"op": "reorder", "order": ["bg", "sun", "rays"]}       (full permutation)
  {"op": "reorder", "id": "sun", "after": "bg"}           (relative move)

Each patch is validated independently; a rejected patch does not abort the
rest of the batch. Use short, descriptive, unique ids.`, strings.Join(svg.IconNames(), ", "))

const createSystem = `You are a vector illustrator. Given a description, design a complete scene
document for it. Compose with layered shapes, gradients, and effects rather
than one giant path. Place a background first in z-order. Keep coordinates
inside the canvas.`

const editSystem = `You are a vector illustrator editing an existing scene document. You are
given the current document JSON and a rendering of it. Apply the requested
change as a minimal batch of patches. Do not rebuild elements that the
request leaves untouched. Every submission must carry at least one patch.`

const buildSystem = `You are a vector illustrator reconstructing a raster image as a scene
document. Study the image, then emit one batch of patches that builds the
whole scene from scratch on the empty canvas. Work back to front: background
first, then large shapes, then detail. Use the color samples for exact
values; the image rendering may shift hues. Favor simple shapes over paths
where they fit.`

const critiqueSystem = `You are a meticulous art director comparing a reconstruction against its
target image. The first image is the target, the second is the current
reconstruction. List concrete, fixable differences: wrong colors, missing or
extra shapes, bad positions or proportions. Ignore minor antialiasing and
rasterization noise. If the reconstruction is a faithful match, say it is
done with no issues.`

const fixSystem = `You are a vector illustrator revising a reconstruction. You are given the
target image, the current reconstruction, the current document JSON, and a
list of issues from review. Emit patches that address the issues. Prefer
updating existing elements over removing and re-adding them.`

// Tool input schemas. Kept as raw JSON so the wire shape is visible in one
// place rather than assembled from nested Go maps.
var (
	createDocumentSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "thinking": {"type": "string", "description": "Brief composition plan."},
    "name": {"type": "string", "description": "Short title for the scene."},
    "canvas": {
      "type": "object",
      "properties": {
        "width": {"type": "integer"},
        "height": {"type": "integer"},
        "background": {"type": "string"}
      },
      "required": ["width", "height"]
    },
    "elements": {
      "type": "array",
      "description": "Elements in z-order, bottom first. Each needs a unique id plus its type's fields.",
      "items": {"type": "object"}
    }
  },
  "required": ["name", "canvas", "elements"]
}`)

	submitPatchesSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "thinking": {"type": "string", "description": "Brief reasoning before the patches."},
    "message": {"type": "string", "description": "One-line summary of the change."},
    "patches": {
      "type": "array",
      "minItems": 1,
      "description": "Patch batch, applied in order.",
      "items": {"type": "object"}
    }
  },
  "required": ["message", "patches"]
}`)

	submitCritiqueSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "issues": {
      "type": "array",
      "items": {"type": "string"},
      "description": "Concrete differences between reconstruction and target. Empty when done."
    },
    "done": {"type": "boolean", "description": "True when the reconstruction is a faithful match."}
  },
  "required": ["issues", "done"]
}`)
)

func createDocumentTool() *provider.ToolSpec {
	return &provider.ToolSpec{
		Name:        "create_document",
		Description: "Submit the designed scene document.",
		InputSchema: createDocumentSchema,
	}
}

func submitPatchesTool() *provider.ToolSpec {
	return &provider.ToolSpec{
		Name:        "submit_patches",
		Description: "Submit a batch of patches against the current document.",
		InputSchema: submitPatchesSchema,
	}
}

func submitCritiqueTool() *provider.ToolSpec {
	return &provider.ToolSpec{
		Name:        "submit_critique",
		Description: "Submit the review verdict for the current reconstruction.",
		InputSchema: submitCritiqueSchema,
	}
}
