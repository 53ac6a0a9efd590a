// Package scene defines the vector scene document model.
//
// A [Document] is the unit of persistence and rendering: a canvas plus a
// mapping of elements keyed by id plus a z-order sequence. Documents are
// values — all mutation goes through [github.com/inkwell-studio/inkwell/pkg/scene/patch],
// which copies before it writes. This package only holds the data types,
// their JSON wire format, and the structural predicates.
//
// # Wire Format
//
// Documents serialize as:
//
//	{
//	  "canvas": {"width": 800, "height": 600, "background": "#ffffff"},
//	  "elements": {"r1": {"type": "rect", "x": 10, "y": 10, "width": 100, "height": 50}},
//	  "order": ["r1"]
//	}
//
// The format round-trips losslessly for all supported element variants and
// is shared by the HTTP API, the store, the patch engine, and the prompts
// sent to the edit provider.
//
// # Invariants
//
// [Document.Validate] checks the structural invariants that must hold after
// every successful patch application:
//
//   - order and the element key set are equal, with no duplicates
//   - the reserved id "canvas" never appears as an element key
//   - element ids are non-empty
//
// Group children are references, not owned: a group may name children that
// do not (yet) exist. The renderer skips unresolved children; Validate does
// not reject them.
package scene
