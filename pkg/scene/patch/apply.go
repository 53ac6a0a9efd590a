package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/inkwell-studio/inkwell/pkg/scene"
)

// Apply validates and applies a batch of patches to doc, returning the new
// document and one [Result] per patch. doc itself is never mutated.
//
// Processing is sequential and simulatory: each patch sees the document as
// it stands after all prior valid patches in the same batch. A rejected
// patch leaves no trace and does not abort the batch.
func Apply(doc *scene.Document, patches []Patch) (*scene.Document, []Result) {
	work := doc.Clone()
	results := make([]Result, 0, len(patches))

	for i, p := range patches {
		res := Result{Index: i, Op: p.Op, ID: p.ID, Valid: true}
		switch p.Op {
		case OpAdd:
			applyAdd(work, p, &res)
		case OpUpdate:
			applyUpdate(work, p, &res)
		case OpRemove:
			applyRemove(work, p, &res)
		case OpReorder:
			applyReorder(work, p, &res)
		default:
			reject(&res, ReasonInvalidOp, fmt.Sprintf("unknown op %q", p.Op))
		}
		results = append(results, res)
	}

	return work, results
}

func reject(res *Result, reason Reason, msg string) {
	res.Valid = false
	res.Reason = reason
	res.Message = msg
}

// =============================================================================
// Per-Op Handlers
// =============================================================================

func applyAdd(doc *scene.Document, p Patch, res *Result) {
	if p.ID == "" {
		reject(res, ReasonMissingField, "add requires an id")
		return
	}
	if scene.IsReservedID(p.ID) {
		reject(res, ReasonReservedID, fmt.Sprintf("%q is a reserved id", p.ID))
		return
	}
	if p.Element == nil {
		reject(res, ReasonMissingField, "add requires an element")
		return
	}
	if _, exists := doc.Elements[p.ID]; exists {
		reject(res, ReasonDuplicateID, fmt.Sprintf("element %q already exists", p.ID))
		return
	}
	if err := p.Element.CheckSchema(); err != nil {
		reject(res, ReasonInvalidElement, err.Error())
		return
	}

	doc.Elements[p.ID] = p.Element.Clone()
	doc.Order = append(doc.Order, p.ID)
}

func applyUpdate(doc *scene.Document, p Patch, res *Result) {
	if p.ID == "" {
		reject(res, ReasonMissingField, "update requires an id")
		return
	}
	if p.Props == nil {
		reject(res, ReasonMissingField, "update requires props")
		return
	}

	if scene.IsReservedID(p.ID) {
		updateCanvas(doc, p.Props, res)
		return
	}

	el, ok := doc.Elements[p.ID]
	if !ok {
		reject(res, ReasonNotFound, fmt.Sprintf("element %q not found", p.ID))
		return
	}

	// Shallow merge, no variant re-validation: an update may leave the
	// element inconsistent with its schema and the renderer degrades
	// gracefully instead of this engine rejecting it.
	merged, err := mergeElement(el, p.Props)
	if err != nil {
		reject(res, ReasonInvalidElement, fmt.Sprintf("props do not decode: %v", err))
		return
	}
	doc.Elements[p.ID] = merged
}

func applyRemove(doc *scene.Document, p Patch, res *Result) {
	if p.ID == "" {
		reject(res, ReasonMissingField, "remove requires an id")
		return
	}
	if scene.IsReservedID(p.ID) {
		reject(res, ReasonReservedID, "the canvas cannot be removed")
		return
	}
	if _, ok := doc.Elements[p.ID]; !ok {
		reject(res, ReasonNotFound, fmt.Sprintf("element %q not found", p.ID))
		return
	}

	delete(doc.Elements, p.ID)
	doc.Order = slices.DeleteFunc(doc.Order, func(id string) bool { return id == p.ID })

	// Cascading detach: groups drop the reference but their other children
	// stay. Nothing is recursively deleted.
	for id, el := range doc.Elements {
		if el.Type != scene.TypeGroup || !slices.Contains(el.Children, p.ID) {
			continue
		}
		el.Children = slices.DeleteFunc(append([]string(nil), el.Children...), func(c string) bool {
			return c == p.ID
		})
		doc.Elements[id] = el
	}
}

func applyReorder(doc *scene.Document, p Patch, res *Result) {
	switch {
	case p.Order != nil:
		reorderFull(doc, p, res)
	case p.ID != "":
		reorderRelocate(doc, p, res)
	default:
		reject(res, ReasonMissingField, "reorder requires an order array or an id with after/before")
	}
}

func reorderFull(doc *scene.Document, p Patch, res *Result) {
	seen := make(map[string]bool, len(p.Order))
	for _, id := range p.Order {
		if _, ok := doc.Elements[id]; !ok {
			reject(res, ReasonNotFound, fmt.Sprintf("order references unknown element %q", id))
			return
		}
		if seen[id] {
			reject(res, ReasonInvalidOp, fmt.Sprintf("order contains %q twice", id))
			return
		}
		seen[id] = true
	}
	if len(p.Order) != len(doc.Elements) {
		reject(res, ReasonInvalidOp,
			fmt.Sprintf("order must cover all %d elements, got %d", len(doc.Elements), len(p.Order)))
		return
	}
	doc.Order = append([]string(nil), p.Order...)
}

func reorderRelocate(doc *scene.Document, p Patch, res *Result) {
	if _, ok := doc.Elements[p.ID]; !ok {
		reject(res, ReasonNotFound, fmt.Sprintf("element %q not found", p.ID))
		return
	}
	anchor := p.After
	if anchor == "" {
		anchor = p.Before
	}
	if anchor == "" {
		reject(res, ReasonMissingField, "relocate requires an after or before anchor")
		return
	}
	if anchor == p.ID {
		reject(res, ReasonInvalidOp, "anchor cannot be the relocated id")
		return
	}
	// Fail closed on unknown anchors, matching the other ops.
	if _, ok := doc.Elements[anchor]; !ok {
		reject(res, ReasonNotFound, fmt.Sprintf("anchor %q not found", anchor))
		return
	}

	order := slices.DeleteFunc(append([]string(nil), doc.Order...), func(id string) bool {
		return id == p.ID
	})
	at := slices.Index(order, anchor)
	if p.After != "" {
		at++
	}
	doc.Order = slices.Insert(order, at, p.ID)
}

// =============================================================================
// Merging
// =============================================================================

// mergeElement overlays props onto el key by key. A JSON null clears the
// field. The merge is shallow: an object-valued prop replaces the whole
// field rather than merging into it.
func mergeElement(el scene.Element, props map[string]json.RawMessage) (scene.Element, error) {
	raw, err := json.Marshal(el)
	if err != nil {
		return el, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return el, err
	}
	for k, v := range props {
		if isJSONNull(v) {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return el, err
	}
	var out scene.Element
	if err := json.Unmarshal(merged, &out); err != nil {
		return el, err
	}
	return out, nil
}

func updateCanvas(doc *scene.Document, props map[string]json.RawMessage, res *Result) {
	next := doc.Canvas
	for k, v := range props {
		var err error
		switch k {
		case "width":
			err = json.Unmarshal(v, &next.Width)
		case "height":
			err = json.Unmarshal(v, &next.Height)
		case "background":
			err = json.Unmarshal(v, &next.Background)
		default:
			// Unknown canvas keys warn rather than reject: the provider
			// frequently invents plausible-sounding properties.
			res.Warnings = append(res.Warnings, fmt.Sprintf("unknown canvas property %q ignored", k))
			continue
		}
		if err != nil {
			reject(res, ReasonInvalidElement, fmt.Sprintf("canvas property %q does not decode: %v", k, err))
			return
		}
	}
	if err := next.Validate(); err != nil {
		reject(res, ReasonInvalidElement, err.Error())
		return
	}
	doc.Canvas = next
}

func isJSONNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
