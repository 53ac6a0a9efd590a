// Package patch implements validated mutation of scene documents.
//
// A [Patch] is one atomic mutation request (add, update, remove, reorder)
// and a batch is an ordered list of patches applied together by [Apply].
// Application is best-effort: each patch is validated against the running
// document state (so a batch can add an element and then update it), invalid
// patches are skipped and reported, and valid patches after an invalid one
// still apply. Rejections are data ([Result]), never errors — patch sources
// include an AI edit provider whose output gets no special trust, and the
// caller needs per-patch outcomes to report partial progress.
package patch

import (
	"encoding/json"

	"github.com/inkwell-studio/inkwell/pkg/scene"
)

// Op identifies a mutation operation.
type Op string

// Supported operations.
const (
	OpAdd     Op = "add"
	OpUpdate  Op = "update"
	OpRemove  Op = "remove"
	OpReorder Op = "reorder"
)

// Patch is a single mutation request against a document. The wire format is
// stable across all producers (UI, AI provider, tests):
//
//	{"op": "add", "id": "r1", "element": {"type": "rect", ...}}
//	{"op": "update", "id": "r1", "props": {"fill": "#ff0000"}}
//	{"op": "update", "id": "canvas", "props": {"background": "#eeeeee"}}
//	{"op": "remove", "id": "r1"}
//	{"op": "reorder", "order": ["a", "b", "c"]}
//	{"op": "reorder", "id": "a", "after": "c"}
//
// Patches are transient: only applied documents and batches kept for audit
// are persisted.
type Patch struct {
	Op      Op                         `json:"op"`
	ID      string                     `json:"id,omitempty"`
	Element *scene.Element             `json:"element,omitempty"`
	Props   map[string]json.RawMessage `json:"props,omitempty"`
	Order   []string                   `json:"order,omitempty"`
	After   string                     `json:"after,omitempty"`
	Before  string                     `json:"before,omitempty"`
}

// Reason is a machine-readable rejection reason.
type Reason string

// Rejection reasons.
const (
	ReasonMissingField   Reason = "missing_field"
	ReasonReservedID     Reason = "reserved_id"
	ReasonDuplicateID    Reason = "duplicate_id"
	ReasonNotFound       Reason = "not_found"
	ReasonInvalidElement Reason = "invalid_element"
	ReasonInvalidOp      Reason = "invalid_op"
)

// Result reports the outcome of one patch in a batch.
type Result struct {
	Index    int      `json:"index"`
	Op       Op       `json:"op"`
	ID       string   `json:"id,omitempty"`
	Valid    bool     `json:"valid"`
	Reason   Reason   `json:"reason,omitempty"`
	Message  string   `json:"message,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Applied counts the valid results in rs.
func Applied(rs []Result) int {
	n := 0
	for _, r := range rs {
		if r.Valid {
			n++
		}
	}
	return n
}

// Rejected returns the invalid results in rs.
func Rejected(rs []Result) []Result {
	var out []Result
	for _, r := range rs {
		if !r.Valid {
			out = append(out, r)
		}
	}
	return out
}
