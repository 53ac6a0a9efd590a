package studio

import (
	"context"

	"github.com/inkwell-studio/inkwell/pkg/errors"
	"github.com/inkwell-studio/inkwell/pkg/provider"
	"github.com/inkwell-studio/inkwell/pkg/render/svg"
	"github.com/inkwell-studio/inkwell/pkg/scene"
	"github.com/inkwell-studio/inkwell/pkg/scene/patch"
)

// patchesPayload is the submit_patches tool output, shared by the edit,
// build, and fix phases.
type patchesPayload struct {
	Thinking string        `json:"thinking"`
	Message  string        `json:"message"`
	Patches  []patch.Patch `json:"patches"`
}

// Edit applies a natural-language instruction to an existing document.
// The input document is not mutated. An instruction the model answers with
// an empty patch list is reported as a no-op edit error so callers can ask
// the user to rephrase rather than silently doing nothing.
func (s *Studio) Edit(ctx context.Context, doc *scene.Document, instruction string, sink Sink) (*Result, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	if instruction == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "instruction is required")
	}

	docJSON, err := doc.Marshal()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "marshal current document")
	}

	blocks := []provider.Block{
		provider.TextBlock("Current document:\n" + string(docJSON)),
	}
	// A rendering helps the model reason spatially, but an edit should not
	// fail outright just because the raster backend is unavailable.
	if out, rerr := svg.Render(doc); rerr == nil {
		if png, perr := s.raster.Rasterize(out, 1); perr == nil {
			blocks = append(blocks, provider.ImageBlock(png))
		} else {
			s.logger.Warn("context rasterization failed", "error", perr)
		}
	}
	blocks = append(blocks, provider.TextBlock("Requested change: "+instruction))

	var payload patchesPayload
	err = s.phase(ctx, "edit", "applying edit", sink, func() error {
		resp, err := s.complete(ctx, "edit", provider.Request{
			System: editSystem + "\n\n" + elementGuide,
			Blocks: blocks,
			Tool:   submitPatchesTool(),
		})
		if err != nil {
			return err
		}
		return decodeStructured(resp, &payload)
	})
	if err != nil {
		return nil, err
	}
	sink.emit(Event{Type: EventAIResponse, Thinking: payload.Thinking, Message: payload.Message})

	if len(payload.Patches) == 0 {
		return nil, errors.New(errors.ErrCodeNoOpEdit, "no changes proposed: %s", payload.Message)
	}

	next, _, results, err := s.applyAndRender(ctx, doc, payload.Patches, sink)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Document:         next,
		Results:          results,
		CompletionReason: "edited",
	}
	if err := s.finalize(next, res); err != nil {
		return nil, err
	}
	sink.emit(Event{Type: EventComplete, Reason: res.CompletionReason, Message: payload.Message})
	return res, nil
}
