package studio

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"

	"github.com/inkwell-studio/inkwell/pkg/errors"
	"github.com/inkwell-studio/inkwell/pkg/provider"
	"github.com/inkwell-studio/inkwell/pkg/render/diff"
	"github.com/inkwell-studio/inkwell/pkg/scene"
)

// critiquePayload is the submit_critique tool output.
type critiquePayload struct {
	Issues []string `json:"issues"`
	Done   bool     `json:"done"`
}

// Reconstruct rebuilds a target PNG as a scene document. The flow is
// build, critique, and at most one fix pass; the critique can end the flow
// early by approving the build. Once a document exists, later phase
// failures degrade to returning the best document so far instead of
// erroring, because a partial reconstruction is still useful.
func (s *Studio) Reconstruct(ctx context.Context, targetPNG []byte, sink Sink) (*Result, error) {
	target, _, err := image.Decode(bytes.NewReader(targetPNG))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode target image")
	}
	bounds := target.Bounds()
	doc := scene.New(bounds.Dx(), bounds.Dy(), "#ffffff")
	samples := sampleColors(target)

	// BUILD: one shot from the empty canvas. A provider failure here is
	// fatal, there is nothing to fall back to yet; once the build patches
	// are in, even a render failure degrades to the patched document.
	var build patchesPayload
	err = s.phase(ctx, "build", "reconstructing scene", sink, func() error {
		blocks := []provider.Block{
			provider.TextBlock(fmt.Sprintf("Reconstruct this %dx%d image.", bounds.Dx(), bounds.Dy())),
			provider.ImageBlock(targetPNG),
		}
		if samples != "" {
			blocks = append(blocks, provider.TextBlock("Exact color samples (position as %% of width/height):\n"+samples))
		}
		resp, err := s.complete(ctx, "build", provider.Request{
			System: buildSystem + "\n\n" + elementGuide,
			Blocks: blocks,
			Tool:   submitPatchesTool(),
		})
		if err != nil {
			return err
		}
		return decodeStructured(resp, &build)
	})
	if err != nil {
		return nil, err
	}
	sink.emit(Event{Type: EventAIResponse, Thinking: build.Thinking, Message: build.Message})

	doc, current, _, err := s.applyAndRender(ctx, doc, build.Patches, sink)
	if err != nil {
		return s.bestSoFar(target, doc, sink, "stopped after build: "+errors.UserMessage(err))
	}

	// CRITIQUE: compare reconstruction against the target.
	var critique critiquePayload
	err = s.phase(ctx, "critique", "reviewing reconstruction", sink, func() error {
		png, rerr := s.raster.Rasterize(current, 1)
		if rerr != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, rerr, "rasterize reconstruction for review")
		}
		resp, cerr := s.complete(ctx, "critique", provider.Request{
			System: critiqueSystem,
			Blocks: []provider.Block{
				provider.TextBlock("Target image:"),
				provider.ImageBlock(targetPNG),
				provider.TextBlock("Current reconstruction:"),
				provider.ImageBlock(png),
			},
			Tool: submitCritiqueTool(),
		})
		if cerr != nil {
			return cerr
		}
		return decodeStructured(resp, &critique)
	})
	if err != nil {
		return s.bestSoFar(target, doc, sink, "stopped after build: "+errors.UserMessage(err))
	}
	sink.emit(Event{Type: EventCritique, Issues: critique.Issues, Done: critique.Done})

	if critique.Done || len(critique.Issues) == 0 {
		return s.bestSoFar(target, doc, sink, "critique approved")
	}

	// FIX: one revision pass addressing the critique.
	var fix patchesPayload
	err = s.phase(ctx, "fix", "revising reconstruction", sink, func() error {
		docJSON, merr := doc.Marshal()
		if merr != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, merr, "marshal reconstruction")
		}
		png, rerr := s.raster.Rasterize(current, 1)
		if rerr != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, rerr, "rasterize reconstruction for revision")
		}
		issues := "Issues to fix:\n"
		for _, issue := range critique.Issues {
			issues += "- " + issue + "\n"
		}
		resp, ferr := s.complete(ctx, "fix", provider.Request{
			System: fixSystem + "\n\n" + elementGuide,
			Blocks: []provider.Block{
				provider.TextBlock("Target image:"),
				provider.ImageBlock(targetPNG),
				provider.TextBlock("Current reconstruction:"),
				provider.ImageBlock(png),
				provider.TextBlock("Current document:\n" + string(docJSON)),
				provider.TextBlock(issues),
			},
			Tool: submitPatchesTool(),
		})
		if ferr != nil {
			return ferr
		}
		return decodeStructured(resp, &fix)
	})
	if err != nil {
		return s.bestSoFar(target, doc, sink, "stopped after critique: "+errors.UserMessage(err))
	}
	sink.emit(Event{Type: EventAIResponse, Thinking: fix.Thinking, Message: fix.Message})

	if len(fix.Patches) > 0 {
		if next, _, _, aerr := s.applyAndRender(ctx, doc, fix.Patches, sink); aerr == nil {
			doc = next
		} else {
			return s.bestSoFar(target, doc, sink, "fix pass failed to render: "+errors.UserMessage(aerr))
		}
	}
	return s.bestSoFar(target, doc, sink, "fix pass complete")
}

// bestSoFar finalizes whatever document the flow has and reports how it
// ended. The similarity against the target rides along in the completion
// message when the final raster is available.
func (s *Studio) bestSoFar(target image.Image, doc *scene.Document, sink Sink, reason string) (*Result, error) {
	res := &Result{
		Document:         doc,
		CompletionReason: reason,
	}
	if err := s.finalize(doc, res); err != nil {
		sink.error(errors.UserMessage(err))
		return res, err
	}
	msg := reason
	if final, _, derr := image.Decode(bytes.NewReader(res.PNG)); derr == nil {
		stats := diff.Compare(target, final)
		msg = fmt.Sprintf("%s (%.2f%% similar)", reason, stats.SimilarityPercent)
	}
	sink.emit(Event{Type: EventComplete, Reason: reason, Message: msg})
	return res, nil
}
