package studio

import (
	"context"

	"github.com/inkwell-studio/inkwell/pkg/errors"
	"github.com/inkwell-studio/inkwell/pkg/provider"
	"github.com/inkwell-studio/inkwell/pkg/scene"
	"github.com/inkwell-studio/inkwell/pkg/scene/patch"
)

// createPayload is the create_document tool output.
type createPayload struct {
	Thinking string `json:"thinking"`
	Name     string `json:"name"`
	Canvas   struct {
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		Background string `json:"background"`
	} `json:"canvas"`
	Elements []createElement `json:"elements"`
}

// createElement is one designed element. The id rides alongside the element
// fields in the same object, matching how the model sees documents.
type createElement struct {
	ID            string `json:"id"`
	scene.Element        // promoted element fields
}

// Create designs a new document from a natural-language description.
// The designed elements pass through the patch engine, so an element the
// model got wrong is rejected with a reason instead of corrupting the
// document.
func (s *Studio) Create(ctx context.Context, description string, sink Sink) (*Result, error) {
	if description == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "description is required")
	}

	var payload createPayload
	err := s.phase(ctx, "create", "designing scene", sink, func() error {
		resp, err := s.complete(ctx, "create", provider.Request{
			System: createSystem + "\n\n" + elementGuide,
			Blocks: []provider.Block{provider.TextBlock("Design a scene for: " + description)},
			Tool:   createDocumentTool(),
		})
		if err != nil {
			return err
		}
		if err := decodeStructured(resp, &payload); err != nil {
			return err
		}
		if payload.Thinking != "" {
			sink.emit(Event{Type: EventAIResponse, Thinking: payload.Thinking, Message: payload.Name})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if payload.Canvas.Width <= 0 || payload.Canvas.Height <= 0 {
		return nil, errors.New(errors.ErrCodeMalformedOutput, "designed canvas has non-positive dimensions")
	}
	doc := scene.New(payload.Canvas.Width, payload.Canvas.Height, payload.Canvas.Background)

	patches := make([]patch.Patch, 0, len(payload.Elements))
	for i := range payload.Elements {
		el := payload.Elements[i].Element
		patches = append(patches, patch.Patch{
			Op:      patch.OpAdd,
			ID:      payload.Elements[i].ID,
			Element: &el,
		})
	}

	doc, _, results, err := s.applyAndRender(ctx, doc, patches, sink)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Name:             payload.Name,
		Document:         doc,
		Results:          results,
		CompletionReason: "created",
	}
	if err := s.finalize(doc, res); err != nil {
		return nil, err
	}
	sink.emit(Event{Type: EventComplete, Reason: res.CompletionReason, Message: payload.Name})
	return res, nil
}
