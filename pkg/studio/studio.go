package studio

import (
	"context"
	"encoding/base64"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/inkwell-studio/inkwell/pkg/errors"
	"github.com/inkwell-studio/inkwell/pkg/observability"
	"github.com/inkwell-studio/inkwell/pkg/provider"
	"github.com/inkwell-studio/inkwell/pkg/render/raster"
	"github.com/inkwell-studio/inkwell/pkg/render/svg"
	"github.com/inkwell-studio/inkwell/pkg/scene"
	"github.com/inkwell-studio/inkwell/pkg/scene/patch"
)

// =============================================================================
// Studio
// =============================================================================

// Studio runs the AI-driven document flows. It holds the provider client
// and rasterizer once so callers configure a single value and reuse it.
type Studio struct {
	provider provider.Client
	raster   raster.Rasterizer
	logger   *log.Logger
}

// Option configures a Studio.
type Option func(*Studio)

// WithRasterizer overrides the raster backend used for provider context
// images and result PNGs.
func WithRasterizer(r raster.Rasterizer) Option {
	return func(s *Studio) {
		if r != nil {
			s.raster = r
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Studio) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Studio around a provider client.
func New(client provider.Client, opts ...Option) (*Studio, error) {
	if client == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "provider client is required")
	}
	s := &Studio{
		provider: client,
		raster:   raster.Default(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Result is the outcome of a studio flow. Document is always the best
// document the flow produced, even when the flow stopped early.
type Result struct {
	Name             string
	Document         *scene.Document
	SVG              []byte
	PNG              []byte
	Results          []patch.Result
	CompletionReason string
}

// =============================================================================
// Shared plumbing
// =============================================================================

// complete calls the provider with hook bookkeeping around the round trip.
func (s *Studio) complete(ctx context.Context, phase string, req provider.Request) (*provider.Response, error) {
	hooks := observability.Studio()
	hooks.OnProviderCall(ctx, phase, len(req.Blocks))
	start := time.Now()
	resp, err := s.provider.Complete(ctx, req)
	hooks.OnProviderResponse(ctx, phase, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if resp.Truncated {
		s.logger.Warn("provider response truncated", "phase", phase)
	}
	return resp, nil
}

// applyAndRender applies a patch batch, renders the outcome, and reports
// progress. Rejected patches surface as a validation_error event, not an
// error: the batch may still have moved the document forward.
func (s *Studio) applyAndRender(ctx context.Context, doc *scene.Document, patches []patch.Patch, sink Sink) (*scene.Document, []byte, []patch.Result, error) {
	next, results := patch.Apply(doc, patches)
	applied := patch.Applied(results)
	rejected := patch.Rejected(results)
	observability.Studio().OnPatchesApplied(ctx, applied, len(rejected))
	sink.emit(Event{Type: EventPatchesApplied, Applied: applied, Rejected: len(rejected)})
	if len(rejected) > 0 {
		sink.emit(Event{Type: EventValidationError, Results: rejected})
		s.logger.Warn("patches rejected", "rejected", len(rejected), "applied", applied)
	}

	out, err := svg.Render(next)
	if err != nil {
		return next, nil, results, errors.Wrap(errors.ErrCodeRenderFailed, err, "render after patch batch")
	}
	if png, rerr := s.raster.Rasterize(out, 1); rerr == nil {
		sink.emit(Event{
			Type:     EventRenderUpdate,
			ImageURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		})
	} else {
		s.logger.Warn("preview rasterization failed", "error", rerr)
	}
	return next, out, results, nil
}

// finalize renders the final SVG and PNG for a result document.
func (s *Studio) finalize(doc *scene.Document, res *Result) error {
	out, err := svg.Render(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "render final document")
	}
	res.SVG = out
	png, err := s.raster.Rasterize(out, 1)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "rasterize final document")
	}
	res.PNG = png
	return nil
}

// phase wraps fn with phase hooks and events.
func (s *Studio) phase(ctx context.Context, name, msg string, sink Sink, fn func() error) error {
	hooks := observability.Studio()
	hooks.OnPhaseStart(ctx, name)
	sink.phase(name, msg)
	start := time.Now()
	err := fn()
	hooks.OnPhaseComplete(ctx, name, time.Since(start), err)
	return err
}
