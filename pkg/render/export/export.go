// Package export renders documents to their delivery formats.
//
// An Exporter wraps the SVG renderer and a raster backend behind a single
// call that also handles artifact caching: rendering is deterministic, so
// artifacts are cached by document content hash and re-served without
// re-rendering.
package export

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/inkwell-studio/inkwell/pkg/cache"
	"github.com/inkwell-studio/inkwell/pkg/errors"
	"github.com/inkwell-studio/inkwell/pkg/observability"
	"github.com/inkwell-studio/inkwell/pkg/render/raster"
	"github.com/inkwell-studio/inkwell/pkg/render/svg"
	"github.com/inkwell-studio/inkwell/pkg/scene"
)

// Format identifies an export format.
type Format string

// Supported export formats.
const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSVG, FormatPNG, FormatPDF:
		return Format(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (svg, png, pdf)", s)
}

// ThumbnailWidth is the pixel width of version thumbnails.
const ThumbnailWidth = 256

// cacheTTL bounds artifact lifetime so stale entries age out even without
// explicit invalidation.
const cacheTTL = 24 * time.Hour

// Exporter renders documents to delivery formats with artifact caching.
type Exporter struct {
	raster raster.Rasterizer
	pdf    raster.RsvgEngine
	cache  cache.Cache
	logger *log.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRasterizer overrides the PNG raster backend.
func WithRasterizer(r raster.Rasterizer) Option {
	return func(e *Exporter) {
		if r != nil {
			e.raster = r
		}
	}
}

// WithCache sets the artifact cache. The default caches nothing.
func WithCache(c cache.Cache) Option {
	return func(e *Exporter) {
		if c != nil {
			e.cache = c
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		raster: raster.Default(),
		cache:  cache.NewNullCache(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders a document to the requested format. scale applies to
// raster formats only; values <= 0 mean 1.
func (e *Exporter) Export(ctx context.Context, doc *scene.Document, format Format, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}

	docJSON, err := doc.Marshal()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "marshal document")
	}
	key := cache.RenderKey(cache.Hash(docJSON), string(format), scale)
	if data, ok, cerr := e.cache.Get(ctx, key); cerr == nil && ok {
		observability.Cache().OnCacheHit(ctx, "render")
		return data, nil
	} else if cerr != nil {
		e.logger.Warn("cache read failed", "error", cerr)
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, len(doc.Elements))
	start := time.Now()
	data, err := e.render(doc, format, scale)
	hooks.OnRenderComplete(ctx, string(format), len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if cerr := e.cache.Set(ctx, key, data, cacheTTL); cerr != nil {
		e.logger.Warn("cache write failed", "error", cerr)
	} else {
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	return data, nil
}

func (e *Exporter) render(doc *scene.Document, format Format, scale float64) ([]byte, error) {
	out, err := svg.Render(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render SVG")
	}

	switch format {
	case FormatSVG:
		return out, nil
	case FormatPNG:
		data, err := e.raster.Rasterize(out, scale)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "rasterize PNG at %gx", scale)
		}
		return data, nil
	case FormatPDF:
		if !e.pdf.Available() {
			return nil, errors.New(errors.ErrCodeUnsupported, "PDF export requires rsvg-convert on PATH")
		}
		data, err := e.pdf.ToPDF(out)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "convert to PDF")
		}
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

// Thumbnail renders a small PNG preview for version history listings.
func (e *Exporter) Thumbnail(ctx context.Context, doc *scene.Document) ([]byte, error) {
	png, err := e.Export(ctx, doc, FormatPNG, 1)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(png))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "decode render for thumbnail")
	}
	if img.Bounds().Dx() <= ThumbnailWidth {
		return png, nil
	}
	small := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, small, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode thumbnail")
	}
	return buf.Bytes(), nil
}
