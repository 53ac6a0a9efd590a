package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkwell-studio/inkwell/pkg/render/export"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string  // output file path (or base path for multiple formats)
	formats string  // comma-separated output formats
	scale   float64 // raster scale factor
	noCache bool    // bypass the artifact cache
}

// newRenderCmd creates the render command for exporting documents.
//
// Default settings:
//   - format: svg
//   - scale: 1.0
func newRenderCmd() *cobra.Command {
	opts := renderOpts{scale: 1}

	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Export a document to SVG, PNG, or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func runRender(ctx context.Context, ref string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	formats, err := parseFormats(opts.formats)
	if err != nil {
		return err
	}

	docStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer docStore.Close()

	doc, _, err := loadDocument(ctx, docStore, ref)
	if err != nil {
		return err
	}

	exp := newExporter(ctx, cfg, opts.noCache)
	prog := newProgress(logger)

	base := opts.output
	if base == "" {
		base = sanitizeBase(ref)
	}
	for _, format := range formats {
		data, err := exp.Export(ctx, doc, format, opts.scale)
		if err != nil {
			return err
		}
		path := base
		if len(formats) > 1 || opts.output == "" {
			path = withExt(base, string(format))
		}
		if err := writeOutput(path, data); err != nil {
			return err
		}
		printFile(path)
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(formats)))
	return nil
}

// parseFormats parses a comma-separated format string.
func parseFormats(s string) ([]export.Format, error) {
	if s == "" {
		return []export.Format{export.FormatSVG}, nil
	}
	var formats []export.Format
	for _, part := range strings.Split(s, ",") {
		f, err := export.ParseFormat(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}
