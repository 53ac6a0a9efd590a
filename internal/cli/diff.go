package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/inkwell-studio/inkwell/pkg/render/diff"
	"github.com/inkwell-studio/inkwell/pkg/render/export"
)

// diffOpts holds the command-line flags for the diff command.
type diffOpts struct {
	output  string  // optional diff image output path
	scale   float64 // raster scale for document candidates
	noCache bool
}

// newDiffCmd creates the diff command for visual comparison.
func newDiffCmd() *cobra.Command {
	opts := diffOpts{scale: 1}

	cmd := &cobra.Command{
		Use:   "diff [target.png] [candidate]",
		Short: "Compare a render against a target image",
		Long: `Diff measures pixel similarity between a target PNG and a candidate.
The candidate is either another image file or a document (scene JSON file
or stored id), which is rendered before comparison. Differing pixels are
highlighted in the optional diff image.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the highlighted diff image to this path")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster scale for document candidates")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func runDiff(ctx context.Context, targetPath, candidateRef string, opts *diffOpts) error {
	cfg := configFromContext(ctx)

	target, err := loadImage(targetPath)
	if err != nil {
		return err
	}
	candidate, err := loadCandidate(ctx, cfg, candidateRef, opts)
	if err != nil {
		return err
	}

	stats := diff.Compare(target, candidate)

	printKeyValue("similarity", fmt.Sprintf("%.2f%%", stats.SimilarityPercent))
	printDetail("%d of %d pixels differ (%d antialiased)",
		stats.DiffPixelCount, stats.TotalPixelCount, stats.AntialiasedCount)

	if opts.output != "" && stats.DiffImage != nil {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, stats.DiffImage, imaging.PNG); err != nil {
			return err
		}
		if err := writeOutput(opts.output, buf.Bytes()); err != nil {
			return err
		}
		printFile(opts.output)
	}
	return nil
}

// loadCandidate resolves the candidate as an image file first, then as a
// document rendered at the requested scale.
func loadCandidate(ctx context.Context, cfg *Config, ref string, opts *diffOpts) (image.Image, error) {
	if img, err := loadImage(ref); err == nil {
		return img, nil
	}

	docStore, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer docStore.Close()

	doc, _, err := loadDocument(ctx, docStore, ref)
	if err != nil {
		return nil, err
	}
	exp := newExporter(ctx, cfg, opts.noCache)
	png, err := exp.Export(ctx, doc, export.FormatPNG, opts.scale)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(png))
	return img, err
}

func loadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
