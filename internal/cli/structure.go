package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-studio/inkwell/pkg/render/structure"
)

// structureOpts holds the command-line flags for the structure command.
type structureOpts struct {
	output   string // output path; stdout when empty
	detailed bool   // include geometry and paint details in labels
	dotOnly  bool   // emit DOT source instead of rendered SVG
}

// newStructureCmd creates the structure command for document diagrams.
func newStructureCmd() *cobra.Command {
	var opts structureOpts

	cmd := &cobra.Command{
		Use:   "structure [document]",
		Short: "Emit a structure diagram of a document",
		Long: `Structure renders the element tree of a document as a diagram: the
canvas at the root, elements in z-order, and group membership edges.
Useful for debugging why an element ends up hidden or misplaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStructure(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout for --dot, structure.svg otherwise)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include geometry and paint in node labels")
	cmd.Flags().BoolVar(&opts.dotOnly, "dot", false, "emit Graphviz DOT source instead of SVG")

	return cmd
}

func runStructure(ctx context.Context, ref string, opts *structureOpts) error {
	cfg := configFromContext(ctx)

	docStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer docStore.Close()

	doc, _, err := loadDocument(ctx, docStore, ref)
	if err != nil {
		return err
	}

	dot := structure.ToDOT(doc, structure.Options{Detailed: opts.detailed})

	if opts.dotOnly {
		if opts.output == "" {
			fmt.Print(dot)
			return nil
		}
		if err := writeOutput(opts.output, []byte(dot)); err != nil {
			return err
		}
		printFile(opts.output)
		return nil
	}

	svgData, err := structure.RenderSVG(ctx, dot)
	if err != nil {
		return err
	}
	out := opts.output
	if out == "" {
		out = "structure.svg"
	}
	if err := writeOutput(out, svgData); err != nil {
		return err
	}
	printFile(out)
	return nil
}
