package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-studio/inkwell/pkg/errors"
)

// editOpts holds the command-line flags for the edit command.
type editOpts struct {
	output  string // optional scene JSON output path
	noCache bool   // bypass the artifact cache
}

// newEditCmd creates the edit command for natural-language document changes.
func newEditCmd() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit [document] [instruction]",
		Short: "Apply a natural-language change to a document",
		Long: `Edit applies an instruction like "make the sun bigger and move it left"
to a document. The document argument is either a scene JSON file path or a
stored document id; stored documents get a new version appended.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the edited scene JSON to this path")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func runEdit(ctx context.Context, ref, instruction string, opts *editOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	docStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer docStore.Close()

	doc, docID, err := loadDocument(ctx, docStore, ref)
	if err != nil {
		return err
	}

	st, err := newStudio(ctx, cfg)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "applying edit...")
	spinner.Start()
	prog := newProgress(logger)

	result, err := st.Edit(ctx, doc, instruction, spinnerSink(spinner))
	if err != nil {
		if errors.Is(err, errors.ErrCodeNoOpEdit) {
			spinner.StopWithError("no changes proposed")
			printDetail("%s", errors.UserMessage(err))
			printDetail("try rephrasing the instruction")
			return err
		}
		spinner.StopWithError("edit failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Applied %d patches", len(result.Results)))
	printSuccess("edit applied")
	for _, r := range result.Results {
		if !r.Valid {
			printWarning("patch %d (%s %q) rejected: %s", r.Index, r.Op, r.ID, r.Message)
		}
	}

	outPath := opts.output
	if outPath == "" && docID == "" {
		// File ref with no explicit output: update the file in place.
		outPath = ref
	}
	if outPath != "" {
		data, err := result.Document.Marshal()
		if err != nil {
			return err
		}
		if err := writeOutput(outPath, data); err != nil {
			return err
		}
		printFile(outPath)
	}

	if docID != "" {
		exp := newExporter(ctx, cfg, opts.noCache)
		thumb, terr := exp.Thumbnail(ctx, result.Document)
		if terr != nil {
			logger.Warn("thumbnail render failed", "error", terr)
		}
		v, err := saveVersion(ctx, docStore, docID, result.Document, thumb, "edited: "+instruction)
		if err != nil {
			return err
		}
		printKeyValue("version", v.ID)
	}
	return nil
}
