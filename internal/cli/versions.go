package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-studio/inkwell/pkg/errors"
	"github.com/inkwell-studio/inkwell/pkg/store"
)

// versionsOpts holds the command-line flags for the versions command.
type versionsOpts struct {
	restore string // version id to restore as a new head version
	output  string // write the restored (or latest) scene JSON here
}

// newVersionsCmd creates the versions command for history inspection.
func newVersionsCmd() *cobra.Command {
	var opts versionsOpts

	cmd := &cobra.Command{
		Use:   "versions [document-id]",
		Short: "Inspect a stored document's version history",
		Long: `Versions lists the append-only history of a stored document. With
--restore, the named version's scene is appended as a new head version, so
restoring never loses history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersions(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.restore, "restore", "", "version id to restore as the new head")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the scene JSON to this path")

	return cmd
}

func runVersions(ctx context.Context, docID string, opts *versionsOpts) error {
	cfg := configFromContext(ctx)

	docStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer docStore.Close()

	rec, err := docStore.GetDocument(ctx, docID)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", docID)
	}

	if opts.restore != "" {
		return runRestore(ctx, cfg, docID, opts)
	}

	history, err := docStore.ListVersions(ctx, docID)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(rec.Name))
	printKeyValue("document", rec.ID)
	printKeyValue("versions", fmt.Sprintf("%d", len(history)))
	for i, v := range history {
		marker := " "
		if i == len(history)-1 {
			marker = iconArrow
		}
		fmt.Printf("%s %s  %s  %s\n",
			StyleDim.Render(marker),
			StyleHighlight.Render(v.ID),
			StyleDim.Render(v.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			v.Reason)
	}

	if opts.output != "" && len(history) > 0 {
		latest := history[len(history)-1]
		if err := writeOutput(opts.output, latest.Scene); err != nil {
			return err
		}
		printFile(opts.output)
	}
	return nil
}

func runRestore(ctx context.Context, cfg *Config, docID string, opts *versionsOpts) error {
	docStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer docStore.Close()

	v, err := docStore.GetVersion(ctx, docID, opts.restore)
	if err != nil {
		return err
	}
	if v == nil {
		return errors.New(errors.ErrCodeVersionNotFound, "version %q not found", opts.restore)
	}

	// Restore appends a fresh snapshot of the old scene rather than moving
	// a pointer, so the history stays append-only.
	restored := store.NewVersion(v.Scene, v.Thumbnail, "restored: "+opts.restore)
	if err := docStore.AppendVersion(ctx, docID, restored); err != nil {
		return err
	}
	printSuccess("restored version %s", opts.restore)
	printKeyValue("version", restored.ID)

	if opts.output != "" {
		if err := writeOutput(opts.output, restored.Scene); err != nil {
			return err
		}
		printFile(opts.output)
	}
	return nil
}
