package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-studio/inkwell/pkg/studio"
)

// createOpts holds the command-line flags for the create command.
type createOpts struct {
	output  string // optional scene JSON output path
	noStore bool   // skip saving to the document store
	noCache bool   // bypass the artifact cache
}

// newCreateCmd creates the create command for designing documents from text.
func newCreateCmd() *cobra.Command {
	var opts createOpts

	cmd := &cobra.Command{
		Use:   "create [description]",
		Short: "Design a new scene document from a description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the scene JSON to this path")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "do not save to the document store")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func runCreate(ctx context.Context, description string, opts *createOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	st, err := newStudio(ctx, cfg)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "designing scene...")
	spinner.Start()
	prog := newProgress(logger)

	result, err := st.Create(ctx, description, spinnerSink(spinner))
	if err != nil {
		spinner.StopWithError("create failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Designed %q with %d elements", result.Name, len(result.Document.Elements)))
	printSuccess("%s", result.Name)
	for _, r := range result.Results {
		if !r.Valid {
			printWarning("element %q rejected: %s", r.ID, r.Message)
		}
	}

	if opts.output != "" {
		data, err := result.Document.Marshal()
		if err != nil {
			return err
		}
		if err := writeOutput(opts.output, data); err != nil {
			return err
		}
		printFile(opts.output)
	}

	if !opts.noStore {
		docStore, err := newStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer docStore.Close()

		rec, err := docStore.CreateDocument(ctx, result.Name)
		if err != nil {
			return err
		}
		exp := newExporter(ctx, cfg, opts.noCache)
		thumb, terr := exp.Thumbnail(ctx, result.Document)
		if terr != nil {
			logger.Warn("thumbnail render failed", "error", terr)
		}
		if _, err := saveVersion(ctx, docStore, rec.ID, result.Document, thumb, "created: "+description); err != nil {
			return err
		}
		printKeyValue("document", rec.ID)
		printNextStep("Render it", fmt.Sprintf("inkwell render %s -o %s.png", rec.ID, sanitizeBase(result.Name)))
	}
	return nil
}

// spinnerSink routes studio progress into the spinner text.
func spinnerSink(s *Spinner) studio.Sink {
	return func(e studio.Event) {
		switch e.Type {
		case studio.EventPhase, studio.EventStatus:
			if e.Message != "" {
				s.SetMessage(e.Message + "...")
			}
		}
	}
}

// sanitizeBase turns a scene name into a usable file base name.
func sanitizeBase(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ', r == '-', r == '_':
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "scene"
	}
	return string(out)
}
