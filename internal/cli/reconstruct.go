package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/inkwell-studio/inkwell/pkg/studio"
)

// reconstructOpts holds the command-line flags for the reconstruct command.
type reconstructOpts struct {
	output  string // output base path for scene JSON and SVG
	name    string // stored document name
	noStore bool
	noCache bool
	plain   bool // disable the live TUI
}

// newReconstructCmd creates the reconstruct command.
func newReconstructCmd() *cobra.Command {
	var opts reconstructOpts

	cmd := &cobra.Command{
		Use:   "reconstruct [image.png]",
		Short: "Rebuild a raster image as a vector scene document",
		Long: `Reconstruct analyzes a raster image and rebuilds it as a layered vector
scene: background first, then shapes, then detail. The result is reviewed
against the target and revised once before being saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconstruct(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path for scene JSON and SVG")
	cmd.Flags().StringVar(&opts.name, "name", "", "document name (default: image file name)")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "do not save to the document store")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "log progress instead of the live view")

	return cmd
}

func runReconstruct(ctx context.Context, imagePath string, opts *reconstructOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	targetPNG, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read target image: %w", err)
	}

	st, err := newStudio(ctx, cfg)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	var result *studio.Result

	if opts.plain {
		result, err = st.Reconstruct(ctx, targetPNG, logSink(logger))
	} else {
		result, err = reconstructWithTUI(ctx, st, targetPNG)
	}
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		// Best-effort result: report the failure but keep what was built.
		printWarning("reconstruction incomplete: %v", err)
	}
	prog.done(fmt.Sprintf("Reconstructed %d elements", len(result.Document.Elements)))
	printSuccess("%s", result.CompletionReason)

	name := opts.name
	if name == "" {
		name = sanitizeBase(trimExtension(imagePath))
	}

	base := opts.output
	if base == "" {
		base = name
	}
	data, err := result.Document.Marshal()
	if err != nil {
		return err
	}
	if err := writeOutput(withExt(base, "json"), data); err != nil {
		return err
	}
	printFile(withExt(base, "json"))
	if len(result.SVG) > 0 {
		if err := writeOutput(withExt(base, "svg"), result.SVG); err != nil {
			return err
		}
		printFile(withExt(base, "svg"))
	}

	if !opts.noStore {
		docStore, err := newStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer docStore.Close()

		rec, err := docStore.CreateDocument(ctx, name)
		if err != nil {
			return err
		}
		exp := newExporter(ctx, cfg, opts.noCache)
		thumb, terr := exp.Thumbnail(ctx, result.Document)
		if terr != nil {
			logger.Warn("thumbnail render failed", "error", terr)
		}
		if _, err := saveVersion(ctx, docStore, rec.ID, result.Document, thumb, "reconstructed: "+imagePath); err != nil {
			return err
		}
		printKeyValue("document", rec.ID)
	}
	return nil
}

// reconstructWithTUI runs the studio flow behind a live bubbletea view.
func reconstructWithTUI(ctx context.Context, st *studio.Studio, targetPNG []byte) (*studio.Result, error) {
	events := make(chan studio.Event, 32)

	var (
		result *studio.Result
		runErr error
	)
	go func() {
		defer close(events)
		result, runErr = st.Reconstruct(ctx, targetPNG, func(e studio.Event) {
			select {
			case events <- e:
			default: // never stall the flow on a slow terminal
			}
		})
	}()

	p := tea.NewProgram(NewReconstructModel(events), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		// Fall through: the studio goroutine still finishes and closes events.
		for range events {
		}
	}
	if result == nil && runErr == nil {
		runErr = ctx.Err()
	}
	return result, runErr
}

// logSink routes studio progress to the structured logger.
func logSink(logger *log.Logger) studio.Sink {
	return func(e studio.Event) {
		switch e.Type {
		case studio.EventPhase:
			logger.Info("phase", "name", e.Phase, "message", e.Message)
		case studio.EventAIResponse:
			if e.Message != "" {
				logger.Info(e.Message)
			}
		case studio.EventCritique:
			logger.Info("critique", "issues", len(e.Issues), "done", e.Done)
		case studio.EventPatchesApplied:
			logger.Info("patches applied", "applied", e.Applied, "rejected", e.Rejected)
		case studio.EventValidationError:
			logger.Warn("patches rejected", "count", len(e.Results))
		case studio.EventError:
			logger.Warn(e.Message)
		}
	}
}

// trimExtension strips the file extension from a path's base name.
func trimExtension(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
