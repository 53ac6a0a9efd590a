package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkwell-studio/inkwell/pkg/errors"
	"github.com/inkwell-studio/inkwell/pkg/scene"
	"github.com/inkwell-studio/inkwell/pkg/store"
)

// =============================================================================
// Document references
// =============================================================================

// Commands accept either a path to a scene JSON file or a stored document
// id. A ref that exists on disk is a file; anything else is looked up in
// the store.

// loadDocument resolves a document reference. docID is empty for file refs.
func loadDocument(ctx context.Context, st store.Store, ref string) (doc *scene.Document, docID string, err error) {
	if _, statErr := os.Stat(ref); statErr == nil {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, "", fmt.Errorf("read document file: %w", err)
		}
		doc, err = scene.Read(bytes.NewReader(data))
		if err != nil {
			return nil, "", err
		}
		return doc, "", nil
	}

	rec, err := st.GetDocument(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	if rec == nil {
		return nil, "", errors.New(errors.ErrCodeDocumentNotFound, "no file or stored document %q", ref)
	}
	v, err := st.LatestVersion(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	if v == nil {
		return nil, "", errors.New(errors.ErrCodeVersionNotFound, "document %q has no versions", ref)
	}
	doc, err = scene.Read(bytes.NewReader(v.Scene))
	if err != nil {
		return nil, "", err
	}
	return doc, ref, nil
}

// saveVersion appends a snapshot with a thumbnail to a stored document.
func saveVersion(ctx context.Context, st store.Store, docID string, doc *scene.Document, thumbnail []byte, reason string) (*store.Version, error) {
	data, err := doc.Marshal()
	if err != nil {
		return nil, err
	}
	v := store.NewVersion(data, thumbnail, reason)
	if err := st.AppendVersion(ctx, docID, v); err != nil {
		return nil, err
	}
	return v, nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// withExt swaps or appends a file extension on an output base path.
func withExt(base, ext string) string {
	if cur := filepath.Ext(base); cur != "" {
		base = strings.TrimSuffix(base, cur)
	}
	return base + "." + ext
}
