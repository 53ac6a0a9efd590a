// Package store persists documents and their version history.
//
// A stored document is a named container for an append-only list of
// versions. Every mutation of a scene (creation, an edit, a reconstruction
// pass) appends a new version; versions are never rewritten, so any earlier
// state of a document can be recovered by its version id.
//
// Backends:
//   - memory: in-process storage for tests and short-lived servers
//   - file: JSON files under a config directory, for the CLI
//   - mongo: MongoDB, for multi-instance deployments
//
// # Usage
//
//	st, err := store.NewFileStore("")
//	doc, err := st.CreateDocument(ctx, "sunset")
//	err = st.AppendVersion(ctx, doc.ID, store.NewVersion(sceneJSON, thumb, "created"))
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document is the metadata record for a stored document.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Versions  int       `json:"versions"`
}

// Version is one immutable snapshot of a document's scene.
type Version struct {
	ID        string          `json:"id"`
	Scene     json.RawMessage `json:"scene"`
	Thumbnail []byte          `json:"thumbnail,omitempty"` // PNG preview
	Reason    string          `json:"reason,omitempty"`    // what produced this version
	CreatedAt time.Time       `json:"created_at"`
}

// NewVersion builds a version snapshot with a fresh id.
func NewVersion(sceneJSON []byte, thumbnail []byte, reason string) *Version {
	return &Version{
		ID:        uuid.NewString(),
		Scene:     json.RawMessage(sceneJSON),
		Thumbnail: thumbnail,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for document storage backends.
//
// Lookup methods return nil, nil when the record does not exist; callers
// that need an error wrap the nil in a not-found code at their boundary.
type Store interface {
	// CreateDocument creates an empty document record.
	CreateDocument(ctx context.Context, name string) (*Document, error)

	// GetDocument retrieves a document record by id.
	GetDocument(ctx context.Context, id string) (*Document, error)

	// ListDocuments returns all document records, newest first.
	ListDocuments(ctx context.Context) ([]*Document, error)

	// DeleteDocument removes a document and all its versions.
	DeleteDocument(ctx context.Context, id string) error

	// AppendVersion appends a snapshot to a document's history.
	AppendVersion(ctx context.Context, docID string, v *Version) error

	// ListVersions returns a document's versions, oldest first.
	ListVersions(ctx context.Context, docID string) ([]*Version, error)

	// GetVersion retrieves one version by id.
	GetVersion(ctx context.Context, docID, versionID string) (*Version, error)

	// LatestVersion returns the most recent version, or nil, nil when the
	// document has no versions yet.
	LatestVersion(ctx context.Context, docID string) (*Version, error)

	// Close releases backend resources.
	Close() error
}
