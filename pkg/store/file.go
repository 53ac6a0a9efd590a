package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-studio/inkwell/pkg/errors"
)

// FileStore keeps documents as JSON files for CLI usage. Each document is
// one file holding the metadata record and its full version history, so a
// document can be copied or inspected with ordinary file tools.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// fileRecord is the on-disk shape of one document.
type fileRecord struct {
	Document Document   `json:"document"`
	History  []*Version `json:"history"`
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/inkwell/documents/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "inkwell", "documents")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) docPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) readLocked(id string) (*fileRecord, error) {
	data, err := os.ReadFile(s.docPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read document file: %w", err)
	}
	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse document file: %w", err)
	}
	return &rec, nil
}

func (s *FileStore) writeLocked(rec *fileRecord) error {
	// Plain Marshal keeps the embedded scene snapshots byte-identical;
	// MarshalIndent would re-indent the raw version payloads.
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(s.docPath(rec.Document.ID), data, 0600); err != nil {
		return fmt.Errorf("write document file: %w", err)
	}
	return nil
}

func (s *FileStore) CreateDocument(ctx context.Context, name string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	rec := &fileRecord{
		Document: Document{
			ID:        uuid.NewString(),
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.writeLocked(rec); err != nil {
		return nil, err
	}
	doc := rec.Document
	return &doc, nil
}

func (s *FileStore) GetDocument(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.readLocked(id)
	if err != nil || rec == nil {
		return nil, err
	}
	doc := rec.Document
	return &doc, nil
}

func (s *FileStore) ListDocuments(ctx context.Context) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := entry.Name()[:len(entry.Name())-len(".json")]
		rec, err := s.readLocked(id)
		if err != nil || rec == nil {
			continue
		}
		doc := rec.Document
		docs = append(docs, &doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
	return docs, nil
}

func (s *FileStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.docPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove document file: %w", err)
	}
	return nil
}

func (s *FileStore) AppendVersion(ctx context.Context, docID string, v *Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.readLocked(docID)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", docID)
	}
	cp := *v
	rec.History = append(rec.History, &cp)
	rec.Document.Versions = len(rec.History)
	rec.Document.UpdatedAt = time.Now().UTC()
	return s.writeLocked(rec)
}

func (s *FileStore) ListVersions(ctx context.Context, docID string) ([]*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.readLocked(docID)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.History, nil
}

func (s *FileStore) GetVersion(ctx context.Context, docID, versionID string) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.readLocked(docID)
	if err != nil || rec == nil {
		return nil, err
	}
	for _, v := range rec.History {
		if v.ID == versionID {
			return v, nil
		}
	}
	return nil, nil
}

func (s *FileStore) LatestVersion(ctx context.Context, docID string) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.readLocked(docID)
	if err != nil || rec == nil {
		return nil, err
	}
	if len(rec.History) == 0 {
		return nil, nil
	}
	return rec.History[len(rec.History)-1], nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for document files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
