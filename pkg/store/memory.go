package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-studio/inkwell/pkg/errors"
)

// MemoryStore is an in-process store for tests and single-instance servers.
type MemoryStore struct {
	mu       sync.RWMutex
	docs     map[string]*Document
	versions map[string][]*Version // docID -> append-only history
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string]*Document),
		versions: make(map[string][]*Version),
	}
}

func (s *MemoryStore) CreateDocument(ctx context.Context, name string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	doc := &Document{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.docs[doc.ID] = doc
	out := *doc
	return &out, nil
}

func (s *MemoryStore) GetDocument(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	out := *doc
	return &out, nil
}

func (s *MemoryStore) ListDocuments(ctx context.Context) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out := *doc
		docs = append(docs, &out)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
	return docs, nil
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, id)
	delete(s.versions, id)
	return nil
}

func (s *MemoryStore) AppendVersion(ctx context.Context, docID string, v *Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[docID]
	if !ok {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", docID)
	}
	cp := *v
	s.versions[docID] = append(s.versions[docID], &cp)
	doc.Versions = len(s.versions[docID])
	doc.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) ListVersions(ctx context.Context, docID string) ([]*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.versions[docID]
	out := make([]*Version, len(history))
	for i, v := range history {
		cp := *v
		out[i] = &cp
	}
	return out, nil
}

func (s *MemoryStore) GetVersion(ctx context.Context, docID, versionID string) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.versions[docID] {
		if v.ID == versionID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) LatestVersion(ctx context.Context, docID string) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.versions[docID]
	if len(history) == 0 {
		return nil, nil
	}
	cp := *history[len(history)-1]
	return &cp, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
