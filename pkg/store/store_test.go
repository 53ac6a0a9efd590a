package store

import (
	"context"
	"testing"

	"github.com/inkwell-studio/inkwell/pkg/errors"
)

// backends runs a subtest against each local store implementation.
func backends(t *testing.T, fn func(t *testing.T, st Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("file", func(t *testing.T) {
		st, err := NewFileStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileStore: %v", err)
		}
		fn(t, st)
	})
}

func TestNewVersion(t *testing.T) {
	v := NewVersion([]byte(`{"canvas":{}}`), []byte{1, 2, 3}, "created")
	if v.ID == "" {
		t.Error("version should get a fresh id")
	}
	if v.Reason != "created" || len(v.Thumbnail) != 3 {
		t.Errorf("version fields not carried: %+v", v)
	}
	if v.CreatedAt.IsZero() {
		t.Error("version should be timestamped")
	}
	if NewVersion(nil, nil, "a").ID == NewVersion(nil, nil, "b").ID {
		t.Error("ids should be unique")
	}
}

func TestDocumentLifecycle(t *testing.T) {
	backends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		defer st.Close()

		doc, err := st.CreateDocument(ctx, "sunset")
		if err != nil {
			t.Fatalf("CreateDocument: %v", err)
		}
		if doc.ID == "" || doc.Name != "sunset" || doc.Versions != 0 {
			t.Fatalf("created document = %+v", doc)
		}

		got, err := st.GetDocument(ctx, doc.ID)
		if err != nil {
			t.Fatalf("GetDocument: %v", err)
		}
		if got == nil || got.ID != doc.ID || got.Name != "sunset" {
			t.Errorf("GetDocument = %+v", got)
		}

		if err := st.DeleteDocument(ctx, doc.ID); err != nil {
			t.Fatalf("DeleteDocument: %v", err)
		}
		got, err = st.GetDocument(ctx, doc.ID)
		if err != nil {
			t.Fatalf("GetDocument after delete: %v", err)
		}
		if got != nil {
			t.Error("deleted document still retrievable")
		}
	})
}

func TestGetDocumentMissing(t *testing.T) {
	backends(t, func(t *testing.T, st Store) {
		doc, err := st.GetDocument(context.Background(), "nope")
		if err != nil {
			t.Fatalf("GetDocument: %v", err)
		}
		if doc != nil {
			t.Errorf("missing document = %+v, want nil", doc)
		}
	})
}

func TestVersionHistory(t *testing.T) {
	backends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		doc, err := st.CreateDocument(ctx, "drafts")
		if err != nil {
			t.Fatalf("CreateDocument: %v", err)
		}

		if v, err := st.LatestVersion(ctx, doc.ID); err != nil || v != nil {
			t.Errorf("LatestVersion on empty history = %v, %v, want nil, nil", v, err)
		}

		first := NewVersion([]byte(`{"v":1}`), nil, "created")
		second := NewVersion([]byte(`{"v":2}`), nil, "edited: bigger sun")
		for _, v := range []*Version{first, second} {
			if err := st.AppendVersion(ctx, doc.ID, v); err != nil {
				t.Fatalf("AppendVersion: %v", err)
			}
		}

		history, err := st.ListVersions(ctx, doc.ID)
		if err != nil {
			t.Fatalf("ListVersions: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("history length = %d, want 2", len(history))
		}
		if history[0].ID != first.ID || history[1].ID != second.ID {
			t.Error("history should be oldest first")
		}

		latest, err := st.LatestVersion(ctx, doc.ID)
		if err != nil {
			t.Fatalf("LatestVersion: %v", err)
		}
		if latest == nil || latest.ID != second.ID {
			t.Errorf("latest = %+v, want the second version", latest)
		}
		if string(latest.Scene) != `{"v":2}` {
			t.Errorf("latest scene = %s", latest.Scene)
		}

		got, err := st.GetVersion(ctx, doc.ID, first.ID)
		if err != nil {
			t.Fatalf("GetVersion: %v", err)
		}
		if got == nil || got.Reason != "created" {
			t.Errorf("GetVersion = %+v", got)
		}
		if v, err := st.GetVersion(ctx, doc.ID, "nope"); err != nil || v != nil {
			t.Errorf("missing version = %v, %v, want nil, nil", v, err)
		}

		meta, err := st.GetDocument(ctx, doc.ID)
		if err != nil {
			t.Fatalf("GetDocument: %v", err)
		}
		if meta.Versions != 2 {
			t.Errorf("version count = %d, want 2", meta.Versions)
		}
		if !meta.UpdatedAt.After(meta.CreatedAt) && !meta.UpdatedAt.Equal(meta.CreatedAt) {
			t.Error("UpdatedAt should advance with appends")
		}
	})
}

func TestAppendVersionMissingDocument(t *testing.T) {
	backends(t, func(t *testing.T, st Store) {
		err := st.AppendVersion(context.Background(), "nope", NewVersion(nil, nil, ""))
		if !errors.Is(err, errors.ErrCodeDocumentNotFound) {
			t.Errorf("err = %v, want DOCUMENT_NOT_FOUND", err)
		}
	})
}

func TestListDocumentsNewestFirst(t *testing.T) {
	backends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		a, _ := st.CreateDocument(ctx, "a")
		b, _ := st.CreateDocument(ctx, "b")

		// Touching a makes it the most recently updated.
		if err := st.AppendVersion(ctx, a.ID, NewVersion([]byte(`{}`), nil, "touch")); err != nil {
			t.Fatalf("AppendVersion: %v", err)
		}

		docs, err := st.ListDocuments(ctx)
		if err != nil {
			t.Fatalf("ListDocuments: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("got %d documents, want 2", len(docs))
		}
		if docs[0].ID != a.ID {
			t.Errorf("order = [%s %s], want the touched document first", docs[0].Name, docs[1].Name)
		}
		_ = b
	})
}

func TestMemoryStoreCopiesOnReturn(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	doc, _ := st.CreateDocument(ctx, "orig")

	got, _ := st.GetDocument(ctx, doc.ID)
	got.Name = "mutated"

	again, _ := st.GetDocument(ctx, doc.ID)
	if again.Name != "orig" {
		t.Error("store handed out its internal record")
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	doc, err := st.CreateDocument(ctx, "durable")
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if err := st.AppendVersion(ctx, doc.ID, NewVersion([]byte(`{"v":1}`), nil, "created")); err != nil {
		t.Fatalf("AppendVersion: %v", err)
	}
	st.Close()

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Path() != dir {
		t.Errorf("Path = %q, want %q", reopened.Path(), dir)
	}
	got, err := reopened.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got == nil || got.Name != "durable" || got.Versions != 1 {
		t.Errorf("reloaded document = %+v", got)
	}
	latest, err := reopened.LatestVersion(ctx, doc.ID)
	if err != nil {
		t.Fatalf("LatestVersion: %v", err)
	}
	if latest == nil || string(latest.Scene) != `{"v":1}` {
		t.Errorf("reloaded version = %+v", latest)
	}
}
