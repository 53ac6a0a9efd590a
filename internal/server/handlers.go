package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-studio/inkwell/pkg/errors"
	"github.com/inkwell-studio/inkwell/pkg/render/export"
	"github.com/inkwell-studio/inkwell/pkg/scene"
	"github.com/inkwell-studio/inkwell/pkg/scene/patch"
	"github.com/inkwell-studio/inkwell/pkg/store"
)

// =============================================================================
// Request / response shapes
// =============================================================================

type createRequest struct {
	Description string `json:"description"`
}

type editRequest struct {
	Instruction string `json:"instruction"`
}

type documentResponse struct {
	Document *store.Document `json:"document"`
	Version  string          `json:"version,omitempty"`
	Scene    json.RawMessage `json:"scene,omitempty"`
	Results  []patch.Result  `json:"results,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

// versionMeta is a history entry without the scene payload.
type versionMeta struct {
	ID        string    `json:"id"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// Documents
// =============================================================================

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	result, err := s.studio.Create(r.Context(), req.Description, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	rec, version, err := s.saveResult(r, result.Name, "", result.Document, "created: "+req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, documentResponse{
		Document: rec,
		Version:  version,
		Scene:    sceneJSON(result.Document),
		Results:  result.Results,
		Reason:   result.CompletionReason,
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if rec == nil {
		writeError(w, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id))
		return
	}

	resp := documentResponse{Document: rec}
	if v, err := s.store.LatestVersion(r.Context(), id); err == nil && v != nil {
		resp.Version = v.ID
		resp.Scene = v.Scene
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Edit
// =============================================================================

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	doc, err := s.loadScene(r, id)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.studio.Edit(r.Context(), doc, req.Instruction, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	rec, version, err := s.saveResult(r, "", id, result.Document, "edited: "+req.Instruction)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{
		Document: rec,
		Version:  version,
		Scene:    sceneJSON(result.Document),
		Results:  result.Results,
		Reason:   result.CompletionReason,
	})
}

// =============================================================================
// Render
// =============================================================================

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	formatStr := r.URL.Query().Get("format")
	if formatStr == "" {
		formatStr = "svg"
	}
	format, err := export.ParseFormat(formatStr)
	if err != nil {
		writeError(w, err)
		return
	}
	scale := 1.0
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err = strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 || scale > 8 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, 8]"))
			return
		}
	}

	doc, err := s.loadScene(r, id)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := s.exporter.Export(r.Context(), doc, format, scale)
	if err != nil {
		writeError(w, err)
		return
	}

	switch format {
	case export.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	case export.FormatPNG:
		w.Header().Set("Content-Type", "image/png")
	case export.FormatPDF:
		w.Header().Set("Content-Type", "application/pdf")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Versions
// =============================================================================

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	history, err := s.store.ListVersions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	metas := make([]versionMeta, len(history))
	for i, v := range history {
		metas[i] = versionMeta{ID: v.ID, Reason: v.Reason, CreatedAt: v.CreatedAt}
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": metas})
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	versionID := chi.URLParam(r, "versionID")
	v, err := s.store.GetVersion(r.Context(), id, versionID)
	if err != nil {
		writeError(w, err)
		return
	}
	if v == nil {
		writeError(w, errors.New(errors.ErrCodeVersionNotFound, "version %q not found", versionID))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// =============================================================================
// Helpers
// =============================================================================

// loadScene resolves a document id to its latest scene.
func (s *Server) loadScene(r *http.Request, id string) (*scene.Document, error) {
	rec, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	v, err := s.store.LatestVersion(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.New(errors.ErrCodeVersionNotFound, "document %q has no versions", id)
	}
	return scene.Read(bytes.NewReader(v.Scene))
}

// saveResult persists a studio result. With name set it creates a new
// document; with docID set it appends to an existing one.
func (s *Server) saveResult(r *http.Request, name, docID string, doc *scene.Document, reason string) (*store.Document, string, error) {
	ctx := r.Context()
	if docID == "" {
		rec, err := s.store.CreateDocument(ctx, name)
		if err != nil {
			return nil, "", err
		}
		docID = rec.ID
	}

	data, err := doc.Marshal()
	if err != nil {
		return nil, "", err
	}
	thumb, err := s.exporter.Thumbnail(ctx, doc)
	if err != nil {
		s.logger.Warn("thumbnail render failed", "error", err)
	}
	v := store.NewVersion(data, thumb, reason)
	if err := s.store.AppendVersion(ctx, docID, v); err != nil {
		return nil, "", err
	}
	rec, err := s.store.GetDocument(ctx, docID)
	if err != nil {
		return nil, "", err
	}
	return rec, v.ID, nil
}

func sceneJSON(doc *scene.Document) json.RawMessage {
	data, err := doc.Marshal()
	if err != nil {
		return nil
	}
	return data
}
