package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-studio/inkwell/pkg/errors"
	"github.com/inkwell-studio/inkwell/pkg/studio"
)

// maxImageBytes bounds uploaded reconstruction targets.
const maxImageBytes = 16 << 20

// handleReconstruct runs the reconstruction flow for an uploaded PNG and
// streams studio events to the client as server-sent events. The final
// "complete" event carries the stored document and version ids. Mounted
// both on an existing document (appends a version) and at the collection
// level (creates a new document named by the "name" query parameter).
func (s *Server) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "reconstruction"
	}

	if id != "" {
		if rec, err := s.store.GetDocument(r.Context(), id); err != nil {
			writeError(w, err)
			return
		} else if rec == nil {
			writeError(w, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id))
			return
		}
	}

	targetPNG, err := readImage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInternal, "streaming unsupported"))
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sink := func(e studio.Event) {
		writeSSE(w, flusher, e)
	}

	result, err := s.studio.Reconstruct(r.Context(), targetPNG, sink)
	if err != nil {
		writeSSE(w, flusher, studio.Event{Type: studio.EventError, Message: errors.UserMessage(err)})
		return
	}

	_, version, saveErr := s.saveResult(r, name, id, result.Document, "reconstructed")
	if saveErr != nil {
		writeSSE(w, flusher, studio.Event{Type: studio.EventError, Message: errors.UserMessage(saveErr)})
		return
	}
	writeSSE(w, flusher, studio.Event{
		Type:    studio.EventComplete,
		Reason:  result.CompletionReason,
		Message: "version " + version,
	})
}

// readImage extracts the target PNG from either a multipart form field
// named "image" or a raw image/png body.
func readImage(r *http.Request) ([]byte, error) {
	if ct := r.Header.Get("Content-Type"); ct == "image/png" {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxImageBytes))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
		}
		if len(data) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "empty image body")
		}
		return data, nil
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse multipart form")
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "missing image field")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read image field")
	}
	return data, nil
}

// writeSSE emits one server-sent event with the event type as the SSE
// event name and the JSON-encoded event as data.
func writeSSE(w io.Writer, flusher http.Flusher, e studio.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	_, _ = io.WriteString(w, "event: "+string(e.Type)+"\n")
	_, _ = io.WriteString(w, "data: "+string(data)+"\n\n")
	flusher.Flush()
}
