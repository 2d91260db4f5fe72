package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roach88/atelier/internal/content"
	"github.com/roach88/atelier/internal/edit"
	"github.com/roach88/atelier/internal/page"
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if !s.page.Ready() {
		jsonErr(w, "page not activated", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.page.Snapshot())
}

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	writeEntries(w, s.text)
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	writeEntries(w, s.images)
}

// writeEntries lists a namespace, flagging writes still waiting for a
// flush.
func writeEntries(w http.ResponseWriter, st *content.Store) {
	if st.Dirty() {
		w.Header().Set(PendingHeader, "true")
	}
	writeJSON(w, http.StatusOK, st.All())
}

func (s *Server) handlePutContent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == nil {
		jsonErr(w, "text is required", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	entry, err := s.page.Edit(r.Context(), id, *req.Text, true)
	if err != nil {
		s.writeEditErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handlePutImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.page.ReplaceImage(r.Context(), id, req.URL, true); err != nil {
		s.writeEditErr(w, r, err)
		return
	}
	el, _ := s.page.Element(id)
	writeJSON(w, http.StatusOK, content.ImageEntry{Key: el.ImageKey(), URL: el.URL()})
}

func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" {
		jsonErr(w, "type is required", http.StatusBadRequest)
		return
	}
	s.page.AddSection(req.Type, true)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "ok"})
}

func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	if err := s.page.Controller().Flush(r.Context()); err != nil {
		s.logger.Error("flush failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		jsonErr(w, "content not persisted", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeEditErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, page.ErrUnknownElement):
		jsonErr(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, page.ErrWrongKind):
		jsonErr(w, err.Error(), http.StatusConflict)
	case edit.HasCode(err, edit.ErrCodeNotReady):
		jsonErr(w, "page not activated", http.StatusServiceUnavailable)
	case edit.HasCode(err, edit.ErrCodeInvalidImage):
		jsonErr(w, err.Error(), http.StatusBadRequest)
	case content.IsPersistError(err):
		// The value is displayed and kept in memory; a later write or a
		// flush retries.
		s.logger.Warn("edit not persisted", "error", err, "request_id", middleware.GetReqID(r.Context()))
		jsonErr(w, "content not persisted", http.StatusInternalServerError)
	default:
		s.logger.Error("edit failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		jsonErr(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
