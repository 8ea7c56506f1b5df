package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"growcore/internal/adapters/guides"
	"growcore/internal/guide"
	"growcore/pkg/domain"
)

type exportRequest struct {
	Selections  domain.Selections `json:"selections"`
	Formats     []guide.Format    `json:"formats"`
	RequestedBy string            `json:"requestedBy"`
}

// handleRender builds the guide synchronously and returns it as a download.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := guide.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req selectionsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := s.Service.Guide(r.Context(), req.Selections)
	if err != nil {
		s.fail(w, err)
		return
	}
	var buf bytes.Buffer
	if err := guide.Render(&buf, format, g); err != nil {
		s.fail(w, err)
		return
	}
	writeAttachment(w, format.FileName(), format.ContentType(), int64(buf.Len()), &buf)
}

func (s *server) handleExportCreate(w http.ResponseWriter, r *http.Request) {
	if s.Exports == nil {
		http.NotFound(w, r)
		return
	}
	var req exportRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	record, err := s.Exports.Enqueue(r.Context(), guides.ExportInput{
		Selections:  req.Selections,
		Formats:     req.Formats,
		RequestedBy: req.RequestedBy,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/guides/exports/"+record.ID)
	writeJSON(w, http.StatusAccepted, record)
}

func (s *server) handleExportGet(w http.ResponseWriter, r *http.Request) {
	if s.Exports == nil {
		http.NotFound(w, r)
		return
	}
	record, ok := s.Exports.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "export not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	if s.Exports == nil {
		http.NotFound(w, r)
		return
	}
	format, err := guide.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	obj, rc, err := s.Exports.Open(r.Context(), chi.URLParam(r, "id"), format)
	if err != nil {
		s.fail(w, err)
		return
	}
	defer rc.Close()
	contentType := obj.ContentType
	if contentType == "" {
		contentType = format.ContentType()
	}
	writeAttachment(w, format.FileName(), contentType, obj.Size, rc)
}

func writeAttachment(w http.ResponseWriter, name, contentType string, size int64, body io.Reader) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.Education == nil {
		http.NotFound(w, r)
		return
	}
	res := s.Education.Search(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, res)
}

// handleContact keeps the relay's status and body verbatim.
func (s *server) handleContact(w http.ResponseWriter, r *http.Request) {
	if s.Relay == nil {
		http.NotFound(w, r)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.Logger.Warn("contact body unreadable", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status, resp := s.Relay.Handle(r.Context(), body)
	writeJSON(w, status, resp)
}
