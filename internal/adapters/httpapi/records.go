package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"growcore/internal/journal"
	"growcore/internal/tracker"
	"growcore/pkg/domain"
)

func (s *server) layout(w http.ResponseWriter, r *http.Request) (journal.Layout, bool) {
	raw := chi.URLParam(r, "layout")
	layout, ok := journal.ParseLayout(raw)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown journal "+raw)
	}
	return layout, ok
}

func (s *server) handleConditionsGet(w http.ResponseWriter, r *http.Request) {
	layout, ok := s.layout(w, r)
	if !ok {
		return
	}
	c, err := s.Service.Conditions(r.Context(), layout)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conditions": c,
		"display":    journal.Display(layout, c),
	})
}

func (s *server) handleConditionsPut(w http.ResponseWriter, r *http.Request) {
	layout, ok := s.layout(w, r)
	if !ok {
		return
	}
	var c domain.Conditions
	if err := decode(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	saved, err := s.Service.SaveConditions(r.Context(), layout, c)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"saved":      saved,
		"conditions": c,
		"display":    journal.Display(layout, &c),
	})
}

func (s *server) handleNotesGet(w http.ResponseWriter, r *http.Request) {
	layout, ok := s.layout(w, r)
	if !ok {
		return
	}
	notes, err := s.Service.Notes(r.Context(), layout)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

func (s *server) handleNotesPost(w http.ResponseWriter, r *http.Request) {
	layout, ok := s.layout(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	notes, saved, err := s.Service.AddNote(r.Context(), layout, req.Text)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes, "saved": saved})
}

type actionRequest struct {
	Type      domain.ActionType `json:"type"`
	At        string            `json:"at"`
	Amount    string            `json:"amount"`
	Nutrients string            `json:"nutrients"`
	Notes     string            `json:"notes"`
}

func (s *server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	at, err := tracker.ParseActionTime(req.At, s.Location)
	if err != nil {
		s.fail(w, err)
		return
	}
	receipt, err := s.Service.RecordAction(r.Context(), chi.URLParam(r, "id"), tracker.Action{
		Type:      req.Type,
		At:        at,
		Amount:    req.Amount,
		Nutrients: req.Nutrients,
		Notes:     req.Notes,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (s *server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("type")
	if filter == "" {
		filter = tracker.FilterAll
	}
	entries, err := s.Service.Timeline(r.Context(), chi.URLParam(r, "id"), filter)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *server) handleDue(w http.ResponseWriter, r *http.Request) {
	due, err := s.Service.DueTasks(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, due)
}
