package httpapi

import (
	"errors"
	"net/http"

	"growcore/internal/wizard"
	"growcore/pkg/domain"
)

type selectRequest struct {
	State wizard.State `json:"state"`
	Field domain.Field `json:"field"`
	Value string       `json:"value"`
}

type selectionsRequest struct {
	Selections domain.Selections `json:"selections"`
}

// transitionError carries the unchanged state back so the client can render
// the feedback next to the inputs it refers to.
type transitionError struct {
	Error      string             `json:"error"`
	Missing    []domain.Field     `json:"missing,omitempty"`
	Transition *wizard.Transition `json:"transition,omitempty"`
}

func (s *server) handleSchema(w http.ResponseWriter, r *http.Request) {
	level := domain.ExperienceLevel(r.URL.Query().Get("experience"))
	writeJSON(w, http.StatusOK, map[string]any{
		"totalSteps": s.Service.Wizard().Len(),
		"steps":      s.Service.Wizard().Describe(level),
	})
}

func (s *server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tr, err := s.Service.WizardSelect(r.Context(), req.State, req.Field, req.Value)
	s.writeTransition(w, tr, err)
}

func (s *server) handleNext(w http.ResponseWriter, r *http.Request) {
	var st wizard.State
	if err := decode(r, &st); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tr, err := s.Service.WizardNext(r.Context(), st)
	s.writeTransition(w, tr, err)
}

func (s *server) handleBack(w http.ResponseWriter, r *http.Request) {
	var st wizard.State
	if err := decode(r, &st); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tr, err := s.Service.WizardBack(r.Context(), st)
	s.writeTransition(w, tr, err)
}

func (s *server) writeTransition(w http.ResponseWriter, tr wizard.Transition, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, tr)
		return
	}
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.fail(w, err)
		return
	}
	body := transitionError{Error: err.Error()}
	if tr.State.Step > 0 {
		body.Transition = &tr
	}
	var incomplete domain.StepIncompleteError
	if errors.As(err, &incomplete) {
		body.Missing = incomplete.Missing
	}
	writeJSON(w, status, body)
}

func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req selectionsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	review, err := s.Service.Review(r.Context(), req.Selections)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary":     review.Summary,
		"budget":      review.Budget,
		"budgetLabel": review.Budget.String(),
	})
}

func (s *server) handleBudget(w http.ResponseWriter, r *http.Request) {
	var req selectionsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	total, lines, err := s.Service.Budget(r.Context(), req.Selections)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"budget": total,
		"label":  total.String(),
		"lines":  lines,
	})
}
