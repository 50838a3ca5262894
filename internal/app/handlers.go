package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"persona-review/internal/document"
	"persona-review/internal/review"
	"persona-review/internal/reviewer"
	"persona-review/internal/worker"

	"github.com/gorilla/mux"
)

type planRequest struct {
	Response string `json:"response"`
	Content  string `json:"content"`
	Language string `json:"language"`
	Path     string `json:"path"`
}

// reviewRequest lines are 0-indexed; omit start_line to review the whole
// file.
type reviewRequest struct {
	Persona   string `json:"persona"`
	Path      string `json:"path"`
	Content   string `json:"content"`
	Language  string `json:"language"`
	StartLine *int   `json:"start_line,omitempty"`
	EndLine   *int   `json:"end_line,omitempty"`
	Question  string `json:"question"`
}

type jobRequest struct {
	reviewRequest
	Apply bool `json:"apply"`
}

func (s *Server) languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tokens": s.service.Syntax().Tokens(),
	})
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !decode(w, r, &req) {
		return
	}

	doc, err := document.Parse(req.Path, req.Language, req.Content)
	if err != nil {
		s.fail(w, err)
		return
	}

	res, err := s.service.PlanResponse(req.Response, doc.Lines, doc.Language)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decode(w, r, &req) {
		return
	}

	doc, err := document.Parse(req.Path, req.Language, req.Content)
	if err != nil {
		s.fail(w, err)
		return
	}

	res, err := s.service.Review(r.Context(), reviewer.Request{
		Persona:   req.Persona,
		Document:  doc,
		Selection: document.Range(req.StartLine, req.EndLine),
		Question:  req.Question,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	if req.Apply && s.cfg.APISecret == "" {
		s.fail(w, errApplyNeedsSecret)
		return
	}

	path, err := s.workspacePath(req.Path)
	if err != nil {
		s.fail(w, err)
		return
	}

	id, err := s.jobs.Enqueue(r.Context(), worker.Job{
		Persona:   req.Persona,
		Path:      path,
		Language:  req.Language,
		Selection: document.Range(req.StartLine, req.EndLine),
		Question:  req.Question,
		Apply:     req.Apply,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

func (s *Server) jobStatus(w http.ResponseWriter, r *http.Request) {
	state, err := s.jobs.Status(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, review.ErrUnknownLanguage),
		errors.Is(err, document.ErrEmptyDocument),
		errors.Is(err, document.ErrInvalidSelection):
		return http.StatusBadRequest
	case errors.Is(err, errOutsideWorkspace),
		errors.Is(err, errApplyNeedsSecret):
		return http.StatusForbidden
	case errors.Is(err, worker.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, reviewer.ErrBudgetExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
