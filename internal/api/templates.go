package api

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"lawdesk/internal/models"
	"lawdesk/internal/notify"
)

// knownTemplateCodes are the lifecycle events that dispatch a message.
var knownTemplateCodes = map[string]bool{
	notify.CodeReceived:  true,
	notify.CodeConfirmed: true,
	notify.CodeCompleted: true,
	notify.CodeCancelled: true,
}

// handleListTemplates returns the operator-customized templates.
// GET /api/admin/message-templates
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	templates, err := s.db.ListTemplates(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if templates == nil {
		templates = []models.MessageTemplate{}
	}
	respondJSON(w, http.StatusOK, templates)
}

type templateRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// handleUpsertTemplate replaces the message text for one lifecycle code.
// PUT /api/admin/message-templates/:code
func (s *Server) handleUpsertTemplate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("code")
	if !knownTemplateCodes[code] {
		respondError(w, http.StatusNotFound, "unknown template code")
		return
	}

	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		respondError(w, http.StatusBadRequest, "title and body are required")
		return
	}

	t := &models.MessageTemplate{Code: code, Title: req.Title, Body: req.Body}
	if err := s.db.UpsertTemplate(r.Context(), t); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}
