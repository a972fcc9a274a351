package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"lawdesk/internal/models"
)

type caseRequest struct {
	Slug      *string `json:"slug"`
	Title     *string `json:"title"`
	Summary   *string `json:"summary"`
	Content   *string `json:"content"`
	Category  *string `json:"category"`
	Result    *string `json:"result"`
	Published *bool   `json:"published"`
}

func (req *caseRequest) apply(c *models.Case) {
	applyString(&c.Slug, req.Slug)
	applyString(&c.Title, req.Title)
	applyString(&c.Summary, req.Summary)
	applyString(&c.Content, req.Content)
	applyString(&c.Category, req.Category)
	applyString(&c.Result, req.Result)
	applyBool(&c.Published, req.Published)
}

// handlePublicCaseList lists published case studies.
// GET /api/cases?category=&limit=&offset=
func (s *Server) handlePublicCaseList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cases, err := s.db.ListCases(r.Context(), contentFilterFromQuery(r, true))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if cases == nil {
		cases = []models.Case{}
	}
	respondJSON(w, http.StatusOK, cases)
}

// handleAdminCaseList lists all case studies.
// GET /api/admin/cases
func (s *Server) handleAdminCaseList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cases, err := s.db.ListCases(r.Context(), contentFilterFromQuery(r, false))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if cases == nil {
		cases = []models.Case{}
	}
	respondJSON(w, http.StatusOK, cases)
}

// handleAdminCaseGet returns one case with its photos.
// GET /api/admin/cases/:id
func (s *Server) handleAdminCaseGet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.db.GetCase(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// handleCreateCase creates a case study.
// POST /api/admin/cases
func (s *Server) handleCreateCase(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req caseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var c models.Case
	req.apply(&c)
	if c.Slug == "" || c.Title == "" {
		respondError(w, http.StatusBadRequest, "slug and title are required")
		return
	}

	if err := s.db.CreateCase(r.Context(), &c); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// handleUpdateCase partially updates a case study.
// PATCH /api/admin/cases/:id
func (s *Server) handleUpdateCase(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req caseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.db.GetCase(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	req.apply(c)
	if c.Slug == "" || c.Title == "" {
		respondError(w, http.StatusBadRequest, "slug and title are required")
		return
	}

	if err := s.db.UpdateCase(r.Context(), c); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// handleDeleteCase deletes a case; photos cascade.
// DELETE /api/admin/cases/:id
func (s *Server) handleDeleteCase(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.db.DeleteCase(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}

type photoRequest struct {
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	SortOrder int    `json:"sort_order,omitempty"`
}

// handleAddCasePhoto attaches a photo to a case.
// POST /api/admin/cases/:id/photos
func (s *Server) handleAddCasePhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req photoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	// Parent must exist.
	if _, err := s.db.GetCase(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}

	photo := &models.CasePhoto{
		CaseID:    id,
		URL:       req.URL,
		Caption:   req.Caption,
		SortOrder: req.SortOrder,
	}
	if err := s.db.AddCasePhoto(r.Context(), photo); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, photo)
}
