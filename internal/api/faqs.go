package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"lawdesk/internal/models"
)

type faqRequest struct {
	Question  *string `json:"question"`
	Answer    *string `json:"answer"`
	Category  *string `json:"category"`
	SortOrder *int    `json:"sort_order"`
	Published *bool   `json:"published"`
}

func (req *faqRequest) apply(f *models.FAQ) {
	applyString(&f.Question, req.Question)
	applyString(&f.Answer, req.Answer)
	applyString(&f.Category, req.Category)
	applyInt(&f.SortOrder, req.SortOrder)
	applyBool(&f.Published, req.Published)
}

// handlePublicFAQList lists published FAQs in sort order.
// GET /api/faqs?category=
func (s *Server) handlePublicFAQList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	faqs, err := s.db.ListFAQs(r.Context(), contentFilterFromQuery(r, true))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if faqs == nil {
		faqs = []models.FAQ{}
	}
	respondJSON(w, http.StatusOK, faqs)
}

// handleAdminFAQList lists all FAQs.
// GET /api/admin/faqs
func (s *Server) handleAdminFAQList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	faqs, err := s.db.ListFAQs(r.Context(), contentFilterFromQuery(r, false))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if faqs == nil {
		faqs = []models.FAQ{}
	}
	respondJSON(w, http.StatusOK, faqs)
}

// handleCreateFAQ creates a question/answer pair.
// POST /api/admin/faqs
func (s *Server) handleCreateFAQ(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req faqRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var faq models.FAQ
	req.apply(&faq)
	if faq.Question == "" || faq.Answer == "" {
		respondError(w, http.StatusBadRequest, "question and answer are required")
		return
	}

	if err := s.db.CreateFAQ(r.Context(), &faq); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, faq)
}

// handleUpdateFAQ partially updates an FAQ.
// PATCH /api/admin/faqs/:id
func (s *Server) handleUpdateFAQ(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req faqRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	faq, err := s.db.GetFAQ(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	req.apply(faq)
	if faq.Question == "" || faq.Answer == "" {
		respondError(w, http.StatusBadRequest, "question and answer are required")
		return
	}

	if err := s.db.UpdateFAQ(r.Context(), faq); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, faq)
}

// handleDeleteFAQ deletes an FAQ.
// DELETE /api/admin/faqs/:id
func (s *Server) handleDeleteFAQ(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.db.DeleteFAQ(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}
