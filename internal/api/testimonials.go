package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"lawdesk/internal/models"
)

type testimonialRequest struct {
	Slug          *string `json:"slug"`
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	ClientInitial *string `json:"client_initial"`
	Category      *string `json:"category"`
	ConsentGiven  *bool   `json:"consent_given"`
}

func (req *testimonialRequest) apply(t *models.TestimonialCase) {
	applyString(&t.Slug, req.Slug)
	applyString(&t.Title, req.Title)
	applyString(&t.Content, req.Content)
	applyString(&t.ClientInitial, req.ClientInitial)
	applyString(&t.Category, req.Category)
	applyBool(&t.ConsentGiven, req.ConsentGiven)
}

// handlePublicTestimonialList lists testimonials the client consented to
// publish.
// GET /api/testimonials?category=&limit=&offset=
func (s *Server) handlePublicTestimonialList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	testimonials, err := s.db.ListTestimonialCases(r.Context(), contentFilterFromQuery(r, true))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if testimonials == nil {
		testimonials = []models.TestimonialCase{}
	}
	respondJSON(w, http.StatusOK, testimonials)
}

// handleAdminTestimonialList lists all testimonials, consented or not.
// GET /api/admin/testimonials
func (s *Server) handleAdminTestimonialList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	testimonials, err := s.db.ListTestimonialCases(r.Context(), contentFilterFromQuery(r, false))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if testimonials == nil {
		testimonials = []models.TestimonialCase{}
	}
	respondJSON(w, http.StatusOK, testimonials)
}

// handleAdminTestimonialGet returns one testimonial with its photos.
// GET /api/admin/testimonials/:id
func (s *Server) handleAdminTestimonialGet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.db.GetTestimonialCase(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// handleCreateTestimonial creates a testimonial.
// POST /api/admin/testimonials
func (s *Server) handleCreateTestimonial(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req testimonialRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var t models.TestimonialCase
	req.apply(&t)
	if t.Slug == "" || t.Title == "" {
		respondError(w, http.StatusBadRequest, "slug and title are required")
		return
	}

	if err := s.db.CreateTestimonialCase(r.Context(), &t); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

// handleUpdateTestimonial partially updates a testimonial.
// PATCH /api/admin/testimonials/:id
func (s *Server) handleUpdateTestimonial(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req testimonialRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.db.GetTestimonialCase(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	req.apply(t)
	if t.Slug == "" || t.Title == "" {
		respondError(w, http.StatusBadRequest, "slug and title are required")
		return
	}

	if err := s.db.UpdateTestimonialCase(r.Context(), t); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// handleDeleteTestimonial deletes a testimonial; photos cascade.
// DELETE /api/admin/testimonials/:id
func (s *Server) handleDeleteTestimonial(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.db.DeleteTestimonialCase(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}

// handleAddTestimonialPhoto attaches a photo to a testimonial.
// POST /api/admin/testimonials/:id/photos
func (s *Server) handleAddTestimonialPhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	if _, err := s.db.GetTestimonialCase(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}

	photo := &models.TestimonialPhoto{
		TestimonialID: id,
		URL:           req.URL,
		Caption:       req.Caption,
		SortOrder:     req.SortOrder,
	}
	if err := s.db.AddTestimonialPhoto(r.Context(), photo); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, photo)
}
